package probe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-comment-probe/internal/domain"
	"github.com/samvad-hq/samvad-comment-probe/pkg/publishers"
)

// fakeAPI returns canned exchanges and can block the GET until released.
type fakeAPI struct {
	getErr    error
	createErr error
	getStatus int
	release   chan struct{}

	mu     sync.Mutex
	drafts []domain.CommentDraft
}

func (f *fakeAPI) GetComment(ctx context.Context, id int) (domain.Exchange, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return domain.Exchange{}, ctx.Err()
		}
	}
	ex := domain.Exchange{ID: "get", Operation: domain.OperationGetComment, StatusCode: f.getStatus}
	if f.getErr != nil {
		return ex, f.getErr
	}
	ex.Parsed = map[string]any{"id": id}
	return ex, nil
}

func (f *fakeAPI) CreateComment(_ context.Context, draft domain.CommentDraft) (domain.Exchange, error) {
	f.mu.Lock()
	f.drafts = append(f.drafts, draft)
	f.mu.Unlock()
	if f.createErr != nil {
		return domain.Exchange{}, f.createErr
	}
	return domain.Exchange{ID: "create", Operation: domain.OperationCreateComment, StatusCode: 201}, nil
}

// fakePublisher records published events.
type fakePublisher struct {
	mu     sync.Mutex
	events []publishers.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakePublisher) ids() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.events))
	for _, e := range f.events {
		out[e.ExchangeID] = true
	}
	return out
}

// fakeArchive records stored exchanges.
type fakeArchive struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (f *fakeArchive) Put(ex domain.Exchange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, ex.ID)
	return f.err
}

func draft() domain.CommentDraft {
	return domain.CommentDraft{PostID: 1, Name: "Dylan", Email: "dylanblahblah2022@gmail.com", Body: "Cool!"}
}

func TestRunPublishesAndArchivesBothOperations(t *testing.T) {
	api := &fakeAPI{getStatus: 200}
	pub := &fakePublisher{}
	archive := &fakeArchive{}
	svc := NewService(api, pub, archive, "probe-test", nil)

	if err := svc.Run(context.Background(), GetComment{ID: 1}, CreateComment{Draft: draft()}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	ids := pub.ids()
	if len(ids) != 2 || !ids["get"] || !ids["create"] {
		t.Fatalf("expected both exchanges published, got %v", ids)
	}
	if len(archive.ids) != 2 {
		t.Fatalf("expected both exchanges archived, got %v", archive.ids)
	}
	if api.drafts[0] != draft() {
		t.Fatalf("draft altered on the way to the api: %#v", api.drafts[0])
	}
	for _, evt := range pub.events {
		if evt.Source != "probe-test" {
			t.Fatalf("unexpected event source %q", evt.Source)
		}
	}
}

func TestRunDoesNotWaitForSlowOperation(t *testing.T) {
	api := &fakeAPI{getStatus: 200, release: make(chan struct{})}
	pub := &fakePublisher{}
	svc := NewService(api, pub, nil, "probe-test", nil)

	done := make(chan error, 1)
	go func() { done <- svc.Run(context.Background(), GetComment{ID: 1}, CreateComment{Draft: draft()}) }()

	// The POST completes while the GET is still blocked.
	deadline := time.After(2 * time.Second)
	for !pub.ids()["create"] {
		select {
		case <-deadline:
			t.Fatalf("create did not complete while get was pending")
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestRunFailureDoesNotStopOtherOperation(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("network down"), getStatus: 200}
	pub := &fakePublisher{}
	svc := NewService(api, pub, nil, "probe-test", nil)

	err := svc.Run(context.Background(), GetComment{ID: 1}, CreateComment{Draft: draft()})
	if err == nil || !strings.Contains(err.Error(), "create_comment: network down") {
		t.Fatalf("expected create error, got %v", err)
	}
	if ids := pub.ids(); !ids["get"] || ids["create"] {
		t.Fatalf("expected only get published, got %v", ids)
	}
}

func TestRunJoinsAllErrors(t *testing.T) {
	api := &fakeAPI{getErr: errors.New("get failed"), createErr: errors.New("create failed")}
	svc := NewService(api, nil, nil, "probe-test", nil)

	err := svc.Run(context.Background(), GetComment{ID: 1}, CreateComment{Draft: draft()})
	if err == nil || !strings.Contains(err.Error(), "get failed") || !strings.Contains(err.Error(), "create failed") {
		t.Fatalf("expected both errors joined, got %v", err)
	}
}

func TestRunRecordsFailedExchangeThatReachedServer(t *testing.T) {
	api := &fakeAPI{getErr: errors.New("status 500"), getStatus: 500}
	pub := &fakePublisher{}
	svc := NewService(api, pub, nil, "probe-test", nil)

	if err := svc.Run(context.Background(), GetComment{ID: 1}); err == nil {
		t.Fatalf("expected error")
	}
	if !pub.ids()["get"] {
		t.Fatalf("expected failed exchange to be published")
	}
}

func TestRunSurfacesPublishErrors(t *testing.T) {
	svc := NewService(&fakeAPI{getStatus: 200}, &fakePublisher{err: errors.New("sink down")}, nil, "probe-test", nil)
	if err := svc.Run(context.Background(), GetComment{ID: 1}); err == nil || !strings.Contains(err.Error(), "sink down") {
		t.Fatalf("expected publish error, got %v", err)
	}
}

func TestRunArchiveErrorIsNotFatal(t *testing.T) {
	svc := NewService(&fakeAPI{getStatus: 200}, &fakePublisher{}, &fakeArchive{err: errors.New("disk full")}, "probe-test", nil)
	if err := svc.Run(context.Background(), GetComment{ID: 1}); err != nil {
		t.Fatalf("archive failure should only be logged, got %v", err)
	}
}

func TestRunRequiresOperations(t *testing.T) {
	svc := NewService(&fakeAPI{}, nil, nil, "probe-test", nil)
	if err := svc.Run(context.Background()); err == nil {
		t.Fatalf("expected error when no operations given")
	}

	var nilSvc *Service
	if err := nilSvc.Run(context.Background(), GetComment{ID: 1}); err == nil {
		t.Fatalf("expected error from nil service")
	}
}
