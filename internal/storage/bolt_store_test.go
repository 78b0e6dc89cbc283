package storage

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-comment-probe/internal/domain"
)

func TestBoltArchivePutGetList(t *testing.T) {
	a, err := openBolt(filepath.Join(t.TempDir(), "nested", "exchanges.db"), normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer a.Close()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := domain.Exchange{ID: "b", Operation: domain.OperationCreateComment, StatusCode: 201, Body: json.RawMessage(`{"id":501}`), StartedAt: base.Add(time.Second)}
	first := domain.Exchange{ID: "a", Operation: domain.OperationGetComment, StatusCode: 200, Body: json.RawMessage(`{"id":1}`), StartedAt: base}

	for _, ex := range []domain.Exchange{second, first} {
		if err := a.Put(ex); err != nil {
			t.Fatalf("Put %s: %v", ex.ID, err)
		}
	}

	got, err := a.Get("b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.StatusCode != 201 || string(got.Body) != `{"id":501}` {
		t.Fatalf("unexpected exchange %+v", got)
	}

	list, err := a.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("expected [a b] ordered by start time, got %+v", list)
	}

	if _, err := a.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBoltArchiveExpiresRecords(t *testing.T) {
	opts := Options{TTL: time.Minute, CleanupInterval: time.Minute}
	a, err := openBolt(filepath.Join(t.TempDir(), "exchanges.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer a.Close()

	now := time.Now()
	a.now = func() time.Time { return now }

	if err := a.Put(domain.Exchange{ID: "x", StartedAt: now}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := a.Get("x"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	now = now.Add(2 * time.Minute)

	list, err := a.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected expired record hidden from List, got %d", len(list))
	}
	if _, err := a.Get("x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired record to be gone, got %v", err)
	}
}

func TestBoltArchiveRejectsEmptyID(t *testing.T) {
	a, err := openBolt(filepath.Join(t.TempDir(), "exchanges.db"), normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer a.Close()

	if err := a.Put(domain.Exchange{}); err == nil {
		t.Fatalf("expected error for empty id")
	}
}

func TestNewArchiveSupportsNoop(t *testing.T) {
	a, err := NewArchive("none", "", Options{})
	if err != nil {
		t.Fatalf("NewArchive none: %v", err)
	}
	if err := a.Put(domain.Exchange{ID: "x"}); err != nil {
		t.Fatalf("noop Put: %v", err)
	}
	if _, err := a.Get("x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("noop Get should report not found, got %v", err)
	}
}

func TestNewArchiveRejectsUnknownType(t *testing.T) {
	if _, err := NewArchive("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewArchive("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
}
