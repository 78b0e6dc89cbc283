package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/samvad-hq/samvad-comment-probe/internal/config"
)

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	want := []string{"get", "history", "post", "run"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("commands = %v, want %v", names, want)
	}
}

func TestParseCommentID(t *testing.T) {
	if id, err := parseCommentID("42"); err != nil || id != 42 {
		t.Fatalf("parseCommentID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"0", "-3", "abc"} {
		if _, err := parseCommentID(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestApplyDraftFlagsOnlyChanged(t *testing.T) {
	cmd := newPostCmd()
	if err := cmd.ParseFlags([]string{"--name", "Ada", "--post-id", "9"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	cfg := &config.Config{DraftPostID: 1, DraftName: "Dylan", DraftEmail: "dylanblahblah2022@gmail.com", DraftBody: "Cool!"}
	applyDraftFlags(cmd, cfg)

	d := cfg.Draft()
	if d.PostID != 9 || d.Name != "Ada" || d.Email != "dylanblahblah2022@gmail.com" || d.Body != "Cool!" {
		t.Fatalf("unexpected draft %#v", d)
	}
}

// apiServer serves the two endpoints and records request paths.
func apiServer(t *testing.T, status int) (*httptest.Server, func() []string) {
	t.Helper()
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.WriteHeader(status)
		io.WriteString(w, `{"id":1}`)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		out := append([]string(nil), paths...)
		sort.Strings(out)
		return out
	}
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_TYPE", "none")
	t.Setenv("PUBLISHERS_FILE", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestRootRunsBothOperations(t *testing.T) {
	isolateEnv(t)
	srv, paths := apiServer(t, http.StatusOK)

	root := NewRootCmd()
	root.SetArgs([]string{"--env-file", "", "--base-url", srv.URL})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got := paths()
	if len(got) != 2 || got[0] != "GET /comments/1" || got[1] != "POST /comments" {
		t.Fatalf("unexpected requests %v", got)
	}
}

func TestGetCommandUsesArgument(t *testing.T) {
	isolateEnv(t)
	srv, paths := apiServer(t, http.StatusOK)

	root := NewRootCmd()
	root.SetArgs([]string{"get", "5", "--env-file", "", "--base-url", srv.URL})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := paths(); len(got) != 1 || got[0] != "GET /comments/5" {
		t.Fatalf("unexpected requests %v", got)
	}
}

func TestPostCommandFailsOnServerErrorWithoutRetry(t *testing.T) {
	isolateEnv(t)
	srv, paths := apiServer(t, http.StatusInternalServerError)

	root := NewRootCmd()
	root.SetArgs([]string{"post", "--env-file", "", "--base-url", srv.URL})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error for 500 response")
	}
	if got := paths(); len(got) != 1 {
		t.Fatalf("expected a single POST attempt, got %v", got)
	}
}

func TestHistoryCommandPrintsArchive(t *testing.T) {
	isolateEnv(t)
	t.Setenv("STORAGE_TYPE", "bbolt")
	t.Setenv("BBOLT_PATH", filepath.Join(t.TempDir(), "exchanges.db"))
	srv, _ := apiServer(t, http.StatusOK)

	root := NewRootCmd()
	root.SetArgs([]string{"get", "--env-file", "", "--base-url", srv.URL})
	if err := root.Execute(); err != nil {
		t.Fatalf("get: %v", err)
	}

	var out bytes.Buffer
	root = NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"history", "--env-file", ""})
	if err := root.Execute(); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out.String(), `"operation": "get_comment"`) {
		t.Fatalf("history output missing exchange:\n%s", out.String())
	}
}

func TestHistoryCommandEmptyArchive(t *testing.T) {
	isolateEnv(t)

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"history", "--env-file", ""})
	if err := root.Execute(); err != nil {
		t.Fatalf("history: %v", err)
	}
	if strings.TrimSpace(out.String()) != "[]" {
		t.Fatalf("expected empty list, got %q", out.String())
	}
}
