package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/clock"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/errlog"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/store"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, *clock.Fake, map[string]*errlog.Log) {
	t.Helper()
	s := store.NewMemory()
	logs := map[string]*errlog.Log{
		"app":      errlog.NewApp(s),
		"boundary": errlog.NewBoundary(s),
		"loading":  errlog.NewLoading(s),
	}
	fake := clock.NewFake(time.Unix(1700000000, 0))
	srv := NewServer(Options{
		Logs:   logs,
		Clock:  fake,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Coordinator().Cleanup()
	})
	return srv, ts, fake, logs
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestNavigateFlow(t *testing.T) {
	_, ts, fake, _ := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/navigate", `{"path":"/payments","message":"Loading payments..."}`)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var nav NavigateResponse
	decode(t, resp, &nav)
	if !nav.Accepted || !nav.State.IsLoading || nav.State.LoadingMessage != "Loading payments..." {
		t.Errorf("response = %+v", nav)
	}

	// A second request while blocked is dropped.
	resp = do(t, http.MethodPost, ts.URL+"/api/navigate", `{"path":"/profile"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("blocked status = %d", resp.StatusCode)
	}

	fake.Advance(3 * time.Second)

	var st StateResponse
	decode(t, do(t, http.MethodGet, ts.URL+"/api/state", ""), &st)
	if st.CurrentPath != model.PathPayments || st.IsLoading {
		t.Errorf("state = %+v", st)
	}
	if !reflect.DeepEqual(st.History, []string{model.PathPayments}) {
		t.Errorf("history = %v", st.History)
	}
	if st.Requests < 3 {
		t.Errorf("requests = %d", st.Requests)
	}
}

func TestNavigateValidation(t *testing.T) {
	_, ts, _, _ := newTestServer(t)
	for _, body := range []string{`not json`, `{"path":"payments"}`} {
		if resp := do(t, http.MethodPost, ts.URL+"/api/navigate", body); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: status = %d", body, resp.StatusCode)
		}
	}
}

func TestBackAndCancel(t *testing.T) {
	_, ts, fake, _ := newTestServer(t)

	do(t, http.MethodPost, ts.URL+"/api/navigate", `{"path":"/payments"}`)
	fake.Advance(3 * time.Second)
	do(t, http.MethodPost, ts.URL+"/api/navigate", `{"path":"/top-up"}`)

	var st StateResponse
	decode(t, do(t, http.MethodPost, ts.URL+"/api/cancel", ""), &st)
	if st.IsLoading || st.CurrentPath != model.PathPayments {
		t.Errorf("after cancel = %+v", st)
	}

	do(t, http.MethodPost, ts.URL+"/api/navigate", `{"path":"/top-up"}`)
	fake.Advance(3 * time.Second)

	if resp := do(t, http.MethodPost, ts.URL+"/api/back", ""); resp.StatusCode != http.StatusAccepted {
		t.Fatalf("back status = %d", resp.StatusCode)
	}
	fake.Advance(3 * time.Second)

	var history []string
	decode(t, do(t, http.MethodGet, ts.URL+"/api/history", ""), &history)
	if !reflect.DeepEqual(history, []string{model.PathPayments}) {
		t.Errorf("history = %v", history)
	}

	if resp := do(t, http.MethodDelete, ts.URL+"/api/history", ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	decode(t, do(t, http.MethodGet, ts.URL+"/api/history", ""), &history)
	if len(history) != 0 {
		t.Errorf("history after clear = %v", history)
	}
}

func TestErrorLogs(t *testing.T) {
	_, ts, _, logs := newTestServer(t)
	ctx := context.Background()
	if err := logs["loading"].Append(ctx, model.ErrorRecord{ID: "error_1_abc", Message: "Failed to fetch"}); err != nil {
		t.Fatal(err)
	}

	var entries []model.ErrorRecord
	decode(t, do(t, http.MethodGet, ts.URL+"/api/errors/loading", ""), &entries)
	if len(entries) != 1 || entries[0].ID != "error_1_abc" {
		t.Errorf("entries = %+v", entries)
	}

	decode(t, do(t, http.MethodGet, ts.URL+"/api/errors/app", ""), &entries)
	if len(entries) != 0 {
		t.Errorf("app entries = %+v", entries)
	}

	if resp := do(t, http.MethodGet, ts.URL+"/api/errors/nope", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown log status = %d", resp.StatusCode)
	}

	do(t, http.MethodDelete, ts.URL+"/api/errors/loading", "")
	if got, _ := logs["loading"].Entries(ctx); len(got) != 0 {
		t.Errorf("log not cleared: %+v", got)
	}
}

func TestHelpAndMetrics(t *testing.T) {
	_, ts, _, _ := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/help", "")
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), model.Version) {
		t.Error("help does not carry the version")
	}

	resp = do(t, http.MethodGet, ts.URL+"/metrics", "")
	body, _ = io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "go_goroutines") {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts, _, _ := newTestServer(t)
	if resp := do(t, http.MethodGet, ts.URL+"/api/navigate", ""); resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
