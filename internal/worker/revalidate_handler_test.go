package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hibiken/asynq"

	"portfolio/internal/tasks"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRevalidateHandlerPostsSecret(t *testing.T) {
	var got revalidateRequest
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Method != http.MethodPost {
			t.Errorf("expected POST got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	task, err := tasks.NewRevalidateTask("projects", "update", "cid")
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	h := NewRevalidateTaskHandler(srv.URL, "s3cret", newTestLogger())
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task: %v", err)
	}
	if calls != 1 || got.Secret != "s3cret" {
		t.Fatalf("expected one call with secret, calls=%d body=%+v", calls, got)
	}
}

func TestRevalidateHandlerFailsOnBadStatus(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		skipRetry bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, skipRetry: true},
		{name: "not found", status: http.StatusNotFound, skipRetry: true},
		{name: "server error", status: http.StatusInternalServerError, skipRetry: false},
		{name: "bad gateway", status: http.StatusBadGateway, skipRetry: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "rejected", tc.status)
			}))
			defer srv.Close()

			task, _ := tasks.NewRevalidateTask("skills", "create", "")
			h := NewRevalidateTaskHandler(srv.URL, "wrong", newTestLogger())
			err := h.ProcessTask(context.Background(), task)
			if err == nil {
				t.Fatalf("expected error for status %d", tc.status)
			}
			if got := errors.Is(err, asynq.SkipRetry); got != tc.skipRetry {
				t.Fatalf("status %d: expected skipRetry=%v got %v (%v)", tc.status, tc.skipRetry, got, err)
			}
		})
	}
}

func TestRevalidateHandlerSkipsWithoutURL(t *testing.T) {
	task, _ := tasks.NewRevalidateTask("skills", "create", "")
	h := NewRevalidateTaskHandler("", "", newTestLogger())
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("expected skip without url, got %v", err)
	}
}

func TestRevalidateHandlerSkipsRetryOnBadPayload(t *testing.T) {
	h := NewRevalidateTaskHandler("http://127.0.0.1:1", "", newTestLogger())
	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeSiteRevalidate, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry got %v", err)
	}
}
