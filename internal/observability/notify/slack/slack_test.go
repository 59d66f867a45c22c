package slack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hosteldesk/hosteldesk/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when webhook url missing")
	}
}

func TestFormatMessageIncludesFields(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
		Channel:    "#hostel-ops",
		Username:   "bot",
		Timeout:    time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.OpsEventPayload{
		Worker:     "overdue_sweeper",
		Summary:    "flagged 3 payments overdue",
		Error:      "boom",
		ErrorClass: "unavailable",
	})

	if msg["username"] != "bot" {
		t.Fatalf("expected username to be preserved, got %v", msg["username"])
	}
	if msg["channel"] != "#hostel-ops" {
		t.Fatalf("expected channel to be set, got %v", msg["channel"])
	}

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}
	if !containsAll(
		text,
		[]string{"Worker failure alert", "overdue_sweeper", "flagged 3 payments overdue", "boom", "unavailable", "critical"},
	) {
		t.Fatalf("message text missing fields: %s", text)
	}
}

func TestFormatMessageReportWithoutError(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.OpsEventPayload{
		Worker:   "session_reaper",
		Summary:  "removed 12 expired sessions",
		Severity: notify.SeverityInfo,
	})

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}
	if !strings.Contains(text, "Worker report") {
		t.Fatalf("expected report header, got: %s", text)
	}
	if strings.Contains(text, "failure") {
		t.Fatalf("did not expect failure header without an error: %s", text)
	}
}

func TestFormatMessageEscapesText(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.OpsEventPayload{
		Worker:  "session_reaper",
		Summary: "swept <all> & more",
	})

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}

	if !strings.Contains(text, "swept &lt;all&gt; &amp; more") {
		t.Fatalf("expected escaped summary, got: %s", text)
	}
}

func TestSendOpsEventRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		WebhookURL: srv.URL,
		RetryLimit: 1,
		Timeout:    time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := client.SendOpsEvent(context.Background(), notify.OpsEventPayload{Worker: "w"}); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func containsAll(text string, substrs []string) bool {
	for _, s := range substrs {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return true
}
