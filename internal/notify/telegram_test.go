package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-telegram/bot"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("unexpected %q", got)
	}
	long := strings.Repeat("é", 5000)
	got := Truncate(long, MaxMessageLen)
	if n := utf8.RuneCountInString(got); n != MaxMessageLen {
		t.Errorf("expected %d runes, got %d", MaxMessageLen, n)
	}
	if !strings.HasSuffix(got, "(truncated)") {
		t.Error("expected truncation marker")
	}
}

func TestTelegramSender_Send(t *testing.T) {
	var gotPath, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotText = string(body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":     true,
			"result": map[string]any{"message_id": 1, "date": 0, "chat": map[string]any{"id": -100, "type": "group"}},
		})
	}))
	defer srv.Close()

	sender, err := NewTelegramSender("123:abc", -100, bot.WithServerURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sender.Send(context.Background(), "urgent ticket TCK-1"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if !strings.HasSuffix(gotPath, "/sendMessage") {
		t.Errorf("unexpected path %s", gotPath)
	}
	if !strings.Contains(gotText, "urgent ticket TCK-1") {
		t.Errorf("message text not sent: %s", gotText)
	}
}
