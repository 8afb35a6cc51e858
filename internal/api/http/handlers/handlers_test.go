package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/classifier"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

var (
	testEmployee = &domain.User{ID: "emp-1", FullName: "John Employee", Role: domain.RoleEmployee}
	testSupport  = &domain.User{ID: "it-1", FullName: "Sam Support", Role: domain.RoleITSupport}
	testAdmin    = &domain.User{ID: "adm-1", FullName: "Alex Admin", Role: domain.RoleITAdmin}
)

// newTestApp mounts a single route behind a principal injector and a minimal
// error renderer.
func newTestApp(user *domain.User, method, path string, handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code}})
		},
	})
	app.Add(method, path, func(c *fiber.Ctx) error {
		if user != nil {
			auth.WithPrincipal(c, &auth.Principal{User: user})
		}
		return c.Next()
	}, handler)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("invalid json %s: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

func errCode(body map[string]any) string {
	if e, ok := body["error"].(map[string]any); ok {
		code, _ := e["code"].(string)
		return code
	}
	return ""
}

type stubChat struct {
	got     []domain.IssueMessage
	history []domain.ChatMessage
}

func (s *stubChat) HandleMessage(_ context.Context, msg domain.IssueMessage) domain.ChatResponse {
	s.got = append(s.got, msg)
	return classifier.FallbackResponse()
}

func (s *stubChat) History(_ context.Context, _ string, _ int) ([]domain.ChatMessage, error) {
	return s.history, nil
}

type stubLimiter struct{ allow bool }

func (s stubLimiter) Allow(context.Context, string) bool { return s.allow }

func TestChatHandler_Send(t *testing.T) {
	chat := &stubChat{}
	app := newTestApp(testEmployee, http.MethodPost, "/api/chat", NewChatHandler(chat, stubLimiter{allow: true}).Send)

	status, body := doJSON(t, app, http.MethodPost, "/api/chat", `{"message":"  printer not working  "}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", status, body)
	}
	if _, wrapped := body["data"]; wrapped {
		t.Errorf("chat reply should not be wrapped: %v", body)
	}
	if body["suggestedAction"] != string(domain.ActionCreateTicket) || body["solution"] != classifier.HandoffMessage {
		t.Errorf("unexpected response %v", body)
	}
	if len(chat.got) != 1 || chat.got[0].Text != "printer not working" || chat.got[0].SubmittedBy != "emp-1" {
		t.Errorf("unexpected message forwarded %+v", chat.got)
	}
}

func TestChatHandler_SendOnBehalf(t *testing.T) {
	tests := []struct {
		name   string
		user   *domain.User
		body   string
		wantBy string
	}{
		{"own id", testEmployee, `{"message":"vpn","userId":"emp-1"}`, "emp-1"},
		{"support for employee", testSupport, `{"message":"vpn","userId":"emp-9"}`, "emp-9"},
		{"admin for employee", testAdmin, `{"message":"vpn","userId":"emp-9"}`, "emp-9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &stubChat{}
			app := newTestApp(tt.user, http.MethodPost, "/api/chat", NewChatHandler(chat, nil).Send)

			status, body := doJSON(t, app, http.MethodPost, "/api/chat", tt.body)
			if status != http.StatusOK {
				t.Fatalf("expected 200, got %d %v", status, body)
			}
			if len(chat.got) != 1 || chat.got[0].SubmittedBy != tt.wantBy {
				t.Errorf("expected message from %s, got %+v", tt.wantBy, chat.got)
			}
		})
	}
}

func TestChatHandler_LengthCountsCharacters(t *testing.T) {
	chat := &stubChat{}
	app := newTestApp(testEmployee, http.MethodPost, "/api/chat", NewChatHandler(chat, nil).Send)

	// 2001 Cyrillic letters are 4002 bytes but well under the character limit.
	status, body := doJSON(t, app, http.MethodPost, "/api/chat", `{"message":"`+strings.Repeat("ж", 2001)+`"}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", status, body)
	}
	if len(chat.got) != 1 {
		t.Fatal("message did not reach the assistant")
	}
}

func TestChatHandler_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		user    *domain.User
		limiter Limiter
		body    string
		status  int
		code    string
	}{
		{"blank message", testEmployee, nil, `{"message":"   "}`, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"bad json", testEmployee, nil, `{`, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"too long", testEmployee, nil, `{"message":"` + strings.Repeat("a", maxChatMessageLen+1) + `"}`, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"too many characters", testEmployee, nil, `{"message":"` + strings.Repeat("ж", maxChatMessageLen+1) + `"}`, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"another user's id", testEmployee, nil, `{"message":"vpn","userId":"someone-else"}`, http.StatusForbidden, "FORBIDDEN"},
		{"rate limited", testEmployee, stubLimiter{allow: false}, `{"message":"vpn"}`, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"anonymous", nil, nil, `{"message":"vpn"}`, http.StatusUnauthorized, "UNAUTHORIZED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &stubChat{}
			app := newTestApp(tt.user, http.MethodPost, "/api/chat", NewChatHandler(chat, tt.limiter).Send)

			status, body := doJSON(t, app, http.MethodPost, "/api/chat", tt.body)
			if status != tt.status || errCode(body) != tt.code {
				t.Errorf("expected %d/%s, got %d/%v", tt.status, tt.code, status, body)
			}
			if len(chat.got) != 0 {
				t.Error("rejected message reached the assistant")
			}
		})
	}
}

func TestChatHandler_History(t *testing.T) {
	chat := &stubChat{history: []domain.ChatMessage{
		{ID: "chat-1", Message: "vpn", Response: `{"suggestedAction":"show_solution"}`},
		{ID: "chat-2", Message: "old", Response: "plain text reply"},
	}}
	app := newTestApp(testEmployee, http.MethodGet, "/api/chat/history", NewChatHandler(chat, nil).History)

	status, body := doJSON(t, app, http.MethodGet, "/api/chat/history", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	items := body["data"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %v", items)
	}
	first := items[0].(map[string]any)["response"].(map[string]any)
	if first["suggestedAction"] != "show_solution" {
		t.Errorf("structured reply not embedded: %v", first)
	}
	if second := items[1].(map[string]any)["response"]; second != "plain text reply" {
		t.Errorf("plain reply not preserved: %v", second)
	}
}

type stubTickets struct {
	TicketWorkflow
	input  service.TicketCreateInput
	filter service.TicketListFilter
	err    error
}

func (s *stubTickets) CreateTicket(_ context.Context, actor *domain.User, input service.TicketCreateInput) (*domain.Ticket, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.input = input
	return &domain.Ticket{
		ID: "ticket-1", ExternalKey: "TCK-ABCD1234", UserID: actor.ID, Title: input.Title,
		Category: domain.CategoryNetwork, Priority: domain.PriorityUrgent, Status: domain.TicketStatusOpen, UrgencyFlag: true,
	}, nil
}

func (s *stubTickets) ListAllTickets(_ context.Context, filter service.TicketListFilter) ([]domain.Ticket, error) {
	s.filter = filter
	return nil, nil
}

func TestTicketsHandler_Create(t *testing.T) {
	stub := &stubTickets{}
	app := newTestApp(testEmployee, http.MethodPost, "/api/tickets", NewTicketsHandler(stub).CreateTicket)

	status, body := doJSON(t, app, http.MethodPost, "/api/tickets",
		`{"title":"VPN down","description":"urgent vpn outage","location":"HQ 3F","auto_classify":true}`)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d %v", status, body)
	}
	data := body["data"].(map[string]any)
	if data["external_key"] != "TCK-ABCD1234" || data["urgency_flag"] != true {
		t.Errorf("unexpected ticket %v", data)
	}
	if !stub.input.AutoClassify || stub.input.Location == nil || *stub.input.Location != "HQ 3F" {
		t.Errorf("input not forwarded: %+v", stub.input)
	}
}

func TestTicketsHandler_CreateError(t *testing.T) {
	stub := &stubTickets{err: apperrors.NewValidationError("title and description are required", nil)}
	app := newTestApp(testEmployee, http.MethodPost, "/api/tickets", NewTicketsHandler(stub).CreateTicket)

	status, body := doJSON(t, app, http.MethodPost, "/api/tickets", `{"title":""}`)
	if status != http.StatusBadRequest || errCode(body) != "VALIDATION_FAILED" {
		t.Errorf("expected validation error, got %d %v", status, body)
	}
}

func TestITTicketsHandler_ListParsesFilter(t *testing.T) {
	stub := &stubTickets{}
	app := newTestApp(testEmployee, http.MethodGet, "/api/it/tickets", NewITTicketsHandler(stub).ListTickets)

	status, body := doJSON(t, app, http.MethodGet, "/api/it/tickets?status=open,in_progress&category=network&search=vpn&page=2&page_size=10", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if items, ok := body["data"].([]any); !ok || len(items) != 0 {
		t.Errorf("expected empty list, got %v", body["data"])
	}
	f := stub.filter
	if len(f.Statuses) != 2 || f.Statuses[1] != domain.TicketStatusInProgress || len(f.Categories) != 1 {
		t.Errorf("unexpected filter %+v", f)
	}
	if f.SearchTerm == nil || *f.SearchTerm != "vpn" || f.Limit != 10 || f.Offset != 10 {
		t.Errorf("unexpected paging/search %+v", f)
	}
}
