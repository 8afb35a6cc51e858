package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	seq   int
	fails error
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*domain.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails != nil {
		return f.fails
	}
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	user.CreatedAt = time.Now()
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails != nil {
		return nil, f.fails
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.byID {
		if len(filter.Roles) > 0 && !slices.Contains(filter.Roles, u.Role) {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

type fakeTickets struct {
	mu   sync.Mutex
	byID map[string]*domain.Ticket
	seq  int
	last repository.TicketFilter
}

func newFakeTickets() *fakeTickets {
	return &fakeTickets{byID: map[string]*domain.Ticket{}}
}

func (f *fakeTickets) Create(_ context.Context, t *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t.ID = fmt.Sprintf("ticket-%d", f.seq)
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTickets) Update(_ context.Context, t *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	t.UpdatedAt = time.Now()
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.byID[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTickets) GetByExternalKey(_ context.Context, key string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.byID {
		if t.ExternalKey == key {
			cp := *t
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTickets) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = filter
	var out []domain.Ticket
	for _, t := range f.byID {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type fakeComments struct {
	mu       sync.Mutex
	comments []domain.TicketComment
}

func (f *fakeComments) Create(_ context.Context, c *domain.TicketComment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = fmt.Sprintf("comment-%d", len(f.comments)+1)
	c.CreatedAt = time.Now()
	f.comments = append(f.comments, *c)
	return nil
}

func (f *fakeComments) ListByTicket(_ context.Context, ticketID string, includeInternal bool) ([]domain.TicketComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TicketComment
	for _, c := range f.comments {
		if c.TicketID != ticketID || (c.IsInternal && !includeInternal) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeHistory struct {
	mu      sync.Mutex
	entries []domain.TicketHistory
}

func (f *fakeHistory) Create(_ context.Context, h *domain.TicketHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	h.ID = fmt.Sprintf("history-%d", len(f.entries)+1)
	f.entries = append(f.entries, *h)
	return nil
}

func (f *fakeHistory) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TicketHistory
	for _, h := range f.entries {
		if h.TicketID == ticketID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeKnowledge struct {
	mu       sync.Mutex
	byID     map[string]*domain.KnowledgeArticle
	order    []string
	seq      int
	listErr  error
	lastList repository.KnowledgeFilter
}

func newFakeKnowledge(articles ...domain.KnowledgeArticle) *fakeKnowledge {
	f := &fakeKnowledge{byID: map[string]*domain.KnowledgeArticle{}}
	for i := range articles {
		a := articles[i]
		_ = f.Create(context.Background(), &a)
	}
	return f
}

func (f *fakeKnowledge) Create(_ context.Context, a *domain.KnowledgeArticle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	a.ID = fmt.Sprintf("kb-%d", f.seq)
	cp := *a
	f.byID[a.ID] = &cp
	f.order = append(f.order, a.ID)
	return nil
}

func (f *fakeKnowledge) CreateIfAbsent(ctx context.Context, a *domain.KnowledgeArticle) (bool, error) {
	f.mu.Lock()
	for _, existing := range f.byID {
		if existing.Title == a.Title {
			f.mu.Unlock()
			return false, nil
		}
	}
	f.mu.Unlock()
	return true, f.Create(ctx, a)
}

func (f *fakeKnowledge) Update(_ context.Context, a *domain.KnowledgeArticle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeKnowledge) GetByID(_ context.Context, id string) (*domain.KnowledgeArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeKnowledge) List(_ context.Context, filter repository.KnowledgeFilter) ([]domain.KnowledgeArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = filter
	out := []domain.KnowledgeArticle{}
	for _, id := range f.order {
		a := f.byID[id]
		if filter.Category != nil && a.Category != *filter.Category {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeKnowledge) ListByCategory(_ context.Context, category domain.Category, limit int) ([]domain.KnowledgeArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []domain.KnowledgeArticle{}
	for _, id := range f.order {
		if a := f.byID[id]; a.Category == category && len(out) < limit {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeKnowledge) IncrementViewCount(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.ViewCount++
	return nil
}

func (f *fakeKnowledge) IncrementHelpfulCount(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.HelpfulCount++
	return nil
}

type fakeChatLog struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
	err      error
}

func (f *fakeChatLog) Create(_ context.Context, m *domain.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	m.ID = fmt.Sprintf("chat-%d", len(f.messages)+1)
	f.messages = append(f.messages, *m)
	return nil
}

func (f *fakeChatLog) ListByUser(_ context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ChatMessage
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if f.messages[i].UserID == userID {
			out = append(out, f.messages[i])
		}
	}
	return out, nil
}

type award struct {
	UserID    string
	EventType domain.GamificationEventType
}

type fakeAwarder struct {
	mu     sync.Mutex
	awards []award
	err    error
}

func (f *fakeAwarder) Award(_ context.Context, userID string, eventType domain.GamificationEventType, _ string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.awards = append(f.awards, award{userID, eventType})
	return len(f.awards), nil
}

func (f *fakeAwarder) types() []domain.GamificationEventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.GamificationEventType, len(f.awards))
	for i, a := range f.awards {
		out[i] = a.EventType
	}
	return out
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (r *recordingDispatcher) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fakeGamificationRepo struct {
	mu     sync.Mutex
	events []domain.GamificationEvent
	users  *fakeUsers
}

func (f *fakeGamificationRepo) Award(_ context.Context, e *domain.GamificationEvent) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	u, ok := f.users.byID[e.UserID]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	e.ID = fmt.Sprintf("event-%d", len(f.events)+1)
	f.events = append(f.events, *e)
	u.GamificationPoints += e.Points
	return u.GamificationPoints, nil
}

func (f *fakeGamificationRepo) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	out := []domain.LeaderboardEntry{}
	for _, u := range f.users.byID {
		out = append(out, domain.LeaderboardEntry{UserID: u.ID, FullName: u.FullName, Points: u.GamificationPoints})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeGamificationRepo) ListByUser(_ context.Context, userID string, _ int) ([]domain.GamificationEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.GamificationEvent
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")
