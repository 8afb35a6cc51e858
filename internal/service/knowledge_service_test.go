package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type recordingInvalidator struct {
	categories []domain.Category
}

func (r *recordingInvalidator) Invalidate(_ context.Context, category domain.Category) {
	r.categories = append(r.categories, category)
}

func newKnowledgeFixture(articles ...domain.KnowledgeArticle) (*KnowledgeService, *fakeKnowledge, *recordingInvalidator, *fakeAwarder) {
	repo := newFakeKnowledge(articles...)
	cache := &recordingInvalidator{}
	points := &fakeAwarder{}
	svc := NewKnowledgeService(KnowledgeDependencies{KnowledgeRepo: repo, Cache: cache, Points: points})
	return svc, repo, cache, points
}

func TestSampleArticles(t *testing.T) {
	samples, err := SampleArticles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 7 {
		t.Fatalf("expected 7 sample articles, got %d", len(samples))
	}
	for _, s := range samples {
		if _, err := s.toArticle(); err != nil {
			t.Errorf("sample %q is invalid: %v", s.Title, err)
		}
	}
}

func TestSeedSamples_Idempotent(t *testing.T) {
	svc, repo, cache, _ := newKnowledgeFixture()
	ctx := context.Background()

	inserted, err := svc.SeedSamples(ctx)
	if err != nil || inserted != 7 {
		t.Fatalf("expected 7 inserted, got %d (%v)", inserted, err)
	}
	if len(cache.categories) != 7 {
		t.Errorf("expected one invalidation per insert, got %v", cache.categories)
	}

	again, err := svc.SeedSamples(ctx)
	if err != nil || again != 0 {
		t.Fatalf("expected no inserts on reseed, got %d (%v)", again, err)
	}
	if len(repo.order) != 7 {
		t.Errorf("expected 7 stored articles, got %d", len(repo.order))
	}
}

func TestKnowledgeCreate(t *testing.T) {
	svc, _, cache, _ := newKnowledgeFixture()

	article, err := svc.Create(context.Background(), "adm-1", ArticleInput{
		Title:    "  Mapping a network drive ",
		Content:  "Open Explorer and choose Map network drive.",
		Category: "Network",
		Keywords: []string{" Drive ", "", "SHARE"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Title != "Mapping a network drive" || article.Category != domain.CategoryNetwork {
		t.Errorf("input not normalized: %+v", article)
	}
	if !reflect.DeepEqual(article.Keywords, []string{"drive", "share"}) {
		t.Errorf("unexpected keywords %v", article.Keywords)
	}
	if article.CreatedBy == nil || *article.CreatedBy != "adm-1" {
		t.Errorf("author not recorded: %v", article.CreatedBy)
	}
	if !reflect.DeepEqual(cache.categories, []domain.Category{domain.CategoryNetwork}) {
		t.Errorf("unexpected invalidations %v", cache.categories)
	}

	if _, err := svc.Create(context.Background(), "adm-1", ArticleInput{Title: "x", Content: "y", Category: "plumbing"}); errorCode(err) != "VALIDATION_FAILED" {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestKnowledgeUpdate_InvalidatesBothCategories(t *testing.T) {
	svc, _, cache, _ := newKnowledgeFixture(domain.KnowledgeArticle{Title: "Old", Content: "c", Category: domain.CategoryHardware})

	updated, err := svc.Update(context.Background(), "kb-1", ArticleInput{Title: "New", Content: "c2", Category: domain.CategoryPrinter})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "New" || updated.Category != domain.CategoryPrinter {
		t.Errorf("unexpected article %+v", updated)
	}
	want := []domain.Category{domain.CategoryHardware, domain.CategoryPrinter}
	if !reflect.DeepEqual(cache.categories, want) {
		t.Errorf("expected %v invalidated, got %v", want, cache.categories)
	}

	if _, err := svc.Update(context.Background(), "kb-9", ArticleInput{Title: "x", Content: "y", Category: "other"}); errorCode(err) != "NOT_FOUND" {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestKnowledgeGetAndHelpful(t *testing.T) {
	svc, repo, _, points := newKnowledgeFixture(domain.KnowledgeArticle{Title: "Guide", Content: "c", Category: domain.CategoryEmail})
	ctx := context.Background()

	article, err := svc.Get(ctx, "kb-1")
	if err != nil || article.ViewCount != 1 {
		t.Fatalf("expected one view, got %+v (%v)", article, err)
	}

	article, err = svc.MarkHelpful(ctx, "kb-1", "emp-1")
	if err != nil || article.HelpfulCount != 1 {
		t.Fatalf("expected helpful count 1, got %+v (%v)", article, err)
	}
	if repo.byID["kb-1"].HelpfulCount != 1 {
		t.Error("helpful count not persisted")
	}
	if got := points.types(); !reflect.DeepEqual(got, []domain.GamificationEventType{domain.EventKBHelpful}) {
		t.Errorf("unexpected awards %v", got)
	}

	if _, err := svc.MarkHelpful(ctx, "kb-9", "emp-1"); errorCode(err) != "NOT_FOUND" {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestKnowledgeList(t *testing.T) {
	svc, repo, _, _ := newKnowledgeFixture(
		domain.KnowledgeArticle{Title: "A", Content: "c", Category: domain.CategoryEmail},
		domain.KnowledgeArticle{Title: "B", Content: "c", Category: domain.CategoryNetwork},
	)
	email := domain.CategoryEmail

	list, err := svc.List(context.Background(), KnowledgeListFilter{Category: &email, Limit: 5})
	if err != nil || len(list) != 1 || list[0].Title != "A" {
		t.Errorf("unexpected list %+v (%v)", list, err)
	}
	if repo.lastList.Limit != 5 {
		t.Errorf("limit not forwarded: %+v", repo.lastList)
	}

	bad := domain.Category("plumbing")
	if _, err := svc.List(context.Background(), KnowledgeListFilter{Category: &bad}); errorCode(err) != "VALIDATION_FAILED" {
		t.Errorf("expected validation error, got %v", err)
	}
}
