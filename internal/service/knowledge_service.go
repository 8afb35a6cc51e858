package service

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

//go:embed kb_samples.yaml
var sampleArticlesYAML []byte

// CacheInvalidator drops cached knowledge lookups for a category.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, category domain.Category)
}

// KnowledgeService manages the self-service knowledge base.
type KnowledgeService struct {
	articles repository.KnowledgeRepository
	cache    CacheInvalidator
	points   PointsAwarder
	logger   *zap.Logger
}

// KnowledgeDependencies bundles collaborators for the knowledge service.
type KnowledgeDependencies struct {
	KnowledgeRepo repository.KnowledgeRepository
	Cache         CacheInvalidator
	Points        PointsAwarder
	Logger        *zap.Logger
}

// ArticleInput is the editable content of an article.
type ArticleInput struct {
	Title    string          `yaml:"title"`
	Content  string          `yaml:"content"`
	Category domain.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
}

// KnowledgeListFilter narrows article listings.
type KnowledgeListFilter struct {
	Category *domain.Category
	Query    *string
	Limit    int
	Offset   int
}

// NewKnowledgeService constructs the service.
func NewKnowledgeService(deps KnowledgeDependencies) *KnowledgeService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgeService{
		articles: deps.KnowledgeRepo,
		cache:    deps.Cache,
		points:   deps.Points,
		logger:   logger,
	}
}

// List returns articles ordered by popularity, optionally filtered by
// category and a case-insensitive search over title, content and keywords.
func (s *KnowledgeService) List(ctx context.Context, filter KnowledgeListFilter) ([]domain.KnowledgeArticle, error) {
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": *filter.Category})
	}
	return s.articles.List(ctx, repository.KnowledgeFilter{
		Category: filter.Category,
		Query:    filter.Query,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

// Get returns an article and counts the view.
func (s *KnowledgeService) Get(ctx context.Context, id string) (*domain.KnowledgeArticle, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.articles.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn("failed to count article view", zap.String("article_id", id), zap.Error(err))
	} else {
		article.ViewCount++
	}
	return article, nil
}

// MarkHelpful records that the article solved the user's problem.
func (s *KnowledgeService) MarkHelpful(ctx context.Context, id, userID string) (*domain.KnowledgeArticle, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.articles.IncrementHelpfulCount(ctx, id); err != nil {
		return nil, err
	}
	article.HelpfulCount++
	awardQuietly(ctx, s.points, s.logger, userID, domain.EventKBHelpful, "Found \""+article.Title+"\" helpful")
	return article, nil
}

// Create publishes a new article.
func (s *KnowledgeService) Create(ctx context.Context, authorID string, input ArticleInput) (*domain.KnowledgeArticle, error) {
	article, err := input.toArticle()
	if err != nil {
		return nil, err
	}
	if authorID != "" {
		article.CreatedBy = &authorID
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	s.invalidate(ctx, article.Category)
	return article, nil
}

// Update replaces the content of an existing article.
func (s *KnowledgeService) Update(ctx context.Context, id string, input ArticleInput) (*domain.KnowledgeArticle, error) {
	existing, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := input.toArticle()
	if err != nil {
		return nil, err
	}
	previousCategory := existing.Category
	existing.Title = updated.Title
	existing.Content = updated.Content
	existing.Category = updated.Category
	existing.Keywords = updated.Keywords
	if err := s.articles.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.invalidate(ctx, previousCategory)
	if previousCategory != existing.Category {
		s.invalidate(ctx, existing.Category)
	}
	return existing, nil
}

// SearchByCategory returns up to limit articles of a category.
func (s *KnowledgeService) SearchByCategory(ctx context.Context, category domain.Category, limit int) ([]domain.KnowledgeArticle, error) {
	return s.articles.ListByCategory(ctx, category, limit)
}

// SeedSamples inserts the bundled starter articles, skipping titles that
// already exist. It returns how many were inserted.
func (s *KnowledgeService) SeedSamples(ctx context.Context) (int, error) {
	samples, err := SampleArticles()
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, input := range samples {
		article, err := input.toArticle()
		if err != nil {
			return inserted, err
		}
		created, err := s.articles.CreateIfAbsent(ctx, article)
		if err != nil {
			return inserted, fmt.Errorf("seed %q: %w", input.Title, err)
		}
		if created {
			inserted++
			s.invalidate(ctx, article.Category)
		}
	}
	s.logger.Info("knowledge base seeded", zap.Int("inserted", inserted), zap.Int("available", len(samples)))
	return inserted, nil
}

// SampleArticles returns the bundled starter articles.
func SampleArticles() ([]ArticleInput, error) {
	var doc struct {
		Articles []ArticleInput `yaml:"articles"`
	}
	if err := yaml.Unmarshal(sampleArticlesYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse sample articles: %w", err)
	}
	return doc.Articles, nil
}

func (s *KnowledgeService) invalidate(ctx context.Context, category domain.Category) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, category)
	}
}

func (in ArticleInput) toArticle() (*domain.KnowledgeArticle, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError("title and content are required", nil)
	}
	category := domain.Category(strings.ToLower(strings.TrimSpace(string(in.Category))))
	if !category.Valid() {
		return nil, apperrors.NewValidationError("invalid category", map[string]any{"category": in.Category})
	}
	keywords := make([]string, 0, len(in.Keywords))
	for _, kw := range in.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return &domain.KnowledgeArticle{
		Title:    title,
		Content:  content,
		Category: category,
		Keywords: keywords,
	}, nil
}
