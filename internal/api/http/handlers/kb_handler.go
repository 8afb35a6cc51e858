package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// KnowledgeHandler serves the knowledge base.
type KnowledgeHandler struct {
	kb *service.KnowledgeService
}

// NewKnowledgeHandler constructs handler.
func NewKnowledgeHandler(kb *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{kb: kb}
}

// List GET /api/kb.
func (h *KnowledgeHandler) List(c *fiber.Ctx) error {
	filter := service.KnowledgeListFilter{}
	if category := c.Query("category"); category != "" && category != "all" {
		cat := domain.Category(strings.ToLower(category))
		filter.Category = &cat
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		filter.Query = &q
	}
	filter.Limit, filter.Offset = parsePage(c, 50)
	articles, err := h.kb.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	if articles == nil {
		articles = []domain.KnowledgeArticle{}
	}
	return c.JSON(fiber.Map{"data": articles})
}

// Get GET /api/kb/:id.
func (h *KnowledgeHandler) Get(c *fiber.Ctx) error {
	article, err := h.kb.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": article})
}

// MarkHelpful POST /api/kb/:id/helpful.
func (h *KnowledgeHandler) MarkHelpful(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	article, err := h.kb.MarkHelpful(c.UserContext(), c.Params("id"), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": article})
}

// Create POST /api/kb.
func (h *KnowledgeHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.kb.Create(c.UserContext(), user.ID, articleInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": article})
}

// Update PUT /api/kb/:id.
func (h *KnowledgeHandler) Update(c *fiber.Ctx) error {
	var req dto.ArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.kb.Update(c.UserContext(), c.Params("id"), articleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": article})
}

func articleInput(req dto.ArticleRequest) service.ArticleInput {
	return service.ArticleInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Keywords: req.Keywords,
	}
}
