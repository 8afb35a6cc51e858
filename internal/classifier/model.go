package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// SystemPrompt frames the model as the helpdesk assistant.
const SystemPrompt = "You are a helpful IT support AI assistant for company employees."

const promptTemplate = `You are an IT helpdesk classifier. Analyze the following user message and determine:
1. Category (network/account/email/hardware/software/printer/other)
2. Priority (low/medium/high/urgent)
3. Whether this is a common issue that can be resolved with KB article (true/false)
4. Suggested solution if it's a common issue

User message: %q

Respond in JSON format:
{
  "category": "category_name",
  "priority": "priority_level",
  "isCommon": true/false,
  "solution": "step-by-step solution if common, empty string otherwise",
  "kbQuery": "search query for knowledge base"
}`

// ErrNoJSON is returned when a model reply contains no JSON object.
var ErrNoJSON = errors.New("no json object in model reply")

// TextGenerator produces a completion for a system and user prompt.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ModelBacked delegates classification to a text-generation service.
type ModelBacked struct {
	generator TextGenerator
	logger    *zap.Logger
}

// NewModelBacked builds a model-backed classifier.
func NewModelBacked(generator TextGenerator, logger *zap.Logger) *ModelBacked {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelBacked{generator: generator, logger: logger}
}

// Name implements Classifier.
func (m *ModelBacked) Name() string { return StrategyModel }

// Classify implements Classifier. Transport and parse errors yield
// FallbackClassification.
func (m *ModelBacked) Classify(ctx context.Context, msg domain.IssueMessage) domain.Classification {
	reply, err := m.generator.Generate(ctx, SystemPrompt, BuildPrompt(msg.Text))
	if err != nil {
		m.logger.Warn("model classification failed", zap.Error(err))
		return FallbackClassification()
	}
	result, err := ParseReply(reply)
	if err != nil {
		m.logger.Warn("unparseable model reply", zap.Error(err), zap.Int("reply_len", len(reply)))
		return FallbackClassification()
	}
	return result
}

// BuildPrompt interpolates the message into the classification prompt.
func BuildPrompt(message string) string {
	return fmt.Sprintf(promptTemplate, message)
}

type modelReply struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	IsCommon bool   `json:"isCommon"`
	Solution string `json:"solution"`
}

// ParseReply decodes the first JSON object found in reply and normalizes it.
func ParseReply(reply string) (domain.Classification, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return domain.Classification{}, err
	}
	var parsed modelReply
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return domain.Classification{}, fmt.Errorf("decode model reply: %w", err)
	}

	category := domain.Category(strings.ToLower(strings.TrimSpace(parsed.Category)))
	if !category.Valid() {
		category = domain.CategoryOther
	}
	priority := domain.Priority(strings.ToLower(strings.TrimSpace(parsed.Priority)))
	if !priority.Valid() {
		priority = domain.PriorityMedium
	}
	result := domain.Classification{
		Category: category,
		Priority: priority,
		IsCommon: parsed.IsCommon,
		KBQuery:  string(category),
	}
	if result.IsCommon {
		result.Solution = strings.TrimSpace(parsed.Solution)
	}
	return result, nil
}

// extractJSON returns the text from the first '{' to the last '}'.
func extractJSON(reply string) (string, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return "", ErrNoJSON
	}
	return reply[start : end+1], nil
}
