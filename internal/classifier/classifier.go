// Package classifier maps free-text helpdesk messages to a category, priority
// and canned solution, and decides whether the chat assistant can answer the
// issue itself or should hand off to ticket creation.
package classifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Strategy names accepted by New.
const (
	StrategyRules = "rules"
	StrategyModel = "model"
)

// Classifier turns an issue message into a Classification. Implementations
// never fail: on any internal problem they return FallbackClassification.
type Classifier interface {
	Classify(ctx context.Context, msg domain.IssueMessage) domain.Classification
	Name() string
}

// FallbackClassification is the safe default used whenever a classification
// cannot be produced.
func FallbackClassification() domain.Classification {
	return domain.Classification{
		Category: domain.CategoryOther,
		Priority: domain.PriorityMedium,
		IsCommon: false,
		Solution: "",
		KBQuery:  string(domain.CategoryOther),
	}
}

// New selects a strategy by name. The model strategy requires a generator.
func New(strategy string, rules Ruleset, generator TextGenerator, logger *zap.Logger) (Classifier, error) {
	switch strategy {
	case "", StrategyRules:
		return NewRuleBased(rules), nil
	case StrategyModel:
		if generator == nil {
			return nil, fmt.Errorf("classifier: strategy %q requires a text generator", strategy)
		}
		return NewModelBacked(generator, logger), nil
	default:
		return nil, fmt.Errorf("classifier: unknown strategy %q", strategy)
	}
}

// FromConfig builds the configured strategy. A rules file, when configured,
// replaces the embedded ruleset.
func FromConfig(cfg config.ClassifierConfig, generator TextGenerator, logger *zap.Logger) (Classifier, error) {
	rules := DefaultRuleset()
	if cfg.RulesPath != "" {
		loaded, err := LoadRuleset(cfg.RulesPath)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}
	return New(cfg.Strategy, rules, generator, logger)
}
