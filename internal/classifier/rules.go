package classifier

import (
	"context"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RuleBased classifies messages by substring matching against a Ruleset.
// It holds no mutable state and is safe for concurrent use.
type RuleBased struct {
	rules Ruleset
}

// NewRuleBased builds a classifier over a copy of rs.
func NewRuleBased(rs Ruleset) *RuleBased {
	return &RuleBased{rules: rs.normalized()}
}

// Name implements Classifier.
func (r *RuleBased) Name() string { return StrategyRules }

// Classify implements Classifier.
func (r *RuleBased) Classify(_ context.Context, msg domain.IssueMessage) domain.Classification {
	text := strings.ToLower(msg.Text)
	category := r.category(text)
	result := domain.Classification{
		Category: category,
		Priority: r.priority(text),
		IsCommon: r.isCommon(text),
		KBQuery:  string(category),
	}
	if result.IsCommon {
		result.Solution = r.solution(category, text)
	}
	return result
}

// Category returns the first category whose triggers appear in text.
func (r *RuleBased) Category(text string) domain.Category {
	return r.category(strings.ToLower(text))
}

// Priority returns the first priority tier whose triggers appear in text.
func (r *RuleBased) Priority(text string) domain.Priority {
	return r.priority(strings.ToLower(text))
}

// IsCommon reports whether text contains one of the known common-issue phrases.
func (r *RuleBased) IsCommon(text string) bool {
	return r.isCommon(strings.ToLower(text))
}

// Solution returns the canned guide for category, or the generic template
// when the category has no guide or its keywords are missing from text.
func (r *RuleBased) Solution(category domain.Category, text string) string {
	return r.solution(category, strings.ToLower(text))
}

func (r *RuleBased) category(text string) domain.Category {
	for _, rule := range r.rules.Categories {
		if containsAny(text, rule.Triggers) {
			return rule.Category
		}
	}
	return domain.CategoryOther
}

func (r *RuleBased) priority(text string) domain.Priority {
	for _, rule := range r.rules.Priorities {
		if containsAny(text, rule.Triggers) {
			return rule.Priority
		}
	}
	return r.rules.DefaultPriority
}

func (r *RuleBased) isCommon(text string) bool {
	return containsAny(text, r.rules.CommonPhrases)
}

func (r *RuleBased) solution(category domain.Category, text string) string {
	for _, rule := range r.rules.Solutions {
		if rule.Category == category && containsAny(text, rule.Keywords) {
			return rule.Text
		}
	}
	return strings.ReplaceAll(r.rules.FallbackTemplate, CategoryPlaceholder, string(category))
}
