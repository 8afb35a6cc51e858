package classifier

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CategoryPlaceholder is replaced with the category name in the fallback template.
const CategoryPlaceholder = "{{category}}"

//go:embed rules.yaml
var defaultRules []byte

// CategoryRule maps a category to the substrings that select it.
type CategoryRule struct {
	Category domain.Category `yaml:"category"`
	Triggers []string        `yaml:"triggers"`
}

// PriorityRule maps a priority tier to the substrings that select it.
type PriorityRule struct {
	Priority domain.Priority `yaml:"priority"`
	Triggers []string        `yaml:"triggers"`
}

// SolutionRule is a canned guide returned when the category matches and one of
// the keywords appears in the message.
type SolutionRule struct {
	Category domain.Category `yaml:"category"`
	Keywords []string        `yaml:"keywords"`
	Text     string          `yaml:"text"`
}

// Ruleset is the keyword configuration of the rule-based classifier.
// Categories and Priorities are evaluated in order.
type Ruleset struct {
	Categories       []CategoryRule  `yaml:"categories"`
	Priorities       []PriorityRule  `yaml:"priorities"`
	DefaultPriority  domain.Priority `yaml:"default_priority"`
	CommonPhrases    []string        `yaml:"common_phrases"`
	Solutions        []SolutionRule  `yaml:"solutions"`
	FallbackTemplate string          `yaml:"fallback_template"`
}

// DefaultRuleset returns the built-in rules.
func DefaultRuleset() Ruleset {
	rs, err := ParseRuleset(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("classifier: embedded rules invalid: %v", err))
	}
	return rs
}

// LoadRuleset reads and validates a YAML ruleset from disk.
func LoadRuleset(path string) (Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ruleset{}, fmt.Errorf("read ruleset: %w", err)
	}
	return ParseRuleset(data)
}

// ParseRuleset decodes and validates a YAML ruleset.
func ParseRuleset(data []byte) (Ruleset, error) {
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return Ruleset{}, fmt.Errorf("parse ruleset: %w", err)
	}
	if rs.DefaultPriority == "" {
		rs.DefaultPriority = domain.PriorityMedium
	}
	if err := rs.Validate(); err != nil {
		return Ruleset{}, err
	}
	return rs, nil
}

// Validate rejects unknown enum values and empty trigger lists.
func (rs Ruleset) Validate() error {
	for i, rule := range rs.Categories {
		if !rule.Category.Valid() || rule.Category == domain.CategoryOther {
			return fmt.Errorf("categories[%d]: invalid category %q", i, rule.Category)
		}
		if len(rule.Triggers) == 0 {
			return fmt.Errorf("categories[%d]: no triggers for %q", i, rule.Category)
		}
	}
	for i, rule := range rs.Priorities {
		if !rule.Priority.Valid() {
			return fmt.Errorf("priorities[%d]: invalid priority %q", i, rule.Priority)
		}
		if len(rule.Triggers) == 0 {
			return fmt.Errorf("priorities[%d]: no triggers for %q", i, rule.Priority)
		}
	}
	if !rs.DefaultPriority.Valid() {
		return fmt.Errorf("invalid default priority %q", rs.DefaultPriority)
	}
	for i, rule := range rs.Solutions {
		if !rule.Category.Valid() {
			return fmt.Errorf("solutions[%d]: invalid category %q", i, rule.Category)
		}
		if strings.TrimSpace(rule.Text) == "" {
			return fmt.Errorf("solutions[%d]: empty text for %q", i, rule.Category)
		}
	}
	if !strings.Contains(rs.FallbackTemplate, CategoryPlaceholder) {
		return fmt.Errorf("fallback template must contain %s", CategoryPlaceholder)
	}
	return nil
}

// normalized returns a deep copy with every trigger, phrase and keyword lowercased.
func (rs Ruleset) normalized() Ruleset {
	out := Ruleset{
		DefaultPriority:  rs.DefaultPriority,
		CommonPhrases:    lowerAll(rs.CommonPhrases),
		FallbackTemplate: rs.FallbackTemplate,
	}
	for _, rule := range rs.Categories {
		out.Categories = append(out.Categories, CategoryRule{Category: rule.Category, Triggers: lowerAll(rule.Triggers)})
	}
	for _, rule := range rs.Priorities {
		out.Priorities = append(out.Priorities, PriorityRule{Priority: rule.Priority, Triggers: lowerAll(rule.Triggers)})
	}
	for _, rule := range rs.Solutions {
		out.Solutions = append(out.Solutions, SolutionRule{Category: rule.Category, Keywords: lowerAll(rule.Keywords), Text: rule.Text})
	}
	return out
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
