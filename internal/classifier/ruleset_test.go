package classifier

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestDefaultRuleset_Order(t *testing.T) {
	rs := DefaultRuleset()
	want := []domain.Category{
		domain.CategoryNetwork, domain.CategoryAccount, domain.CategoryEmail,
		domain.CategoryPrinter, domain.CategorySoftware, domain.CategoryHardware,
	}
	if len(rs.Categories) != len(want) {
		t.Fatalf("expected %d category rules, got %d", len(want), len(rs.Categories))
	}
	for i, rule := range rs.Categories {
		if rule.Category != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], rule.Category)
		}
	}
	if rs.DefaultPriority != domain.PriorityMedium {
		t.Errorf("expected medium default, got %s", rs.DefaultPriority)
	}
	if len(rs.CommonPhrases) != 7 {
		t.Errorf("expected 7 common phrases, got %d", len(rs.CommonPhrases))
	}
	for _, rule := range rs.Solutions {
		if rule.Category == domain.CategoryHardware || rule.Category == domain.CategoryOther {
			t.Errorf("unexpected canned solution for %s", rule.Category)
		}
	}
}

func TestParseRuleset_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		msg  string
	}{
		{"bad yaml", "categories: [", "parse ruleset"},
		{"unknown category", "categories:\n  - category: coffee\n    triggers: [beans]\nfallback_template: '{{category}}'", "invalid category"},
		{"other as rule", "categories:\n  - category: other\n    triggers: [x]\nfallback_template: '{{category}}'", "invalid category"},
		{"empty triggers", "categories:\n  - category: email\n    triggers: []\nfallback_template: '{{category}}'", "no triggers"},
		{"unknown priority", "priorities:\n  - priority: whenever\n    triggers: [x]\nfallback_template: '{{category}}'", "invalid priority"},
		{"empty solution", "solutions:\n  - category: email\n    keywords: [mail]\n    text: ''\nfallback_template: '{{category}}'", "empty text"},
		{"no placeholder", "fallback_template: 'try again'", "fallback template"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRuleset([]byte(tc.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("expected error containing %q, got %v", tc.msg, err)
			}
		})
	}
}

func TestLoadRuleset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "categories:\n  - category: printer\n    triggers: [toner]\nfallback_template: 'generic {{category}}'\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rs, err := LoadRuleset(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rs.DefaultPriority != domain.PriorityMedium {
		t.Errorf("expected medium default, got %s", rs.DefaultPriority)
	}
	if got := NewRuleBased(rs).Category("out of toner"); got != domain.CategoryPrinter {
		t.Errorf("expected printer, got %s", got)
	}

	if _, err := LoadRuleset(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNew(t *testing.T) {
	c, err := New("", DefaultRuleset(), nil, nil)
	if err != nil || c.Name() != StrategyRules {
		t.Fatalf("expected rules strategy, got %v, %v", c, err)
	}
	if _, err := New(StrategyModel, DefaultRuleset(), nil, nil); err == nil {
		t.Error("expected error for model strategy without generator")
	}
	c, err = New(StrategyModel, DefaultRuleset(), stubGenerator{}, nil)
	if err != nil || c.Name() != StrategyModel {
		t.Fatalf("expected model strategy, got %v, %v", c, err)
	}
	if _, err := New("magic", DefaultRuleset(), nil, nil); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "categories:\n  - category: printer\n    triggers: [toner]\nfallback_template: 'generic {{category}}'\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, err := FromConfig(config.ClassifierConfig{Strategy: StrategyRules, RulesPath: path}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := c.Classify(context.Background(), domain.IssueMessage{Text: "vpn is out of toner"})
	if got.Category != domain.CategoryPrinter {
		t.Errorf("override ruleset not used, got %s", got.Category)
	}

	if _, err := FromConfig(config.ClassifierConfig{RulesPath: filepath.Join(t.TempDir(), "nope.yaml")}, nil, nil); err == nil {
		t.Error("expected error for missing rules file")
	}
}
