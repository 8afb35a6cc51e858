package classifier

import (
	"encoding/json"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestAction(t *testing.T) {
	tests := []struct {
		name string
		c    domain.Classification
		want domain.SuggestedAction
	}{
		{"common with solution", domain.Classification{IsCommon: true, Solution: "steps"}, domain.ActionShowSolution},
		{"common without solution", domain.Classification{IsCommon: true}, domain.ActionCreateTicket},
		{"uncommon with solution", domain.Classification{Solution: "steps"}, domain.ActionCreateTicket},
		{"uncommon", domain.Classification{}, domain.ActionCreateTicket},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Action(tc.c); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestRespond_ShowSolution(t *testing.T) {
	c := classify(t, "I need a password reset")
	articles := []domain.KnowledgeArticle{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}

	resp := Respond(c, articles)
	if resp.SuggestedAction != domain.ActionShowSolution {
		t.Fatalf("expected show_solution, got %s", resp.SuggestedAction)
	}
	if resp.Solution != c.Solution || resp.Solution == "" {
		t.Errorf("expected category solution, got %q", resp.Solution)
	}
	if len(resp.KBArticles) != MaxArticles {
		t.Errorf("expected %d articles, got %d", MaxArticles, len(resp.KBArticles))
	}
	if resp.KBArticles[0].ID != "1" || resp.KBArticles[2].ID != "3" {
		t.Error("expected storage order to be preserved")
	}
}

func TestRespond_HandoffKeepsClassificationSolution(t *testing.T) {
	resp := Respond(classify(t, "My computer is broken"), nil)
	if resp.Solution != HandoffMessage {
		t.Errorf("expected handoff message, got %q", resp.Solution)
	}
	if resp.Classification.Solution != "" {
		t.Errorf("classification solution should stay empty, got %q", resp.Classification.Solution)
	}
	if resp.KBArticles == nil {
		t.Error("expected empty, non-nil article list")
	}
}

func TestFallbackResponse(t *testing.T) {
	resp := FallbackResponse()
	if resp.Classification.Category != domain.CategoryOther ||
		resp.Classification.Priority != domain.PriorityMedium ||
		resp.Classification.IsCommon {
		t.Errorf("unexpected fallback classification %+v", resp.Classification)
	}
	if resp.SuggestedAction != domain.ActionCreateTicket {
		t.Errorf("expected create_ticket, got %s", resp.SuggestedAction)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{`"classification"`, `"kbArticles":[]`, `"suggestedAction":"create_ticket"`, `"isCommon":false`, `"kbQuery":"other"`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("expected %s in %s", key, raw)
		}
	}
}

// Property: suggestedAction is show_solution iff isCommon and the solution is non-empty.
func TestProperty_ActionInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := domain.Classification{
			Category: rapid.SampledFrom(domain.Categories).Draw(t, "category"),
			Priority: domain.PriorityMedium,
			IsCommon: rapid.Bool().Draw(t, "common"),
			Solution: rapid.SampledFrom([]string{"", "step one"}).Draw(t, "solution"),
		}
		resp := Respond(c, nil)
		show := resp.SuggestedAction == domain.ActionShowSolution
		if show != (c.IsCommon && c.Solution != "") {
			t.Fatalf("invariant violated for %+v: %s", c, resp.SuggestedAction)
		}
		if !show && resp.Solution != HandoffMessage {
			t.Fatalf("expected handoff message, got %q", resp.Solution)
		}
	})
}
