package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/classifier"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/llm"
)

var (
	classifyStrategy string
	classifyRules    string
)

var classifyCmd = &cobra.Command{
	Use:   "classify <message...>",
	Short: "Classify a helpdesk message and print the assistant's response",
	Long: `Run a message through the configured classifier and response policy and
print the resulting chat response as JSON. Knowledge-base articles are not
looked up, so kbArticles is always empty.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadRuntime()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("strategy") {
			cfg.Classifier.Strategy = classifyStrategy
		}
		if cmd.Flags().Changed("rules") {
			cfg.Classifier.RulesPath = classifyRules
		}

		c, err := classifier.FromConfig(cfg.Classifier, llm.NewClient(cfg.LLM), zap.NewNop())
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		resp := classifier.Respond(c.Classify(cmd.Context(), domain.IssueMessage{Text: text}), nil)

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyStrategy, "strategy", classifier.StrategyRules, "classifier strategy (rules or model)")
	classifyCmd.Flags().StringVar(&classifyRules, "rules", "", "path to a YAML ruleset overriding the embedded one")
	rootCmd.AddCommand(classifyCmd)
}
