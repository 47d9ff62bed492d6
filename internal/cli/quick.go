package cli

import (
	"context"
	"fmt"

	"hireall/internal/ai"
	"hireall/internal/common"
	"hireall/internal/types"

	"github.com/spf13/cobra"
)

var quickCmd = &cobra.Command{
	Use:   "quick [resume-file]",
	Short: "Fast basic score for real-time feedback",
	Long: `Score a resume with the lightweight basic scorer used for real-time
feedback while editing. It reports structure, keywords, impact and
readability plus a short list of suggestions.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuick,
}

var (
	quickOutput  outputFlags
	quickOptions scoreFlags
)

func init() {
	quickOutput.register(quickCmd)
	quickOptions.register(quickCmd)
}

func runQuick(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromContext(cmd.Context())
	if err != nil {
		return err
	}

	cmdConfig, err := quickOutput.commandConfig(cfg, quickOptions.strict)
	if err != nil {
		return err
	}
	opts, err := quickOptions.options(cfg)
	if err != nil {
		return err
	}

	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}

	operation := func(ctx context.Context, resume *types.ResumeData) (*types.BasicResumeScore, *ai.TokenUsage, error) {
		return scorer.CalculateResumeScore(resume, opts), nil, nil
	}

	if err := common.RunResumeCommand(cmd.Context(), logger, cmdConfig, args[0], operation, nil); err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	return nil
}
