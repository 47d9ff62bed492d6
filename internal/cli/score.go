package cli

import (
	"context"
	"fmt"

	"hireall/internal/ai"
	"hireall/internal/common"
	"hireall/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file]",
	Short: "Score a resume with the enhanced ATS engine",
	Long: `Score a JSON or YAML resume with the enhanced ATS engine.

The result contains the overall score, the seven sub-scores, detailed metrics,
strengths, critical issues and prioritised recommendations. Use --detailed
for the full evaluation including matched and missing keywords.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var (
	scoreOutput  outputFlags
	scoreOptions scoreFlags
	scoreDetail  bool
)

func init() {
	scoreOutput.register(scoreCmd)
	scoreOptions.register(scoreCmd)
	scoreCmd.Flags().BoolVar(&scoreDetail, "detailed", false, "Print the full evaluation with keyword analysis")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromContext(cmd.Context())
	if err != nil {
		return err
	}

	cmdConfig, err := scoreOutput.commandConfig(cfg, scoreOptions.strict)
	if err != nil {
		return err
	}
	opts, err := scoreOptions.options(cfg)
	if err != nil {
		return err
	}

	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}

	logDetails := func(filename string, c common.CommandConfig) {
		logger.Info("Scoring resume",
			"file", filename,
			"industry", opts.Industry,
			"target_role", opts.TargetRole,
			"detailed", scoreDetail,
			"output_format", c.OutputFormat)
	}

	operation := func(ctx context.Context, resume *types.ResumeData) (any, *ai.TokenUsage, error) {
		if scoreDetail {
			evaluation := scorer.Evaluate(resume, opts)
			logger.Info("Resume scored", "overall", evaluation.Score)
			return evaluation, nil, nil
		}
		score := scorer.CalculateEnhancedATSScore(resume, opts)
		logger.Info("Resume scored", "overall", score.Overall)
		return score, nil, nil
	}

	if err := common.RunResumeCommand(cmd.Context(), logger, cmdConfig, args[0], operation, logDetails); err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	return nil
}
