package cli

import (
	"context"
	"fmt"

	"hireall/internal/ai"
	"hireall/internal/common"
	"hireall/internal/types"

	"github.com/spf13/cobra"
)

var coachCmd = &cobra.Command{
	Use:   "coach [resume-file]",
	Short: "Score a resume and get an AI coach review",
	Long: `Score a resume with the enhanced ATS engine, then ask the AI coach for a
narrative review: a short assessment, a rewritten summary, stronger versions
of weak bullet points and the actions with the biggest score impact.

Requires an AI API key (ai.apiKey, HIREALL_AI_APIKEY, GEMINI_API_KEY or Vault).`,
	Args: cobra.ExactArgs(1),
	RunE: runCoach,
}

var (
	coachOutput  outputFlags
	coachOptions scoreFlags
)

func init() {
	coachOutput.register(coachCmd)
	coachOptions.register(coachCmd)
}

func runCoach(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromContext(cmd.Context())
	if err != nil {
		return err
	}

	cmdConfig, err := coachOutput.commandConfig(cfg, coachOptions.strict)
	if err != nil {
		return err
	}
	opts, err := coachOptions.options(cfg)
	if err != nil {
		return err
	}

	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}

	om, shutdown, err := newObservability(cfg, logger)
	if err != nil {
		return err
	}
	defer shutdown()

	coachConfig := cfg.GetCoachConfig()
	aiService, err := ai.NewService(&coachConfig, cfg.Observability.HealthCheck.AIModelCheckTimeout, logger, om)
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := aiService.Close(); err != nil {
			logger.LogError(err, "Failed to close AI service")
		}
	}()

	logDetails := func(filename string, c common.CommandConfig) {
		logger.Info("Starting coach review",
			"file", filename,
			"model", coachConfig.Model,
			"industry", opts.Industry,
			"target_role", opts.TargetRole,
			"output_format", c.OutputFormat)
	}

	operation := func(ctx context.Context, resume *types.ResumeData) (*types.CoachReport, *ai.TokenUsage, error) {
		score := scorer.CalculateEnhancedATSScore(resume, opts)
		review, usage, err := aiService.ReviewResume(ctx, ai.NewCoachReviewInput(resume, score, opts))
		if err != nil {
			return nil, nil, err
		}
		return &types.CoachReport{Score: score, Review: &review}, usage, nil
	}

	if err := common.RunResumeCommand(cmd.Context(), logger, cmdConfig, args[0], operation, logDetails); err != nil {
		return fmt.Errorf("failed to review resume: %w", err)
	}
	logger.Info("Coach review completed successfully")
	return nil
}
