package cli

import (
	"context"
	"fmt"

	"hireall/internal/ats"
	"hireall/internal/common"
	"hireall/internal/config"
	"hireall/internal/errors"
	"hireall/internal/types"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// Commands carrying this annotation run without loading configuration
const skipConfigAnnotation = "hireall/skip-config"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "hireall",
	Short: "Score resumes the way applicant tracking systems read them",
	Long: `Hireall scores structured resumes (JSON or YAML) with a deterministic,
rule-based ATS engine. It reports an overall score, seven sub-scores, keyword
matches and prioritised recommendations, and can ask an AI coach for a
narrative review on top of the score.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

// Execute runs the root command. Configuration and the logger are loaded
// once flags are parsed and attached to the command context.
func Execute(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func loadRuntime(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipConfigAnnotation] == "true" {
		return nil
	}

	cfg, err := config.LoadConfigFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return fmt.Errorf("failed to load secrets from Vault: %w", err)
	}

	logger.Debug("Starting hireall",
		"version", Version,
		"command", cmd.Name(),
		"log_level", cfg.App.LogLevel,
		"coach_available", cfg.CoachAvailable())

	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	cmd.SetContext(ctx)
	return nil
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, errors.NewInternalError(errors.ErrCodeInvalidConfig, "configuration not initialized", nil)
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, errors.NewInternalError(errors.ErrCodeInvalidConfig, "logger not initialized", nil)
}

// runtimeFromContext returns both the config and the logger
func runtimeFromContext(ctx context.Context) (*config.Config, *errors.Logger, error) {
	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger, err := getLoggerFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newScorer builds the scorer from the configured lexicon file and suggestion limit
func newScorer(cfg *config.Config) (*ats.Scorer, error) {
	lex := ats.DefaultLexicon()
	if cfg.Scoring.LexiconFile != "" {
		var err error
		lex, err = ats.LoadLexiconFile(cfg.Scoring.LexiconFile)
		if err != nil {
			return nil, err
		}
	}
	return ats.NewScorer(lex, ats.WithSuggestionLimit(cfg.Scoring.SuggestionLimit))
}

// outputFlags are shared by every command that prints a result
type outputFlags struct {
	output string
	format string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: json, yaml, text, or markdown (default from config)")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return common.NewOutputHandler(nil).GetSupportedFormats(), cobra.ShellCompDirectiveNoFileComp
	})
}

// commandConfig resolves the output format against the configuration
func (f *outputFlags) commandConfig(cfg *config.Config, strict bool) (common.CommandConfig, error) {
	format, err := common.ResolveOutputFormat(f.format, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
	if err != nil {
		return common.CommandConfig{}, errors.NewValidationError(errors.ErrCodeInvalidFormat, err.Error(), nil)
	}
	return common.CommandConfig{
		OutputFile:   f.output,
		OutputFormat: format,
		Strict:       strict || cfg.Scoring.StrictSchema,
		MaxFileSize:  cfg.App.MaxFileSize,
	}, nil
}

// scoreFlags select keyword targeting
type scoreFlags struct {
	industry string
	role     string
	strict   bool
}

func (f *scoreFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.industry, "industry", "", "Industry keyword set, e.g. technology, healthcare, finance (default from config)")
	cmd.Flags().StringVar(&f.role, "role", "", "Target role, e.g. \"Software Engineer\" (default from config)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Validate the resume against the JSON schema before scoring")
}

func (f *scoreFlags) options(cfg *config.Config) (types.ScoreOptions, error) {
	opts := types.ScoreOptions{Industry: f.industry, TargetRole: f.role}
	if opts.Industry == "" {
		opts.Industry = cfg.Scoring.DefaultIndustry
	}
	if opts.TargetRole == "" {
		opts.TargetRole = cfg.Scoring.DefaultTargetRole
	}
	if err := validator.New().Struct(opts); err != nil {
		return types.ScoreOptions{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"invalid --industry or --role", err)
	}
	return opts, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: config.yaml in /etc/hireall, $HOME/.hireall or .)")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(coachCmd)
	rootCmd.AddCommand(lexiconCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
