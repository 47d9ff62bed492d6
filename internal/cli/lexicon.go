package cli

import (
	"fmt"

	"hireall/internal/ats"
	"hireall/internal/common"
	"hireall/internal/errors"

	"github.com/spf13/cobra"
)

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Inspect or validate the scoring lexicon",
	Long: `The lexicon holds every keyword table the scorers use: action verbs,
technical and modern terms, soft skills, industry and role keywords.
A YAML file set as scoring.lexiconFile overrides the built-in tables.`,
}

var lexiconShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active lexicon as YAML",
	Long: `Print the active lexicon (built-in tables merged with scoring.lexiconFile)
in the same YAML shape an override file uses. Useful as a starting point
for a custom lexicon.`,
	Args: cobra.NoArgs,
	RunE: runLexiconShow,
}

var lexiconValidateCmd = &cobra.Command{
	Use:   "validate [lexicon-file]",
	Short: "Validate a lexicon override file",
	Long:  `Validate a lexicon override file. Without an argument the configured scoring.lexiconFile is checked.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLexiconValidate,
}

var lexiconOutput string

func init() {
	lexiconShowCmd.Flags().StringVarP(&lexiconOutput, "output", "o", "", "Output file path (default: stdout)")
	lexiconCmd.AddCommand(lexiconShowCmd)
	lexiconCmd.AddCommand(lexiconValidateCmd)
}

func runLexiconShow(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromContext(cmd.Context())
	if err != nil {
		return err
	}

	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}
	data, err := scorer.Lexicon().YAML()
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidFormat, "failed to render lexicon", err)
	}

	if lexiconOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	fp := common.NewFileProcessor(logger, 0)
	if err := fp.ValidateOutputFile(lexiconOutput); err != nil {
		return err
	}
	return fp.WriteFile(lexiconOutput, string(data))
}

func runLexiconValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := runtimeFromContext(cmd.Context())
	if err != nil {
		return err
	}

	file := cfg.Scoring.LexiconFile
	if len(args) == 1 {
		file = args[0]
	}
	if file == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"no lexicon file given and scoring.lexiconFile is not set", nil)
	}

	lex, err := ats.LoadLexiconFile(file)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d industries, %d roles, %d action verb groups\n",
		file, len(lex.Industries), len(lex.Roles), len(lex.ActionVerbs))
	return nil
}
