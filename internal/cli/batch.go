package cli

import (
	"fmt"

	"hireall/internal/common"
	"hireall/internal/errors"
	"hireall/internal/utils"

	"github.com/spf13/cobra"
)

var batchCmd = &cobra.Command{
	Use:   "batch [resume-file|directory]...",
	Short: "Score many resumes concurrently",
	Long: `Score several resume files with the enhanced ATS engine and print a
single report with one line per file and the average overall score.

Directories are expanded to the .json, .yaml and .yml files they contain.
Files that cannot be read or decoded are reported individually; the command
exits non-zero when any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

var (
	batchOutput      outputFlags
	batchOptions     scoreFlags
	batchConcurrency int
)

func init() {
	batchOutput.register(batchCmd)
	batchOptions.register(batchCmd)
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "Files scored in parallel (default from config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := runtimeFromContext(cmd.Context())
	if err != nil {
		return err
	}

	cmdConfig, err := batchOutput.commandConfig(cfg, batchOptions.strict)
	if err != nil {
		return err
	}
	opts, err := batchOptions.options(cfg)
	if err != nil {
		return err
	}

	files, err := utils.ExpandResumePaths(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.NewValidationError(errors.ErrCodeFileNotFound, "no resume files found", nil).
			WithContext("paths", args)
	}

	scorer, err := newScorer(cfg)
	if err != nil {
		return err
	}

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Scoring.BatchConcurrency
	}

	outputHandler := common.NewOutputHandler(logger)
	fileProcessor := common.NewFileProcessor(logger, cmdConfig.MaxFileSize)
	if err := fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	logger.Info("Starting batch scoring",
		"files", len(files),
		"concurrency", concurrency,
		"industry", opts.Industry,
		"target_role", opts.TargetRole)

	report, err := common.NewBatchScorer(scorer, fileProcessor, logger, nil).ScoreFiles(cmd.Context(), files, common.BatchOptions{
		Concurrency: concurrency,
		Strict:      cmdConfig.Strict,
		Score:       opts,
	})
	if err != nil {
		return fmt.Errorf("batch scoring interrupted: %w", err)
	}

	if err := outputHandler.HandleOutput(report, cmdConfig); err != nil {
		return err
	}

	if report.Failed > 0 {
		return errors.NewValidationError(errors.ErrCodeBatchPartialFailed,
			fmt.Sprintf("%d of %d resumes could not be scored", report.Failed, len(files)), nil).
			WithContext("batch_id", report.ID)
	}
	return nil
}
