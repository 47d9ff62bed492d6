package common

import (
	"context"
	"fmt"
	"os"
	"time"

	"hireall/internal/ai"
	"hireall/internal/errors"
	"hireall/internal/types"
)

// ResumeOperationFunc is any operation over one decoded resume. Token usage is
// nil for the deterministic scorers.
type ResumeOperationFunc[Output any] func(context.Context, *types.ResumeData) (Output, *ai.TokenUsage, error)

// LogDetailsFunc logs the start of an operation.
type LogDetailsFunc func(filename string, cfg CommandConfig)

// RunResumeCommand reads one resume file, runs the operation and writes the
// formatted result.
func RunResumeCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	filename string,
	operation ResumeOperationFunc[Output],
	logDetails LogDetailsFunc,
) error {
	return runResumeCommand(ctx, logger, cmdConfig, filename, operation, logDetails, NewOutputHandler(logger))
}

func runResumeCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	filename string,
	operation ResumeOperationFunc[Output],
	logDetails LogDetailsFunc,
	outputHandler *OutputHandler,
) error {
	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)

	// Fail on a bad output path before doing any work
	if err := fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return err
	}

	data, err := fileProcessor.ReadResume(filename, cmdConfig.Strict)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(filename, cmdConfig)
	}

	start := time.Now()
	result, tokenUsage, err := operation(ctx, data)
	if err != nil {
		return err
	}
	if logger != nil {
		logger.Debug("Operation completed", "file", filename, "duration", time.Since(start))
	}

	if tokenUsage != nil {
		if logger != nil {
			logger.Info("AI token usage", "input_tokens", tokenUsage.InputTokens, "output_tokens", tokenUsage.OutputTokens, "total_tokens", tokenUsage.TotalTokens)
		} else {
			fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n", tokenUsage.InputTokens, tokenUsage.OutputTokens, tokenUsage.TotalTokens)
		}
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
