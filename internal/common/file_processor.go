package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"hireall/internal/errors"
	"hireall/internal/resume"
	"hireall/internal/types"
	"hireall/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
}

// NewFileProcessor creates a file processor. A maxFileSize of zero disables the size check.
func NewFileProcessor(logger *errors.Logger, maxFileSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, maxFileSize: maxFileSize}
}

// ReadFile reads content from a file, refusing files over the size limit
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil && fp.logger != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	var reader io.Reader = file
	if fp.maxFileSize > 0 {
		reader = io.LimitReader(file, fp.maxFileSize+1)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	if fp.maxFileSize > 0 && int64(len(content)) > fp.maxFileSize {
		return nil, errors.NewIOError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File %s exceeds the %s limit", filename, utils.FormatFileSize(fp.maxFileSize)), nil).
			WithContext("file", filename)
	}

	return content, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ReadResume validates, reads and decodes a resume file. The decoder is
// chosen from the file extension; strict runs schema validation first.
func (fp *FileProcessor) ReadResume(filename string, strict bool) (*types.ResumeData, error) {
	format, err := resume.FormatFromPath(filename)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("File not found: %s", filename), err)
	}
	if err := utils.ValidateInputFile(filename, 0); err != nil {
		return nil, errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}

	content, err := fp.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	data, err := resume.Parse(content, format, resume.Options{Strict: strict})
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return nil, appErr.WithContext("file", filename)
		}
		return nil, err
	}

	if fp.logger != nil {
		fp.logger.Debug("Resume loaded", "file", filename, "format", string(format), "bytes", len(content))
	}
	return data, nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
