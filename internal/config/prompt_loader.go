package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles replaces inline prompts with file contents where a
// file path is configured
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	loaded := 0
	for _, target := range c.promptTargets() {
		if target.file == "" {
			continue
		}
		content, err := loadPromptFromFile(target.file, target.kind, target.scope)
		if err != nil {
			return err
		}
		*target.dest = content
		loaded++
	}

	if loaded == 0 {
		log.Println("[CONFIG] No custom prompt files configured - using inline or built-in prompts")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded from files: %d", loaded)
	}
	return nil
}

type promptTarget struct {
	scope string
	kind  string
	file  string
	dest  *string
}

func (c *Config) promptTargets() []promptTarget {
	return []promptTarget{
		{"global", "system", c.AI.CustomPrompts.SystemPromptFile, &c.AI.CustomPrompts.SystemPrompt},
		{"global", "user", c.AI.CustomPrompts.UserPromptFile, &c.AI.CustomPrompts.UserPrompt},
		{"coach", "system", c.AI.Coach.CustomPrompts.SystemPromptFile, &c.AI.Coach.CustomPrompts.SystemPrompt},
		{"coach", "user", c.AI.Coach.CustomPrompts.UserPromptFile, &c.AI.Coach.CustomPrompts.UserPrompt},
	}
}

// loadPromptFromFile reads and trims a prompt file; empty files are rejected
func loadPromptFromFile(filePath, kind, scope string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", scope, kind, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %s prompt file not found: %s", scope, kind, absPath)
		}
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", scope, kind, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", scope, kind, absPath)
	}

	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		scope, kind, absPath, len(trimmed))

	return trimmed, nil
}

// validatePromptFiles reports every missing prompt file at once
func (c *Config) validatePromptFiles() error {
	var problems []string

	for _, target := range c.promptTargets() {
		if target.file == "" {
			continue
		}
		absPath, err := filepath.Abs(target.file)
		if err != nil {
			problems = append(problems, fmt.Sprintf("invalid path for %s %s prompt: %s", target.scope, target.kind, target.file))
			continue
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("%s %s prompt file not found: %s", target.scope, target.kind, absPath))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(problems, "\n"))
	}
	return nil
}
