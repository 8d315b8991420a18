package utils

import (
	"fmt"
	"os"
	"strings"
)

// LoadPrompt reads system prompt instructions from a file path.
// The path must be exact - no fallback searching is performed.
func LoadPrompt(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file %s: %w", filePath, err)
	}

	return strings.TrimSpace(string(content)), nil
}

// LoadPromptWithFallback reads system prompt instructions from a file path,
// returning the fallback string when the file cannot be read
func LoadPromptWithFallback(filePath, fallback string) string {
	if content, err := LoadPrompt(filePath); err == nil {
		return content
	}
	return fallback
}
