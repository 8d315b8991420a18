package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrompt(t *testing.T) {
	tempDir := t.TempDir()

	// Test case 1: Load from an exact path
	testContent := "You are a study assistant.\nProvide clear and concise answers."
	testFile := filepath.Join(tempDir, "system-prompt.txt")
	err := os.WriteFile(testFile, []byte(testContent), 0644)
	require.NoError(t, err)

	content, err := LoadPrompt(testFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, content)

	// Test case 2: Surrounding whitespace is trimmed
	testFile2 := filepath.Join(tempDir, "padded-prompt.md")
	err = os.WriteFile(testFile2, []byte("\n\n# Instructions\n\nBe concise.\n\n"), 0644)
	require.NoError(t, err)

	content, err = LoadPrompt(testFile2)
	require.NoError(t, err)
	assert.Equal(t, "# Instructions\n\nBe concise.", content)

	// Test case 3: File not found
	_, err = LoadPrompt(filepath.Join(tempDir, "nonexistent-file.txt"))
	assert.Error(t, err)
}

func TestLoadPromptWithFallback(t *testing.T) {
	tempDir := t.TempDir()
	fallbackContent := "This is a fallback prompt"

	// Test case 1: File exists
	testContent := "Actual prompt content"
	testFile := filepath.Join(tempDir, "system-prompt.txt")
	err := os.WriteFile(testFile, []byte(testContent), 0644)
	require.NoError(t, err)

	content := LoadPromptWithFallback(testFile, fallbackContent)
	assert.Equal(t, testContent, content)

	// Test case 2: File doesn't exist, use fallback
	content = LoadPromptWithFallback(filepath.Join(tempDir, "nonexistent-file.txt"), fallbackContent)
	assert.Equal(t, fallbackContent, content)

	// Test case 3: Empty path always falls back
	content = LoadPromptWithFallback("", fallbackContent)
	assert.Equal(t, fallbackContent, content)
}
