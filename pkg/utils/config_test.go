package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.Empty(t, config.Get("anything"))
	})

	t.Run("with values", func(t *testing.T) {
		values := map[string]string{
			"key1": "value1",
			"key2": "value2",
		}
		config := NewConfig(values)

		assert.Equal(t, "value1", config.Get("key1"))
		assert.Equal(t, "value2", config.Get("key2"))

		// Verify it's a copy, not a reference
		values["key1"] = "modified"
		assert.NotEqual(t, "modified", config.Get("key1"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	envContent := "TEST_KEY1=test_value1\nTEST_KEY2=test_value2\n"
	tmpFile, err := os.CreateTemp("", "test_env_*.env")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(envContent)
	require.NoError(t, err)
	tmpFile.Close()

	config := NewConfigFromEnv(tmpFile.Name())
	require.NotNil(t, config)
}

func TestConfigGetWithDefault(t *testing.T) {
	config := NewConfig(map[string]string{
		"existing": "value",
		"empty":    "",
	})

	t.Run("existing key", func(t *testing.T) {
		assert.Equal(t, "value", config.GetWithDefault("existing", "default"))
	})

	t.Run("non-existing key", func(t *testing.T) {
		assert.Equal(t, "default", config.GetWithDefault("missing", "default"))
	})

	t.Run("empty value key", func(t *testing.T) {
		assert.Equal(t, "default", config.GetWithDefault("empty", "default"))
	})
}

func TestConfigGetInt(t *testing.T) {
	config := NewConfig(map[string]string{
		"number":  "42",
		"invalid": "nope",
	})

	assert.Equal(t, 42, config.GetInt("number"))
	assert.Equal(t, 0, config.GetInt("invalid"))
	assert.Equal(t, 0, config.GetInt("missing"))

	assert.Equal(t, 42, config.GetIntWithDefault("number", 7))
	assert.Equal(t, 7, config.GetIntWithDefault("missing", 7))
}

func TestConfigGetMap(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  map[string]string
	}{
		{
			name:  "single pair",
			value: "key123:alice",
			want:  map[string]string{"key123": "alice"},
		},
		{
			name:  "multiple pairs with spaces",
			value: "key1:alice, key2:bob",
			want:  map[string]string{"key1": "alice", "key2": "bob"},
		},
		{
			name:  "malformed entries skipped",
			value: "key1:alice,broken,:novalue,nokey:",
			want:  map[string]string{"key1": "alice"},
		},
		{
			name:  "empty value",
			value: "",
			want:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewConfig(map[string]string{"PAIRS": tt.value})
			assert.Equal(t, tt.want, config.GetMap("PAIRS"))
		})
	}
}

func TestConfigSetAndHas(t *testing.T) {
	config := NewConfig(nil)

	assert.False(t, config.Has("key"))
	config.Set("key", "value")
	assert.True(t, config.Has("key"))
	assert.Equal(t, "value", config.Get("key"))
}
