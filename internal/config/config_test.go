package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)

	assert.Equal(t, "Automatic", cfg.Strategy)
	assert.False(t, cfg.LightMode)
	assert.Equal(t, "sds_register.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.MaxAttempts)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.AnthropicModel)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-6)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	cfg, err := Load(newFlagSet(t,
		"--strategy", "multi_pass_extraction",
		"--light-mode",
		"--db-path", "/tmp/register.db",
		"--export-path", "/tmp/register.xlsx",
		"--log-level", "debug",
	))
	require.NoError(t, err)

	assert.Equal(t, "multi_pass_extraction", cfg.Strategy)
	assert.True(t, cfg.LightMode)
	assert.Equal(t, "/tmp/register.db", cfg.DBPath)
	assert.Equal(t, "/tmp/register.xlsx", cfg.ExportPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadKeysFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-openai")
	t.Setenv("SDS_ANTHROPIC_API_KEY", "sk-test-anthropic")

	cfg, err := Load(newFlagSet(t))
	require.NoError(t, err)

	assert.Equal(t, "sk-test-openai", cfg.OpenAIKey)
	assert.Equal(t, "sk-test-anthropic", cfg.AnthropicKey)
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	_, err := Load(newFlagSet(t, "--strategy", "bogus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestValidateAcceptsEveryKnownStrategy(t *testing.T) {
	for _, s := range []string{
		"Automatic",
		"Pattern-based",
		"Section-based",
		"direct_extraction",
		"hierarchical_extraction",
		"specialized_extraction",
		"multi_pass_extraction",
	} {
		cfg := Config{Strategy: s, MaxAttempts: 1}
		assert.NoError(t, cfg.Validate(), s)
	}
}
