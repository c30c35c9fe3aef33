package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/lecturenotes/internal/provider"
)

// setupEnv sets environment variables for the duration of the test. Empty
// values clear the variable, which keeps the developer's shell from leaking
// credentials into assertions.
func setupEnv(t *testing.T, envVars map[string]string) {
	t.Helper()
	for name, value := range envVars {
		t.Setenv(name, value)
		if value == "" {
			require.NoError(t, os.Unsetenv(name))
		}
	}
}

// cleanEnv clears every variable Load reads.
func cleanEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{}
	for key, legacy := range fallbackEnv {
		vars[envName(key)] = ""
		for _, name := range legacy {
			vars[name] = ""
		}
	}
	for _, key := range []string{"server.port", "server.log_level", "providers.timeout", "task.worker_count", "pipeline.parallel"} {
		vars[envName(key)] = ""
	}
	setupEnv(t, vars)
}

func envName(key string) string {
	out := []byte(EnvPrefix + "_")
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '.':
			c = '_'
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cleanEnv(t)

	cfg, err := Load(WithEnvFile(""))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 120*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, "groq", cfg.Transcription.Provider)
	assert.Equal(t, "en", cfg.Transcription.Language)
	assert.Equal(t, "groq", cfg.Generation.Provider)
	assert.Equal(t, 2000, cfg.Generation.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Generation.Temperature, 1e-9)
	assert.Equal(t, 10, cfg.Generation.QuizQuestions)
	assert.Equal(t, 15, cfg.Generation.FlashcardsCount)
	assert.Equal(t, 0, cfg.Generation.NotesWords)
	assert.Equal(t, 25, cfg.Intake.MaxFileSizeMB)
	assert.Equal(t, int64(25*1024*1024), cfg.Intake.MaxFileSizeBytes())
	assert.Equal(t, "output", cfg.Intake.OutputDir)
	assert.NotEmpty(t, cfg.Intake.TempDir)
	assert.Equal(t, 2, cfg.Task.WorkerCount)
	assert.Equal(t, 100, cfg.Task.QueueSize)
	assert.Equal(t, 30*time.Minute, cfg.Task.Timeout)
	assert.False(t, cfg.Pipeline.Parallel)
	assert.Empty(t, cfg.Providers.Groq.APIKey)
}

func TestLoadFromEnv(t *testing.T) {
	cleanEnv(t)
	setupEnv(t, map[string]string{
		"LECTURENOTES_SERVER_PORT":            "9090",
		"LECTURENOTES_SERVER_LOG_LEVEL":       "DEBUG",
		"LECTURENOTES_GENERATION_PROVIDER":    "gemini",
		"LECTURENOTES_GENERATION_MAX_TOKENS":  "512",
		"LECTURENOTES_PROVIDERS_TIMEOUT":      "5s",
		"LECTURENOTES_PROVIDERS_GROQ_API_KEY": "gsk_prefixed",
		"LECTURENOTES_PIPELINE_PARALLEL":      "true",
		"LECTURENOTES_TRANSCRIPTION_LANGUAGE": "fr",
	})

	cfg, err := Load(WithEnvFile(""))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "gemini", cfg.Generation.Provider)
	assert.Equal(t, 512, cfg.Generation.MaxTokens)
	assert.Equal(t, 5*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, "gsk_prefixed", cfg.Providers.Groq.APIKey)
	assert.True(t, cfg.Pipeline.Parallel)
	assert.Equal(t, "fr", cfg.Transcription.Language)
}

func TestLoadLegacyEnvNames(t *testing.T) {
	cleanEnv(t)
	setupEnv(t, map[string]string{
		"OPENAI_API_KEY":   "sk-legacy",
		"GROQ_API_KEY":     "gsk_legacy",
		"GEMINI_API_KEY":   "gemini-legacy",
		"DEFAULT_PROVIDER": "openai",
		"MAX_FILE_SIZE_MB": "50",
	})

	cfg, err := Load(WithEnvFile(""))
	require.NoError(t, err)

	assert.Equal(t, "sk-legacy", cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, "gsk_legacy", cfg.Providers.Groq.APIKey)
	assert.Equal(t, "gemini-legacy", cfg.Providers.Gemini.APIKey)
	assert.Equal(t, "openai", cfg.Generation.Provider)
	assert.Equal(t, "openai", cfg.Transcription.Provider, "DEFAULT_PROVIDER applies to transcription too")
	assert.Equal(t, 50, cfg.Intake.MaxFileSizeMB)
}

func TestLoadPrefixedEnvWinsOverLegacy(t *testing.T) {
	cleanEnv(t)
	setupEnv(t, map[string]string{
		"LECTURENOTES_PROVIDERS_OPENAI_API_KEY": "sk-prefixed",
		"OPENAI_API_KEY":                        "sk-legacy",
		"DEFAULT_PROVIDER":                      "openai",
		"DEFAULT_TRANSCRIPTION_PROVIDER":        "groq",
	})

	cfg, err := Load(WithEnvFile(""))
	require.NoError(t, err)

	assert.Equal(t, "sk-prefixed", cfg.Providers.OpenAI.APIKey)
	assert.Equal(t, "groq", cfg.Transcription.Provider)
	assert.Equal(t, "openai", cfg.Generation.Provider)
}

func TestLoadFromConfigFile(t *testing.T) {
	cleanEnv(t)
	path := writeFile(t, "config.yaml", `
server:
  port: 7000
providers:
  gemini:
    api_key: from-file
    base_url: http://localhost:9999
generation:
  provider: gemini
  quiz_questions: 4
intake:
  max_file_size_mb: 10
task:
  worker_count: 4
`)

	cfg, err := Load(WithConfigFile(path), WithEnvFile(""))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "from-file", cfg.Providers.Gemini.APIKey)
	assert.Equal(t, "http://localhost:9999", cfg.Providers.Gemini.BaseURL)
	assert.Equal(t, "gemini", cfg.Generation.Provider)
	assert.Equal(t, 4, cfg.Generation.QuizQuestions)
	assert.Equal(t, 10, cfg.Intake.MaxFileSizeMB)
	assert.Equal(t, 4, cfg.Task.WorkerCount)
	assert.Equal(t, 2000, cfg.Generation.MaxTokens, "unset keys keep their defaults")
}

func TestLoadEnvOverridesConfigFile(t *testing.T) {
	cleanEnv(t)
	path := writeFile(t, "config.yaml", "server:\n  port: 7000\n")
	setupEnv(t, map[string]string{"LECTURENOTES_SERVER_PORT": "7001"})

	cfg, err := Load(WithConfigFile(path), WithEnvFile(""))
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port)
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	cleanEnv(t)

	_, err := Load(WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")), WithEnvFile(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadEnvFile(t *testing.T) {
	cleanEnv(t)
	envFile := writeFile(t, ".env", "GROQ_API_KEY=gsk_from_dotenv\nLECTURENOTES_GENERATION_TEMPERATURE=0.2\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("GROQ_API_KEY")
		_ = os.Unsetenv("LECTURENOTES_GENERATION_TEMPERATURE")
	})

	cfg, err := Load(WithEnvFile(envFile))
	require.NoError(t, err)

	assert.Equal(t, "gsk_from_dotenv", cfg.Providers.Groq.APIKey)
	assert.InDelta(t, 0.2, cfg.Generation.Temperature, 1e-9)
}

func TestLoadMissingEnvFileIsIgnored(t *testing.T) {
	cleanEnv(t)

	_, err := Load(WithEnvFile(filepath.Join(t.TempDir(), ".env")))
	require.NoError(t, err)
}

func TestLoadFlagOverridesEnv(t *testing.T) {
	cleanEnv(t)
	setupEnv(t, map[string]string{"LECTURENOTES_GENERATION_PROVIDER": "openai"})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("provider", "groq", "")
	fs.Int("questions", 10, "")
	require.NoError(t, fs.Parse([]string{"--provider", "gemini"}))

	cfg, err := Load(
		WithEnvFile(""),
		WithFlag("generation.provider", fs.Lookup("provider")),
		WithFlag("generation.quiz_questions", fs.Lookup("questions")),
	)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Generation.Provider)
	assert.Equal(t, 10, cfg.Generation.QuizQuestions, "unchanged flags do not override defaults")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"invalid port", map[string]string{"LECTURENOTES_SERVER_PORT": "70000"}},
		{"invalid log level", map[string]string{"LECTURENOTES_SERVER_LOG_LEVEL": "verbose"}},
		{"unknown generation provider", map[string]string{"LECTURENOTES_GENERATION_PROVIDER": "anthropic"}},
		{"unknown transcription provider", map[string]string{"LECTURENOTES_TRANSCRIPTION_PROVIDER": "whisper"}},
		{"temperature too high", map[string]string{"LECTURENOTES_GENERATION_TEMPERATURE": "2.5"}},
		{"zero max tokens", map[string]string{"LECTURENOTES_GENERATION_MAX_TOKENS": "0"}},
		{"zero file size", map[string]string{"LECTURENOTES_INTAKE_MAX_FILE_SIZE_MB": "0"}},
		{"zero workers", map[string]string{"LECTURENOTES_TASK_WORKER_COUNT": "0"}},
		{"bad base url", map[string]string{"LECTURENOTES_PROVIDERS_OPENAI_BASE_URL": "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanEnv(t)
			setupEnv(t, tt.env)

			cfg, err := Load(WithEnvFile(""))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), "configuration validation failed")
		})
	}
}

func TestProvidersConfig(t *testing.T) {
	t.Parallel()

	p := ProvidersConfig{
		OpenAI:  Credentials{APIKey: "sk-openai"},
		Groq:    Credentials{APIKey: "gsk_groq", BaseURL: "http://groq.test"},
		Gemini:  Credentials{APIKey: "gemini"},
		Timeout: time.Minute,
	}

	assert.Equal(t, "sk-openai", p.For("openai").APIKey)
	assert.Equal(t, "gsk_groq", p.For(" GROQ ").APIKey)
	assert.Equal(t, "gemini", p.For("gemini").APIKey)
	assert.Equal(t, Credentials{}, p.For("anthropic"))

	cfg := p.ProviderConfig("groq", "llama-3.1-8b-instant", "")
	assert.Equal(t, provider.Config{
		Backend: provider.BackendGroq,
		APIKey:  "gsk_groq",
		Model:   "llama-3.1-8b-instant",
		BaseURL: "http://groq.test",
		Timeout: time.Minute,
	}, cfg)

	override := p.ProviderConfig("Groq", "", "gsk_request")
	assert.Equal(t, "gsk_request", override.APIKey, "a per-call key replaces the configured one")
	assert.Equal(t, provider.BackendGroq, override.Backend)

	unknown := p.ProviderConfig("anthropic", "", "")
	assert.Equal(t, provider.Backend("anthropic"), unknown.Backend)
	assert.Empty(t, unknown.APIKey)
}
