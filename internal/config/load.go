package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "LECTURENOTES"

type loadOptions struct {
	configFile string
	envFile    string
	flags      map[string]*pflag.Flag
}

// Option customizes Load.
type Option func(*loadOptions)

// WithConfigFile reads path instead of searching for config.yaml. The file
// must exist.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// WithEnvFile loads path instead of ./.env. An empty path skips the file.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) {
		o.envFile = path
	}
}

// WithFlag binds a command-line flag to a config key. A flag that was set
// explicitly overrides every other source.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(o *loadOptions) {
		if flag != nil {
			o.flags[key] = flag
		}
	}
}

// Legacy variable names, in precedence order after the prefixed one.
var fallbackEnv = map[string][]string{
	"providers.openai.api_key":    {"OPENAI_API_KEY"},
	"providers.groq.api_key":      {"GROQ_API_KEY"},
	"providers.gemini.api_key":    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"transcription.provider":      {"DEFAULT_TRANSCRIPTION_PROVIDER", "DEFAULT_PROVIDER"},
	"transcription.language":      {"WHISPER_LANGUAGE"},
	"generation.provider":         {"DEFAULT_PROVIDER"},
	"generation.max_tokens":       {"MAX_TOKENS"},
	"generation.temperature":      {"TEMPERATURE"},
	"generation.quiz_questions":   {"DEFAULT_QUIZ_QUESTIONS"},
	"generation.flashcards_count": {"DEFAULT_FLASHCARD_COUNT"},
	"intake.temp_dir":             {"TEMP_DIR"},
	"intake.output_dir":           {"OUTPUT_DIR"},
	"intake.max_file_size_mb":     {"MAX_FILE_SIZE_MB"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("providers.openai.api_key", "")
	v.SetDefault("providers.openai.base_url", "")
	v.SetDefault("providers.groq.api_key", "")
	v.SetDefault("providers.groq.base_url", "")
	v.SetDefault("providers.gemini.api_key", "")
	v.SetDefault("providers.gemini.base_url", "")
	v.SetDefault("providers.timeout", "120s")

	v.SetDefault("transcription.provider", "groq")
	v.SetDefault("transcription.model", "")
	v.SetDefault("transcription.language", "en")

	v.SetDefault("generation.provider", "groq")
	v.SetDefault("generation.model", "")
	v.SetDefault("generation.max_tokens", 2000)
	v.SetDefault("generation.temperature", 0.7)
	v.SetDefault("generation.quiz_questions", 10)
	v.SetDefault("generation.flashcards_count", 15)
	v.SetDefault("generation.notes_words", 0)

	v.SetDefault("prompts.path", "")

	v.SetDefault("intake.temp_dir", filepath.Join(os.TempDir(), "lecturenotes"))
	v.SetDefault("intake.output_dir", "output")
	v.SetDefault("intake.max_file_size_mb", 25)

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.timeout", "30m")

	v.SetDefault("pipeline.parallel", false)
}

// Load configuration from defaults, config.yaml, .env, the environment and
// bound flags, in increasing order of precedence.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{envFile: ".env", flags: make(map[string]*pflag.Flag)}
	for _, opt := range opts {
		opt(&o)
	}

	// godotenv never overrides variables that are already set.
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", o.envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if o.configFile != "" {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range fallbackEnv {
		names := append([]string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, legacy...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", names[0], err)
		}
	}

	for key, flag := range o.flags {
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("error binding flag %s: %w", flag.Name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.Transcription.Provider = strings.ToLower(strings.TrimSpace(cfg.Transcription.Provider))
	cfg.Generation.Provider = strings.ToLower(strings.TrimSpace(cfg.Generation.Provider))
	cfg.Server.LogLevel = strings.ToLower(cfg.Server.LogLevel)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
