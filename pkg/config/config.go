package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_from can contain both "123" and 123.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	Data      DataConfig      `json:"data"`
	Channels  ChannelsConfig  `json:"channels"`
	Providers ProvidersConfig `json:"providers"`
	Voice     VoiceConfig     `json:"voice"`
	Logging   LoggingConfig   `json:"logging"`
}

type DataConfig struct {
	// Path to the timetable dataset (.json, .csv, .yaml). Empty loads a
	// built-in sample.
	Path       string `json:"path" env:"CHETNA_DATA_PATH"`
	Complaints string `json:"complaints" env:"CHETNA_DATA_COMPLAINTS"`
}

type ChannelsConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

type TelegramConfig struct {
	Enabled   bool                `json:"enabled" env:"CHETNA_CHANNELS_TELEGRAM_ENABLED"`
	Token     string              `json:"token" env:"CHETNA_CHANNELS_TELEGRAM_TOKEN"`
	AllowFrom FlexibleStringSlice `json:"allow_from" env:"CHETNA_CHANNELS_TELEGRAM_ALLOW_FROM"`
}

type ProvidersConfig struct {
	OpenAI    ProviderConfig `json:"openai"`
	Anthropic ProviderConfig `json:"anthropic"`
}

type ProviderConfig struct {
	APIKey  string `json:"api_key"`
	APIBase string `json:"api_base"`
	Model   string `json:"model"`
}

type VoiceConfig struct {
	Enabled    bool   `json:"enabled" env:"CHETNA_VOICE_ENABLED"`
	TTSCommand string `json:"tts_command" env:"CHETNA_VOICE_TTS_COMMAND"`
	STTCommand string `json:"stt_command" env:"CHETNA_VOICE_STT_COMMAND"`
}

type LoggingConfig struct {
	FileEnabled bool   `json:"file_enabled" env:"CHETNA_LOGGING_FILE_ENABLED"`
	FilePath    string `json:"file_path" env:"CHETNA_LOGGING_FILE_PATH"`
	ChatHistory string `json:"chat_history" env:"CHETNA_LOGGING_CHAT_HISTORY"`
}

func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path:       "",
			Complaints: "logs/complaints.json",
		},
		Channels: ChannelsConfig{
			Telegram: TelegramConfig{
				Enabled:   false,
				Token:     "",
				AllowFrom: FlexibleStringSlice{},
			},
		},
		Providers: ProvidersConfig{
			OpenAI:    ProviderConfig{},
			Anthropic: ProviderConfig{},
		},
		Voice: VoiceConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			FileEnabled: true,
			FilePath:    "logs/chetna.log",
			ChatHistory: "logs/chetna_chat_history.txt",
		},
	}
}

// LoadConfig reads the JSON config at path, then applies CHETNA_* env
// overrides. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	_ = env.Parse(cfg)

	// API keys come from the environment, never the config file on disk
	// unless explicitly written there.
	if v := strings.TrimSpace(os.Getenv("CHETNA_PROVIDERS_OPENAI_API_KEY")); v != "" {
		cfg.Providers.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("CHETNA_PROVIDERS_ANTHROPIC_API_KEY")); v != "" {
		cfg.Providers.Anthropic.APIKey = v
	}

	cfg.Providers.OpenAI.APIKey = resolveEnvRef(cfg.Providers.OpenAI.APIKey)
	cfg.Providers.OpenAI.APIBase = resolveEnvRef(cfg.Providers.OpenAI.APIBase)
	cfg.Providers.Anthropic.APIKey = resolveEnvRef(cfg.Providers.Anthropic.APIKey)
	cfg.Providers.Anthropic.APIBase = resolveEnvRef(cfg.Providers.Anthropic.APIBase)
}

// resolveEnvRef expands "$NAME" / "${NAME}" values against the
// environment, leaving plain strings untouched.
func resolveEnvRef(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return v
	}
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		key := strings.TrimSpace(s[2 : len(s)-1])
		if key == "" {
			return v
		}
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return v
	}
	if strings.HasPrefix(s, "$") && len(s) > 1 {
		key := strings.TrimSpace(s[1:])
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
	}
	return v
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
