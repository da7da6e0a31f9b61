package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DialogueProviderGemini = "gemini"
	DialogueProviderOpenAI = "openai"
)

type Config struct {
	Port      string
	ServeName string `mapstructure:"serve_name"`
	Log       LogConfig
	MySQL     MySQLConfig
	Oss       OssConfig
	Dialogue  DialogueConfig
	Speech    SpeechConfig
	Session   SessionConfig
	Avatar    AvatarConfig
}

type LogConfig struct {
	Level int
}

type MySQLConfig struct {
	Dsn string
}

// OssConfig points at the minio bucket that holds generated teacher avatars.
type OssConfig struct {
	EndPoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	BucketName    string `mapstructure:"bucket_name"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type DialogueConfig struct {
	Provider        string
	ApiKey          string        `mapstructure:"api_key"`
	BaseUrl         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens"`
	Temperature     float32       `mapstructure:"temperature"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
}

type SpeechConfig struct {
	Lang      string
	VoiceWait time.Duration `mapstructure:"voice_wait"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type AvatarConfig struct {
	ApiKey           string        `mapstructure:"api_key"`
	BaseUrl          string        `mapstructure:"base_url"`
	Model            string        `mapstructure:"model"`
	Delay            time.Duration `mapstructure:"delay"`
	RateLimitDelay   time.Duration `mapstructure:"rate_limit_delay"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
	Upload           bool          `mapstructure:"upload"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", ":8080")
	v.SetDefault("serve_name", "englishtalk")
	v.SetDefault("log.level", 0)
	v.SetDefault("mysql.dsn", "")
	v.SetDefault("oss.endpoint", "")
	v.SetDefault("oss.access_key", "")
	v.SetDefault("oss.secret_key", "")
	v.SetDefault("oss.bucket_name", "teacher-avatars")
	v.SetDefault("oss.use_ssl", false)
	v.SetDefault("oss.public_base_url", "")
	v.SetDefault("dialogue.provider", DialogueProviderGemini)
	v.SetDefault("dialogue.api_key", "")
	v.SetDefault("dialogue.base_url", "")
	v.SetDefault("dialogue.model", "gemini-2.0-flash")
	v.SetDefault("dialogue.max_output_tokens", 200)
	v.SetDefault("dialogue.temperature", 0.9)
	v.SetDefault("dialogue.max_retries", 2)
	v.SetDefault("dialogue.retry_backoff", 1500*time.Millisecond)
	v.SetDefault("speech.lang", "en-US")
	v.SetDefault("speech.voice_wait", 3*time.Second)
	v.SetDefault("session.idle_ttl", 60*time.Minute)
	v.SetDefault("session.sweep_interval", 5*time.Minute)
	v.SetDefault("avatar.api_key", "")
	v.SetDefault("avatar.base_url", "https://api.replicate.com/v1")
	v.SetDefault("avatar.model", "stability-ai/sdxl")
	v.SetDefault("avatar.delay", 60*time.Second)
	v.SetDefault("avatar.rate_limit_delay", 90*time.Second)
	v.SetDefault("avatar.progress_interval", 10*time.Second)
	v.SetDefault("avatar.upload", false)
}

func NewConfig() *Config {
	c, err := Load(viper.New())
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads .env, config.yml (optional) and ENGLISHTALK_* env overrides into a validated Config.
func Load(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()

	setDefaults(v)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("ENGLISHTALK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("dialogue.api_key", "ENGLISHTALK_DIALOGUE_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("avatar.api_key", "ENGLISHTALK_AVATAR_API_KEY", "REPLICATE_API_TOKEN", "REPLICATE_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	switch c.Dialogue.Provider {
	case DialogueProviderGemini, DialogueProviderOpenAI:
	default:
		return fmt.Errorf("unknown dialogue provider %q", c.Dialogue.Provider)
	}
	if c.Dialogue.MaxRetries < 0 {
		return fmt.Errorf("dialogue.max_retries must be >= 0")
	}
	if c.Dialogue.RetryBackoff <= 0 {
		return fmt.Errorf("dialogue.retry_backoff must be > 0")
	}
	if c.Speech.VoiceWait <= 0 {
		return fmt.Errorf("speech.voice_wait must be > 0")
	}
	if c.Session.IdleTTL <= 0 || c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.idle_ttl and session.sweep_interval must be > 0")
	}
	if c.Avatar.Delay < 0 || c.Avatar.RateLimitDelay < 0 {
		return fmt.Errorf("avatar delays must be >= 0")
	}
	return nil
}
