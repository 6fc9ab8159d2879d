package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Storage StorageConfig     `yaml:"storage"`
	Engines EngineConfig      `yaml:"engines"`
	Mail    MailConfig        `yaml:"mail"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Engines.Validate(); err != nil {
		return err
	}
	if err := c.Mail.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StorageConfig holds transient upload storage and SQLite configuration.
type StorageConfig struct {
	UploadDir        string `yaml:"upload_dir"`
	SQLitePath       string `yaml:"sqlite_path"`
	UploadTTLSeconds int    `yaml:"upload_ttl_seconds"`
}

// UploadTTL returns how long an orphaned upload may linger before the
// sweeper removes it.
func (c *StorageConfig) UploadTTL() time.Duration {
	return time.Duration(c.UploadTTLSeconds) * time.Second
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.UploadDir, validation.Required),
		validation.Field(&c.SQLitePath, validation.Required),
	)
}

// EngineConfig holds the external engine executables and invocation policy.
//
// Transcriber is invoked with an audio file path as its sole argument;
// Summarizer with raw text. Both must print their result on stdout and exit
// zero on success.
type EngineConfig struct {
	Transcriber    string `yaml:"transcriber"`
	Summarizer     string `yaml:"summarizer"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the wall-clock deadline for one engine invocation.
func (c *EngineConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the engine configuration.
func (c *EngineConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Transcriber, validation.Required),
		validation.Field(&c.Summarizer, validation.Required),
	)
}

// MailConfig holds SMTP notification configuration.
//
// When Enabled is false the notifier is a no-op; pipeline behaviour is
// otherwise identical.
type MailConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Validate validates the mail configuration.
func (c *MailConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.From, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Storage: StorageConfig{
			UploadDir:        "./uploads",
			SQLitePath:       "./voxnote.db",
			UploadTTLSeconds: int(time.Hour / time.Second),
		},
		Engines: EngineConfig{
			Transcriber:    "./engines/transcribe",
			Summarizer:     "./engines/summarize",
			TimeoutSeconds: int(5 * time.Minute / time.Second),
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
