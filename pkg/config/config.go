package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/arnavshah/team-former-api-go/pkg/allocator"
	"github.com/joho/godotenv"
)

var (
	// ErrInvalidTeamSize is returned when TEAM_SIZE is not positive
	ErrInvalidTeamSize = errors.New("TEAM_SIZE must be greater than zero")
	// ErrMissingSecret is returned when a signing secret the server needs is empty
	ErrMissingSecret = errors.New("missing secret")
)

// DefaultTeamSize is the historical team size for the event
const DefaultTeamSize = 5

// Config holds the application settings read from the environment
type Config struct {
	TeamSize  int
	MaxRounds int
	Port      string

	DatabaseURL string
	DataPath    string

	JWTSecret       string
	APIMasterSecret string
	AdminUsername   string
	AdminPassword   string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// LoadEnvFile loads the first .env found in the working directory or its parents.
// A missing file is not an error.
func LoadEnvFile() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads the configuration from the environment after loading any .env file
func Load() (*Config, error) {
	LoadEnvFile()
	return FromEnv()
}

// FromEnv reads the configuration from the environment only
func FromEnv() (*Config, error) {
	teamSize, err := intEnv("TEAM_SIZE", DefaultTeamSize)
	if err != nil {
		return nil, err
	}
	if teamSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTeamSize, teamSize)
	}

	maxRounds, err := intEnv("MAX_ROUNDS", allocator.DefaultMaxRounds)
	if err != nil {
		return nil, err
	}

	smtpPort, err := intEnv("SMTP_PORT", 465)
	if err != nil {
		return nil, err
	}

	return &Config{
		TeamSize:        teamSize,
		MaxRounds:       maxRounds,
		Port:            stringEnv("PORT", "8000"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DataPath:        stringEnv("DATA_PATH", "team_former.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		APIMasterSecret: os.Getenv("API_MASTER_SECRET"),
		AdminUsername:   stringEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   stringEnv("ADMIN_PASSWORD", "admin123"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPPort:        smtpPort,
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),
		SMTPFrom:        os.Getenv("SMTP_FROM"),
	}, nil
}

// RequireSecrets checks the secrets that sign admin tokens and API keys.
func (c *Config) RequireSecrets() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET", ErrMissingSecret)
	}
	if c.APIMasterSecret == "" {
		return fmt.Errorf("%w: API_MASTER_SECRET", ErrMissingSecret)
	}
	return nil
}

// MailEnabled reports whether enough SMTP settings are present to send mail
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

func stringEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}
