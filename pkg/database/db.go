package database

import (
	"fmt"
	"time"

	"github.com/arnavshah/team-former-api-go/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
	RevokedAt  *time.Time `json:"revoked_at"`
}

// Revoked reports whether the key has been revoked
func (k *APIKey) Revoked() bool {
	return k.RevokedAt != nil
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID                uint   `gorm:"primaryKey" json:"id"`
	KeyID             uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date              string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount      int    `gorm:"default:0" json:"request_count"`
	TotalParticipants int    `gorm:"default:0" json:"total_participants"`
	TotalTeams        int    `gorm:"default:0" json:"total_teams"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AllocationRun records one team formation run
type AllocationRun struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	KeyID        uint      `gorm:"index" json:"key_id"`
	TeamSize     int       `json:"team_size"`
	Participants int       `json:"participants"`
	Teams        int       `json:"teams"`
	ShortTeams   int       `json:"short_teams"`
	Unplaced     int       `json:"unplaced"`
	Rounds       int       `json:"rounds"`
	FillScore    float64   `json:"fill_score"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open connects to Postgres when DatabaseURL is set, otherwise to SQLite at DataPath
func Open(cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if cfg.DatabaseURL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseURL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.DataPath), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &AllocationRun{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
