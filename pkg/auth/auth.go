package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/arnavshah/team-former-api-go/pkg/config"
	"github.com/arnavshah/team-former-api-go/pkg/database"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidToken is returned for a token that parses but is not valid
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidKeyFormat is returned for an API key without a single "." separator
	ErrInvalidKeyFormat = errors.New("invalid key format")
	// ErrInvalidSignature is returned when an API key signature does not match
	ErrInvalidSignature = errors.New("invalid signature")
)

var jwtAlgorithm = jwt.SigningMethodHS256

const tokenTTL = 24 * time.Hour

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Signer issues and verifies admin tokens and HMAC API keys
type Signer struct {
	jwtSecret    []byte
	masterSecret []byte
}

// NewSigner creates a Signer from the configured secrets
func NewSigner(cfg *config.Config) *Signer {
	return &Signer{
		jwtSecret:    []byte(cfg.JWTSecret),
		masterSecret: []byte(cfg.APIMasterSecret),
	}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CreateToken creates a new JWT token for an admin
func (s *Signer) CreateToken(username string) (string, error) {
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken verifies a JWT token
func (s *Signer) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtAlgorithm {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Signer) sign(userID string) string {
	h := hmac.New(sha256.New, s.masterSecret)
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

// GenerateHMACKey creates a signed API key of the form "<userID>.<signature>"
func (s *Signer) GenerateHMACKey(userID string) string {
	return userID + "." + s.sign(userID)
}

// VerifyHMACKey validates an HMAC-signed API key and returns its user ID
func (s *Signer) VerifyHMACKey(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 || parts[0] == "" {
		return "", ErrInvalidKeyFormat
	}

	userID, provided := parts[0], parts[1]
	if !hmac.Equal([]byte(provided), []byte(s.sign(userID))) {
		return "", ErrInvalidSignature
	}
	return userID, nil
}

// KeyPreview masks a key for display, e.g. "usr...9f2a"
func KeyPreview(key string) string {
	if len(key) > 8 {
		return key[:3] + "..." + key[len(key)-4:]
	}
	return "****"
}

// TouchAPIKey stamps the key's last use
func TouchAPIKey(db *gorm.DB, apiKey *database.APIKey) error {
	now := time.Now()
	if err := db.Model(apiKey).Update("last_used", now).Error; err != nil {
		return err
	}
	apiKey.LastUsed = &now
	return nil
}

// EnsureAdminExists creates the configured admin when no admin exists yet.
// It reports whether a user was created.
func EnsureAdminExists(db *gorm.DB, cfg *config.Config) (bool, error) {
	var count int64
	if err := db.Model(&database.MasterUser{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, err
	}

	user := database.MasterUser{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
