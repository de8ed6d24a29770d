package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/railstation/train-station-backend/internal/models"
)

// RefreshTokenRepository handles refresh token database operations
type RefreshTokenRepository struct {
	db DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// hashToken creates a SHA-256 hash of the token for storage
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Store persists a refresh token hash with the client metadata
// captured at login. Empty metadata fields are stored as NULL.
func (r *RefreshTokenRepository) Store(
	userID uuid.UUID,
	token string,
	deviceType, userAgent, ipAddress string,
	expiresAt time.Time,
) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, device_type, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var deviceTypeVal, userAgentVal, ipVal interface{}
	if deviceType != "" {
		deviceTypeVal = deviceType
	}
	if userAgent != "" {
		userAgentVal = userAgent
	}
	if ipAddress != "" {
		ipVal = ipAddress
	}

	_, err := r.db.Exec(query, userID, hashToken(token), deviceTypeVal, userAgentVal, ipVal, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}

	return nil
}

// Get retrieves a refresh token by its hash. A missing token is
// returned as (nil, nil).
func (r *RefreshTokenRepository) Get(token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	query := `
		SELECT id, user_id, token_hash, device_type, user_agent, ip_address,
		       created_at, expires_at, revoked, revoked_at
		FROM refresh_tokens
		WHERE token_hash = $1
	`

	err := r.db.Get(&refreshToken, query, hashToken(token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	return &refreshToken, nil
}

// IsUsable reports whether the token exists, is not revoked and has
// not expired.
func (r *RefreshTokenRepository) IsUsable(token string) (bool, error) {
	refreshToken, err := r.Get(token)
	if err != nil {
		return false, err
	}
	if refreshToken == nil || refreshToken.Revoked {
		return false, nil
	}
	return time.Now().Before(refreshToken.ExpiresAt), nil
}

// Revoke marks a refresh token as revoked
func (r *RefreshTokenRepository) Revoke(token string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, revoked_at = NOW()
		WHERE token_hash = $1 AND NOT revoked
	`

	if _, err := r.db.Exec(query, hashToken(token)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return nil
}

// RevokeAllForUser revokes every active token of a user
func (r *RefreshTokenRepository) RevokeAllForUser(userID uuid.UUID) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, revoked_at = NOW()
		WHERE user_id = $1 AND NOT revoked
	`

	if _, err := r.db.Exec(query, userID); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}

	return nil
}
