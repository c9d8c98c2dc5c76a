package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionManager issues and validates voting-session tokens.
// A token is a signed HS256 JWT binding (voter, election, position) with a
// short expiry. The client treats it as opaque; the server additionally keeps
// a SHA-256 hash of the signed token so a session can be consumed exactly once.
type SessionManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewSessionManager creates a new session manager.
// secret must be at least 32 characters for HS256 security.
func NewSessionManager(secret string, issuer string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// SessionClaims are the parsed contents of a voting-session token.
type SessionClaims struct {
	VoterID    uuid.UUID
	ElectionID uuid.UUID
	PositionID uuid.UUID
	ExpiresAt  time.Time
}

// sessionClaims extends standard JWT claims with the election binding.
type sessionClaims struct {
	jwt.RegisteredClaims
	ElectionID string `json:"eid"`
	PositionID string `json:"pid"`
}

// IssueToken creates a signed session token for the triple. Returns the raw
// token (for the client), its SHA-256 hash (for storage), and the expiry.
func (m *SessionManager) IssueToken(voterID, electionID, positionID uuid.UUID) (raw string, hash string, expiresAt time.Time, err error) {
	now := time.Now()
	expiresAt = now.Add(m.ttl)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   voterID.String(),
			Issuer:    m.issuer,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		ElectionID: electionID.String(),
		PositionID: positionID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err = token.SignedString(m.secret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}

	return raw, HashToken(raw), expiresAt, nil
}

// ValidateToken parses and validates a session token's signature, issuer, and
// expiry, and returns the bound claims. Storage-level checks (session row
// exists, not consumed) are the caller's responsibility.
func (m *SessionManager) ValidateToken(tokenString string) (SessionClaims, error) {
	if tokenString == "" {
		return SessionClaims{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return SessionClaims{}, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return SessionClaims{}, fmt.Errorf("invalid session claims")
	}
	if claims.Issuer != m.issuer {
		return SessionClaims{}, fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}

	voterID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("invalid subject UUID: %w", err)
	}
	electionID, err := uuid.Parse(claims.ElectionID)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("invalid election UUID: %w", err)
	}
	positionID, err := uuid.Parse(claims.PositionID)
	if err != nil {
		return SessionClaims{}, fmt.Errorf("invalid position UUID: %w", err)
	}

	return SessionClaims{
		VoterID:    voterID,
		ElectionID: electionID,
		PositionID: positionID,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

// HashToken computes the SHA-256 hash of a token and returns it as a hex
// string. Raw tokens are never stored; only this hash is.
func HashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
