package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/amorty/cafe-admin/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "AmortyCafeAdmin"

type CustomClaims struct {
	Role       models.Role `json:"role"`
	CustomerID string      `json:"customer_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor returns the identity carried by the token.
func (c *CustomClaims) Actor() models.Actor {
	return models.Actor{Role: c.Role, Subject: c.Subject, CustomerID: c.CustomerID}
}

// TokenManager signs and validates HS256 tokens and keeps revoked token ids
// until they would have expired anyway.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	revoked map[string]time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

func (m *TokenManager) GenerateToken(actor models.Actor) (string, error) {
	now := m.now()
	claims := &CustomClaims{
		Role:       actor.Role,
		CustomerID: actor.CustomerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   actor.Subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		ErrorLogger.Printf("Error generating token: %v", err)
		return "", err
	}
	return signed, nil
}

func (m *TokenManager) ParseToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, models.ErrInvalidToken
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok {
		return nil, models.ErrInvalidToken
	}
	if m.IsRevoked(claims.ID) {
		return nil, models.ErrTokenRevoked
	}
	return claims, nil
}

// Revoke blacklists the token until its expiry.
func (m *TokenManager) Revoke(claims *CustomClaims) {
	if claims == nil || claims.ID == "" {
		return
	}
	expiry := m.now().Add(m.ttl)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[claims.ID] = expiry
}

func (m *TokenManager) IsRevoked(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	expiry, ok := m.revoked[id]
	return ok && m.now().Before(expiry)
}

// Cleanup drops revoked ids whose tokens have expired and returns how many
// were removed.
func (m *TokenManager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, expiry := range m.revoked {
		if !now.Before(expiry) {
			delete(m.revoked, id)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every interval until stop is closed.
func (m *TokenManager) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := m.Cleanup(); n > 0 {
					InfoLogger.Printf("Removed %d expired revoked tokens", n)
				}
			case <-stop:
				return
			}
		}
	}()
}

var errEmptySecret = errors.New("jwt secret must not be empty")

// ValidateSecret rejects an empty signing secret.
func ValidateSecret(secret string) error {
	if secret == "" {
		return errEmptySecret
	}
	return nil
}
