// Package identity collapses token parsing and profile lookup into one
// authoritative snapshot, so no caller re-implements the fallback chain.
package identity

import (
	"errors"
	"log"
	"time"

	"civicpulse/backend/internal/models"
	"civicpulse/backend/internal/storage"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Identity is the resolved snapshot for one request. The zero value is
// not used; Anonymous() is.
type Identity struct {
	UserID     string
	Role       models.Role
	Department *string
	Email      string
	FullName   string
}

// Anonymous returns the snapshot used when no credential resolves.
// Anonymous submissions are allowed; anonymous votes and transitions
// are not.
func Anonymous() *Identity {
	return &Identity{Role: models.RoleCitizen}
}

// IsAuthenticated reports whether the snapshot carries a real user.
func (i *Identity) IsAuthenticated() bool {
	return i != nil && i.UserID != ""
}

// IsOfficer reports whether the snapshot may drive status transitions.
func (i *Identity) IsOfficer() bool {
	return i.IsAuthenticated() && i.Role == models.RoleOfficer
}

// Resolver turns bearer tokens into identity snapshots.
type Resolver struct {
	Secret  []byte
	Storage storage.Storage
}

func NewResolver(secret string, s storage.Storage) *Resolver {
	return &Resolver{Secret: []byte(secret), Storage: s}
}

// Resolve is best-effort: any parse or lookup failure yields the
// anonymous snapshot rather than an error. A valid token whose profile
// is missing still authenticates as a citizen.
func (r *Resolver) Resolve(tokenString string) *Identity {
	if tokenString == "" {
		return Anonymous()
	}

	userID, err := r.parseToken(tokenString)
	if err != nil {
		log.Printf("INFO: Identity token rejected: %v", err)
		return Anonymous()
	}

	ident := &Identity{UserID: userID, Role: models.RoleCitizen}

	profile, err := r.Storage.GetProfile(userID)
	if err != nil {
		if !errors.Is(err, storage.ErrRecordNotFound) {
			log.Printf("WARNING: Profile lookup failed for %s: %v", userID, err)
		}
		return ident
	}

	ident.Role = profile.Role
	ident.Department = profile.Department
	ident.Email = profile.Email
	ident.FullName = profile.FullName
	return ident
}

func (r *Resolver) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return r.Secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("missing user_id claim")
	}
	return userID, nil
}

// IssueToken mints a 72h HS256 token for a user. Used by the dev login
// route and tests; production tokens come from the auth system.
func IssueToken(secret []byte, userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
		"iss":     "civicpulse-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
