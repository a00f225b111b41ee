package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTTL is how long an issued session token remains valid.
const SessionTTL = 7 * 24 * time.Hour

const (
	issuer   = "postfeed-api"
	audience = "postfeed-client"
)

// ErrInvalidSession is returned for any token validation failure.
// Missing, malformed, expired and badly-signed tokens are deliberately
// indistinguishable so callers cannot learn which check failed.
var ErrInvalidSession = errors.New("invalid or expired session")

// Identity is the minimal identity embedded in a session token.
type Identity struct {
	UserID   uint
	Username string
}

// IssueSession produces a signed HS256 token embedding the identity,
// valid for SessionTTL. The signing secret must be non-empty.
func IssueSession(identity Identity, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("session signing secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(identity.UserID), 10),
		"username": identity.Username,
		"iss":      issuer,
		"aud":      audience,
		"exp":      now.Add(SessionTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateSession checks signature and expiry and recovers the identity.
// Every failure mode is reported as ErrInvalidSession.
func ValidateSession(tokenString, secret string) (Identity, error) {
	if tokenString == "" || secret == "" {
		return Identity{}, ErrInvalidSession
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidSession
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Identity{}, ErrInvalidSession
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return Identity{}, ErrInvalidSession
	}

	username, _ := claims["username"].(string)

	return Identity{UserID: uint(userID), Username: username}, nil
}

// generateJTI creates a unique token ID to prevent replay.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
