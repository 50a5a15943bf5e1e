package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ArthurDelaporte/OnlyFeed-Blog/internal/config"
)

// CookieName holds the session token.
const CookieName = "session"

// LoginPath is where LoginRequired sends anonymous visitors.
const LoginPath = "/auth/login/"

var ErrInvalidToken = errors.New("invalid session token")

var (
	mu       sync.RWMutex
	settings = config.Default().Auth
)

// Configure replaces the signing secret, token lifetime and cookie flags.
func Configure(cfg config.Auth) {
	mu.Lock()
	settings = cfg
	mu.Unlock()
}

func current() config.Auth {
	mu.RLock()
	defer mu.RUnlock()
	return settings
}

// TokenTTL is how long issued tokens and their cookie live.
func TokenTTL() time.Duration {
	return time.Duration(current().TokenTTLMinutes) * time.Minute
}

// IssueToken signs an HS256 token whose subject is userID.
func IssueToken(userID uint) (string, error) {
	cfg := current()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL())),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies tokenStr and returns the user ID it was issued for.
func ParseToken(tokenStr string) (uint, error) {
	secret := []byte(current().JWTSecret)

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return uint(id), nil
}

// LoginURL is the login page with next as return path. Slashes are kept
// readable: LoginURL("/new/") is "/auth/login/?next=/new/".
func LoginURL(next string) string {
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// SafeNext returns next when it is a local path and "/" otherwise.
func SafeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	return next
}
