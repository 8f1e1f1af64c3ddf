package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront-api/internal/model"
)

var (
	// ErrExpired means the token was valid but its expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalid means the signature does not verify (tampering or wrong secret).
	ErrInvalid = errors.New("token invalid")
	// ErrMalformed means the string is not a parseable token at all.
	ErrMalformed = errors.New("token malformed")
)

// Claims carried by every issued token. IP is optional: tokens issued
// without it skip IP binding on verification.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleID   int64  `json:"roleId"`
	IP       string `json:"ip,omitempty"`
}

// Issuer signs and verifies identity tokens with a process-wide symmetric
// secret. It holds no mutable state and is safe for concurrent use.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the user. clientIP may be empty, in which case the
// token carries no IP binding.
func (i *Issuer) Issue(user model.User, clientIP string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RoleID:   user.RoleID,
		IP:       clientIP,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		default:
			return nil, ErrInvalid
		}
	}

	if !parsed.Valid || claims.UserID == 0 {
		return nil, ErrInvalid
	}

	return claims, nil
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}
