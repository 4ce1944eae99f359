package jwt

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// refreshTokenBytes is the entropy of an opaque refresh token.
const refreshTokenBytes = 64

// Claims represents the JWT claims
type Claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a uuid.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// RefreshToken is an opaque random token and its absolute expiry.
type RefreshToken struct {
	Token     string
	ExpiresAt time.Time
}

// Options configures a Provider.
type Options struct {
	Secret          string
	Issuer          string
	Audience        string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Provider issues and parses HS256 access tokens and opaque refresh tokens.
type Provider struct {
	key        []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewProvider creates a token provider.
func NewProvider(opts Options) *Provider {
	return &Provider{
		key:        []byte(opts.Secret),
		issuer:     opts.Issuer,
		audience:   opts.Audience,
		accessTTL:  opts.AccessTokenTTL,
		refreshTTL: opts.RefreshTokenTTL,
		now:        time.Now,
	}
}

// GenerateAccessToken generates a new access token
func (p *Provider) GenerateAccessToken(userID uuid.UUID, email string, roles []string) (string, error) {
	now := p.now()
	claims := Claims{
		Email: email,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(p.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.key)
}

// GenerateRefreshToken generates a new base64 refresh token expiring after
// the configured refresh TTL.
func (p *Provider) GenerateRefreshToken() (RefreshToken, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Token:     base64.StdEncoding.EncodeToString(buf),
		ExpiresAt: p.now().Add(p.refreshTTL),
	}, nil
}

// ValidateAccessToken validates signature, issuer, audience and lifetime.
func (p *Provider) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, p.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}

// ParseExpired validates signature, issuer and audience but ignores the
// lifetime, so a refresh can recover the principal of an expired token.
func (p *Provider) ParseExpired(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, p.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Issuer != p.issuer || !slices.Contains(claims.Audience, p.audience) {
		return nil, ErrTokenInvalid
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (p *Provider) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrTokenInvalid
	}
	return p.key, nil
}
