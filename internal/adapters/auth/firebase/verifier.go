package firebase

import (
	"context"
	"errors"
	"strings"
	"time"

	"apnifarm-api/internal/ports/auth"

	gocache "github.com/patrickmn/go-cache"
)

var ErrTokenEmpty = errors.New("token is empty")

const defaultCacheTTL = 5 * time.Minute

// Verifier implementa auth.AuthVerifier contra Firebase, con cache de
// claims por token para no golpear el lookup en cada request.
type Verifier struct {
	client *Client
	cache  *gocache.Cache
}

func NewVerifier(client *Client, cacheTTL time.Duration) *Verifier {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Verifier{
		client: client,
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	if cached, ok := v.cache.Get(token); ok {
		if claims, ok := cached.(auth.Claims); ok {
			return claims, nil
		}
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, err
	}

	// El TTL del cache está por debajo de la expiración del ID token (1h),
	// así que cachear el resultado positivo es seguro.
	v.cache.SetDefault(token, claims)
	return claims, nil
}
