package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"apnifarm-api/internal/platform/httpclient"
	"apnifarm-api/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("firebase client not configured")
	ErrUnauthorized  = errors.New("firebase unauthorized")
	ErrUpstream      = errors.New("firebase upstream error")
)

// Config del cliente de Firebase Identity Toolkit.
// BaseURL normalmente es https://identitytoolkit.googleapis.com.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		http:    httpclient.New(cfg.Timeout),
	}
}

// NewClientWithTransport inyecta el transport (tests).
func NewClientWithTransport(cfg Config, tr http.RoundTripper) *Client {
	c := NewClient(cfg)
	c.http = httpclient.NewWithTransport(cfg.Timeout, tr)
	return c
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

// VerifyToken valida un ID token contra accounts:lookup y devuelve los
// claims mínimos que consume el middleware.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	url := c.baseURL + "/v1/accounts:lookup?key=" + c.apiKey

	var out struct {
		Users []struct {
			LocalID     string `json:"localId"`
			PhoneNumber string `json:"phoneNumber"`
			Email       string `json:"email"`
		} `json:"users"`
	}

	err := c.http.DoJSON(ctx, http.MethodPost, url, nil,
		map[string]string{"idToken": token}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
				// Identity Toolkit responde 400 para tokens inválidos/expirados.
				return auth.Claims{}, ErrUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(out.Users) == 0 || strings.TrimSpace(out.Users[0].LocalID) == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	u := out.Users[0]
	return auth.Claims{
		UserID:      strings.TrimSpace(u.LocalID),
		PhoneNumber: strings.TrimSpace(u.PhoneNumber),
		Email:       strings.TrimSpace(u.Email),
	}, nil
}
