package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/you/investorportal/domain"
)

const tokeninfoEndpoint = "https://oauth2.googleapis.com/tokeninfo"

// GoogleIntrospector verifies Google ID tokens against the tokeninfo
// endpoint and implements domain.TokenIntrospector.
type GoogleIntrospector struct {
	clientID   string
	httpClient *http.Client
	endpoint   string
}

// NewGoogleIntrospector creates an introspector bound to one OAuth client id.
func NewGoogleIntrospector(clientID string) *GoogleIntrospector {
	return &GoogleIntrospector{
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		endpoint:   tokeninfoEndpoint,
	}
}

// NewGoogleIntrospectorWithEndpoint is used by tests to point at a stub
// server.
func NewGoogleIntrospectorWithEndpoint(clientID, endpoint string) *GoogleIntrospector {
	g := NewGoogleIntrospector(clientID)
	g.endpoint = endpoint
	return g
}

type tokeninfoResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Aud   string `json:"aud"`
	Exp   string `json:"exp"`
}

// Introspect implements domain.TokenIntrospector
func (g *GoogleIntrospector) Introspect(ctx context.Context, idToken string) (*domain.IntrospectionResult, error) {
	u := fmt.Sprintf("%s?id_token=%s", g.endpoint, url.QueryEscape(idToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrTokenInvalid
	}

	var info tokeninfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("tokeninfo decode failed: %w", err)
	}

	if info.Sub == "" {
		return nil, domain.ErrTokenInvalid
	}
	// The token must have been issued to this application.
	if g.clientID != "" && info.Aud != g.clientID {
		return nil, domain.ErrTokenInvalid
	}

	return &domain.IntrospectionResult{Subject: info.Sub, Email: info.Email}, nil
}

var _ domain.TokenIntrospector = (*GoogleIntrospector)(nil)
