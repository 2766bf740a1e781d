package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/dastyn/socialauth/internal/config"
	"github.com/dastyn/socialauth/internal/identity"
	"github.com/dastyn/socialauth/internal/security/secretbox"
)

// Discord is not covered by the x/oauth2 endpoint catalog.
var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/api/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// Per-provider profile endpoints and default scopes.
var providerDefaults = map[identity.Provider]struct {
	endpoint   oauth2.Endpoint
	profileURL string
	scopes     []string
}{
	identity.ProviderGoogle: {
		endpoint:   google.Endpoint,
		profileURL: "https://openidconnect.googleapis.com/v1/userinfo",
		scopes:     []string{"openid", "email", "profile"},
	},
	identity.ProviderDiscord: {
		endpoint:   discordEndpoint,
		profileURL: "https://discord.com/api/users/@me",
		scopes:     []string{"identify", "email"},
	},
	identity.ProviderGitHub: {
		endpoint:   github.Endpoint,
		profileURL: "https://api.github.com/user",
		scopes:     []string{"user:email"},
	},
}

// Adapter binds one provider's client configuration to its OAuth2 endpoints.
// It carries no business logic; profile payloads it fetches are opaque bytes
// handed to the normalizer.
type Adapter struct {
	Provider   identity.Provider
	Config     *oauth2.Config
	ProfileURL string

	httpTimeout time.Duration
}

// newAdapter builds an adapter from the provider's config block. The client
// secret may be secretbox-encrypted; a value without the nonce separator is
// used as plaintext (dev mode).
func newAdapter(p identity.Provider, pc config.ProviderConfig, baseURL string) (*Adapter, error) {
	defaults, ok := providerDefaults[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", identity.ErrUnsupportedProvider, p)
	}

	if pc.ClientID == "" {
		return nil, fmt.Errorf("%s: client_id required", p)
	}

	secret := pc.ClientSecret
	if secretbox.IsEncrypted(secret) {
		dec, err := secretbox.Decrypt(secret)
		if err != nil {
			return nil, fmt.Errorf("%s: decrypt client_secret: %w", p, err)
		}
		secret = dec
	}
	if secret == "" {
		return nil, fmt.Errorf("%s: client_secret required", p)
	}

	redirect := pc.RedirectURL
	if redirect == "" {
		redirect = fmt.Sprintf("%s/auth/social/%s/callback", strings.TrimRight(baseURL, "/"), p)
	}

	scopes := pc.Scopes
	if len(scopes) == 0 {
		scopes = defaults.scopes
	}

	return &Adapter{
		Provider: p,
		Config: &oauth2.Config{
			ClientID:     pc.ClientID,
			ClientSecret: secret,
			RedirectURL:  redirect,
			Endpoint:     defaults.endpoint,
			Scopes:       scopes,
		},
		ProfileURL:  defaults.profileURL,
		httpTimeout: 10 * time.Second,
	}, nil
}

// AuthCodeURL returns the provider's authorization URL for the state nonce.
func (a *Adapter) AuthCodeURL(state string) string {
	return a.Config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token.
func (a *Adapter) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.Config.Exchange(ctx, code)
}

// FetchProfile retrieves the raw profile payload with the bearer token.
// The bytes are returned verbatim; normalization happens elsewhere.
func (a *Adapter) FetchProfile(ctx context.Context, tok *oauth2.Token) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.httpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.ProfileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.Config.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch profile: %s returned %d", a.ProfileURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return body, nil
}
