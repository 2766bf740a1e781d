package identity

import "fmt"

// Provider identifies an external OAuth2 identity issuer.
type Provider string

const (
	ProviderGoogle  Provider = "google"
	ProviderDiscord Provider = "discord"
	ProviderGitHub  Provider = "github"
)

// ParseProvider validates a provider name coming from a request path or config.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderGoogle, ProviderDiscord, ProviderGitHub:
		return Provider(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, s)
}

// String implements fmt.Stringer.
func (p Provider) String() string { return string(p) }

// Identity is the canonical, provider-agnostic shape of one authenticated
// login event. It lives for a single resolution and is never persisted.
//
// ExternalID is unique only within the provider's namespace: two providers
// may independently emit the same value.
type Identity struct {
	Provider   Provider
	ExternalID string

	// Optional profile fields. Empty string means the provider did not
	// supply the value.
	Email       string
	DisplayName string
	AvatarURL   string
}

// Key returns the (provider, externalID) pair that addresses an account.
func (i Identity) Key() string {
	return string(i.Provider) + ":" + i.ExternalID
}
