// Package normalize reduces provider-specific profile payloads to the
// canonical identity shape. Normalizers are pure: no I/O, no side effects,
// and every optional upstream field degrades to "absent" instead of failing.
// The only error condition is a structurally malformed payload (missing
// external id).
package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/dastyn/socialauth/internal/identity"
)

// Func maps a raw provider profile to a canonical identity.
type Func func(raw []byte) (identity.Identity, error)

// ForProvider returns the normalizer for p.
func ForProvider(p identity.Provider) (Func, error) {
	switch p {
	case identity.ProviderGoogle:
		return Google, nil
	case identity.ProviderDiscord:
		return Discord, nil
	case identity.ProviderGitHub:
		return GitHub, nil
	}
	return nil, fmt.Errorf("%w: %q", identity.ErrUnsupportedProvider, p)
}

// valueEntry is the {value: "..."} element used by profile email/photo lists.
type valueEntry struct {
	Value string `json:"value"`
}

// firstValue returns the first non-empty entry of a value list, or "".
// A missing or empty list is not an error.
func firstValue(entries []valueEntry) string {
	for _, e := range entries {
		if e.Value != "" {
			return e.Value
		}
	}
	return ""
}

func decode(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", identity.ErrMalformedProfile, err)
	}
	return nil
}

func missingID(provider identity.Provider) error {
	return fmt.Errorf("%w: %s profile has no id", identity.ErrMalformedProfile, provider)
}
