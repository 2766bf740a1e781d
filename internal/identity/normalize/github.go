package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/dastyn/socialauth/internal/identity"
)

// flexID accepts a JSON string or number id; GitHub's REST API emits
// numeric ids while profile payloads carry strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// githubProfile accepts both the classic profile shape (displayName,
// username, emails/photos lists) and the flat REST API shape (numeric id,
// login, email, avatar_url).
type githubProfile struct {
	ID          flexID       `json:"id"`
	DisplayName string       `json:"displayName"`
	Name        string       `json:"name"`
	Username    string       `json:"username"`
	Login       string       `json:"login"`
	Emails      []valueEntry `json:"emails"`
	Email       string       `json:"email"`
	Photos      []valueEntry `json:"photos"`
	AvatarURL   string       `json:"avatar_url"`
}

// GitHub normalizes a GitHub profile payload. The display name falls back
// to the login name when the profile has no display name set.
func GitHub(raw []byte) (identity.Identity, error) {
	var p githubProfile
	if err := decode(raw, &p); err != nil {
		return identity.Identity{}, err
	}

	if p.ID == "" {
		return identity.Identity{}, missingID(identity.ProviderGitHub)
	}

	displayName := p.DisplayName
	if displayName == "" {
		displayName = p.Name
	}
	if displayName == "" {
		displayName = p.Username
	}
	if displayName == "" {
		displayName = p.Login
	}

	email := firstValue(p.Emails)
	if email == "" {
		email = p.Email
	}

	avatar := firstValue(p.Photos)
	if avatar == "" {
		avatar = p.AvatarURL
	}

	return identity.Identity{
		Provider:    identity.ProviderGitHub,
		ExternalID:  string(p.ID),
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   avatar,
	}, nil
}
