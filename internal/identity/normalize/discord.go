package normalize

import (
	"fmt"

	"github.com/dastyn/socialauth/internal/identity"
)

// discordCDNAvatar is the CDN template for user avatars, keyed by user id
// and avatar hash.
const discordCDNAvatar = "https://cdn.discordapp.com/avatars/%s/%s.png"

type discordProfile struct {
	ID            string       `json:"id"`
	Username      string       `json:"username"`
	Discriminator string       `json:"discriminator"`
	Email         string       `json:"email"`
	Emails        []valueEntry `json:"emails"`
	Avatar        string       `json:"avatar"`
}

// Discord normalizes a Discord user payload.
//
// The display name is "username#discriminator". Discord is phasing the
// discriminator out, so it may legitimately be empty; "name#" is a valid
// result, not an error. The avatar URL is built from the CDN template only
// when an avatar hash is present; there is no placeholder URL.
func Discord(raw []byte) (identity.Identity, error) {
	var p discordProfile
	if err := decode(raw, &p); err != nil {
		return identity.Identity{}, err
	}

	if p.ID == "" {
		return identity.Identity{}, missingID(identity.ProviderDiscord)
	}

	displayName := p.Username
	if p.Username != "" {
		displayName = p.Username + "#" + p.Discriminator
	}

	email := p.Email
	if email == "" {
		email = firstValue(p.Emails)
	}

	var avatar string
	if p.Avatar != "" {
		avatar = fmt.Sprintf(discordCDNAvatar, p.ID, p.Avatar)
	}

	return identity.Identity{
		Provider:    identity.ProviderDiscord,
		ExternalID:  p.ID,
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   avatar,
	}, nil
}
