package normalize

import "github.com/dastyn/socialauth/internal/identity"

// googleProfile covers both the classic profile shape (emails/photos lists,
// displayName) and the flat OIDC userinfo shape (sub/email/name/picture);
// list fields win when both are present.
type googleProfile struct {
	ID          string       `json:"id"`
	Sub         string       `json:"sub"`
	DisplayName string       `json:"displayName"`
	Name        string       `json:"name"`
	Emails      []valueEntry `json:"emails"`
	Email       string       `json:"email"`
	Photos      []valueEntry `json:"photos"`
	Picture     string       `json:"picture"`
}

// Google normalizes a Google profile payload.
func Google(raw []byte) (identity.Identity, error) {
	var p googleProfile
	if err := decode(raw, &p); err != nil {
		return identity.Identity{}, err
	}

	externalID := p.ID
	if externalID == "" {
		externalID = p.Sub
	}
	if externalID == "" {
		return identity.Identity{}, missingID(identity.ProviderGoogle)
	}

	email := firstValue(p.Emails)
	if email == "" {
		email = p.Email
	}

	displayName := p.DisplayName
	if displayName == "" {
		displayName = p.Name
	}

	avatar := firstValue(p.Photos)
	if avatar == "" {
		avatar = p.Picture
	}

	return identity.Identity{
		Provider:    identity.ProviderGoogle,
		ExternalID:  externalID,
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   avatar,
	}, nil
}
