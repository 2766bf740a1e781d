package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastyn/socialauth/internal/identity"
)

func TestGoogle_FullProfile(t *testing.T) {
	raw := []byte(`{
		"id": "g1",
		"displayName": "Ann",
		"emails": [{"value": "a@x.com"}, {"value": "second@x.com"}],
		"photos": [{"value": "http://img/a.png"}]
	}`)

	id, err := Google(raw)
	require.NoError(t, err)

	assert.Equal(t, identity.ProviderGoogle, id.Provider)
	assert.Equal(t, "g1", id.ExternalID)
	assert.Equal(t, "a@x.com", id.Email)
	assert.Equal(t, "Ann", id.DisplayName)
	assert.Equal(t, "http://img/a.png", id.AvatarURL)
}

func TestGoogle_UserinfoShape(t *testing.T) {
	raw := []byte(`{"sub":"108","name":"Ann","email":"a@x.com","picture":"http://img/a.png"}`)

	id, err := Google(raw)
	require.NoError(t, err)

	assert.Equal(t, "108", id.ExternalID)
	assert.Equal(t, "a@x.com", id.Email)
	assert.Equal(t, "Ann", id.DisplayName)
	assert.Equal(t, "http://img/a.png", id.AvatarURL)
}

func TestGoogle_EmptyLists(t *testing.T) {
	raw := []byte(`{"id":"g2","displayName":"NoMail","emails":[],"photos":[]}`)

	id, err := Google(raw)
	require.NoError(t, err)

	assert.Empty(t, id.Email)
	assert.Empty(t, id.AvatarURL)
}

func TestGoogle_MissingID(t *testing.T) {
	_, err := Google([]byte(`{"displayName":"NoID"}`))
	require.ErrorIs(t, err, identity.ErrMalformedProfile)
}

func TestGoogle_InvalidJSON(t *testing.T) {
	_, err := Google([]byte(`{not json`))
	require.ErrorIs(t, err, identity.ErrMalformedProfile)
}

func TestDiscord_EmptyDiscriminatorKept(t *testing.T) {
	raw := []byte(`{"id":"d1","username":"bob","discriminator":"","email":"b@x.com"}`)

	id, err := Discord(raw)
	require.NoError(t, err)

	assert.Equal(t, identity.ProviderDiscord, id.Provider)
	assert.Equal(t, "d1", id.ExternalID)
	// Discriminators are being phased out; the concatenation still has to
	// produce a well-formed string.
	assert.Equal(t, "bob#", id.DisplayName)
	assert.Equal(t, "b@x.com", id.Email)
}

func TestDiscord_WithDiscriminator(t *testing.T) {
	raw := []byte(`{"id":"d2","username":"alice","discriminator":"0420"}`)

	id, err := Discord(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice#0420", id.DisplayName)
}

func TestDiscord_AvatarFromCDNTemplate(t *testing.T) {
	raw := []byte(`{"id":"d3","username":"carol","avatar":"abc123"}`)

	id, err := Discord(raw)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.discordapp.com/avatars/d3/abc123.png", id.AvatarURL)
}

func TestDiscord_NoAvatarHashMeansAbsent(t *testing.T) {
	raw := []byte(`{"id":"d4","username":"dave"}`)

	id, err := Discord(raw)
	require.NoError(t, err)
	// No placeholder URL when the hash is missing.
	assert.Empty(t, id.AvatarURL)
}

func TestDiscord_EmailListFallback(t *testing.T) {
	raw := []byte(`{"id":"d5","username":"erin","emails":[{"value":"e@x.com"}]}`)

	id, err := Discord(raw)
	require.NoError(t, err)
	assert.Equal(t, "e@x.com", id.Email)
}

func TestDiscord_MissingID(t *testing.T) {
	_, err := Discord([]byte(`{"username":"ghost"}`))
	require.ErrorIs(t, err, identity.ErrMalformedProfile)
}

func TestGitHub_LoginFallbackNoOptionalFields(t *testing.T) {
	raw := []byte(`{"id":"h1","username":"carl"}`)

	id, err := GitHub(raw)
	require.NoError(t, err)

	assert.Equal(t, identity.ProviderGitHub, id.Provider)
	assert.Equal(t, "h1", id.ExternalID)
	assert.Equal(t, "carl", id.DisplayName)
	assert.Empty(t, id.Email)
	assert.Empty(t, id.AvatarURL)
}

func TestGitHub_DisplayNamePreferred(t *testing.T) {
	raw := []byte(`{"id":"h2","displayName":"Carla C","username":"carla","emails":[{"value":"c@x.com"}],"photos":[{"value":"http://img/c.png"}]}`)

	id, err := GitHub(raw)
	require.NoError(t, err)

	assert.Equal(t, "Carla C", id.DisplayName)
	assert.Equal(t, "c@x.com", id.Email)
	assert.Equal(t, "http://img/c.png", id.AvatarURL)
}

func TestGitHub_RESTShapeNumericID(t *testing.T) {
	raw := []byte(`{"id":583231,"login":"octocat","avatar_url":"https://avatars.example/583231","email":null}`)

	id, err := GitHub(raw)
	require.NoError(t, err)

	assert.Equal(t, "583231", id.ExternalID)
	assert.Equal(t, "octocat", id.DisplayName)
	assert.Equal(t, "https://avatars.example/583231", id.AvatarURL)
}

func TestGitHub_MissingID(t *testing.T) {
	_, err := GitHub([]byte(`{"login":"nobody"}`))
	require.ErrorIs(t, err, identity.ErrMalformedProfile)
}

func TestForProvider(t *testing.T) {
	for _, p := range []identity.Provider{
		identity.ProviderGoogle,
		identity.ProviderDiscord,
		identity.ProviderGitHub,
	} {
		fn, err := ForProvider(p)
		require.NoError(t, err, p)
		require.NotNil(t, fn, p)
	}

	_, err := ForProvider(identity.Provider("myspace"))
	require.ErrorIs(t, err, identity.ErrUnsupportedProvider)
}
