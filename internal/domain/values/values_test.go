package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SocialNetworkURL(t *testing.T) {
	tests := []struct {
		network  Network
		username string
		want     string
	}{
		{NetworkMastodon, "@alice@example.org", "https://example.org/@alice"},
		{NetworkGitHub, "alice", "https://github.com/alice"},
		{NetworkLinkedIn, "alice", "https://linkedin.com/in/alice"},
		{NetworkStackOverflow, "12345/alice", "https://stackoverflow.com/users/12345/alice"},
		{NetworkYouTube, "alice", "https://youtube.com/@alice"},
		{NetworkGoogleScholar, "abc123", "https://scholar.google.com/citations?user=abc123"},
		{NetworkTelegram, "alice", "https://t.me/alice"},
		{NetworkMastodon, "alice", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.network)+"/"+tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, SocialNetworkURL(tt.network, tt.username))
		})
	}
}

func Test_ValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername(NetworkMastodon, "@alice@example.org"))
	assert.Error(t, ValidateUsername(NetworkMastodon, "alice@example.org"))
	assert.Error(t, ValidateUsername(NetworkMastodon, "@alice@ex@ample"))

	assert.NoError(t, ValidateUsername(NetworkStackOverflow, "12345/alice"))
	assert.Error(t, ValidateUsername(NetworkStackOverflow, "alice"))
	assert.Error(t, ValidateUsername(NetworkStackOverflow, "12/alice/x"))

	assert.NoError(t, ValidateUsername(NetworkYouTube, "alice"))
	assert.Error(t, ValidateUsername(NetworkYouTube, "@alice"))

	assert.NoError(t, ValidateUsername(NetworkGitHub, "anything goes"))
}

func Test_ParseNetwork(t *testing.T) {
	n, err := ParseNetwork("Google Scholar")
	require.NoError(t, err)
	assert.Equal(t, NetworkGoogleScholar, n)
	assert.Equal(t, "graduation-cap", n.Icon())

	_, err = ParseNetwork("github")
	assert.Error(t, err, "names are case-sensitive")

	for _, n := range Networks() {
		assert.True(t, n.IsValid(), n)
	}
}

func Test_UsernamePlaceholder(t *testing.T) {
	assert.Equal(t, "alice", UsernamePlaceholder(NetworkStackOverflow, "12345/alice"))
	assert.Equal(t, "Google Scholar", UsernamePlaceholder(NetworkGoogleScholar, "abc123"))
	assert.Equal(t, "@alice@example.org", UsernamePlaceholder(NetworkMastodon, "@alice@example.org"))
}

func Test_CleanURL(t *testing.T) {
	assert.Equal(t, "example.com/path", CleanURL("https://www.example.com/path/"))
	assert.Equal(t, "example.com", CleanURL("http://example.com"))
	assert.Equal(t, "example.com/", CleanURL("https://example.com//"), "only one trailing slash is removed")
}

func Test_NormalizeTitle(t *testing.T) {
	tests := map[string]string{
		"work_experience":         "Work Experience",
		"education":               "Education",
		"projects_and_talks":      "Projects and Talks",
		"selected_honors_of_2024": "Selected Honors of 2024",
		"my_LaTeX_skills":         "My LaTeX Skills",
		"Already Good":            "Already Good",
		"":                        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTitle(in), in)
	}
}
