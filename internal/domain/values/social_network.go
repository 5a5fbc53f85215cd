package values

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Network is one of the supported social networks.
type Network string

// Supported networks. The string values are what users write in the
// "network" field.
const (
	NetworkLinkedIn      Network = "LinkedIn"
	NetworkGitHub        Network = "GitHub"
	NetworkGitLab        Network = "GitLab"
	NetworkInstagram     Network = "Instagram"
	NetworkORCID         Network = "ORCID"
	NetworkMastodon      Network = "Mastodon"
	NetworkStackOverflow Network = "StackOverflow"
	NetworkResearchGate  Network = "ResearchGate"
	NetworkYouTube       Network = "YouTube"
	NetworkGoogleScholar Network = "Google Scholar"
	NetworkTelegram      Network = "Telegram"
)

type networkInfo struct {
	urlPrefix string
	icon      string
}

var networks = map[Network]networkInfo{
	NetworkLinkedIn:      {"https://linkedin.com/in/", "linkedin"},
	NetworkGitHub:        {"https://github.com/", "github"},
	NetworkGitLab:        {"https://gitlab.com/", "gitlab"},
	NetworkInstagram:     {"https://instagram.com/", "instagram"},
	NetworkORCID:         {"https://orcid.org/", "orcid"},
	NetworkMastodon:      {"", "mastodon"},
	NetworkStackOverflow: {"https://stackoverflow.com/users/", "stack-overflow"},
	NetworkResearchGate:  {"https://researchgate.net/profile/", "researchgate"},
	NetworkYouTube:       {"https://youtube.com/@", "youtube"},
	NetworkGoogleScholar: {"https://scholar.google.com/citations?user=", "graduation-cap"},
	NetworkTelegram:      {"https://t.me/", "telegram"},
}

// Networks lists every supported network in a stable order.
func Networks() []Network {
	return []Network{
		NetworkLinkedIn, NetworkGitHub, NetworkGitLab, NetworkInstagram,
		NetworkORCID, NetworkMastodon, NetworkStackOverflow, NetworkResearchGate,
		NetworkYouTube, NetworkGoogleScholar, NetworkTelegram,
	}
}

// ParseNetwork returns the network named s. Names are matched exactly.
func ParseNetwork(s string) (Network, error) {
	n := Network(strings.TrimSpace(s))
	if _, ok := networks[n]; !ok {
		return "", fmt.Errorf("unsupported social network %q", s)
	}
	return n, nil
}

// IsValid reports whether n is a supported network.
func (n Network) IsValid() bool {
	_, ok := networks[n]
	return ok
}

// Icon returns the icon key used when the network is shown as a connection.
func (n Network) Icon() string {
	return networks[n].icon
}

var (
	mastodonUsername      = regexp.MustCompile(`^@[^@]+@[^@]+$`)
	stackOverflowUsername = regexp.MustCompile(`^\d+/[^/]+$`)
)

// ValidateUsername checks the platform-specific username shape.
func ValidateUsername(n Network, username string) error {
	switch n {
	case NetworkMastodon:
		if !mastodonUsername.MatchString(username) {
			return errors.New("Mastodon username should be in the format @username@domain")
		}
	case NetworkStackOverflow:
		if !stackOverflowUsername.MatchString(username) {
			return errors.New("StackOverflow username should be in the format user_id/username")
		}
	case NetworkYouTube:
		if strings.HasPrefix(username, "@") {
			return errors.New("YouTube username should not start with @")
		}
	}
	return nil
}

// SocialNetworkURL builds the profile URL for username on n.
// Mastodon usernames of the form "@user@domain" point at that domain.
func SocialNetworkURL(n Network, username string) string {
	if n == NetworkMastodon {
		parts := strings.Split(username, "@")
		if len(parts) != 3 {
			return ""
		}
		return "https://" + parts[2] + "/@" + parts[1]
	}
	info, ok := networks[n]
	if !ok {
		return ""
	}
	return info.urlPrefix + username
}

// UsernamePlaceholder is the label shown for a network link.
func UsernamePlaceholder(n Network, username string) string {
	switch n {
	case NetworkStackOverflow:
		if _, name, ok := strings.Cut(username, "/"); ok {
			return name
		}
	case NetworkGoogleScholar:
		return string(NetworkGoogleScholar)
	}
	return username
}
