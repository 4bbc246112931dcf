package domain

import "strings"

// ExtractTwitterUsername returns the bare handle from a profile link.
// It takes the text after "x.com/" and strips the query string and surrounding whitespace.
// Links without the marker yield an empty string.
func ExtractTwitterUsername(link string) string {
	idx := strings.LastIndex(link, TWITTER_HOST_MARKER)
	if link == "" || idx < 0 {
		return ""
	}

	username := strings.TrimSpace(link[idx+len(TWITTER_HOST_MARKER):])
	if q := strings.Index(username, "?"); q >= 0 {
		username = username[:q]
	}

	return strings.TrimSpace(username)
}

// TwitterProfileLink builds the canonical profile link for a username
func TwitterProfileLink(username string) string {
	return TWITTER_PROFILE_PREFIX + strings.TrimSpace(username)
}

// MergeTwitterLinks merges name to link maps in order; later maps win on key collision
func MergeTwitterLinks(maps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, m := range maps {
		for name, link := range m {
			merged[name] = link
		}
	}
	return merged
}

// ClassifyEntityURL maps a fundraising participant link to the master table it points at
func ClassifyEntityURL(link string) (EntityKind, bool) {
	switch {
	case strings.Contains(link, "/Investors/detail/"):
		return EntityInvestor, true
	case strings.Contains(link, "/member/"):
		return EntityPerson, true
	case strings.Contains(link, "/Projects/detail/"):
		return EntityProject, true
	default:
		return "", false
	}
}
