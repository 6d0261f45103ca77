package harvest

import "strings"

// Prioritize picks the most likely direct-playable link from a harvested
// sequence. Media playlists named "index" beat everything, any non-master
// link beats a master playlist, and sequence order breaks ties. Returns
// false only for an empty input.
func Prioritize(links []string) (string, bool) {
	if len(links) == 0 {
		return "", false
	}
	for _, l := range links {
		lower := strings.ToLower(l)
		if strings.Contains(lower, "index") && !strings.Contains(lower, "master") {
			return l, true
		}
	}
	for _, l := range links {
		if !strings.Contains(strings.ToLower(l), "master") {
			return l, true
		}
	}
	return links[0], true
}
