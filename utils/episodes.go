package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// Upstream episode titles arrive in inconsistent shapes depending on which
// provider produced them, e.g.
//
//	"Breaking Bad - Season 1 Episode 2 - Cat's in the Bag..."
//	"Season 1 Episode 2 - Cat's in the Bag..."
//	"Breaking Bad S01E02"
//	"Breaking Bad 1x2 Cat's in the Bag..."
//
// The helpers here are best-effort pattern matching over that data; when no
// pattern applies they fall back to the raw title unchanged.

var (
	seasonEpisodeWordsRe = regexp.MustCompile(`(?i)^season\s+(\d{1,3})\s*[,:]?\s*episode\s+(\d{1,4})$`)
	seasonEpisodeCodeRe  = regexp.MustCompile(`(?i)\bS(\d{1,3})\s*E(\d{1,4})\b`)
	seasonEpisodeCrossRe = regexp.MustCompile(`\b(\d{1,3})x(\d{1,4})\b`)
)

// ParseSeasonEpisode extracts season/episode numbers from a title fragment.
// Recognized forms: "Season 1 Episode 2", "S01E02", "1x2".
func ParseSeasonEpisode(s string) (season, episode int, ok bool) {
	s = strings.TrimSpace(s)

	for _, re := range []*regexp.Regexp{seasonEpisodeWordsRe, seasonEpisodeCodeRe, seasonEpisodeCrossRe} {
		if m := re.FindStringSubmatch(s); m != nil {
			season, _ = strconv.Atoi(m[1])
			episode, _ = strconv.Atoi(m[2])
			return season, episode, season > 0 && episode > 0
		}
	}

	return 0, 0, false
}

// EpisodeTitle extracts the episode's own title from a combined provider
// title. Falls back to the raw input when no known pattern matches.
func EpisodeTitle(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}

	parts := strings.Split(trimmed, " - ")
	if len(parts) >= 3 {
		// "Show - Season 1 Episode 2 - Title": middle part carries the numbering.
		if _, _, ok := ParseSeasonEpisode(parts[1]); ok {
			return strings.TrimSpace(strings.Join(parts[2:], " - "))
		}
	}
	if len(parts) == 2 {
		// "Season 1 Episode 2 - Title"
		if _, _, ok := ParseSeasonEpisode(parts[0]); ok {
			return strings.TrimSpace(parts[1])
		}
	}

	return raw
}
