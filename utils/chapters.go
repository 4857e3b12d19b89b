package utils

import (
	"regexp"
	"strconv"
	"strings"

	"streamerverse/models"
)

// chapterLineRe matches description lines of the form "[h:]mm:ss Title".
var chapterLineRe = regexp.MustCompile(`^\(?\[?((?:\d{1,2}:)?\d{1,2}:\d{2})\]?\)?\s*[-–—:]?\s*(.+)$`)

// ParseChapters extracts chapter markers from a video description.
// Following YouTube's own rule, a chapter list only counts when it starts
// at 0:00 and has at least three entries; otherwise nil is returned.
func ParseChapters(description string) []models.Chapter {
	if description == "" {
		return nil
	}

	var chapters []models.Chapter
	for _, line := range strings.Split(description, "\n") {
		m := chapterLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		seconds, ok := parseTimestamp(m[1])
		if !ok {
			continue
		}
		title := strings.TrimSpace(m[2])
		if title == "" {
			continue
		}
		chapters = append(chapters, models.Chapter{Timestamp: seconds, Title: title})
	}

	if len(chapters) < 3 || chapters[0].Timestamp != 0 {
		return nil
	}

	// Timestamps must be strictly increasing for the list to be chapters
	// rather than scattered time references.
	for i := 1; i < len(chapters); i++ {
		if chapters[i].Timestamp <= chapters[i-1].Timestamp {
			return nil
		}
	}

	return chapters
}

func parseTimestamp(s string) (float64, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}

	return float64(total), true
}
