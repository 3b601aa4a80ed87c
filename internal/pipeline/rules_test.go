package pipeline

import (
	"strings"
	"testing"

	"adiwals/cinegate-api/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name     string
		title    string
		quality  string
		sizeGB   float64
		priority int
		ok       bool
	}{
		{"ideal 1080p", "Kanguva (2024) 1080p WEB-DL", "1080p", 2.1, 1, true},
		{"big 1080p falls to second window", "Kanguva (2024) 1080p BluRay", "1080p", 8.0, 2, true},
		{"small 1080p falls to second window", "Kanguva (2024) 1080p HDRip", "1080p", 0.7, 2, true},
		{"720p needs HQ tag", "Kanguva (2024) 720p HQ.HDRip", "720p", 1.4, 3, true},
		{"720p without HQ", "Kanguva (2024) 720p HDRip", "720p", 1.4, 0, false},
		{"720p too big", "Kanguva (2024) 720p HQ.HDRip", "720p", 7.0, 0, false},
		{"1080p too big for any window", "Kanguva (2024) 1080p Remux", "1080p", 22.0, 0, false},
		{"cam print rejected", "Kanguva (2024) 1080p CAM", "1080p", 2.0, 0, false},
		{"hdcam rejected", "Kanguva (2024) 1080p HDCAM", "1080p", 2.0, 0, false},
		{"4k rejected", "Kanguva (2024) 2160p WEB-DL", "2160p", 12.0, 0, false},
		{"unknown quality", "Kanguva (2024) DVDRip", "", 1.5, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prio, ok := Evaluate(tc.title, tc.quality, tc.sizeGB)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.priority, prio)
		})
	}
}

func TestPreferScore(t *testing.T) {
	assert.Equal(t, 0, PreferScore("Kanguva (2024) 1080p HDRip"))
	assert.Equal(t, 1, PreferScore("Kanguva (2024) 1080p WEB-DL"))
	assert.Greater(t,
		PreferScore("Kanguva (2024) 1080p BluRay WEB-DL"),
		PreferScore("Kanguva (2024) 1080p BluRay"))
}

func TestSortPending(t *testing.T) {
	rels := []model.Release{
		{Title: "Gamma (2024) 720p HQ.HDRip", Quality: "720p", SizeGB: 2.0},
		{Title: "Beta (2024) 1080p WEB-DL", Quality: "1080p", SizeGB: 8.0},
		{Title: "Alpha (2024) 1080p HDRip", Quality: "1080p", SizeGB: 2.0},
		{Title: "Delta (2024) 1080p WEB-DL", Quality: "1080p", SizeGB: 2.5},
	}

	sortPending(rels)

	// Optimal window first, preferred source tags breaking the tie
	var order []string
	for _, r := range rels {
		order = append(order, strings.Fields(r.Title)[0])
	}

	assert.Equal(t, []string{"Delta", "Alpha", "Beta", "Gamma"}, order)
}

func TestTitleParsers(t *testing.T) {
	title := "Kanguva (2024) Tamil 1080p HQ HDRip - [1.9GB]"

	assert.Equal(t, 2024, parseYear(title))
	assert.Equal(t, "1080p", parseQuality(title))
	assert.InDelta(t, 1.9, parseSizeGB(title), 0.001)

	assert.Equal(t, 0, parseYear("no year here"))
	assert.Equal(t, "", parseQuality("no quality"))
	assert.InDelta(t, 0.683, parseSizeGB("700 MB rip"), 0.001)
	assert.Zero(t, parseSizeGB("unsized"))
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Kanguva", cleanTitle("Kanguva (2024) Tamil 1080p"))
	assert.Equal(t, "Kanguva", cleanTitle("Kanguva [Tamil] (2024)"))
	assert.Equal(t, "Kanguva", cleanTitle("Kanguva"))
}
