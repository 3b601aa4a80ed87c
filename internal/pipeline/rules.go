// Package pipeline ingests torrent releases from the forum, pushes them
// through the debrid service, mirrors them to the PPD host and records
// finished movies in the catalog.
package pipeline

import "strings"

// Selection rules for scraped releases. A release is matched against the
// windows in priority order; the blacklist rejects outright.
type sizeWindow struct {
	quality  string
	minGB    float64
	maxGB    float64
	require  []string
	priority int
}

var windows = []sizeWindow{
	{quality: "1080p", minGB: 1.0, maxGB: 3.0, priority: 1},
	{quality: "1080p", minGB: 0.5, maxGB: 15.0, priority: 2},
	{quality: "720p", minGB: 1.0, maxGB: 5.0, require: []string{"HQ"}, priority: 3},
}

var blacklist = []string{"CAM", "TC", "Telesync", "480p", "4K", "2160p", "HDCAM"}

var preferred = []string{"WEB-DL", "BluRay", "HQ.HDRip", "WEBRip"}

// Evaluate returns the priority of the best window the release fits, or
// ok=false when it fits none or trips the blacklist. Lower priority wins.
func Evaluate(title, quality string, sizeGB float64) (int, bool) {
	upper := strings.ToUpper(title)

	for _, b := range blacklist {
		if strings.Contains(upper, strings.ToUpper(b)) {
			return 0, false
		}
	}

	for _, w := range windows {
		if quality != w.quality {
			continue
		}

		if sizeGB < w.minGB || sizeGB > w.maxGB {
			continue
		}

		matched := true
		for _, kw := range w.require {
			if !strings.Contains(upper, strings.ToUpper(kw)) {
				matched = false
				break
			}
		}

		if matched {
			return w.priority, true
		}
	}

	return 0, false
}

// PreferScore counts how many of the preferred source tags appear in the
// title. Used to break priority ties between otherwise equal releases.
func PreferScore(title string) int {
	upper := strings.ToUpper(title)

	score := 0
	for _, p := range preferred {
		if strings.Contains(upper, strings.ToUpper(p)) {
			score++
		}
	}

	return score
}
