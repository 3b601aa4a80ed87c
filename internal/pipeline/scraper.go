package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// How many forum topics a single run follows. The board moves slowly
// enough that anything older has been seen by a previous run.
const maxTopicsPerRun = 25

type ScrapedRelease struct {
	SourceURL string
	Title     string
	Year      int
	Magnet    string
	Quality   string
	SizeGB    float64
}

type Scraper struct {
	forumURL string
}

func NewScraper() *Scraper {
	return &Scraper{
		forumURL: viper.GetString("pipeline.forum_url"),
	}
}

// Scrape walks the forum's latest-movies board and returns one release
// per topic that carries a magnet link. Topics already visited in this
// run are skipped; deduplication across runs happens against the
// releases table, not here.
func (s *Scraper) Scrape() ([]ScrapedRelease, error) {
	var releases []ScrapedRelease
	topics := 0

	c := colly.NewCollector(colly.UserAgent(scraperUserAgent))

	topicPages := c.Clone()

	// Board index: follow each topic link
	c.OnHTML(".ipsDataItem_title a[href]", func(e *colly.HTMLElement) {
		if topics >= maxTopicsPerRun {
			return
		}
		topics++

		if err := topicPages.Visit(e.Request.AbsoluteURL(e.Attr("href"))); err != nil {
			zap.L().Debug("Skipping topic", zap.Error(err))
		}
	})

	// Topic page: first magnet link plus whatever metadata the title carries
	topicPages.OnHTML("div.ipsType_pageTitle, h1.ipsType_pageTitle", func(e *colly.HTMLElement) {
		e.Request.Ctx.Put("title", strings.TrimSpace(e.Text))
	})

	topicPages.OnHTML("body", func(e *colly.HTMLElement) {
		magnet, ok := firstMagnet(e.DOM)
		if !ok {
			return
		}

		title := e.Request.Ctx.Get("title")
		if title == "" {
			title = strings.TrimSpace(e.DOM.Find("title").First().Text())
		}

		rel := ScrapedRelease{
			SourceURL: e.Request.URL.String(),
			Title:     title,
			Year:      parseYear(title),
			Magnet:    magnet,
			Quality:   parseQuality(title),
			SizeGB:    parseSizeGB(title),
		}

		// Magnet display names often carry better metadata than the topic title
		if rel.SizeGB == 0 {
			rel.SizeGB = parseSizeGB(magnet)
		}
		if rel.Quality == "" {
			rel.Quality = parseQuality(magnet)
		}

		releases = append(releases, rel)
	})

	c.OnError(func(r *colly.Response, err error) {
		zap.L().Warn("Scrape request failed", zap.String("url", r.Request.URL.String()), zap.Error(err))
	})

	if err := c.Visit(s.forumURL); err != nil {
		return nil, err
	}

	return releases, nil
}

func firstMagnet(doc *goquery.Selection) (string, bool) {
	var magnet string

	doc.Find(`a[href^="magnet:"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if ok && href != "" {
			magnet = href
			return false
		}
		return true
	})

	return magnet, magnet != ""
}

var (
	yearRe    = regexp.MustCompile(`\b(19[5-9]\d|20[0-4]\d)\b`)
	qualityRe = regexp.MustCompile(`(?i)\b(2160p|1080p|720p|480p)\b`)
	sizeRe    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(GB|MB)`)
)

func parseYear(s string) int {
	m := yearRe.FindString(s)
	if m == "" {
		return 0
	}

	y, _ := strconv.Atoi(m)
	return y
}

func parseQuality(s string) string {
	return strings.ToLower(qualityRe.FindString(s))
}

func parseSizeGB(s string) float64 {
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}

	if strings.EqualFold(m[2], "MB") {
		n /= 1024
	}

	return n
}
