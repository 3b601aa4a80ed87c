package validators

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNoTitle    = errors.New("title can't be empty")
	ErrBadYear    = errors.New("invalid year provided")
	ErrBadURL     = errors.New("invalid URL provided")
	ErrNoMessage  = errors.New("message can't be empty")
	ErrNoName     = errors.New("name can't be empty")
	ErrBadStatus  = errors.New("invalid status provided")
	ErrBadType    = errors.New("invalid notice type provided")
	ErrBadEpisode = errors.New("invalid episode number provided")
)

var validSupportStatuses = []string{"pending", "replied", "closed"}
var validNoticeTypes = []string{"info", "warning", "maintenance"}

// MovieValidator checks the fields shared by movie creates and updates.
// External URLs may be empty (posters-only rows exist while the pipeline
// is mid-flight) but when set must be absolute http(s) URLs.
func MovieValidator(title string, year int, watchURL, downloadURL string) error {
	if strings.TrimSpace(title) == "" {
		return ErrNoTitle
	}

	if year != 0 && (year < 1900 || year > time.Now().Year()+1) {
		return ErrBadYear
	}

	for _, u := range []string{watchURL, downloadURL} {
		if u == "" {
			continue
		}

		parsed, err := url.Parse(u)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return ErrBadURL
		}
	}

	return nil
}

func SupportStatusValidator(status string) error {
	for _, s := range validSupportStatuses {
		if s == status {
			return nil
		}
	}

	return ErrBadStatus
}

func NoticeTypeValidator(t string) error {
	for _, s := range validNoticeTypes {
		if s == t {
			return nil
		}
	}

	return ErrBadType
}
