package validators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMovieValidator(t *testing.T) {
	cases := []struct {
		name     string
		title    string
		year     int
		watch    string
		download string
		want     error
	}{
		{"valid", "Kanguva", 2024, "https://a.example/w", "https://a.example/d", nil},
		{"empty urls ok", "Kanguva", 2024, "", "", nil},
		{"year zero ok", "Kanguva", 0, "", "", nil},
		{"blank title", "   ", 2024, "", "", ErrNoTitle},
		{"ancient year", "Kanguva", 1800, "", "", ErrBadYear},
		{"future year", "Kanguva", time.Now().Year() + 2, "", "", ErrBadYear},
		{"relative url", "Kanguva", 2024, "/watch/x", "", ErrBadURL},
		{"ftp url", "Kanguva", 2024, "ftp://a.example/w", "", ErrBadURL},
		{"bad download url", "Kanguva", 2024, "https://a.example/w", "nope", ErrBadURL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := MovieValidator(tc.title, tc.year, tc.watch, tc.download)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSupportStatusValidator(t *testing.T) {
	for _, s := range []string{"pending", "replied", "closed"} {
		assert.NoError(t, SupportStatusValidator(s))
	}

	assert.ErrorIs(t, SupportStatusValidator("resolved"), ErrBadStatus)
	assert.ErrorIs(t, SupportStatusValidator(""), ErrBadStatus)
}

func TestNoticeTypeValidator(t *testing.T) {
	for _, s := range []string{"info", "warning", "maintenance"} {
		assert.NoError(t, NoticeTypeValidator(s))
	}

	assert.ErrorIs(t, NoticeTypeValidator("alert"), ErrBadType)
}
