// Package validators checks inbound payloads before they touch the
// database or storage
package validators

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrPosterTooLarge    = errors.New("poster too large")
	ErrPosterUnsupported = errors.New("unsupported poster type")
	ErrNoPoster          = errors.New("no poster provided")
)

const maxPosterSize = 5 << 20

var allowedPosterTypes = []string{"image/jpeg", "image/png", "image/webp"}

// PosterValidator checks an uploaded poster image. Headers are checked
// first which is easy to spoof, but faster for legit clients; the actual
// bytes are sniffed afterwards.
func PosterValidator(fh *multipart.FileHeader) (int, multipart.File, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, ErrNoPoster
	}

	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return http.StatusBadRequest, nil, ErrPosterUnsupported
	}

	if fh.Size > maxPosterSize {
		return http.StatusRequestEntityTooLarge, nil, ErrPosterTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	ok := false
	for _, t := range allowedPosterTypes {
		if mime.Is(t) {
			ok = true
			break
		}
	}

	if !ok {
		f.Close()
		return http.StatusBadRequest, nil, ErrPosterUnsupported
	}

	f.Seek(0, 0)

	return 0, f, nil
}
