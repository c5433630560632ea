// Package media validates and normalizes organization logos. The client
// already resizes before upload; this side re-checks the content type against
// the actual bytes and enforces the post-compression size cap before the data
// URI is stored on the entity.
package media

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	ierr "github.com/outletkit/outletkit/internal/errors"
)

// MaxLogoBytes caps the decoded logo size (~500KB, matching what the client
// compressor targets).
const MaxLogoBytes = 500 * 1024

// NormalizeLogo accepts a logo as a data URI or bare base64 payload and
// returns a canonical data URI with the MIME type sniffed from the actual
// bytes. Only jpeg, png and webp are accepted.
func NormalizeLogo(input string) (string, error) {
	payload := input
	if strings.HasPrefix(input, "data:") {
		_, rest, found := strings.Cut(input, ",")
		if !found {
			return "", ierr.NewError("malformed data uri").
				WithHint("Logo must be a base64 data URI").
				Mark(ierr.ErrValidation)
		}
		payload = rest
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Logo must be valid base64").
			Mark(ierr.ErrValidation)
	}

	if len(raw) > MaxLogoBytes {
		return "", ierr.NewError("logo too large").
			WithHintf("Logo must be at most %d bytes after compression", MaxLogoBytes).
			Mark(ierr.ErrValidation)
	}

	kind, err := filetype.Match(raw)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to detect logo type").
			Mark(ierr.ErrValidation)
	}
	switch kind {
	case matchers.TypeJpeg, matchers.TypePng, matchers.TypeWebp:
	default:
		return "", ierr.NewError("unsupported logo type").
			WithHint("Logo must be a JPEG, PNG or WebP image").
			Mark(ierr.ErrValidation)
	}

	return fmt.Sprintf("data:%s;base64,%s", kind.MIME.Value, base64.StdEncoding.EncodeToString(raw)), nil
}

// DecodedSize reports the byte size of a stored logo data URI, 0 when absent
// or malformed.
func DecodedSize(dataURI string) int {
	_, payload, found := strings.Cut(dataURI, ",")
	if !found {
		payload = dataURI
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return 0
	}
	return len(raw)
}
