package imaging

import (
	"fmt"
	"io"
	"strings"
)

const (
	// MaxFileSize is the per-file upload cap (5 MiB).
	MaxFileSize = 5 * 1024 * 1024

	// MaxImagesPerAdvert caps the image count of a single advert.
	MaxImagesPerAdvert = 10

	// headerSize is the number of leading bytes needed to recognize every
	// supported signature; WEBP needs the full 12.
	headerSize = 12
)

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// File is one uploaded file. Open returns a fresh reader over the content;
// validation only consumes the header bytes of its own reader, so the
// original stream is never disturbed.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Rejection names a rejected file and the reason it failed.
type Rejection struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// ValidateBatch checks every file against the size cap, the declared
// content-type whitelist and the magic-byte signature, in that order,
// short-circuiting on the first failure per file. Files that pass all three
// checks are returned in input order.
func ValidateBatch(files []File) (accepted []File, rejected []Rejection) {
	for _, file := range files {
		if file.Size > MaxFileSize {
			rejected = append(rejected, Rejection{
				Filename: file.Name,
				Reason:   fmt.Sprintf("'%s' exceeds 5MB limit", file.Name),
			})
			continue
		}

		contentType := strings.ToLower(strings.TrimSpace(file.ContentType))
		if i := strings.Index(contentType, ";"); i >= 0 {
			contentType = strings.TrimSpace(contentType[:i])
		}
		if _, ok := allowedContentTypes[contentType]; !ok {
			rejected = append(rejected, Rejection{
				Filename: file.Name,
				Reason:   fmt.Sprintf("'%s' invalid format. Allowed: JPEG, PNG, WEBP", file.Name),
			})
			continue
		}

		ok, err := hasImageSignature(file)
		if err != nil || !ok {
			rejected = append(rejected, Rejection{
				Filename: file.Name,
				Reason:   fmt.Sprintf("'%s' is not a valid image file", file.Name),
			})
			continue
		}

		accepted = append(accepted, file)
	}
	return accepted, rejected
}

// hasImageSignature reads the file header and matches it against the JPEG,
// PNG and WEBP magic bytes.
func hasImageSignature(file File) (bool, error) {
	reader, err := file.Open()
	if err != nil {
		return false, err
	}
	defer reader.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(reader, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false, err
	}
	if n < 8 {
		return false, nil
	}

	// JPEG: FF D8 FF
	if header[0] == 0xFF && header[1] == 0xD8 && header[2] == 0xFF {
		return true, nil
	}

	// PNG: 89 50 4E 47
	if header[0] == 0x89 && header[1] == 0x50 && header[2] == 0x4E && header[3] == 0x47 {
		return true, nil
	}

	// WEBP: "RIFF" at 0..3 and "WEBP" at 8..11
	if n >= 12 &&
		header[0] == 'R' && header[1] == 'I' && header[2] == 'F' && header[3] == 'F' &&
		header[8] == 'W' && header[9] == 'E' && header[10] == 'B' && header[11] == 'P' {
		return true, nil
	}

	return false, nil
}
