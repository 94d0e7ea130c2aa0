// Package media handles the inline payloads of image and video blocks.
//
// Media content is never a file reference: it is embedded into the block as
// a base64 data URL, so a note carries its media with it.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"

	"github.com/aretw0/framenotes/pkg/core"
)

// MaxSize bounds an imported file. Payloads live inside the notes document.
const MaxSize = 16 << 20

// Errors returned by the package.
var (
	ErrNotDataURL  = errors.New("not a base64 data url")
	ErrUnsupported = errors.New("unsupported media type")
	ErrTooLarge    = errors.New("media file too large")
)

// Encode builds a data URL for data of the given MIME type.
func Encode(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode splits a base64 data URL into its MIME type and bytes.
func Decode(payload string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(payload, "data:")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	header, body, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	mime, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	data, err = base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrNotDataURL, err)
	}
	return mime, data, nil
}

// Detect sniffs data and maps it to a block type.
func Detect(data []byte) (core.BlockType, string) {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case strings.HasPrefix(m.String(), "image/"):
			return core.BlockImage, mt.String()
		case strings.HasPrefix(m.String(), "video/"):
			return core.BlockVideo, mt.String()
		case m.Is("text/plain"):
			return core.BlockText, mt.String()
		}
	}
	return "", mt.String()
}

// ImportFile reads path and returns the block type and content it maps to.
// Text files become text blocks; images and videos become data URLs.
func ImportFile(path string) (core.BlockType, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", "", err
	}
	if info.Size() > MaxSize {
		return "", "", fmt.Errorf("%s: %w", path, ErrTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	typ, mime := Detect(data)
	switch typ {
	case core.BlockText:
		return typ, string(data), nil
	case core.BlockImage, core.BlockVideo:
		return typ, Encode(mime, data), nil
	}
	return "", "", fmt.Errorf("%s (%s): %w", path, mime, ErrUnsupported)
}

// Glob expands a doublestar pattern (e.g. "photos/**/*.png") into file paths.
func Glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return matches, nil
}

// DecodeImage decodes the image held by an image block's content.
func DecodeImage(payload string) (image.Image, error) {
	mime, data, err := Decode(payload)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(mime, "image/") {
		return nil, fmt.Errorf("%s: %w", mime, ErrUnsupported)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", mime, err)
	}
	return img, nil
}
