package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	// Registered for DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxImageSize is the default upload limit
const MaxImageSize = 10 << 20

var (
	ErrEmptyImage      = errors.New("image is empty")
	ErrImageTooLarge   = errors.New("image too large")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrBadFilename     = errors.New("filename contains invalid characters")
)

// mime types by image.DecodeConfig format name
var mimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
	"tiff": "image/tiff",
}

// Image is an uploaded image with its sniffed format and natural size
type Image struct {
	Name     string
	Data     []byte
	Format   string // jpeg, png, gif, bmp, webp or tiff
	MimeType string
	Width    int
	Height   int
}

// DecodeImage sniffs the image format from its content and reads the natural
// size without decoding pixels
func DecodeImage(name string, data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmptyImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	return Image{
		Name:     name,
		Data:     data,
		Format:   format,
		MimeType: mimeTypes[format],
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// Validate checks an upload before it is sent to a provider: size limit,
// a safe filename and content that really is a supported image.
// maxSize <= 0 means MaxImageSize.
func Validate(name string, data []byte, maxSize int) (Image, error) {
	if maxSize <= 0 {
		maxSize = MaxImageSize
	}
	if len(data) > maxSize {
		return Image{}, fmt.Errorf("%w: %d bytes, limit is %d", ErrImageTooLarge, len(data), maxSize)
	}
	if unsafeFilename(name) {
		return Image{}, fmt.Errorf("%w: %q", ErrBadFilename, name)
	}
	img, err := DecodeImage(filepath.Base(name), data)
	if err != nil {
		return Image{}, err
	}
	if img.MimeType == "" {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedType, img.Format)
	}
	return img, nil
}

func unsafeFilename(name string) bool {
	if strings.Contains(name, "..") {
		return true
	}
	return strings.ContainsFunc(name, func(r rune) bool {
		return r < 0x20 || strings.ContainsRune(`<>:"|?*`, r)
	})
}
