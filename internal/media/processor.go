package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

const (
	DefaultMaxBytes     = 5 * 1024 * 1024
	DefaultMaxDimension = 3840
)

var (
	ErrEmptyImage        = errors.New("media: empty image")
	ErrImageTooLarge     = errors.New("media: image exceeds maximum size")
	ErrUnsupportedType   = errors.New("media: unsupported image type")
	ErrInvalidImage      = errors.New("media: image could not be decoded")
	ErrDimensionTooLarge = errors.New("media: image dimensions exceed maximum")
)

// allowedFormats maps image.DecodeConfig format names to content type and
// file extension.
var allowedFormats = map[string]struct {
	contentType string
	ext         string
}{
	"jpeg": {"image/jpeg", ".jpg"},
	"png":  {"image/png", ".png"},
	"webp": {"image/webp", ".webp"},
}

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Result struct {
	Bytes       []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

type Processor interface {
	Process(ctx context.Context, upload Upload) (*Result, error)
}

// Inspector accepts jpeg, png and webp images up to a byte and pixel limit.
// The declared content type must agree with what the bytes decode as.
type Inspector struct {
	maxBytes     int64
	maxDimension int
}

func NewInspector(maxBytes int64, maxDimension int) *Inspector {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &Inspector{maxBytes: maxBytes, maxDimension: maxDimension}
}

func (p *Inspector) MaxBytes() int64 { return p.maxBytes }

func (p *Inspector) Process(ctx context.Context, upload Upload) (*Result, error) {
	if upload.Reader == nil {
		return nil, ErrEmptyImage
	}
	if upload.Size > p.maxBytes {
		return nil, ErrImageTooLarge
	}
	declared := normalizeContentType(upload.ContentType, upload.FileName)
	if !allowedContentType(declared) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, declared)
	}

	data, err := io.ReadAll(io.LimitReader(upload.Reader, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if int64(len(data)) > p.maxBytes {
		return nil, ErrImageTooLarge
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	allowed, ok := allowedFormats[format]
	if !ok || allowed.contentType != declared {
		return nil, fmt.Errorf("%w: declared %s, got %s", ErrUnsupportedType, declared, format)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidImage, cfg.Width, cfg.Height)
	}
	if cfg.Width > p.maxDimension || cfg.Height > p.maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensionTooLarge, cfg.Width, cfg.Height)
	}

	return &Result{
		Bytes:       data,
		ContentType: allowed.contentType,
		Ext:         allowed.ext,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

func allowedContentType(ct string) bool {
	for _, allowed := range allowedFormats {
		if allowed.contentType == ct {
			return true
		}
	}
	return false
}

func normalizeContentType(value, fileName string) string {
	ct := strings.ToLower(strings.TrimSpace(value))
	if parsed, _, err := mime.ParseMediaType(ct); err == nil {
		ct = parsed
	}
	if ct != "" && ct != "application/octet-stream" {
		if ct == "image/jpg" {
			return "image/jpeg"
		}
		return ct
	}
	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName)))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	if ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			return strings.ToLower(mt)
		}
	}
	return ""
}

var _ Processor = (*Inspector)(nil)
