package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

var (
	ErrTooLarge       = errors.New("image exceeds size limit")
	ErrUnsupported    = errors.New("unsupported image format")
	ErrStoreDisabled  = errors.New("image storage is not configured")
	allowedImageKinds = map[string]bool{"jpeg": true, "png": true, "webp": true}
)

const webpQuality = 80

// Images normalizes uploads to WebP no wider than maxWidth.
type Images struct {
	store    ObjectStore
	maxWidth int
	maxBytes int64
}

func NewImages(store ObjectStore, maxWidth int, maxBytes int64) *Images {
	return &Images{store: store, maxWidth: maxWidth, maxBytes: maxBytes}
}

func (i *Images) Enabled() bool {
	return i != nil && i.store != nil
}

// Upload stores the image under <prefix>/<ownerID>/<uuid>.webp.
func (i *Images) Upload(ctx context.Context, prefix, ownerID string, r io.Reader) (string, error) {
	if !i.Enabled() {
		return "", ErrStoreDisabled
	}

	raw, err := io.ReadAll(io.LimitReader(r, i.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(raw)) > i.maxBytes {
		return "", ErrTooLarge
	}

	encoded, err := Normalize(raw, i.maxWidth)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%s.webp", prefix, ownerID, uuid.NewString())
	return i.store.Put(ctx, key, encoded, "image/webp")
}

// Normalize decodes jpeg/png/webp, downscales to maxWidth and re-encodes WebP.
func Normalize(raw []byte, maxWidth int) ([]byte, error) {
	src, kind, err := image.Decode(bytes.NewReader(raw))
	if err != nil || !allowedImageKinds[kind] {
		return nil, ErrUnsupported
	}

	img := resize(src, maxWidth)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func resize(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return src
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
