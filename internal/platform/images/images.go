// Package images stores uploaded recipe images on disk, resized to a web
// friendly width.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const maxWidth = 800

// Storage writes images under Dir and hands back the relative path to embed
// in recipe views.
type Storage struct {
	Dir string
}

// NewStorage returns a Storage rooted at dir.
func NewStorage(dir string) Storage {
	return Storage{Dir: dir}
}

// Save decodes, resizes and writes the image under a fresh uuid filename.
// extension must be one of ".jpeg", ".jpg", ".png".
func (s Storage) Save(data []byte, extension string) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = resize.Resize(maxWidth, 0, img, resize.Lanczos3)

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create images directory: %w", err)
	}

	imagePath := filepath.Join(s.Dir, uuid.NewString()+extension)
	out, err := os.Create(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer out.Close()

	switch extension {
	case ".jpeg", ".jpg":
		err = jpeg.Encode(out, img, nil)
	case ".png":
		err = png.Encode(out, img)
	default:
		return "", fmt.Errorf("unsupported image format: %s", extension)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	return filepath.ToSlash(imagePath), nil
}
