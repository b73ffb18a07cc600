package ui

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qeesung/image2ascii/convert"
)

// loadNewsImage decodes a news image stored under uploadsDir. The name is
// reduced to its base so a stored value cannot point outside the directory.
func loadNewsImage(uploadsDir, name string) (image.Image, error) {
	if name == "" || uploadsDir == "" {
		return nil, nil
	}
	f, err := os.Open(filepath.Join(uploadsDir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to open news image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode news image: %w", err)
	}
	return img, nil
}

// convertToASCII converts an image to colored ASCII art.
func convertToASCII(img image.Image, targetWidth, targetHeight int) string {
	converter := convert.NewImageConverter()

	opts := convert.DefaultOptions
	opts.FixedWidth = targetWidth
	opts.FixedHeight = targetHeight
	opts.Colored = true
	opts.Ratio = 0.5 // terminal cells are about twice as tall as wide

	return converter.Image2ASCIIString(img, &opts)
}
