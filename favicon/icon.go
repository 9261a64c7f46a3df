package favicon

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	ico "github.com/sergeymakinen/go-ico"
)

// LoadFrames decodes the PNG files that exist among paths, preserving order.
// Missing files are skipped; any other error aborts loading.
func LoadFrames(paths []string) ([]image.Image, error) {
	var frames []image.Image

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		img, err := decodePNG(path)
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}

	return frames, nil
}

// WriteIcon packs frames into a multi-resolution ICO file at path.
// Each frame keeps its own dimensions.
func WriteIcon(path string, frames []image.Image) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to write")
	}

	var buf bytes.Buffer
	if err := ico.EncodeAll(&buf, frames); err != nil {
		return fmt.Errorf("failed to encode ico: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write ico: %w", err)
	}

	return nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return img, nil
}
