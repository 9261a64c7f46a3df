package favicon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"twixsite/config"
)

// Manifest is the web app manifest document.
// Field order is the serialized key order.
type Manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description"`
	Icons           []ManifestIcon `json:"icons"`
	ThemeColor      string         `json:"theme_color"`
	BackgroundColor string         `json:"background_color"`
	Display         string         `json:"display"`
	StartURL        string         `json:"start_url"`
}

type ManifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

// NewManifest builds the manifest from configuration
func NewManifest(cfg config.ManifestConfig) *Manifest {
	icons := make([]ManifestIcon, 0, len(cfg.Icons))
	for _, icon := range cfg.Icons {
		icons = append(icons, ManifestIcon{
			Src:   icon.Src,
			Sizes: icon.Sizes,
			Type:  icon.Type,
		})
	}

	return &Manifest{
		Name:            cfg.Name,
		ShortName:       cfg.ShortName,
		Description:     cfg.Description,
		Icons:           icons,
		ThemeColor:      cfg.ThemeColor,
		BackgroundColor: cfg.BackgroundColor,
		Display:         cfg.Display,
		StartURL:        cfg.StartURL,
	}
}

// Marshal serializes the manifest with 2-space indentation
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteManifest writes the manifest to path, replacing any existing file
func WriteManifest(path string, m *Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
