// Package theme holds the colour palette consulted when resolving header chrome.
package theme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Colour keys used by header chrome.
const (
	MainBackground               = "main-background"
	MainText                     = "main-text"
	BackgroundHeader             = "background-header"
	SecondaryBackgroundHeader    = "secondary-background-header"
	AltSecondaryBackgroundHeader = "alt-secondary-background-header"
	RevertedMainText             = "reverted-main-text"
)

// Palette maps colour keys to hex values.
type Palette struct {
	Name   string            `yaml:"name" json:"name"`
	Colors map[string]string `yaml:"colors" json:"colors"`
}

// Default returns the built-in light palette.
func Default() Palette {
	return Palette{
		Name: "default",
		Colors: map[string]string{
			MainBackground:               "#FFFFFF",
			MainText:                     "#393C63",
			BackgroundHeader:             "#4F58C0",
			SecondaryBackgroundHeader:    "#2D2B53",
			AltSecondaryBackgroundHeader: "#8E8E93",
			RevertedMainText:             "#FFFFFF",
		},
	}
}

// Color returns the value for key, falling back to the default palette.
func (p Palette) Color(key string) string {
	if v, ok := p.Colors[key]; ok && v != "" {
		return v
	}
	return Default().Colors[key]
}

// Load reads a YAML palette file. Missing keys fall back to Default at lookup time.
func Load(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, fmt.Errorf("failed to read theme: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML palette.
func Parse(data []byte) (Palette, error) {
	var p Palette
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Palette{}, fmt.Errorf("failed to parse theme: %w", err)
	}
	if p.Colors == nil {
		p.Colors = map[string]string{}
	}
	return p, nil
}
