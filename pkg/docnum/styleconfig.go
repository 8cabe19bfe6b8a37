package docnum

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// StyleConfig is the configuration record for one named paragraph style,
// consumed once at document setup to populate the StyleRegistry.
type StyleConfig struct {
	// BasedOn names the ancestor style. Leave empty for the minimal
	// ancestor (Normal). Styles that must carry zero inherited spacing
	// have to stay on a minimal ancestor: rich heading presets carry
	// built-in spacing that direct XML written afterward does not
	// supersede.
	BasedOn string `yaml:"based_on"`

	Font   string `yaml:"font"`
	SizePt int    `yaml:"size_pt"`
	Bold   bool   `yaml:"bold"`
	Italic bool   `yaml:"italic"`
	Color  string `yaml:"color"`

	SpaceBeforePt int `yaml:"space_before_pt"`
	SpaceAfterPt  int `yaml:"space_after_pt"`

	// Indents in hundredths of an inch.
	IndentLeft    int `yaml:"indent_left"`
	IndentHanging int `yaml:"indent_hanging"`
	FirstLine     int `yaml:"first_line"`

	// OutlineLevel marks heading-level styles: 1-9 per the usual heading
	// hierarchy, 0 for body styles. Stored 0-based in the XML.
	OutlineLevel int `yaml:"outline_level"`

	// Box requests a bordered box decoration around paragraphs of this
	// style.
	Box *BoxConfig `yaml:"box"`
}

// BoxConfig describes a bordered box decoration.
type BoxConfig struct {
	// Edge selects which borders to draw: "bottom", "top", "box" (all
	// four edges).
	Edge string `yaml:"edge"`
	// Color is a hex RGB value without the leading #.
	Color string `yaml:"color"`
	// WidthPt8 is the border width in eighths of a point.
	WidthPt8 int `yaml:"width_pt8"`
	// Fill is an optional hex background fill.
	Fill string `yaml:"fill"`
	// TableWrap wraps decorated paragraphs in a single-row table instead
	// of attaching border XML to the paragraph. Paragraph-level borders
	// are measured against an inherited line height the renderer does not
	// expose for override; a cell's height follows content plus explicit
	// margins.
	TableWrap bool `yaml:"table_wrap"`
}

// LoadStyleConfigs reads a style-name → StyleConfig mapping from YAML.
func LoadStyleConfigs(r io.Reader) (map[string]StyleConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read style config: %w", err)
	}

	configs := make(map[string]StyleConfig)
	if err := yaml.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse style config: %w", err)
	}

	for name, cfg := range configs {
		if err := validateStyleConfig(name, cfg); err != nil {
			return nil, err
		}
	}
	return configs, nil
}

// LoadStyleConfigFile reads style configuration from a YAML file.
func LoadStyleConfigFile(path string) (map[string]StyleConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	defer f.Close()
	return LoadStyleConfigs(f)
}

func validateStyleConfig(name string, cfg StyleConfig) error {
	if name == "" {
		return NewValidationError("name", "style name cannot be empty")
	}
	if cfg.SizePt < 0 {
		return NewValidationError(name+".size_pt", "font size cannot be negative")
	}
	if cfg.IndentHanging != 0 && cfg.IndentHanging > cfg.IndentLeft {
		return NewValidationError(name+".indent_hanging", "hanging indent cannot exceed left indent")
	}
	if cfg.Box != nil {
		switch cfg.Box.Edge {
		case "", "top", "bottom", "box":
		default:
			return NewValidationError(name+".box.edge", "unknown edge: "+cfg.Box.Edge)
		}
	}
	return nil
}
