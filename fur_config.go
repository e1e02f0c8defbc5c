package fur

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gekko3d/fur/mask"
	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// FurConfig describes the fur scene. Every field is optional in YAML;
// missing fields keep the DefaultFurConfig value.
type FurConfig struct {
	Mask mask.Params `yaml:",inline"`

	Layers        int     `yaml:"layers"`
	StartShadow   float32 `yaml:"start_shadow"`
	MaxHairLength float32 `yaml:"max_hair_length"`

	// DiffuseTexture is an image path; empty selects the procedural pelt.
	DiffuseTexture string `yaml:"diffuse_texture"`
	// Shader is a WGSL path; empty selects the embedded shader.
	Shader string `yaml:"shader"`

	Window WindowConfig `yaml:"window"`
}

func DefaultFurConfig() FurConfig {
	return FurConfig{
		Mask:          mask.DefaultParams(),
		Layers:        50,
		StartShadow:   0.2,
		MaxHairLength: 0.2,
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Fur",
		},
	}
}

func LoadFurConfig(filename string) (FurConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return FurConfig{}, fmt.Errorf("failed to read fur config: %w", err)
	}
	cfg, err := ParseFurConfig(data)
	if err != nil {
		return FurConfig{}, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

func ParseFurConfig(data []byte) (FurConfig, error) {
	cfg := DefaultFurConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return FurConfig{}, fmt.Errorf("failed to parse fur config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return FurConfig{}, err
	}
	return cfg, nil
}

func (c FurConfig) Validate() error {
	if err := c.Mask.Validate(); err != nil {
		return err
	}
	if c.Layers <= 0 {
		return fmt.Errorf("%w: layers must be positive, got %d", mask.ErrInvalidArgument, c.Layers)
	}
	if c.MaxHairLength <= 0 {
		return fmt.Errorf("%w: max_hair_length must be positive, got %v", mask.ErrInvalidArgument, c.MaxHairLength)
	}
	if c.StartShadow < 0 || c.StartShadow > 1 {
		return fmt.Errorf("%w: start_shadow %v outside [0,1]", mask.ErrInvalidArgument, c.StartShadow)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window %dx%d", mask.ErrInvalidArgument, c.Window.Width, c.Window.Height)
	}
	return nil
}

// SaveFurConfig writes cfg so a run can be reproduced; pair it with a
// non-zero seed for a stable strand mask.
func SaveFurConfig(filename string, cfg FurConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode fur config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write fur config: %w", err)
	}
	return nil
}
