package fur

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/fur/mask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFurConfig(t *testing.T) {
	cfg := DefaultFurConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, uint32(1024), cfg.Mask.Size)
	assert.InDelta(t, 0.4, cfg.Mask.Density, 1e-9)
	assert.InDelta(t, 0.5, cfg.Mask.MinIntensity, 1e-9)
	assert.Equal(t, 50, cfg.Layers)
	assert.InDelta(t, 0.2, cfg.StartShadow, 1e-6)
	assert.InDelta(t, 0.2, cfg.MaxHairLength, 1e-6)
}

func TestParseFurConfig_PartialKeepsDefaults(t *testing.T) {
	cfg, err := ParseFurConfig([]byte(`
mask_size: 256
seed: 17
layers: 24
window:
  width: 640
  height: 480
  title: Leopard
`))
	require.NoError(t, err)

	assert.Equal(t, uint32(256), cfg.Mask.Size)
	assert.Equal(t, uint64(17), cfg.Mask.Seed)
	assert.InDelta(t, 0.4, cfg.Mask.Density, 1e-9)
	assert.Equal(t, 24, cfg.Layers)
	assert.Equal(t, WindowConfig{Width: 640, Height: 480, Title: "Leopard"}, cfg.Window)
}

func TestParseFurConfig_Empty(t *testing.T) {
	cfg, err := ParseFurConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultFurConfig(), cfg)
}

func TestParseFurConfig_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown field":  "hair_colour: red\n",
		"bad density":    "density: 1.5\n",
		"zero layers":    "layers: 0\n",
		"zero size":      "mask_size: 0\n",
		"negative hair":  "max_hair_length: -1\n",
		"shadow range":   "start_shadow: 2\n",
		"window":         "window:\n  width: 0\n",
		"malformed yaml": "layers: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFurConfig([]byte(doc))
			assert.Error(t, err)
		})
	}

	_, err := ParseFurConfig([]byte("density: -0.1\n"))
	assert.ErrorIs(t, err, mask.ErrInvalidArgument)
}

func TestFurConfig_SaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultFurConfig()
	cfg.Mask.Seed = 99
	cfg.Mask.Size = 64
	cfg.DiffuseTexture = "leopard.png"

	path := filepath.Join(t.TempDir(), "fur.yaml")
	require.NoError(t, SaveFurConfig(path, cfg))

	back, err := LoadFurConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLoadFurConfig_Missing(t *testing.T) {
	_, err := LoadFurConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
