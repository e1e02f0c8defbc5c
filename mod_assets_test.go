package fur

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, path string, img image.Image, encode func(*os.File, image.Image) error) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, encode(f, img))
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(2, 1, color.NRGBA{B: 255, A: 255})
	return img
}

func TestAssetServer_CreateTexture(t *testing.T) {
	server := NewAssetServer()

	id, err := server.CreateTexture(make([]uint8, 4*4), 4, 4, TextureFormatR8Unorm)
	require.NoError(t, err)

	tx, ok := server.Texture(id)
	require.True(t, ok)
	assert.Equal(t, uint32(4), tx.Width())
	assert.Equal(t, uint32(4), tx.Height())
	assert.Equal(t, TextureFormatR8Unorm, tx.Format())

	_, err = server.CreateTexture(make([]uint8, 10), 4, 4, TextureFormatRGBA8Unorm)
	assert.Error(t, err)

	_, err = server.CreateTexture(nil, 0, 4, TextureFormatR8Unorm)
	assert.Error(t, err)
}

func TestAssetServer_UniqueIds(t *testing.T) {
	server := NewAssetServer()
	a := server.CreateSampler(FilterLinear, WrapClamp)
	b := server.CreateSampler(FilterNearest, WrapClamp)
	assert.NotEqual(t, a, b)

	s, ok := server.Sampler(b)
	require.True(t, ok)
	assert.Equal(t, FilterNearest, s.filter)
	assert.Equal(t, WrapClamp, s.wrap)
}

func TestAssetServer_LoadTexturePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pelt.png")
	writeImage(t, path, testImage(), func(f *os.File, img image.Image) error { return png.Encode(f, img) })

	server := NewAssetServer()
	id, err := server.LoadTexture(path)
	require.NoError(t, err)

	tx, ok := server.Texture(id)
	require.True(t, ok)
	assert.Equal(t, uint32(3), tx.Width())
	assert.Equal(t, uint32(2), tx.Height())
	assert.Equal(t, TextureFormatRGBA8Unorm, tx.Format())
	require.Len(t, tx.Texels(), 3*2*4)
	assert.Equal(t, []uint8{255, 0, 0, 255}, tx.Texels()[0:4])
	assert.Equal(t, []uint8{0, 0, 255, 255}, tx.Texels()[(1*3+2)*4:(1*3+2)*4+4])
}

func TestAssetServer_LoadTextureBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pelt.bmp")
	writeImage(t, path, testImage(), func(f *os.File, img image.Image) error { return bmp.Encode(f, img) })

	server := NewAssetServer()
	id, err := server.LoadTexture(path)
	require.NoError(t, err)

	tx, _ := server.Texture(id)
	assert.Equal(t, uint32(3), tx.Width())
	assert.Equal(t, []uint8{255, 0, 0, 255}, tx.Texels()[0:4])
}

func TestAssetServer_LoadTextureErrors(t *testing.T) {
	server := NewAssetServer()

	_, err := server.LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = server.LoadTexture(garbage)
	assert.ErrorIs(t, err, image.ErrFormat)
}

func TestAssetServer_LoadShader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fur.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("// shader"), 0o644))

	server := NewAssetServer()
	id, err := server.LoadShader(path)
	require.NoError(t, err)

	sh, ok := server.Shader(id)
	require.True(t, ok)
	assert.Equal(t, "// shader", sh.listing)
	assert.Equal(t, path, sh.name)

	_, err = server.LoadShader(filepath.Join(t.TempDir(), "nope.wgsl"))
	assert.Error(t, err)
}

func TestTextureFormat_BytesPerTexel(t *testing.T) {
	assert.Equal(t, uint32(1), TextureFormatR8Unorm.BytesPerTexel())
	assert.Equal(t, uint32(4), TextureFormatRGBA8Unorm.BytesPerTexel())
	assert.Panics(t, func() { TextureFormat(99).BytesPerTexel() })
}
