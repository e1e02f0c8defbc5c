package fur

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type AssetId string

type TextureFormat uint32

const (
	TextureFormatR8Unorm TextureFormat = iota + 1
	TextureFormatRGBA8Unorm
)

// BytesPerTexel is the tightly packed texel size used for uploads.
func (f TextureFormat) BytesPerTexel() uint32 {
	switch f {
	case TextureFormatR8Unorm:
		return 1
	case TextureFormatRGBA8Unorm:
		return 4
	default:
		panic(fmt.Sprintf("unknown texture format %d", f))
	}
}

type FilterMode string

const (
	FilterLinear  FilterMode = "linear"
	FilterNearest FilterMode = "nearest"
)

type WrapMode string

const (
	WrapRepeat WrapMode = "wrap"
	WrapMirror WrapMode = "mirror"
	WrapClamp  WrapMode = "clamp"
)

type AssetServer struct {
	textures map[AssetId]TextureAsset
	samplers map[AssetId]SamplerAsset
	shaders  map[AssetId]ShaderAsset
}

type AssetServerModule struct{}

type TextureAsset struct {
	texels []uint8
	width  uint32
	height uint32
	format TextureFormat
}

func (tx TextureAsset) Width() uint32         { return tx.width }
func (tx TextureAsset) Height() uint32        { return tx.height }
func (tx TextureAsset) Format() TextureFormat { return tx.format }
func (tx TextureAsset) Texels() []uint8       { return tx.texels }

type SamplerAsset struct {
	filter FilterMode
	wrap   WrapMode
}

type ShaderAsset struct {
	name    string
	listing string
}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(NewAssetServer())
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		textures: make(map[AssetId]TextureAsset),
		samplers: make(map[AssetId]SamplerAsset),
		shaders:  make(map[AssetId]ShaderAsset),
	}
}

// CreateTexture registers tightly packed texels. The slice is not copied.
func (server *AssetServer) CreateTexture(texels []uint8, texWidth uint32, texHeight uint32, format TextureFormat) (AssetId, error) {
	want := int(texWidth) * int(texHeight) * int(format.BytesPerTexel())
	if texWidth == 0 || texHeight == 0 || len(texels) != want {
		return "", fmt.Errorf("texture %dx%d needs %d bytes, got %d", texWidth, texHeight, want, len(texels))
	}

	id := makeAssetId()
	server.textures[id] = TextureAsset{
		texels: texels,
		width:  texWidth,
		height: texHeight,
		format: format,
	}
	return id, nil
}

// LoadTexture decodes any registered image format into an RGBA8 texture.
func (server *AssetServer) LoadTexture(filename string) (AssetId, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open texture: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode texture %s: %w", filename, err)
	}

	bounds := img.Bounds()
	rgbaImg, ok := img.(*image.RGBA)
	if !ok || rgbaImg.Stride != bounds.Dx()*4 {
		rgbaImg = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgbaImg, rgbaImg.Bounds(), img, bounds.Min, draw.Src)
	}

	id, err := server.CreateTexture(rgbaImg.Pix, uint32(bounds.Dx()), uint32(bounds.Dy()), TextureFormatRGBA8Unorm)
	if err != nil {
		return "", fmt.Errorf("texture %s (%s): %w", filename, format, err)
	}
	return id, nil
}

func (server *AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	tx, ok := server.textures[id]
	return tx, ok
}

func (server *AssetServer) CreateSampler(filter FilterMode, wrap WrapMode) AssetId {
	id := makeAssetId()

	server.samplers[id] = SamplerAsset{
		filter: filter,
		wrap:   wrap,
	}

	return id
}

func (server *AssetServer) Sampler(id AssetId) (SamplerAsset, bool) {
	s, ok := server.samplers[id]
	return s, ok
}

func (server *AssetServer) CreateShader(name string, listing string) AssetId {
	id := makeAssetId()
	server.shaders[id] = ShaderAsset{
		name:    name,
		listing: listing,
	}
	return id
}

// LoadShader reads WGSL source from disk.
func (server *AssetServer) LoadShader(filename string) (AssetId, error) {
	shaderData, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read shader: %w", err)
	}
	return server.CreateShader(filename, string(shaderData)), nil
}

func (server *AssetServer) Shader(id AssetId) (ShaderAsset, bool) {
	s, ok := server.shaders[id]
	return s, ok
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
