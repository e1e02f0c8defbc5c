package fur

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"

	"github.com/gekko3d/fur/mask"
	"github.com/gekko3d/fur/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// FurVertex is the quad vertex. Fields tagged `fur:"layout"` become vertex
// attributes at the given shader location.
type FurVertex struct {
	Position [3]float32 `fur:"layout" location:"0" format:"float3"`
	Normal   [3]float32 `fur:"layout" location:"1" format:"float3"`
	TexCoord [2]float32 `fur:"layout" location:"2" format:"float2"`
}

// FurQuad is two triangles facing +Z at z=1.
var FurQuad = []FurVertex{
	{Position: [3]float32{-1, -1, 1}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 0}},
	{Position: [3]float32{-1, 1, 1}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 0}},
	{Position: [3]float32{1, 1, 1}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}},
	{Position: [3]float32{-1, -1, 1}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 0}},
	{Position: [3]float32{1, 1, 1}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}},
	{Position: [3]float32{1, -1, 1}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 1}},
}

// FurParams matches the FurParams uniform block in fur.wgsl (80 bytes).
type FurParams struct {
	ViewProj         mgl32.Mat4
	MaxHairLength    float32
	NumLayers        float32
	StartShadowValue float32
	_                float32
}

func (p FurParams) Bytes() []byte {
	buf := new(bytes.Buffer)
	buf.Grow(binary.Size(p))
	if err := binary.Write(buf, binary.LittleEndian, p); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// FurScene is the resource shared by the animation and render systems.
type FurScene struct {
	Config FurConfig
	Mask   *mask.StrandMask

	MaskTexture    AssetId
	DiffuseTexture AssetId
	LinearSampler  AssetId
	PointSampler   AssetId
	Shader         AssetId

	Vertices []FurVertex
	View     mgl32.Mat4
	Proj     mgl32.Mat4
	Params   FurParams
	Elapsed  float32
}

// FurTimeScale is the Time.Scale furdemo runs the swing animation at.
const FurTimeScale = 0.5

const (
	furFovY       = math.Pi / 4
	furNear       = 0.1
	furFar        = 100
	furSwingAngle = 0.4
)

func NewFurScene(cfg FurConfig) *FurScene {
	s := &FurScene{
		Config:   cfg,
		Vertices: FurQuad,
		View:     mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}),
		Params: FurParams{
			MaxHairLength:    cfg.MaxHairLength,
			NumLayers:        float32(cfg.Layers),
			StartShadowValue: cfg.StartShadow,
		},
	}
	s.SetAspect(float32(cfg.Window.Width) / float32(cfg.Window.Height))
	return s
}

// SetAspect rebuilds the projection for a new framebuffer shape.
func (s *FurScene) SetAspect(aspect float32) {
	if aspect <= 0 || math.IsNaN(float64(aspect)) {
		aspect = 1
	}
	s.Proj = mgl32.Perspective(furFovY, aspect, furNear, furFar)
	s.updateViewProj()
}

// Advance swings the quad around Y by sin(t)*0.4 radians. dt is already
// scaled by Time.Scale.
func (s *FurScene) Advance(dt time.Duration) {
	s.Elapsed += float32(dt.Seconds())
	s.updateViewProj()
}

func (s *FurScene) Rotation() mgl32.Mat4 {
	angle := float32(math.Sin(float64(s.Elapsed))) * furSwingAngle
	return mgl32.HomogRotate3DY(angle)
}

func (s *FurScene) updateViewProj() {
	s.Params.ViewProj = s.Proj.Mul4(s.View).Mul4(s.Rotation())
}

// Instances is the number of shells drawn per frame.
func (s *FurScene) Instances() uint32 {
	return uint32(s.Config.Layers)
}

type FurSceneModule struct {
	Config FurConfig
}

func (mod FurSceneModule) Install(app *App, cmd *Commands) {
	log := app.Logger()

	assets, ok := Resource[AssetServer](app)
	if !ok {
		assets = NewAssetServer()
		cmd.AddResources(assets)
	}

	scene, err := buildFurScene(mod.Config, assets)
	if err != nil {
		log.Errorf("Fur scene setup failed: %v", err)
		panic(err)
	}
	log.Infof("Strand mask %s: %d strands, %d seeded texels",
		mod.Config.Mask, mask.StrandCount(mod.Config.Mask.Size, mod.Config.Mask.Density), scene.Mask.NonZero())

	cmd.AddResources(scene)
	cmd.UseSystem(System(furAnimateSystem).InStage(Update))
}

func buildFurScene(cfg FurConfig, assets *AssetServer) (*FurScene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scene := NewFurScene(cfg)

	strands, err := cfg.Mask.Generate()
	if err != nil {
		return nil, err
	}
	scene.Mask = strands

	scene.MaskTexture, err = assets.CreateTexture(strands.Data, strands.Size, strands.Size, TextureFormatR8Unorm)
	if err != nil {
		return nil, err
	}

	if cfg.DiffuseTexture != "" {
		scene.DiffuseTexture, err = assets.LoadTexture(cfg.DiffuseTexture)
	} else {
		const peltSize = 512
		scene.DiffuseTexture, err = assets.CreateTexture(ProceduralSpotTexture(peltSize, cfg.Mask.Source()), peltSize, peltSize, TextureFormatRGBA8Unorm)
	}
	if err != nil {
		return nil, err
	}

	scene.LinearSampler = assets.CreateSampler(FilterLinear, WrapClamp)
	scene.PointSampler = assets.CreateSampler(FilterNearest, WrapClamp)

	if cfg.Shader != "" {
		scene.Shader, err = assets.LoadShader(cfg.Shader)
		if err != nil {
			return nil, err
		}
	} else {
		scene.Shader = assets.CreateShader("fur.wgsl", shaders.FurWGSL)
	}

	return scene, nil
}

func furAnimateSystem(t *Time, scene *FurScene) {
	scene.Advance(t.Dt)
}
