package fur

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const rendererFur = "fur-wgpu"

var (
	// PollEvents drains the glfw event queue ahead of PreUpdate.
	PollEvents = Stage{Name: "PollEvents"}
	// Present hands the frame submitted in Render to the swapchain.
	Present = Stage{Name: "Present"}
)

// FurRendererModule draws the FurScene into a glfw window with WebGPU.
// Install must run on the main OS thread, after FurSceneModule.
type FurRendererModule struct{}

// FurGpu owns the window and every GPU object of the fur pass.
type FurGpu struct {
	window *glfw.Window

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   *wgpu.SurfaceConfiguration

	pipeline     *wgpu.RenderPipeline
	bindGroup    *wgpu.BindGroup
	uniformBuf   *wgpu.Buffer
	vertexBuf    *wgpu.Buffer
	diffuseView  *wgpu.TextureView
	maskView     *wgpu.TextureView
	linearSample *wgpu.Sampler
	pointSample  *wgpu.Sampler

	frame *wgpu.Texture

	vertexCount  uint32
	resized      bool
	resizeWidth  int
	resizeHeight int
	minimized    bool
	released     bool
}

func (mod FurRendererModule) Install(app *App, cmd *Commands) {
	scene, ok := Resource[FurScene](app)
	if !ok {
		panic("FurRendererModule requires FurSceneModule")
	}
	assets, ok := Resource[AssetServer](app)
	if !ok {
		panic("FurRendererModule requires an AssetServer")
	}
	ensureSingleRenderer(app, rendererFur)

	window, err := createFurWindow(scene.Config.Window)
	if err != nil {
		panic(err)
	}

	gpu, err := newFurGpu(window, scene, assets)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		app.Logger().Errorf("GPU setup failed: %v", err)
		panic(err)
	}
	app.Logger().Infof("Fur renderer ready: %dx%d, %d shells", gpu.config.Width, gpu.config.Height, scene.Instances())

	cmd.AddResources(gpu)
	useFurStages(app)
	cmd.UseSystem(System(furWindowEventsSystem).InStage(PollEvents))
	cmd.UseSystem(System(furRenderSystem).InStage(Render))
	cmd.UseSystem(System(furPresentSystem).InStage(Present))
	cmd.UseSystem(System(furShutdownSystem).InStage(Finale))
}

func useFurStages(app *App) {
	app.UseStage(PollEvents, BeforeStage(PreUpdate))
	app.UseStage(Present, AfterStage(Render))
}

func createFurWindow(cfg WindowConfig) (*glfw.Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // WebGPU owns the surface, no GL context
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	return win, nil
}

func newFurGpu(window *glfw.Window, scene *FurScene, assets *AssetServer) (*FurGpu, error) {
	g := &FurGpu{window: window}

	g.instance = wgpu.CreateInstance(nil)
	g.surface = g.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	var err error
	g.adapter, err = g.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: g.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	g.device, err = g.adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	g.queue = g.device.GetQueue()

	width, height := window.GetFramebufferSize()
	caps := g.surface.GetCapabilities(g.adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		return nil, errors.New("surface reports no formats")
	}
	g.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	g.surface.Configure(g.adapter, g.device, g.config)
	g.minimized = width <= 0 || height <= 0
	if !g.minimized {
		scene.SetAspect(float32(width) / float32(height))
	}

	if err := g.createResources(scene, assets); err != nil {
		return nil, err
	}
	if err := g.createPipeline(scene, assets); err != nil {
		return nil, err
	}
	if err := g.createBindGroup(); err != nil {
		return nil, err
	}

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		g.resized = true
		g.resizeWidth, g.resizeHeight = w, h
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})

	return g, nil
}

func (g *FurGpu) createResources(scene *FurScene, assets *AssetServer) error {
	var err error

	g.uniformBuf, err = g.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Fur Params",
		Contents: scene.Params.Bytes(),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}

	g.vertexBuf, err = g.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Fur Quad",
		Contents: wgpu.ToBytes(scene.Vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	g.vertexCount = uint32(len(scene.Vertices))

	maskTx, ok := assets.Texture(scene.MaskTexture)
	if !ok {
		return fmt.Errorf("strand mask texture %s not found", scene.MaskTexture)
	}
	if g.maskView, err = createTextureFromAsset("Strand Mask", maskTx, g.device, g.queue); err != nil {
		return err
	}

	diffuseTx, ok := assets.Texture(scene.DiffuseTexture)
	if !ok {
		return fmt.Errorf("diffuse texture %s not found", scene.DiffuseTexture)
	}
	if g.diffuseView, err = createTextureFromAsset("Diffuse", diffuseTx, g.device, g.queue); err != nil {
		return err
	}

	linear, ok := assets.Sampler(scene.LinearSampler)
	if !ok {
		return fmt.Errorf("sampler %s not found", scene.LinearSampler)
	}
	if g.linearSample, err = createSamplerFromAsset("Linear Clamp", linear, g.device); err != nil {
		return err
	}

	point, ok := assets.Sampler(scene.PointSampler)
	if !ok {
		return fmt.Errorf("sampler %s not found", scene.PointSampler)
	}
	if g.pointSample, err = createSamplerFromAsset("Point Clamp", point, g.device); err != nil {
		return err
	}
	return nil
}

func (g *FurGpu) createPipeline(scene *FurScene, assets *AssetServer) error {
	shader, ok := assets.Shader(scene.Shader)
	if !ok {
		return fmt.Errorf("shader %s not found", scene.Shader)
	}

	module, err := g.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          shader.name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shader.listing},
	})
	if err != nil {
		return fmt.Errorf("compile %s: %w", shader.name, err)
	}
	defer module.Release()

	g.pipeline, err = g.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Fur Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{createVertexBufferLayout(FurVertex{})},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    g.config.Format,
				Blend:     nil,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create fur pipeline: %w", err)
	}
	return nil
}

func (g *FurGpu) createBindGroup() error {
	layout := g.pipeline.GetBindGroupLayout(0)
	defer layout.Release()

	var err error
	g.bindGroup, err = g.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Fur Bindings",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: g.uniformBuf, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: g.diffuseView},
			{Binding: 2, TextureView: g.maskView},
			{Binding: 3, Sampler: g.linearSample},
			{Binding: 4, Sampler: g.pointSample},
		},
	})
	if err != nil {
		return fmt.Errorf("create fur bind group: %w", err)
	}
	return nil
}

// setFramebufferSize records a new framebuffer size and reports whether the
// surface needs reconfiguring. A zero size marks the window minimized.
func (g *FurGpu) setFramebufferSize(width, height int) bool {
	if width <= 0 || height <= 0 {
		g.minimized = true
		return false
	}
	g.minimized = false
	g.config.Width = uint32(width)
	g.config.Height = uint32(height)
	return true
}

func (g *FurGpu) resize(width, height int) {
	if g.setFramebufferSize(width, height) {
		g.surface.Configure(g.adapter, g.device, g.config)
	}
}

// Render records and submits one frame. Nothing is drawn while minimized.
func (g *FurGpu) Render(scene *FurScene) error {
	if g.minimized || g.frame != nil {
		return nil
	}

	if err := writeFurParams(g.queue, g.uniformBuf, scene.Params); err != nil {
		return err
	}

	nextTexture, err := g.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("get current texture: %w", err)
	}

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		nextTexture.Release()
		return fmt.Errorf("create view: %w", err)
	}
	defer view.Release()

	encoder, err := g.device.CreateCommandEncoder(nil)
	if err != nil {
		nextTexture.Release()
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	pass.SetPipeline(g.pipeline)
	pass.SetBindGroup(0, g.bindGroup, nil)
	pass.SetVertexBuffer(0, g.vertexBuf, 0, g.vertexBuf.GetSize())
	pass.Draw(g.vertexCount, scene.Instances(), 0, 0)
	if err := pass.End(); err != nil {
		nextTexture.Release()
		return fmt.Errorf("end fur pass: %w", err)
	}

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		nextTexture.Release()
		return fmt.Errorf("finish encoder: %w", err)
	}
	defer cmdBuf.Release()

	g.queue.Submit(cmdBuf)
	g.frame = nextTexture
	return nil
}

// Present shows the frame submitted by Render, if any.
func (g *FurGpu) Present() {
	if g.frame == nil {
		return
	}
	g.surface.Present()
	g.frame.Release()
	g.frame = nil
}

// Release frees GPU objects and closes the window. Safe to call twice.
func (g *FurGpu) Release() {
	if g.released {
		return
	}
	g.released = true

	if g.frame != nil {
		g.frame.Release()
		g.frame = nil
	}
	g.bindGroup.Release()
	g.pipeline.Release()
	g.pointSample.Release()
	g.linearSample.Release()
	g.maskView.Release()
	g.diffuseView.Release()
	g.vertexBuf.Release()
	g.uniformBuf.Release()
	g.queue.Release()
	g.device.Release()
	g.adapter.Release()
	g.surface.Release()
	g.instance.Release()

	g.window.Destroy()
	glfw.Terminate()
}

func furWindowEventsSystem(gpu *FurGpu, scene *FurScene, cmd *Commands) {
	glfw.PollEvents()
	if gpu.window.ShouldClose() {
		cmd.Exit()
		return
	}
	if gpu.resized {
		gpu.resized = false
		gpu.resize(gpu.resizeWidth, gpu.resizeHeight)
		if !gpu.minimized {
			scene.SetAspect(float32(gpu.resizeWidth) / float32(gpu.resizeHeight))
		}
	}
}

func furRenderSystem(gpu *FurGpu, scene *FurScene, cmd *Commands) {
	if cmd.Exiting() {
		return
	}
	if err := gpu.Render(scene); err != nil {
		cmd.Logger().Errorf("Render failed: %v", err)
	}
}

func furPresentSystem(gpu *FurGpu) {
	gpu.Present()
}

func furShutdownSystem(gpu *FurGpu, cmd *Commands) {
	if cmd.Exiting() {
		gpu.Release()
	}
}
