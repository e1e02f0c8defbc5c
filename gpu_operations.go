package fur

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
)

func parseFormat(name string) wgpu.VertexFormat {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2
	case "float3":
		return wgpu.VertexFormatFloat32x3
	case "float4":
		return wgpu.VertexFormatFloat32x4
	default:
		panic("unsupported vertex layout format: " + name)
	}
}

func createVertexBufferLayout(vertexType any) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("Vertex must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if "layout" != field.Tag.Get("fur") {
			continue
		}

		location, err := strconv.Atoi(field.Tag.Get("location"))
		if nil != err {
			panic(err)
		}
		attributes = append(attributes, wgpu.VertexAttribute{
			ShaderLocation: uint32(location),
			Offset:         uint64(field.Offset),
			Format:         parseFormat(field.Tag.Get("format")),
		})
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(t.Size()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}
}

func wgpuTextureFormat(format TextureFormat) wgpu.TextureFormat {
	switch format {
	case TextureFormatR8Unorm:
		return wgpu.TextureFormatR8Unorm
	case TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm
	default:
		panic(fmt.Sprintf("Unknown texture format: %d", format))
	}
}

func wgpuWrapMode(mode WrapMode) wgpu.AddressMode {
	switch mode {
	case WrapRepeat:
		return wgpu.AddressModeRepeat
	case WrapMirror:
		return wgpu.AddressModeMirrorRepeat
	case WrapClamp:
		return wgpu.AddressModeClampToEdge
	default:
		panic(fmt.Sprintf("Unknown wrap mode: %s", mode))
	}
}

func wgpuFilterMode(mode FilterMode) wgpu.FilterMode {
	switch mode {
	case FilterNearest:
		return wgpu.FilterModeNearest
	case FilterLinear:
		return wgpu.FilterModeLinear
	default:
		panic(fmt.Sprintf("Unknown filter mode: %s", mode))
	}
}

// texelWriter is the part of *wgpu.Queue that uploads texture data.
type texelWriter interface {
	WriteTexture(destination *wgpu.ImageCopyTexture, data []byte, dataLayout *wgpu.TextureDataLayout, writeSize *wgpu.Extent3D) error
}

// bufferWriter is the part of *wgpu.Queue that updates buffers.
type bufferWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, bufferOffset uint64, data []byte) error
}

var (
	_ texelWriter  = (*wgpu.Queue)(nil)
	_ bufferWriter = (*wgpu.Queue)(nil)
)

func uploadTexels(queue texelWriter, dst *wgpu.ImageCopyTexture, txAsset TextureAsset, extent wgpu.Extent3D) error {
	return queue.WriteTexture(dst, txAsset.texels, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  txAsset.width * txAsset.format.BytesPerTexel(),
		RowsPerImage: txAsset.height,
	}, &extent)
}

func writeFurParams(queue bufferWriter, buf *wgpu.Buffer, params FurParams) error {
	if err := queue.WriteBuffer(buf, 0, params.Bytes()); err != nil {
		return fmt.Errorf("write fur params: %w", err)
	}
	return nil
}

func createTextureFromAsset(label string, txAsset TextureAsset, device *wgpu.Device, queue *wgpu.Queue) (*wgpu.TextureView, error) {
	extent := wgpu.Extent3D{
		Width:              txAsset.width,
		Height:             txAsset.height,
		DepthOrArrayLayers: 1,
	}
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpuTextureFormat(txAsset.format),
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %s: %w", label, err)
	}
	defer texture.Release()

	if err := uploadTexels(queue, texture.AsImageCopy(), txAsset, extent); err != nil {
		return nil, fmt.Errorf("upload texture %s: %w", label, err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("create texture view %s: %w", label, err)
	}
	return view, nil
}

func createSamplerFromAsset(label string, s SamplerAsset, device *wgpu.Device) (*wgpu.Sampler, error) {
	wrap := wgpuWrapMode(s.wrap)
	filter := wgpuFilterMode(s.filter)
	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  wrap,
		AddressModeV:  wrap,
		AddressModeW:  wrap,
		MagFilter:     filter,
		MinFilter:     filter,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler %s: %w", label, err)
	}
	return sampler, nil
}
