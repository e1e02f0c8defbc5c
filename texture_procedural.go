package fur

import (
	"github.com/gekko3d/fur/mask"
)

var (
	spotBase  = [4]uint8{205, 150, 80, 255}
	spotRing  = [4]uint8{45, 30, 20, 255}
	spotInner = [4]uint8{160, 100, 45, 255}
)

// ProceduralSpotTexture paints a tan RGBA8 texture with dark rosettes,
// standing in for a photographic pelt when no image is configured.
func ProceduralSpotTexture(size uint32, src mask.RandSource) []uint8 {
	n := int(size)
	texels := make([]uint8, n*n*4)
	for i := 0; i < n*n; i++ {
		copy(texels[i*4:], spotBase[:])
	}
	if n == 0 {
		return texels
	}

	spots := n * n / 256
	if spots == 0 {
		spots = 1
	}
	maxRadius := n/16 + 2

	for s := 0; s < spots; s++ {
		cx, cy := src.IntN(n), src.IntN(n)
		outer := 2 + src.IntN(maxRadius)
		inner := outer / 2
		for dy := -outer; dy <= outer; dy++ {
			for dx := -outer; dx <= outer; dx++ {
				d2 := dx*dx + dy*dy
				if d2 > outer*outer {
					continue
				}
				// Wrap so the texture tiles.
				x := wrapIndex(cx+dx, n)
				y := wrapIndex(cy+dy, n)
				color := spotRing
				if d2 < inner*inner {
					color = spotInner
				}
				copy(texels[(y*n+x)*4:], color[:])
			}
		}
	}
	return texels
}

func wrapIndex(v, n int) int {
	return ((v % n) + n) % n
}
