package mask

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is wrapped by every parameter validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// MaxIntensity is the exclusive upper bound of a generated strand value.
const MaxIntensity = 255

// StrandMask is a square single-channel bitmap. Texel (x, y) lives at
// Data[x*Size+y], which is the layout uploaded to the R8 fur texture.
type StrandMask struct {
	Size uint32
	Data []uint8
}

// Generate scatters floor(density*size*size) strands into a zeroed mask.
// Each strand gets an intensity in [floor(minIntensity*255), 255).
// Coordinates are drawn independently, so collisions overwrite and the
// number of non-zero texels may be lower than the strand count.
func Generate(size uint32, density, minIntensity float64, src RandSource) (*StrandMask, error) {
	if err := validate(size, density, minIntensity); err != nil {
		return nil, err
	}
	if src == nil {
		src = NewClockSource()
	}

	total := int(size) * int(size)
	data := make([]uint8, total)

	strands := StrandCount(size, density)
	minValue := MinValue(minIntensity)
	n := int(size)
	for i := 0; i < strands; i++ {
		x := src.IntN(n)
		y := src.IntN(n)
		data[x*n+y] = uint8(intensity(src, minValue))
	}

	return &StrandMask{Size: size, Data: data}, nil
}

// StrandCount is the number of random picks Generate performs.
func StrandCount(size uint32, density float64) int {
	return int(math.Floor(density * float64(size) * float64(size)))
}

// MinValue converts a [0,1] fraction into the lowest strand intensity.
func MinValue(minIntensity float64) int {
	return int(math.Floor(minIntensity * MaxIntensity))
}

// intensity draws from [minValue, 255). An empty range yields minValue.
func intensity(src RandSource, minValue int) int {
	span := MaxIntensity - minValue
	if span <= 0 {
		return minValue
	}
	return minValue + src.IntN(span)
}

func validate(size uint32, density, minIntensity float64) error {
	if size == 0 {
		return fmt.Errorf("%w: mask size must be positive", ErrInvalidArgument)
	}
	if !inUnitRange(density) {
		return fmt.Errorf("%w: density %v outside [0,1]", ErrInvalidArgument, density)
	}
	if !inUnitRange(minIntensity) {
		return fmt.Errorf("%w: min intensity %v outside [0,1]", ErrInvalidArgument, minIntensity)
	}
	return nil
}

// NaN fails both comparisons.
func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}

// At returns the intensity of texel (x, y).
func (m *StrandMask) At(x, y uint32) uint8 {
	return m.Data[m.index(x, y)]
}

func (m *StrandMask) index(x, y uint32) int {
	return int(x)*int(m.Size) + int(y)
}

// NonZero counts seeded texels.
func (m *StrandMask) NonZero() int {
	count := 0
	for _, v := range m.Data {
		if v != 0 {
			count++
		}
	}
	return count
}
