package mask

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed draws and fails the test on overrun.
type scriptedSource struct {
	t     *testing.T
	draws []int
	bound []int
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.draws) == 0 {
		s.t.Fatalf("unexpected draw with bound %d", n)
	}
	v := s.draws[0]
	s.draws = s.draws[1:]
	s.bound = append(s.bound, n)
	return v
}

func assertMaskInvariants(t *testing.T, m *StrandMask, size uint32, density, minIntensity float64) {
	t.Helper()

	require.Len(t, m.Data, int(size)*int(size))
	assert.Equal(t, size, m.Size)

	minValue := MinValue(minIntensity)
	for i, v := range m.Data {
		if v == 0 {
			continue
		}
		if int(v) < minValue || v > 254 {
			t.Errorf("texel %d = %d outside [%d,254]", i, v, minValue)
		}
	}
	assert.LessOrEqual(t, m.NonZero(), StrandCount(size, density))
}

func TestGenerate_Invariants(t *testing.T) {
	cases := []struct {
		size         uint32
		density      float64
		minIntensity float64
	}{
		{1, 0, 0},
		{1, 1, 0.5},
		{4, 0.5, 0.5},
		{16, 0.4, 0.5},
		{64, 1, 0},
		{128, 0.25, 0.99},
		{3, 0.7, 0.1},
	}

	for _, c := range cases {
		for seed := uint64(1); seed <= 5; seed++ {
			m, err := Generate(c.size, c.density, c.minIntensity, NewSource(seed))
			require.NoError(t, err)
			assertMaskInvariants(t, m, c.size, c.density, c.minIntensity)
		}
	}
}

func TestGenerate_ZeroDensityIsEmpty(t *testing.T) {
	m, err := Generate(32, 0, 0.5, NewSource(7))
	require.NoError(t, err)
	assert.Equal(t, 0, m.NonZero())
	assert.Equal(t, make([]uint8, 32*32), m.Data)
}

func TestGenerate_SingleTexelFullDensity(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		m, err := Generate(1, 1, 0.5, NewSource(seed))
		require.NoError(t, err)
		require.Len(t, m.Data, 1)
		assert.GreaterOrEqual(t, m.Data[0], uint8(127))
		assert.LessOrEqual(t, m.Data[0], uint8(254))
	}
}

func TestGenerate_Example(t *testing.T) {
	assert.Equal(t, 8, StrandCount(4, 0.5))
	assert.Equal(t, 127, MinValue(0.5))

	m, err := Generate(4, 0.5, 0.5, NewSource(42))
	require.NoError(t, err)
	assertMaskInvariants(t, m, 4, 0.5, 0.5)
}

func TestGenerate_DrawOrderAndLayout(t *testing.T) {
	// Two strands: (x=1,y=2) then (x=3,y=0), intensity offsets 0 and 127.
	src := &scriptedSource{t: t, draws: []int{1, 2, 0, 3, 0, 127}}

	m, err := Generate(4, 0.125, 0.5, src)
	require.NoError(t, err)

	assert.Equal(t, []int{4, 4, 128, 4, 4, 128}, src.bound)
	assert.Equal(t, uint8(127), m.Data[1*4+2])
	assert.Equal(t, uint8(254), m.Data[3*4+0])
	assert.Equal(t, uint8(127), m.At(1, 2))
	assert.Equal(t, 2, m.NonZero())
}

func TestGenerate_CollisionsOverwrite(t *testing.T) {
	src := &scriptedSource{t: t, draws: []int{0, 0, 5, 0, 0, 9}}

	m, err := Generate(2, 0.5, 0, src)
	require.NoError(t, err)

	assert.Equal(t, 1, m.NonZero())
	assert.Equal(t, uint8(9), m.Data[0])
}

func TestGenerate_FullMinIntensity(t *testing.T) {
	m, err := Generate(2, 1, 1, NewSource(3))
	require.NoError(t, err)
	for _, v := range m.Data {
		assert.True(t, v == 0 || v == 255, "unexpected value %d", v)
	}
	assert.Positive(t, m.NonZero())
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(64, 0.4, 0.5, NewSource(1234))
	require.NoError(t, err)
	b, err := Generate(64, 0.4, 0.5, NewSource(1234))
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)

	c, err := Generate(64, 0.4, 0.5, NewSource(4321))
	require.NoError(t, err)
	assert.NotEqual(t, a.Data, c.Data)
}

func TestGenerate_NilSourceUsesClock(t *testing.T) {
	m, err := Generate(8, 0.5, 0.2, nil)
	require.NoError(t, err)
	assertMaskInvariants(t, m, 8, 0.5, 0.2)
}

func TestGenerate_InvalidArguments(t *testing.T) {
	cases := []struct {
		name         string
		size         uint32
		density      float64
		minIntensity float64
	}{
		{"zero size", 0, 0.5, 0.5},
		{"negative density", 4, -0.1, 0.5},
		{"density above one", 4, 1.01, 0.5},
		{"nan density", 4, math.NaN(), 0.5},
		{"negative intensity", 4, 0.5, -1},
		{"intensity above one", 4, 0.5, 2},
		{"nan intensity", 4, 0.5, math.NaN()},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := Generate(c.size, c.density, c.minIntensity, NewSource(1))
			assert.Nil(t, m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument), "got %v", err)
		})
	}
}

func TestStrandMask_PNGRoundTrip(t *testing.T) {
	m, err := Generate(16, 0.3, 0.4, NewSource(99))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.EncodePNG(&buf))

	back, err := DecodePNG(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Size, back.Size)
	assert.Equal(t, m.Data, back.Data)
}

func TestStrandMask_ImageLayout(t *testing.T) {
	m := &StrandMask{Size: 2, Data: []uint8{1, 2, 3, 4}}
	img := m.Image()

	// Data[x*size+y] is texel row x, column y.
	assert.Equal(t, color.Gray{Y: 2}, img.GrayAt(1, 0))
	assert.Equal(t, color.Gray{Y: 3}, img.GrayAt(0, 1))

	img.Pix[0] = 200
	assert.Equal(t, uint8(1), m.Data[0])
}

func TestFromImage_RejectsNonSquare(t *testing.T) {
	_, err := FromImage(image.NewGray(image.Rect(0, 0, 4, 2)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFromImage_ConvertsRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.White)

	m, err := FromImage(img)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 0, 0, 255}, m.Data)
}

func TestParams(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
	assert.Equal(t, uint32(1024), p.Size)

	p = Params{Size: 8, Density: 0.5, MinIntensity: 0.5, Seed: 11}
	a, err := p.Generate()
	require.NoError(t, err)
	b, err := p.Generate()
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)

	p.Density = 3
	assert.ErrorIs(t, p.Validate(), ErrInvalidArgument)
}

func TestStrandMask_IndexBeyondUint32(t *testing.T) {
	m := &StrandMask{Size: 70000}
	assert.Equal(t, 69999*70000+5, m.index(69999, 5))
	assert.Equal(t, 65536*70000, m.index(65536, 0))
}
