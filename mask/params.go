package mask

import "fmt"

// Params groups the generator inputs. Seed 0 selects a clock-seeded source.
type Params struct {
	Size         uint32  `yaml:"mask_size"`
	Density      float64 `yaml:"density"`
	MinIntensity float64 `yaml:"min_hair_length"`
	Seed         uint64  `yaml:"seed"`
}

// DefaultParams mirrors the stock fur scene: a 1024² mask, 40% coverage and
// hair at least half the maximum length.
func DefaultParams() Params {
	return Params{
		Size:         1024,
		Density:      0.4,
		MinIntensity: 0.5,
	}
}

func (p Params) Validate() error {
	return validate(p.Size, p.Density, p.MinIntensity)
}

// Source returns the random source selected by Seed.
func (p Params) Source() RandSource {
	if p.Seed == 0 {
		return NewClockSource()
	}
	return NewSource(p.Seed)
}

func (p Params) Generate() (*StrandMask, error) {
	return Generate(p.Size, p.Density, p.MinIntensity, p.Source())
}

func (p Params) String() string {
	return fmt.Sprintf("size=%d density=%.3f min=%.3f seed=%d", p.Size, p.Density, p.MinIntensity, p.Seed)
}
