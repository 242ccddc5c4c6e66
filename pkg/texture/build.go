package texture

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind names a synthesizer.
type Kind string

const (
	KindStripe Kind = "stripe"
	KindRadial Kind = "radial"
	KindEnergy Kind = "energy"
)

// Kinds lists every synthesizer in a stable order.
var Kinds = []Kind{KindStripe, KindRadial, KindEnergy}

// ParseKind resolves a synthesizer name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}

// Params describes one synthesizer configuration.
type Params interface {
	Kind() Kind
	key() string
	build() *Bitmap
}

// StripeParams configures SynthesizeStripe.
type StripeParams struct {
	Size         int     `yaml:"size"`
	StripeFreq   float32 `yaml:"stripe_freq"`
	ScanlineFreq float32 `yaml:"scanline_freq"`
	MicroFreq    float32 `yaml:"micro_freq"`
}

func (StripeParams) Kind() Kind { return KindStripe }

func (p StripeParams) key() string {
	return fmt.Sprintf("stripe/%d/%g/%g/%g", clampSize(p.Size), p.StripeFreq, p.ScanlineFreq, p.MicroFreq)
}

func (p StripeParams) build() *Bitmap {
	return SynthesizeStripe(p.Size, p.StripeFreq, p.ScanlineFreq, p.MicroFreq)
}

// RadialParams configures SynthesizeRadialFalloff.
type RadialParams struct {
	Size int `yaml:"size"`
}

func (RadialParams) Kind() Kind { return KindRadial }

func (p RadialParams) key() string {
	return fmt.Sprintf("radial/%d", clampSize(p.Size))
}

func (p RadialParams) build() *Bitmap {
	return SynthesizeRadialFalloff(p.Size)
}

// EnergyParams configures SynthesizeEnergy.
type EnergyParams struct {
	Size      int `yaml:"size"`
	Frequency int `yaml:"frequency"`
	Octaves   int `yaml:"octaves"`
}

func (EnergyParams) Kind() Kind { return KindEnergy }

func (p EnergyParams) key() string {
	return fmt.Sprintf("energy/%d/%d/%d", clampSize(p.Size), p.Frequency, p.Octaves)
}

func (p EnergyParams) build() *Bitmap {
	return SynthesizeEnergy(p.Size, p.Frequency, p.Octaves)
}

// DefaultStripe returns the panel stripe used by the props: dense bars over a
// slow scanline, with a finer diagonal grain on top.
func DefaultStripe(size int) StripeParams {
	return StripeParams{Size: size, StripeFreq: 32, ScanlineFreq: 8, MicroFreq: 96}
}

// DefaultParams returns the stock configuration of a kind at the given size.
func DefaultParams(kind Kind, size int) (Params, error) {
	switch kind {
	case KindStripe:
		return DefaultStripe(size), nil
	case KindRadial:
		return RadialParams{Size: size}, nil
	case KindEnergy:
		return EnergyParams{Size: size, Frequency: 4, Octaves: 4}, nil
	}
	return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
}

// BuildTexture synthesizes params after checking that they belong to kind.
func BuildTexture(kind Kind, params Params) (*Bitmap, error) {
	if params == nil {
		return nil, errors.Wrapf(ErrKindMismatch, "nil params for %s", kind)
	}
	if params.Kind() != kind {
		return nil, errors.Wrapf(ErrKindMismatch, "want %s, got %s", kind, params.Kind())
	}
	return params.build(), nil
}
