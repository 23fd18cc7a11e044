package beams

import (
	"fmt"
	"math"

	"github.com/banshee-data/beam.reduce/internal/config"
	"github.com/banshee-data/beam.reduce/internal/units"
)

// Params holds the tunables shared by all reduction methods. Each method
// reads the fields it needs and ignores the rest.
type Params struct {
	// ReductionFactor is the fraction of beams (proper, advanced) or points
	// (simple) to retain.
	ReductionFactor float64

	// NumBins is the advanced method's equal-width bin count. 0 derives it
	// from the observed angle spread and NominalBeamPitchDeg.
	NumBins             int
	NominalBeamPitchDeg float64

	// HistogramBins is the proper method's histogram resolution.
	HistogramBins int

	MinPeakHeightFraction     float64
	MinPeakProminenceFraction float64
	MinPeakSeparationDeg      float64

	// A second, more sensitive peak pass runs when the first finds fewer
	// than FallbackMinPeaks peaks. FallbackHeightFraction 0 disables it.
	FallbackHeightFraction float64
	FallbackMinPeaks       int

	// DegenerateSpreadDeg is the largest angle spread treated as a single
	// beam.
	DegenerateSpreadDeg float64
}

// DefaultParams returns the built-in defaults. They match
// config/reduction.defaults.json.
func DefaultParams() Params {
	return ParamsFromConfig(config.EmptyReductionConfig())
}

// ParamsFromConfig builds Params from a loaded ReductionConfig.
func ParamsFromConfig(cfg *config.ReductionConfig) Params {
	return Params{
		ReductionFactor:           cfg.GetReductionFactor(),
		NumBins:                   cfg.GetNumBins(),
		NominalBeamPitchDeg:       cfg.GetNominalBeamPitchDeg(),
		HistogramBins:             cfg.GetHistogramBins(),
		MinPeakHeightFraction:     cfg.GetMinPeakHeightFraction(),
		MinPeakProminenceFraction: cfg.GetMinPeakProminenceFraction(),
		MinPeakSeparationDeg:      cfg.GetMinPeakSeparationDeg(),
		FallbackHeightFraction:    cfg.GetFallbackHeightFraction(),
		FallbackMinPeaks:          cfg.GetFallbackMinPeaks(),
		DegenerateSpreadDeg:       cfg.GetDegenerateSpreadDeg(),
	}
}

// Validate checks that the parameters are usable. Errors are InvalidInputError.
func (p Params) Validate() error {
	bad := func(format string, args ...interface{}) error {
		return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
	}
	if math.IsNaN(p.ReductionFactor) || p.ReductionFactor <= 0 || p.ReductionFactor > 1 {
		return bad("reduction factor must be in (0, 1], got %v", p.ReductionFactor)
	}
	if p.NumBins < 0 {
		return bad("num bins must be non-negative, got %d", p.NumBins)
	}
	if p.NumBins == 0 && p.NominalBeamPitchDeg <= 0 {
		return bad("nominal beam pitch must be positive when num bins is derived, got %v", p.NominalBeamPitchDeg)
	}
	if p.HistogramBins < 3 {
		return bad("histogram bins must be at least 3, got %d", p.HistogramBins)
	}
	if p.MinPeakHeightFraction < 0 || p.MinPeakHeightFraction > 1 {
		return bad("min peak height fraction must be in [0, 1], got %v", p.MinPeakHeightFraction)
	}
	if p.MinPeakProminenceFraction < 0 || p.MinPeakProminenceFraction > 1 {
		return bad("min peak prominence fraction must be in [0, 1], got %v", p.MinPeakProminenceFraction)
	}
	if p.FallbackHeightFraction < 0 || p.FallbackHeightFraction > 1 {
		return bad("fallback height fraction must be in [0, 1], got %v", p.FallbackHeightFraction)
	}
	if p.MinPeakSeparationDeg < 0 {
		return bad("min peak separation must be non-negative, got %v", p.MinPeakSeparationDeg)
	}
	if p.DegenerateSpreadDeg < 0 {
		return bad("degenerate spread must be non-negative, got %v", p.DegenerateSpreadDeg)
	}
	return nil
}

// peakParams converts the angular separation into bins of width binWidth.
func (p Params) peakParams(binWidth float64) PeakParams {
	sep := 1
	if binWidth > 0 && p.MinPeakSeparationDeg > 0 {
		sep = int(math.Ceil(units.Rad(p.MinPeakSeparationDeg) / binWidth))
		if sep < 1 {
			sep = 1
		}
	}
	return PeakParams{
		MinHeightFraction:     p.MinPeakHeightFraction,
		MinProminenceFraction: p.MinPeakProminenceFraction,
		MinSeparationBins:     sep,
	}
}
