package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the path to the canonical reduction defaults file.
const DefaultConfigPath = "config/reduction.defaults.json"

// Method names accepted by the reduction dispatcher.
const (
	MethodSimple   = "simple"
	MethodAdvanced = "advanced"
	MethodProper   = "proper"
)

// ReductionConfig holds the tunable parameters for beam reduction.
// Every field is optional; the Get* accessors supply defaults so partial
// JSON or YAML files are safe.
type ReductionConfig struct {
	Method          *string  `json:"method,omitempty" yaml:"method,omitempty"`
	ReductionFactor *float64 `json:"reduction_factor,omitempty" yaml:"reduction_factor,omitempty"`

	// Advanced method: number of equal-width angle bins. 0 derives it from
	// the observed angle spread and NominalBeamPitchDeg.
	NumBins             *int     `json:"num_bins,omitempty" yaml:"num_bins,omitempty"`
	NominalBeamPitchDeg *float64 `json:"nominal_beam_pitch_deg,omitempty" yaml:"nominal_beam_pitch_deg,omitempty"`

	// Proper method: histogram resolution and peak detection thresholds.
	HistogramBins             *int     `json:"histogram_bins,omitempty" yaml:"histogram_bins,omitempty"`
	MinPeakHeightFraction     *float64 `json:"min_peak_height_fraction,omitempty" yaml:"min_peak_height_fraction,omitempty"`
	MinPeakSeparationDeg      *float64 `json:"min_peak_separation_deg,omitempty" yaml:"min_peak_separation_deg,omitempty"`
	MinPeakProminenceFraction *float64 `json:"min_peak_prominence_fraction,omitempty" yaml:"min_peak_prominence_fraction,omitempty"`
	FallbackHeightFraction    *float64 `json:"fallback_height_fraction,omitempty" yaml:"fallback_height_fraction,omitempty"`
	FallbackMinPeaks          *int     `json:"fallback_min_peaks,omitempty" yaml:"fallback_min_peaks,omitempty"`
	DegenerateSpreadDeg       *float64 `json:"degenerate_spread_deg,omitempty" yaml:"degenerate_spread_deg,omitempty"`

	// Batch processing
	Workers *int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyReductionConfig returns a ReductionConfig with all fields set to nil.
func EmptyReductionConfig() *ReductionConfig {
	return &ReductionConfig{}
}

// DefaultReductionConfig returns a config with every field populated from the
// built-in defaults. It matches config/reduction.defaults.json.
func DefaultReductionConfig() *ReductionConfig {
	c := EmptyReductionConfig()
	return &ReductionConfig{
		Method:                    ptrString(c.GetMethod()),
		ReductionFactor:           ptrFloat64(c.GetReductionFactor()),
		NumBins:                   ptrInt(c.GetNumBins()),
		NominalBeamPitchDeg:       ptrFloat64(c.GetNominalBeamPitchDeg()),
		HistogramBins:             ptrInt(c.GetHistogramBins()),
		MinPeakHeightFraction:     ptrFloat64(c.GetMinPeakHeightFraction()),
		MinPeakSeparationDeg:      ptrFloat64(c.GetMinPeakSeparationDeg()),
		MinPeakProminenceFraction: ptrFloat64(c.GetMinPeakProminenceFraction()),
		FallbackHeightFraction:    ptrFloat64(c.GetFallbackHeightFraction()),
		FallbackMinPeaks:          ptrInt(c.GetFallbackMinPeaks()),
		DegenerateSpreadDeg:       ptrFloat64(c.GetDegenerateSpreadDeg()),
		Workers:                   ptrInt(c.GetWorkers()),
	}
}

// LoadReductionConfig loads a ReductionConfig from a .json, .yaml or .yml file.
// Fields omitted from the file keep their defaults.
func LoadReductionConfig(path string) (*ReductionConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyReductionConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// SaveReductionConfig writes cfg as YAML or JSON depending on the extension.
func SaveReductionConfig(path string, cfg *ReductionConfig) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	default:
		return fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath.
// It searches the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *ReductionConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/lidar/beams/
		"../../../../" + DefaultConfigPath, // from internal/lidar/storage/sqlite/
	}
	for _, path := range candidates {
		if cfg, err := LoadReductionConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *ReductionConfig) Validate() error {
	if c.Method != nil {
		switch *c.Method {
		case MethodSimple, MethodAdvanced, MethodProper:
		default:
			return fmt.Errorf("method must be one of %s, %s, %s, got %q", MethodSimple, MethodAdvanced, MethodProper, *c.Method)
		}
	}
	if c.ReductionFactor != nil {
		if *c.ReductionFactor <= 0 || *c.ReductionFactor > 1 {
			return fmt.Errorf("reduction_factor must be in (0, 1], got %f", *c.ReductionFactor)
		}
	}
	if c.NumBins != nil && *c.NumBins < 0 {
		return fmt.Errorf("num_bins must be non-negative, got %d", *c.NumBins)
	}
	if c.NominalBeamPitchDeg != nil && *c.NominalBeamPitchDeg <= 0 {
		return fmt.Errorf("nominal_beam_pitch_deg must be positive, got %f", *c.NominalBeamPitchDeg)
	}
	if c.HistogramBins != nil && *c.HistogramBins < 3 {
		return fmt.Errorf("histogram_bins must be at least 3, got %d", *c.HistogramBins)
	}
	for name, v := range map[string]*float64{
		"min_peak_height_fraction":     c.MinPeakHeightFraction,
		"min_peak_prominence_fraction": c.MinPeakProminenceFraction,
		"fallback_height_fraction":     c.FallbackHeightFraction,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return fmt.Errorf("%s must be between 0 and 1, got %f", name, *v)
		}
	}
	if c.MinPeakSeparationDeg != nil && *c.MinPeakSeparationDeg < 0 {
		return fmt.Errorf("min_peak_separation_deg must be non-negative, got %f", *c.MinPeakSeparationDeg)
	}
	if c.FallbackMinPeaks != nil && *c.FallbackMinPeaks < 0 {
		return fmt.Errorf("fallback_min_peaks must be non-negative, got %d", *c.FallbackMinPeaks)
	}
	if c.DegenerateSpreadDeg != nil && *c.DegenerateSpreadDeg < 0 {
		return fmt.Errorf("degenerate_spread_deg must be non-negative, got %f", *c.DegenerateSpreadDeg)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	return nil
}

// GetMethod returns the method value or the default.
func (c *ReductionConfig) GetMethod() string {
	if c.Method == nil || *c.Method == "" {
		return MethodProper
	}
	return *c.Method
}

// GetReductionFactor returns the reduction_factor value or the default.
func (c *ReductionConfig) GetReductionFactor() float64 {
	if c.ReductionFactor == nil {
		return 0.5
	}
	return *c.ReductionFactor
}

// GetNumBins returns the num_bins value or the default (0 = derive).
func (c *ReductionConfig) GetNumBins() int {
	if c.NumBins == nil {
		return 0
	}
	return *c.NumBins
}

// GetNominalBeamPitchDeg returns the nominal_beam_pitch_deg value or the default.
func (c *ReductionConfig) GetNominalBeamPitchDeg() float64 {
	if c.NominalBeamPitchDeg == nil {
		return 0.42 // HDL-64E mean vertical spacing
	}
	return *c.NominalBeamPitchDeg
}

// GetHistogramBins returns the histogram_bins value or the default.
func (c *ReductionConfig) GetHistogramBins() int {
	if c.HistogramBins == nil {
		return 500
	}
	return *c.HistogramBins
}

// GetMinPeakHeightFraction returns the min_peak_height_fraction value or the default.
func (c *ReductionConfig) GetMinPeakHeightFraction() float64 {
	if c.MinPeakHeightFraction == nil {
		return 0.01
	}
	return *c.MinPeakHeightFraction
}

// GetMinPeakSeparationDeg returns the min_peak_separation_deg value or the default.
func (c *ReductionConfig) GetMinPeakSeparationDeg() float64 {
	if c.MinPeakSeparationDeg == nil {
		return 0.1
	}
	return *c.MinPeakSeparationDeg
}

// GetMinPeakProminenceFraction returns the min_peak_prominence_fraction value or the default.
func (c *ReductionConfig) GetMinPeakProminenceFraction() float64 {
	if c.MinPeakProminenceFraction == nil {
		return 0
	}
	return *c.MinPeakProminenceFraction
}

// GetFallbackHeightFraction returns the fallback_height_fraction value or the default.
func (c *ReductionConfig) GetFallbackHeightFraction() float64 {
	if c.FallbackHeightFraction == nil {
		return 0.005
	}
	return *c.FallbackHeightFraction
}

// GetFallbackMinPeaks returns the fallback_min_peaks value or the default.
func (c *ReductionConfig) GetFallbackMinPeaks() int {
	if c.FallbackMinPeaks == nil {
		return 30
	}
	return *c.FallbackMinPeaks
}

// GetDegenerateSpreadDeg returns the degenerate_spread_deg value or the default.
func (c *ReductionConfig) GetDegenerateSpreadDeg() float64 {
	if c.DegenerateSpreadDeg == nil {
		return 0.05
	}
	return *c.DegenerateSpreadDeg
}

// GetWorkers returns the workers value or the default (0 = GOMAXPROCS).
func (c *ReductionConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}
