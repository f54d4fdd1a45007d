package kaze

import (
	"runtime"
	"time"
)

// maxWorkers bounds the size of the internal worker pool regardless of
// GOMAXPROCS, keeping goroutine fan-out finite on very high core-count
// machines.
const maxWorkers = 32

// DiffusivityKind selects the conductivity function driving the nonlinear
// diffusion.
type DiffusivityKind int

const (
	PMG1 DiffusivityKind = iota
	PMG2
	Weickert
)

func (d DiffusivityKind) String() string {
	switch d {
	case PMG1:
		return "PM_G1"
	case PMG2:
		return "PM_G2"
	case Weickert:
		return "Weickert"
	default:
		return "unknown diffusivity"
	}
}

// DescriptorKind selects the descriptor family built for every keypoint.
type DescriptorKind int

const (
	SURF DescriptorKind = iota
	MSURF
	GSURF
)

func (d DescriptorKind) String() string {
	switch d {
	case SURF:
		return "SURF"
	case MSURF:
		return "M-SURF"
	case GSURF:
		return "G-SURF"
	default:
		return "unknown descriptor"
	}
}

// Config holds every option that shapes one Engine run. It is immutable for
// the lifetime of a run; build a new Config (or mutate and call Validate
// again) between runs with different parameters.
type Config struct {
	ImgWidth, ImgHeight int

	Omax       int // number of octaves, >= 1
	NSublevels int // sublevels per octave, >= 1

	Soffset      float32 // base sigma
	SDerivatives float32 // sigma of the pre-derivative Gaussian

	Diffusivity DiffusivityKind

	// DThreshold is the minimum Hessian-determinant response accepted as
	// an extremum. MinDetectorThreshold is an absolute floor applied on
	// top of it regardless of caller configuration.
	DThreshold           float32
	MinDetectorThreshold float32

	Descriptor DescriptorKind
	Upright    bool
	Extended   bool

	UseClippingNormalisation bool
	ClipNIter                int
	ClipRatio                float32

	KContrastPercentile float32
	KContrastNBins      int

	// DiffusivityK, when > 0, overrides automatic k-contrast estimation.
	DiffusivityK float32

	// SuppressionRadius, when > 0, enables post-refinement pairwise
	// distance suppression at this pixel radius. Zero disables it.
	SuppressionRadius float32

	// SaveScaleSpace, when true, keeps references to all evolution-level
	// buffers reachable via Engine.ScaleSpace() after a run completes.
	SaveScaleSpace bool

	// Workers caps the internal worker-pool size. <= 0 defaults to
	// runtime.NumCPU(), itself capped at maxWorkers.
	Workers int

	// OnStageDone, if non-nil, is called after each of the four pipeline
	// stages (scale-space, derivatives, detection, description) completes,
	// with the stage name and its wall-clock duration.
	OnStageDone func(stage string, elapsed time.Duration)
}

// DefaultConfig returns a Config with the literature-standard KAZE defaults
// for the given fixed working resolution.
func DefaultConfig(width, height int) Config {
	return Config{
		ImgWidth:             width,
		ImgHeight:            height,
		Omax:                 4,
		NSublevels:           4,
		Soffset:              1.6,
		SDerivatives:         1.0,
		Diffusivity:          PMG2,
		DThreshold:           0.001,
		MinDetectorThreshold: 1e-5,
		Descriptor:           MSURF,
		Upright:              false,
		Extended:             false,
		ClipNIter:            5,
		ClipRatio:            0.2,
		KContrastPercentile:  0.7,
		KContrastNBins:       300,
		Workers:              runtime.NumCPU(),
	}
}

// Validate rejects impossible configurations before any buffer is
// allocated.
func (c *Config) Validate() error {
	if c.ImgWidth <= 0 || c.ImgHeight <= 0 {
		return invalidConfigf("image dimensions must be positive, got %dx%d", c.ImgWidth, c.ImgHeight)
	}
	if c.Omax < 1 {
		return invalidConfigf("omax must be >= 1, got %d", c.Omax)
	}
	if c.NSublevels < 1 {
		return invalidConfigf("nsublevels must be >= 1, got %d", c.NSublevels)
	}
	if c.Omax*c.NSublevels < 3 {
		return invalidConfigf("omax*nsublevels must be >= 3 to have an interior detection level, got %d", c.Omax*c.NSublevels)
	}
	if c.Soffset <= 0 {
		return invalidConfigf("soffset must be positive, got %g", c.Soffset)
	}
	if c.SDerivatives <= 0 {
		return invalidConfigf("sderivatives must be positive, got %g", c.SDerivatives)
	}
	if c.Diffusivity != PMG1 && c.Diffusivity != PMG2 && c.Diffusivity != Weickert {
		return invalidConfigf("unknown diffusivity kind %d", c.Diffusivity)
	}
	if c.Descriptor != SURF && c.Descriptor != MSURF && c.Descriptor != GSURF {
		return invalidConfigf("unknown descriptor kind %d", c.Descriptor)
	}
	if c.KContrastNBins < 1 {
		return invalidConfigf("kcontrast_nbins must be >= 1, got %d", c.KContrastNBins)
	}
	if c.KContrastPercentile <= 0 || c.KContrastPercentile > 1 {
		return invalidConfigf("kcontrast_percentile must be in (0,1], got %g", c.KContrastPercentile)
	}
	if c.UseClippingNormalisation && c.ClipNIter < 1 {
		return invalidConfigf("clip_niter must be >= 1 when clipping normalisation is enabled, got %d", c.ClipNIter)
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Workers > maxWorkers {
		c.Workers = maxWorkers
	}
	return nil
}

// descriptorDims returns the output descriptor length for this config.
func (c *Config) descriptorDims() int {
	if c.Extended {
		return 128
	}
	return 64
}
