package kaze

import (
	"time"

	"github.com/pkg/errors"
)

// State is one stop of the engine lifecycle state machine.
type State int

const (
	Created State = iota
	Configured
	ScaleSpaceBuilt
	Detected
	Described
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Configured:
		return "Configured"
	case ScaleSpaceBuilt:
		return "ScaleSpaceBuilt"
	case Detected:
		return "Detected"
	case Described:
		return "Described"
	default:
		return "Unknown"
	}
}

// Engine owns the nonlinear scale space and runs the full KAZE pipeline
// over it. An Engine is not safe for concurrent use by multiple goroutines
// for the same run, but its internal stages parallelise work across a
// bounded worker pool.
type Engine struct {
	cfg    Config
	state  State
	levels []*EvolutionLevel

	candidates []candidate
	keypoints  []Keypoint
}

// New allocates every evolution-level buffer for cfg and returns a ready
// Engine, or an InvalidConfig error if cfg is impossible.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:    cfg,
		state:  Configured,
		levels: allocateLevels(&cfg),
	}, nil
}

// Reset returns the engine to the Configured state, zeroing every buffer
// without freeing it so a subsequent run reuses the same allocation.
func (e *Engine) Reset() {
	zeroLevels(e.levels)
	e.candidates = nil
	e.keypoints = nil
	e.state = Configured
}

// ScaleSpace returns the evolution-level array built by the last run, or
// nil if Config.SaveScaleSpace is false or no run has completed the
// scale-space stage yet.
func (e *Engine) ScaleSpace() []EvolutionLevel {
	if !e.cfg.SaveScaleSpace || e.state < ScaleSpaceBuilt {
		return nil
	}
	out := make([]EvolutionLevel, len(e.levels))
	for i, lv := range e.levels {
		out[i] = *lv
	}
	return out
}

func (e *Engine) checkImage(img *Image) error {
	if img.Width != e.cfg.ImgWidth || img.Height != e.cfg.ImgHeight {
		return dimensionMismatchf("input image is %dx%d, engine configured for %dx%d",
			img.Width, img.Height, e.cfg.ImgWidth, e.cfg.ImgHeight)
	}
	return nil
}

func (e *Engine) timeStage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if e.cfg.OnStageDone != nil {
		e.cfg.OnStageDone(name, time.Since(start))
	}
	return err
}

// Detect runs the scale-space, derivative and detection/orientation stages
// and returns the surviving keypoints. It leaves the Engine in the
// Detected state so a subsequent Compute call can reuse the same buffers.
func (e *Engine) Detect(img *Image) ([]Keypoint, error) {
	if err := e.checkImage(img); err != nil {
		return nil, err
	}
	if e.state != Configured {
		e.Reset()
	}

	if err := e.timeStage("scale-space", func() error {
		return buildScaleSpace(e.levels, img, &e.cfg)
	}); err != nil {
		return nil, errors.Wrap(err, "building nonlinear scale space")
	}
	e.state = ScaleSpaceBuilt

	if err := e.timeStage("derivatives", func() error {
		computeDerivatives(e.levels, e.cfg.Workers)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "computing multiscale derivatives")
	}

	var kpts []Keypoint
	if err := e.timeStage("detection", func() error {
		e.candidates = findCandidates(e.levels, &e.cfg)
		for _, c := range e.candidates {
			if kpt, ok := refineCandidate(e.levels, &e.cfg, c); ok {
				kpts = append(kpts, kpt)
			}
		}
		kpts = suppressByDistance(kpts, e.cfg.SuppressionRadius)
		if !e.cfg.Upright {
			for i := range kpts {
				kpts[i].Angle = computeOrientation(e.levels[kpts[i].ClassID], kpts[i])
			}
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "detecting keypoints")
	}

	e.keypoints = kpts
	e.state = Detected
	return kpts, nil
}

// Compute builds descriptors for kpts against the Engine's current scale
// space, which must already have been built by a prior Detect call.
func (e *Engine) Compute(img *Image, kpts []Keypoint) (*DescriptorMatrix, error) {
	if err := e.checkImage(img); err != nil {
		return nil, err
	}
	if e.state != Detected && e.state != Described {
		return nil, invalidConfigf("Compute requires a prior Detect call on the same image (state=%s)", e.state)
	}

	var desc *DescriptorMatrix
	if err := e.timeStage("description", func() error {
		desc = buildDescriptors(e.levels, kpts, &e.cfg)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "building descriptors")
	}
	e.state = Described
	return desc, nil
}

// DetectAndCompute runs the full pipeline and returns both keypoints and
// their descriptors. An empty keypoint slice is a valid, non-error result:
// an image with no detectable features is not itself an error.
func (e *Engine) DetectAndCompute(img *Image) ([]Keypoint, *DescriptorMatrix, error) {
	kpts, err := e.Detect(img)
	if err != nil {
		return nil, nil, err
	}
	if len(kpts) == 0 {
		return kpts, NewDescriptorMatrix(0, e.cfg.descriptorDims()), nil
	}
	desc, err := e.Compute(img, kpts)
	if err != nil {
		return nil, nil, err
	}
	return kpts, desc, nil
}
