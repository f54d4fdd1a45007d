package kaze

// EvolutionLevel is one entry of the nonlinear scale space, indexed
// linearly by i = octave*nsublevels + sublevel.
type EvolutionLevel struct {
	Lt      *Image // diffused image at this level
	Lsmooth *Image // Lt convolved with the derivative Gaussian
	Lflow   *Image // conductivity map driving diffusion into this level

	Lx, Ly        *Image // first derivatives, scale-normalised
	Lxx, Lxy, Lyy *Image // second derivatives, scale-normalised
	Ldet          *Image // Hessian determinant response

	Esigma    float32
	Etime     float32
	SigmaSize int
	Octave    int
	Sublevel  int
}

// newEvolutionLevel allocates every buffer for one level at the working
// resolution. Buffers are allocated once at configuration time and zeroed
// (not freed) on reuse.
func newEvolutionLevel(width, height int) *EvolutionLevel {
	return &EvolutionLevel{
		Lt:      NewImage(width, height),
		Lsmooth: NewImage(width, height),
		Lflow:   NewImage(width, height),
		Lx:      NewImage(width, height),
		Ly:      NewImage(width, height),
		Lxx:     NewImage(width, height),
		Lxy:     NewImage(width, height),
		Lyy:     NewImage(width, height),
		Ldet:    NewImage(width, height),
	}
}

func (lv *EvolutionLevel) zero() {
	lv.Lt.zero()
	lv.Lsmooth.zero()
	lv.Lflow.zero()
	lv.Lx.zero()
	lv.Ly.zero()
	lv.Lxx.zero()
	lv.Lxy.zero()
	lv.Lyy.zero()
	lv.Ldet.zero()
}

// Keypoint is one detected, refined, oriented local feature.
type Keypoint struct {
	X, Y     float32
	Size     float32
	Angle    float32 // radians in [0, 2*pi); 0 when upright
	Response float32
	Octave   int
	ClassID  int // index into the evolution-level array
}

// DescriptorMatrix is a dense, row-major N x D matrix of L2-unit rows, one
// row per keypoint in the same order as the keypoint slice it was built
// from.
type DescriptorMatrix struct {
	Rows, Cols int
	Data       []float32
}

// NewDescriptorMatrix allocates a zero-filled rows x cols matrix.
func NewDescriptorMatrix(rows, cols int) *DescriptorMatrix {
	return &DescriptorMatrix{Rows: rows, Cols: cols, Data: make([]float32, rows*cols)}
}

// Row returns the slice backing row i; mutations through it write into the
// matrix.
func (m *DescriptorMatrix) Row(i int) []float32 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}
