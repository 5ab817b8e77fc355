package fftvis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
)

// BinMapping selects how FFT bins are distributed across output bars.
type BinMapping int

const (
	MappingNormalized BinMapping = iota
	MappingLog10
	MappingMel
)

// BuilderConfig is the fixed-per-session configuration for a Builder.
type BuilderConfig struct {
	BarCount      int
	DBFloor       float64 // negative, e.g. -80
	DBRange       float64 // positive, e.g. 90
	FrequencyMin  float64
	FrequencyMax  float64 // -1 means Nyquist
	Smoothness    int
	BinMapping    BinMapping
	FFTResolution int
}

// DefaultBuilderConfig returns reasonable defaults for a music visualization.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		BarCount:      64,
		DBFloor:       -80,
		DBRange:       90,
		FrequencyMin:  20,
		FrequencyMax:  -1,
		Smoothness:    1,
		BinMapping:    MappingLog10,
		FFTResolution: 2048,
	}
}

// Builder converts a window of mono PCM samples into one frame of bar
// amplitudes in [0,1]. It holds the FFT plan (which keeps its own scratch
// buffers), the Hann window, and a bar-edge table that Build fills in lazily
// for the sample rate it is given. Build therefore mutates the Builder, and a
// single instance is not safe for concurrent use; give each goroutine its
// own Builder.
type Builder struct {
	cfg BuilderConfig

	fft    *fourier.FFT
	window []float64

	edgeSampleRate int
	edges          []float64 // len BarCount+1 (normalized/log10) or BarCount+2 (mel)
}

// NewBuilder creates a Builder for the given configuration.
func NewBuilder(cfg BuilderConfig) *Builder {
	window := make([]float64, cfg.FFTResolution)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(cfg.FFTResolution-1)))
	}

	return &Builder{
		cfg:    cfg,
		fft:    fourier.NewFFT(cfg.FFTResolution),
		window: window,
	}
}

func (b *Builder) nyquist(sampleRate int) float64 {
	fMax := b.cfg.FrequencyMax
	if fMax < 0 {
		fMax = float64(sampleRate) / 2
	}
	return fMax
}

func (b *Builder) ensureEdges(sampleRate int) {
	if b.edgeSampleRate == sampleRate && b.edges != nil {
		return
	}
	b.edgeSampleRate = sampleRate

	fMin := b.cfg.FrequencyMin
	fMax := b.nyquist(sampleRate)
	bars := b.cfg.BarCount

	switch b.cfg.BinMapping {
	case MappingMel:
		melMin := hzToMel(fMin)
		melMax := hzToMel(fMax)
		edges := make([]float64, bars+2)
		for i := range edges {
			mel := melMin + (melMax-melMin)*float64(i)/float64(bars+1)
			edges[i] = melToHz(mel)
		}
		b.edges = edges
	default:
		// Normalized and Log10 use identical TriEase-based edges; only the
		// enum tag differs between them.
		logMin := math.Log10(fMin)
		logMax := math.Log10(fMax)
		edges := make([]float64, bars+1)
		for r := 0; r <= bars; r++ {
			t := float64(r) / float64(bars)
			eased := triEase(t)
			edges[r] = math.Pow(10, logMin+eased*(logMax-logMin))
		}
		b.edges = edges
	}
}

// Build converts one window of fftResolution mono samples, sampled at
// sampleRate, into a frame of BarCount amplitudes in [0,1]. It returns the
// frame alongside the maximum smoothed value observed within it, so callers
// running many windows concurrently can combine per-call maxima via an
// atomic max or a post-pass reduction instead of sharing mutable state.
func (b *Builder) Build(samples []float64, sampleRate int) (frame []float64, localMax float64) {
	b.ensureEdges(sampleRate)

	work := make([]float64, len(samples))
	copy(work, samples)
	sanitize(work)

	for i, v := range work {
		work[i] = v * b.window[i]
	}

	coeffs := b.fft.Coefficients(nil, work)
	magnitude := make([]float64, len(coeffs))
	for i, c := range coeffs {
		m := math.Hypot(real(c), imag(c))
		if math.IsInf(m, 0) || math.IsNaN(m) {
			m = 0
		}
		magnitude[i] = m
	}

	var power, weight []float64
	switch b.cfg.BinMapping {
	case MappingMel:
		power, weight = b.accumulateMel(magnitude, sampleRate)
	default:
		power, weight = b.accumulateLog(magnitude, sampleRate)
	}

	bars := b.cfg.BarCount
	dbNorm := make([]float64, bars)
	for r := 0; r < bars; r++ {
		if weight[r] == 0 {
			continue
		}
		rms := math.Sqrt(power[r])
		db := 20 * math.Log10(rms+1e-20)
		dbNorm[r] = clamp((db-b.cfg.DBFloor)/b.cfg.DBRange, 0, 1)
	}

	gated := dbNorm
	if b.cfg.BinMapping != MappingMel {
		gated = make([]float64, bars)
		for r, v := range dbNorm {
			x := 1 / (1 + math.Exp(-15*(v-0.4)))
			gated[r] = clamp(x, 0, 1)
		}
	}

	smoothed, maxVal := smooth(gated, b.cfg.Smoothness)
	return smoothed, maxVal
}

func (b *Builder) accumulateLog(magnitude []float64, sampleRate int) (power, weight []float64) {
	bars := b.cfg.BarCount
	power = make([]float64, bars)
	weight = make([]float64, bars)

	edges := b.edges
	freqPerBin := float64(sampleRate) / float64(b.cfg.FFTResolution)

	for bin := 1; bin < len(magnitude); bin++ {
		f := float64(bin) * freqPerBin
		if f < edges[0] || f >= edges[bars] {
			continue
		}
		k := findEdgeIndex(edges, f)
		alpha := (f - edges[k]) / (edges[k+1] - edges[k])
		energy := magnitude[bin] * magnitude[bin]

		power[k] += (1 - alpha) * energy
		weight[k] += 1 - alpha
		if k+1 < bars {
			power[k+1] += alpha * energy
			weight[k+1] += alpha
		}
	}
	return power, weight
}

func (b *Builder) accumulateMel(magnitude []float64, sampleRate int) (power, weight []float64) {
	bars := b.cfg.BarCount
	power = make([]float64, bars)
	weight = make([]float64, bars)

	edges := b.edges
	fMin := b.cfg.FrequencyMin
	fMax := b.nyquist(sampleRate)
	freqPerBin := float64(sampleRate) / float64(b.cfg.FFTResolution)

	for bin := 1; bin < len(magnitude); bin++ {
		f := float64(bin) * freqPerBin
		if f < fMin || f >= fMax {
			continue
		}
		k := largestEdgeAtMost(edges, f)
		if k < 1 || k > bars {
			continue
		}

		var w float64
		if f <= edges[k] {
			w = (f - edges[k-1]) / (edges[k] - edges[k-1])
		} else {
			w = (edges[k+1] - f) / (edges[k+1] - edges[k])
		}

		power[k-1] += magnitude[bin] * magnitude[bin] * w
		weight[k-1]++
	}
	return power, weight
}

// findEdgeIndex returns k such that edges[k] <= f < edges[k+1].
func findEdgeIndex(edges []float64, f float64) int {
	k := sort.Search(len(edges)-1, func(i int) bool { return edges[i+1] > f })
	if k >= len(edges)-1 {
		k = len(edges) - 2
	}
	return k
}

// largestEdgeAtMost returns the largest k such that edges[k] <= f.
func largestEdgeAtMost(edges []float64, f float64) int {
	k := sort.Search(len(edges), func(i int) bool { return edges[i] > f }) - 1
	return k
}

func sanitize(samples []float64) {
	var sum float64
	n := 0
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			samples[i] = 0
			v = 0
		}
		sum += v
		n++
	}
	if n == 0 {
		return
	}
	mean := sum / float64(n)
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return
	}
	for i := range samples {
		samples[i] -= mean
	}
}

func smooth(in []float64, s int) (out []float64, maxVal float64) {
	out = make([]float64, len(in))
	for r := range in {
		lo, hi := r-s, r+s
		if lo < 0 {
			lo = 0
		}
		if hi > len(in)-1 {
			hi = len(in) - 1
		}
		var sum float64
		count := 0
		for i := lo; i <= hi; i++ {
			sum += in[i]
			count++
		}
		v := sum / float64(count)
		out[r] = v
		if v > maxVal {
			maxVal = v
		}
	}
	return out, maxVal
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func hzToMel(hz float64) float64 {
	return 2595 * math.Log10(1+hz/700)
}

func melToHz(mel float64) float64 {
	return 700 * (math.Pow(10, mel/2595) - 1)
}

const (
	triLowMid  = 0.40
	triHighMid = 0.95
	triW       = 0.02
)

// triEase maps a linear position in [0,1] to an eased position in [0,1],
// allocating roughly half of the output range to the low 40% of the input.
func triEase(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < triLowMid-triW:
		return 0.5 * math.Pow(t/triLowMid, 0.5)
	case t < triLowMid+triW:
		t0, t1 := triLowMid-triW, triLowMid+triW
		v0 := 0.5 * math.Pow(t0/triLowMid, 0.5)
		d0 := 0.25 / triLowMid * math.Pow(t0/triLowMid, -0.5)
		v1 := 0.5 + 0.4*(t1-triLowMid)/(triHighMid-triLowMid)
		d1 := 0.4 / (triHighMid - triLowMid)
		return cubicHermite(t, t0, t1, v0, d0, v1, d1)
	case t < triHighMid-triW:
		return 0.5 + 0.4*(t-triLowMid)/(triHighMid-triLowMid)
	case t < triHighMid+triW:
		t0, t1 := triHighMid-triW, triHighMid+triW
		v0 := 0.5 + 0.4*(t0-triLowMid)/(triHighMid-triLowMid)
		d0 := 0.4 / (triHighMid - triLowMid)
		v1 := 0.9 + 0.1*math.Pow((t1-triHighMid)/(1-triHighMid), 0.9)
		d1 := 0.09 / (1 - triHighMid) * math.Pow((t1-triHighMid)/(1-triHighMid), -0.1)
		return cubicHermite(t, t0, t1, v0, d0, v1, d1)
	default:
		return 0.9 + 0.1*math.Pow((t-triHighMid)/(1-triHighMid), 0.9)
	}
}

// cubicHermite interpolates between (t0,v0,d0) and (t1,v1,d1) using the
// standard h00/h10/h01/h11 Hermite basis.
func cubicHermite(t, t0, t1, v0, d0, v1, d1 float64) float64 {
	L := t1 - t0
	u := (t - t0) / L
	u2 := u * u
	u3 := u2 * u

	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	return h00*v0 + h10*L*d0 + h01*v1 + h11*L*d1
}
