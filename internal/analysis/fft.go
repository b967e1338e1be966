// Package analysis examines recorded flights for control pathologies,
// chiefly yaw hunting: a sustained oscillation of the horizontal error
// that shows up as a dominant line in its spectrum.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/tonytyler99/uavtrack/internal/track"
)

// TrackingError extracts the horizontal pixel error series of the tracking
// cycles. Searching cycles carry no error signal and are skipped.
func TrackingError(records []track.Record) []float64 {
	var errs []float64
	for _, rec := range records {
		if rec.Mode != track.ModeTracking {
			continue
		}
		errs = append(errs, float64(rec.ErrX))
	}
	return errs
}

// PowerSpectrum returns the magnitude of each frequency bin of data after
// mean removal and zero-padding to the next power of two. Only the first
// half of the bins is returned; the rest mirrors it for a real signal.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	n := nextPow2(len(data))
	x := make([]complex128, n)
	for i, v := range data {
		x[i] = complex(v-mean, 0)
	}

	out := fft(x)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(out[i])
	}
	return ps
}

// Spectrum labels each power bin with its frequency in Hz.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// NewSpectrum computes the power spectrum of data sampled at sampleHz.
func NewSpectrum(data []float64, sampleHz float64) Spectrum {
	ps := PowerSpectrum(data)
	s := Spectrum{
		Freqs: make([]float64, len(ps)),
		Power: ps,
	}
	n := len(ps) * 2
	for i := range s.Freqs {
		s.Freqs[i] = float64(i) * sampleHz / float64(n)
	}
	return s
}

// Dominant returns the strongest component above DC. An empty or
// single-bin spectrum has no oscillation to report.
func (s Spectrum) Dominant() (freqHz, power float64) {
	best := -1
	for i := 1; i < len(s.Power); i++ {
		if best < 0 || s.Power[i] > s.Power[best] {
			best = i
		}
	}
	if best < 0 {
		return 0, 0
	}
	return s.Freqs[best], s.Power[best]
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// fft is the radix-2 recursion; len(x) must be a power of two.
func fft(x []complex128) []complex128 {
	n := len(x)
	if n <= 1 {
		return x
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = x[2*i]
		odd[i] = x[2*i+1]
	}

	fe := fft(even)
	fo := fft(odd)

	out := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		out[k] = fe[k] + w*fo[k]
		out[k+n/2] = fe[k] - w*fo[k]
	}
	return out
}
