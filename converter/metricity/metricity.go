// Package metricity computes Barlow's indispensability of the pulses of
// a meter.
package metricity

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"go-mutwo/tools"
)

var ErrInvalidStrata = errors.New("rhythmical strata must be primes")

// RhythmicalStrataToIndispensability returns the indispensability of
// every pulse of the meter described by strata. A 3/4 bar divided in
// eighths is (2, 3), a 6/8 bar is (3, 2). The downbeat gets the highest
// value, the weakest pulse gets 0.
func RhythmicalStrataToIndispensability(strata []int) ([]int, error) {
	if len(strata) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidStrata)
	}
	for _, s := range strata {
		if !tools.IsPrime(s) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidStrata, s)
		}
	}
	reversed := slices.Clone(strata)
	slices.Reverse(reversed)
	n := product(reversed)
	out := make([]int, n)
	for i := range out {
		out[i] = indispensability(i+1, reversed)
	}
	return out, nil
}

// Metricities scales the indispensabilities of strata to [0, 1].
func Metricities(strata []int) ([]float64, error) {
	ind, err := RhythmicalStrataToIndispensability(strata)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(ind))
	top := float64(len(ind) - 1)
	for i, v := range ind {
		if top == 0 {
			out[i] = 1
			continue
		}
		out[i] = float64(v) / top
	}
	return out, nil
}

func indispensability(pulse int, primes []int) int {
	z := len(primes)
	p := make([]int, 0, z+2)
	p = append(p, 1)
	p = append(p, primes...)
	p = append(p, 1)
	total := 0
	for r := 0; r < z; r++ {
		a := product(p[:z-r])
		b := product(p[z+1-r : z+1])
		m := 1 + ceilDiv(pulse-1, b)%p[z-r]
		total += a * basicIndispensability(p[z-r], m)
	}
	return total
}

// basicIndispensability covers a single prime stratum.
func basicIndispensability(p, m int) int {
	switch {
	case p == 1:
		return 0
	case p == 2:
		return []int{1, 0}[m-1]
	case p == 3:
		return []int{2, 0, 1}[m-1]
	case m == p-1:
		return p / 4
	}
	factors := tools.PrimeFactors(p - 1)
	slices.Sort(factors)
	slices.Reverse(factors)
	q := indispensability(m-m/p, factors)
	return int(float64(q) + 2*math.Sqrt(float64(q+1)/float64(p)))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func product(xs []int) int {
	out := 1
	for _, x := range xs {
		out *= x
	}
	return out
}
