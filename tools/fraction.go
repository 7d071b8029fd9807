package tools

import (
	"fmt"
	"math/big"
	"strings"
)

// NewRat returns num/den as a *big.Rat.
func NewRat(num, den int64) *big.Rat {
	return big.NewRat(num, den)
}

// ParseRat parses "3/2", "5" or "0.25".
func ParseRat(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, fmt.Errorf("parse ratio %q: invalid syntax", s)
	}
	return r, nil
}

// RatFromFloat converts f exactly.
func RatFromFloat(f float64) *big.Rat {
	r := new(big.Rat)
	r.SetFloat64(f)
	return r
}

// RatFloat returns r as float64.
func RatFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}

// LimitDenominator returns the closest fraction to x with a denominator
// of at most maxDen, using continued fractions.
func LimitDenominator(x *big.Rat, maxDen int64) *big.Rat {
	if maxDen < 1 {
		maxDen = 1
	}
	limit := big.NewInt(maxDen)
	if x.Denom().Cmp(limit) <= 0 {
		return new(big.Rat).Set(x)
	}

	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	n := new(big.Int).Set(x.Num())
	d := new(big.Int).Set(x.Denom())

	for {
		a := new(big.Int).Div(n, d)
		q2 := new(big.Int).Add(q0, new(big.Int).Mul(a, q1))
		if q2.Cmp(limit) > 0 {
			break
		}
		np1 := new(big.Int).Add(p0, new(big.Int).Mul(a, p1))
		p0, q0, p1, q1 = p1, q1, np1, q2
		nd := new(big.Int).Sub(n, new(big.Int).Mul(a, d))
		n, d = d, nd
	}

	k := new(big.Int).Div(new(big.Int).Sub(limit, q0), q1)
	bound1 := new(big.Rat).SetFrac(
		new(big.Int).Add(p0, new(big.Int).Mul(k, p1)),
		new(big.Int).Add(q0, new(big.Int).Mul(k, q1)),
	)
	bound2 := new(big.Rat).SetFrac(p1, q1)

	dist1 := new(big.Rat).Abs(new(big.Rat).Sub(bound1, x))
	dist2 := new(big.Rat).Abs(new(big.Rat).Sub(bound2, x))
	if dist2.Cmp(dist1) <= 0 {
		return bound2
	}
	return bound1
}

// RatString formats r as "n/d", or "n" for whole numbers.
func RatString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.String()
}
