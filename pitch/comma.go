package pitch

import (
	"fmt"
	"math/big"
	"sort"
)

// Comma is a small tuning interval.
type Comma struct {
	ratio *big.Rat
}

func NewComma(ratio *big.Rat) Comma {
	return Comma{ratio: new(big.Rat).Set(ratio)}
}

// Ratio returns a copy of the comma's frequency ratio.
func (c Comma) Ratio() *big.Rat {
	return new(big.Rat).Set(c.ratio)
}

func (c Comma) String() string {
	return fmt.Sprintf("Comma(%s)", c.ratio.RatString())
}

// CommaCompound is a set of commas, each raised to an exponent.
type CommaCompound struct {
	primeToExponent map[int]int
	primeToComma    map[int]Comma
}

func NewCommaCompound(primeToExponent map[int]int, primeToComma map[int]Comma) CommaCompound {
	exps := make(map[int]int, len(primeToExponent))
	for p, e := range primeToExponent {
		exps[p] = e
	}
	return CommaCompound{primeToExponent: exps, primeToComma: primeToComma}
}

// Len returns the number of single commas in the compound.
func (c CommaCompound) Len() int {
	n := 0
	for _, e := range c.primeToExponent {
		if e < 0 {
			e = -e
		}
		n += e
	}
	return n
}

// PrimeToExponent returns a copy of the exponent map.
func (c CommaCompound) PrimeToExponent() map[int]int {
	out := make(map[int]int, len(c.primeToExponent))
	for p, e := range c.primeToExponent {
		out[p] = e
	}
	return out
}

// Ratios returns comma^exponent for every prime, ordered by prime.
// Primes without a known comma are skipped.
func (c CommaCompound) Ratios() []*big.Rat {
	primes := make([]int, 0, len(c.primeToExponent))
	for p := range c.primeToExponent {
		primes = append(primes, p)
	}
	sort.Ints(primes)

	var out []*big.Rat
	for _, p := range primes {
		comma, ok := c.primeToComma[p]
		if !ok {
			continue
		}
		out = append(out, ratPow(comma.ratio, c.primeToExponent[p]))
	}
	return out
}

// Product multiplies all ratios of the compound.
func (c CommaCompound) Product() *big.Rat {
	out := big.NewRat(1, 1)
	for _, r := range c.Ratios() {
		out.Mul(out, r)
	}
	return out
}

func (c CommaCompound) String() string {
	return fmt.Sprintf("CommaCompound(%v)", c.primeToExponent)
}

func ratPow(r *big.Rat, exp int) *big.Rat {
	base := new(big.Rat).Set(r)
	if exp < 0 {
		base.Inv(base)
		exp = -exp
	}
	out := big.NewRat(1, 1)
	for i := 0; i < exp; i++ {
		out.Mul(out, base)
	}
	return out
}
