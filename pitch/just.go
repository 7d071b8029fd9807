package pitch

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"

	"go-mutwo/tools"
)

// JustIntonationPitch is a pitch expressed as a frequency ratio relative to
// its concert pitch. The ratio is stored as a vector of prime exponents:
// index 0 belongs to prime 2, index 1 to prime 3 and so on.
type JustIntonationPitch struct {
	exponents    []int
	ConcertPitch float64
}

// NewJustIntonationPitch builds a pitch from an exact positive ratio.
func NewJustIntonationPitch(ratio *big.Rat) (JustIntonationPitch, error) {
	if ratio == nil || ratio.Sign() <= 0 {
		return JustIntonationPitch{}, fmt.Errorf("%w: %v", ErrInvalidRatio, ratio)
	}
	if !ratio.Num().IsInt64() || !ratio.Denom().IsInt64() {
		return JustIntonationPitch{}, fmt.Errorf("%w: %s exceeds 64 bit", ErrInvalidRatio, ratio.RatString())
	}
	exps := map[int]int{}
	maxIndex := -1
	add := func(n int64, sign int) {
		for _, p := range tools.PrimeFactors(int(n)) {
			idx := tools.PrimeIndex(p)
			exps[idx] += sign
			if idx > maxIndex {
				maxIndex = idx
			}
		}
	}
	add(ratio.Num().Int64(), 1)
	add(ratio.Denom().Int64(), -1)

	vec := make([]int, maxIndex+1)
	for idx, e := range exps {
		vec[idx] = e
	}
	return JustIntonationPitchFromExponents(vec...), nil
}

// ParseJustIntonationPitch reads ratios like "3/2" or "5".
func ParseJustIntonationPitch(s string) (JustIntonationPitch, error) {
	r, err := tools.ParseRat(s)
	if err != nil {
		return JustIntonationPitch{}, fmt.Errorf("%w: %q", ErrInvalidRatio, s)
	}
	return NewJustIntonationPitch(r)
}

// MustJustIntonationPitch is ParseJustIntonationPitch for literals.
func MustJustIntonationPitch(s string) JustIntonationPitch {
	p, err := ParseJustIntonationPitch(s)
	if err != nil {
		panic(err)
	}
	return p
}

// JustIntonationPitchFromExponents builds a pitch from prime exponents.
func JustIntonationPitchFromExponents(exponents ...int) JustIntonationPitch {
	return JustIntonationPitch{
		exponents:    trimExponents(exponents),
		ConcertPitch: DefaultConcertPitch,
	}
}

func trimExponents(exps []int) []int {
	n := len(exps)
	for n > 0 && exps[n-1] == 0 {
		n--
	}
	out := make([]int, n)
	copy(out, exps[:n])
	return out
}

func (j JustIntonationPitch) withExponents(exps []int) JustIntonationPitch {
	return JustIntonationPitch{exponents: trimExponents(exps), ConcertPitch: j.ConcertPitch}
}

func (j JustIntonationPitch) concertPitch() float64 {
	if j.ConcertPitch == 0 {
		return DefaultConcertPitch
	}
	return j.ConcertPitch
}

// Exponents returns a copy of the prime exponent vector.
func (j JustIntonationPitch) Exponents() []int {
	out := make([]int, len(j.exponents))
	copy(out, j.exponents)
	return out
}

// Primes returns the primes belonging to each exponent.
func (j JustIntonationPitch) Primes() []int {
	return tools.Primes(len(j.exponents))
}

// OccupiedPrimes returns the primes with a non-zero exponent.
func (j JustIntonationPitch) OccupiedPrimes() []int {
	var out []int
	for i, p := range j.Primes() {
		if j.exponents[i] != 0 {
			out = append(out, p)
		}
	}
	return out
}

// Ratio returns the exact frequency ratio.
func (j JustIntonationPitch) Ratio() *big.Rat {
	num, den := big.NewInt(1), big.NewInt(1)
	for i, p := range j.Primes() {
		e := j.exponents[i]
		pow := new(big.Int).Exp(big.NewInt(int64(p)), big.NewInt(int64(abs(e))), nil)
		if e > 0 {
			num.Mul(num, pow)
		} else if e < 0 {
			den.Mul(den, pow)
		}
	}
	return new(big.Rat).SetFrac(num, den)
}

func (j JustIntonationPitch) Numerator() *big.Int   { return j.Ratio().Num() }
func (j JustIntonationPitch) Denominator() *big.Int { return j.Ratio().Denom() }

func (j JustIntonationPitch) Frequency() float64 {
	return tools.RatFloat(j.Ratio()) * j.concertPitch()
}

// Cents returns the size of the ratio in cents.
func (j JustIntonationPitch) Cents() float64 {
	return RatToCents(j.Ratio())
}

func (j JustIntonationPitch) String() string {
	return fmt.Sprintf("JustIntonationPitch(%s)", j.Ratio().RatString())
}

// Equal compares ratios and concert pitches.
func (j JustIntonationPitch) Equal(o JustIntonationPitch) bool {
	return j.Ratio().Cmp(o.Ratio()) == 0 && j.concertPitch() == o.concertPitch()
}

func zipExponents(a, b []int, f func(x, y int) int) []int {
	n := max(len(a), len(b))
	out := make([]int, n)
	for i := 0; i < n; i++ {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		out[i] = f(x, y)
	}
	return out
}

// Add multiplies both ratios.
func (j JustIntonationPitch) Add(o JustIntonationPitch) JustIntonationPitch {
	return j.withExponents(zipExponents(j.exponents, o.exponents, func(x, y int) int { return x + y }))
}

// Subtract divides j by o.
func (j JustIntonationPitch) Subtract(o JustIntonationPitch) JustIntonationPitch {
	return j.withExponents(zipExponents(j.exponents, o.exponents, func(x, y int) int { return x - y }))
}

// Intersection keeps what both pitches share. Exponents with the same sign
// keep the one closer to zero, others become zero. In strict mode only
// identical exponents survive.
func (j JustIntonationPitch) Intersection(o JustIntonationPitch, strict bool) JustIntonationPitch {
	return j.withExponents(zipExponents(j.exponents, o.exponents, func(x, y int) int {
		switch {
		case strict:
			if x == y {
				return x
			}
			return 0
		case x < 0 && y < 0:
			return max(x, y)
		case x > 0 && y > 0:
			return min(x, y)
		default:
			return 0
		}
	}))
}

// Inverse mirrors the pitch around 1/1, or around axis when given.
func (j JustIntonationPitch) Inverse(axis *JustIntonationPitch) JustIntonationPitch {
	if axis == nil {
		neg := make([]int, len(j.exponents))
		for i, e := range j.exponents {
			neg[i] = -e
		}
		return j.withExponents(neg)
	}
	return axis.Subtract(j.Subtract(*axis)).withConcertPitch(j.ConcertPitch)
}

func (j JustIntonationPitch) withConcertPitch(c float64) JustIntonationPitch {
	j.ConcertPitch = c
	return j
}

// Abs returns the pitch itself when it is above 1/1, else its inverse.
func (j JustIntonationPitch) Abs() JustIntonationPitch {
	if j.Ratio().Cmp(big.NewRat(1, 1)) >= 0 {
		return j.withExponents(j.exponents)
	}
	return j.Inverse(nil)
}

// Normalize moves the ratio into [1, prime).
func (j JustIntonationPitch) Normalize(prime int) JustIntonationPitch {
	idx := tools.PrimeIndex(prime)
	if idx < 0 {
		return j.withExponents(j.exponents)
	}
	r := j.Ratio()
	p := big.NewRat(int64(prime), 1)
	one := big.NewRat(1, 1)
	shift := 0
	for r.Cmp(p) >= 0 {
		r.Quo(r, p)
		shift--
	}
	for r.Cmp(one) < 0 {
		r.Mul(r, p)
		shift++
	}
	exps := make([]int, max(len(j.exponents), idx+1))
	copy(exps, j.exponents)
	exps[idx] += shift
	return j.withExponents(exps)
}

// Octave returns the largest n with 2^n <= ratio.
func (j JustIntonationPitch) Octave() int {
	r := j.Ratio()
	two := big.NewRat(2, 1)
	one := big.NewRat(1, 1)
	oct := 0
	for r.Cmp(two) >= 0 {
		r.Quo(r, two)
		oct++
	}
	for r.Cmp(one) < 0 {
		r.Mul(r, two)
		oct--
	}
	return oct
}

// Register puts the normalized pitch into the given octave.
func (j JustIntonationPitch) Register(octave int) JustIntonationPitch {
	n := j.Normalize(2)
	exps := make([]int, max(len(n.exponents), 1))
	copy(exps, n.exponents)
	exps[0] += octave
	return j.withExponents(exps)
}

// MoveToClosestRegister returns the pitch in whichever octave around the
// reference's octave lies closest to reference.
func (j JustIntonationPitch) MoveToClosestRegister(reference JustIntonationPitch) JustIntonationPitch {
	refOctave := reference.Octave()
	var best JustIntonationPitch
	bestDiff := math.Inf(1)
	for adaption := -1; adaption <= 1; adaption++ {
		candidate := j.Register(refOctave + adaption)
		diff := math.Abs(candidate.Subtract(reference).Cents())
		if diff <= bestDiff {
			best, bestDiff = candidate, diff
		}
	}
	return best
}

// Factorised lists all prime factors of numerator and denominator.
// 1/1 gives [1].
func (j JustIntonationPitch) Factorised() []int {
	var out []int
	for i, p := range j.Primes() {
		for n := 0; n < abs(j.exponents[i]); n++ {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []int{1}
	}
	return out
}

// FactorisedNumeratorAndDenominator splits Factorised by the exponent sign.
func (j JustIntonationPitch) FactorisedNumeratorAndDenominator() (num, den []int) {
	if len(j.exponents) == 0 {
		return []int{1}, nil
	}
	for i, p := range j.Primes() {
		e := j.exponents[i]
		for n := 0; n < abs(e); n++ {
			if e > 0 {
				num = append(num, p)
			} else {
				den = append(den, p)
			}
		}
	}
	return num, den
}

// Blueprint describes the shape of numerator and denominator: entry n of
// each side counts the primes occurring n+1 times. Primes in ignore are
// skipped; without ignore, 2 is skipped.
func (j JustIntonationPitch) Blueprint(ignore ...int) [2][]int {
	if len(ignore) == 0 {
		ignore = []int{2}
	}
	skip := map[int]bool{}
	for _, p := range ignore {
		skip[p] = true
	}
	num, den := j.FactorisedNumeratorAndDenominator()
	var out [2][]int
	for side, factors := range [][]int{num, den} {
		occurrences := map[int]int{}
		for _, f := range factors {
			if !skip[f] {
				occurrences[f]++
			}
		}
		counter := map[int]int{}
		maxCount := 0
		for _, c := range occurrences {
			counter[c]++
			maxCount = max(maxCount, c)
		}
		shape := make([]int, maxCount)
		for i := range shape {
			shape[i] = counter[i+1]
		}
		out[side] = shape
	}
	return out
}

// Tonality is true for otonal and false for utonal pitches.
func (j JustIntonationPitch) Tonality() bool {
	if len(j.exponents) == 0 {
		return true
	}
	maxIdx, minIdx := 0, 0
	for i, e := range j.exponents {
		if e > j.exponents[maxIdx] {
			maxIdx = i
		}
		if e < j.exponents[minIdx] {
			minIdx = i
		}
	}
	maxima, minima := j.exponents[maxIdx], j.exponents[minIdx]
	if maxima <= 0 && minima < 0 {
		return false
	}
	return !(minima < 0 && minIdx > maxIdx)
}

// Harmonic returns n for the nth harmonic, -n for the nth subharmonic and
// 0 for pitches that are neither.
func (j JustIntonationPitch) Harmonic() int64 {
	r := j.Ratio()
	num, den := r.Num().Int64(), r.Denom().Int64()
	switch {
	case den%2 == 0:
		return num
	case num%2 == 0:
		return -den
	case num == 1 && den == 1:
		return 1
	default:
		return 0
	}
}

// HarmonicityWilson sums all prime factors except 2.
func (j JustIntonationPitch) HarmonicityWilson() int {
	sum := 0
	for _, f := range j.Factorised() {
		if f != 2 {
			sum += f
		}
	}
	return sum
}

// HarmonicityVogel is HarmonicityWilson counting each 2 as one.
func (j JustIntonationPitch) HarmonicityVogel() int {
	sum := 0
	for _, f := range j.Factorised() {
		if f == 2 {
			sum++
		} else {
			sum += f
		}
	}
	return sum
}

// HarmonicityEuler is Euler's gradus suavitatis.
func (j JustIntonationPitch) HarmonicityEuler() int {
	sum := 1
	for _, f := range j.Factorised() {
		sum += f - 1
	}
	return sum
}

func indigestibility(n int64) float64 {
	counts := map[int]int{}
	for _, p := range tools.PrimeFactors(int(n)) {
		counts[p]++
	}
	sum := 0.0
	for p, power := range counts {
		sum += float64(power) * float64((p-1)*(p-1)) / float64(p)
	}
	return 2 * sum
}

// HarmonicityBarlow is Barlow's harmonicity; +Inf for 1/1.
func (j JustIntonationPitch) HarmonicityBarlow() float64 {
	r := j.Ratio()
	num := indigestibility(r.Num().Int64())
	den := indigestibility(r.Denom().Int64())
	if num == 0 && den == 0 {
		return math.Inf(1)
	}
	var sign float64
	switch {
	case num > den:
		sign = 1
	case num < den:
		sign = -1
	}
	return sign / (num + den)
}

// HarmonicitySimplifiedBarlow is the absolute Barlow harmonicity, 1 for 1/1.
func (j JustIntonationPitch) HarmonicitySimplifiedBarlow() float64 {
	b := math.Abs(j.HarmonicityBarlow())
	if math.IsInf(b, 1) {
		return 1
	}
	return b
}

// HarmonicityTenney is Tenney's harmonic distance log2(num*den).
func (j JustIntonationPitch) HarmonicityTenney() float64 {
	r := j.Ratio()
	prod := new(big.Int).Mul(r.Num(), r.Denom())
	f, _ := new(big.Float).SetInt(prod).Float64()
	return math.Log2(f)
}

// Level is the greatest common divisor of the non-zero exponents.
func (j JustIntonationPitch) Level() int {
	g := 0
	for _, e := range j.exponents {
		if e != 0 {
			g = gcd(g, e)
		}
	}
	if g == 0 {
		return 1
	}
	return abs(g)
}

// Commas returns the Helmholtz-Ellis commas of all primes above 3.
// primeToComma defaults to DefaultPrimeToComma.
func (j JustIntonationPitch) Commas(primeToComma map[int]Comma) CommaCompound {
	if primeToComma == nil {
		primeToComma = DefaultPrimeToComma
	}
	exps := map[int]int{}
	for i, p := range j.Primes() {
		if p > 3 && j.exponents[i] != 0 {
			exps[p] = j.exponents[i]
		}
	}
	return NewCommaCompound(exps, primeToComma)
}

// ClosestPythagoreanInterval strips all commas and normalizes the rest.
func (j JustIntonationPitch) ClosestPythagoreanInterval() JustIntonationPitch {
	commas := j.Commas(nil)
	if commas.Len() == 0 {
		return j.Normalize(2)
	}
	c, _ := NewJustIntonationPitch(commas.Product())
	return j.Subtract(c).Normalize(2)
}

// ClosestPythagoreanPitchName names the pitch in the pythagorean system,
// assuming 1/1 sounds at reference (for example "a" or "ef").
func (j JustIntonationPitch) ClosestPythagoreanPitchName(reference string) string {
	if reference == "" {
		reference = "a"
	}
	diatonic, accidentals := reference[:1], reference[1:]
	refAccidentals := strings.Count(accidentals, "s") - strings.Count(accidentals, "f")

	pos := 0
	for i, name := range DiatonicPitchNameCycleOfFifths {
		if name == diatonic {
			pos = i
		}
	}
	exps := j.ClosestPythagoreanInterval().exponents
	fifths := 0
	if len(exps) > 1 {
		fifths = exps[1]
	}
	name := DiatonicPitchNameCycleOfFifths[(pos+mod(fifths, 7))%7]
	n := floorDiv(pos+fifths, 7) + refAccidentals
	if n > 0 {
		return name + strings.Repeat("s", n)
	}
	return name + strings.Repeat("f", -n)
}

// SortJustIntonationPitches orders pitches by ratio.
func SortJustIntonationPitches(pitches []JustIntonationPitch) {
	sort.SliceStable(pitches, func(a, b int) bool {
		return pitches[a].Ratio().Cmp(pitches[b].Ratio()) < 0
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func gcd(a, b int) int {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func floorDiv(a, n int) int {
	q := a / n
	if (a%n != 0) && ((a < 0) != (n < 0)) {
		q--
	}
	return q
}
