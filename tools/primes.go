package tools

// Primes returns the first n prime numbers.
func Primes(n int) []int {
	out := make([]int, 0, n)
	for c := 2; len(out) < n; c++ {
		if IsPrime(c) {
			out = append(out, c)
		}
	}
	return out
}

// NthPrime returns the nth prime, 0-based (NthPrime(0) == 2).
func NthPrime(n int) int {
	return Primes(n + 1)[n]
}

// PrimeIndex returns the position of p among the primes, or -1.
func PrimeIndex(p int) int {
	if !IsPrime(p) {
		return -1
	}
	idx := 0
	for c := 2; c < p; c++ {
		if IsPrime(c) {
			idx++
		}
	}
	return idx
}

// IsPrime reports whether n is prime.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := 3; d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// PrimeFactors returns the prime factors of n in ascending order, with
// repetition. PrimeFactors(12) == [2 2 3].
func PrimeFactors(n int) []int {
	var out []int
	if n < 2 {
		return out
	}
	for d := 2; d*d <= n; d++ {
		for n%d == 0 {
			out = append(out, d)
			n /= d
		}
	}
	if n > 1 {
		out = append(out, n)
	}
	return out
}
