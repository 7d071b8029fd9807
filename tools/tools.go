// Package tools holds small numeric and slice helpers shared by the
// event, parameter and converter packages.
package tools

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrOutOfRange is returned by Scale when the value is outside the old range.
var ErrOutOfRange = errors.New("value out of range")

// Scale maps value from [oldMin, oldMax] onto [newMin, newMax].
func Scale(value, oldMin, oldMax, newMin, newMax float64) (float64, error) {
	if value < oldMin || value > oldMax {
		return 0, fmt.Errorf("scale %v into [%v, %v]: %w", value, oldMin, oldMax, ErrOutOfRange)
	}
	if oldMax == oldMin {
		return newMin, nil
	}
	return (((value - oldMin) / (oldMax - oldMin)) * (newMax - newMin)) + newMin, nil
}

// AccumulateFromN returns the running sums of values starting with n.
// The result is one element longer than values.
func AccumulateFromN(values []float64, n float64) []float64 {
	out := make([]float64, 0, len(values)+1)
	out = append(out, n)
	for _, v := range values {
		n += v
		out = append(out, n)
	}
	return out
}

// AccumulateFromZero is AccumulateFromN with n = 0.
func AccumulateFromZero(values []float64) []float64 {
	return AccumulateFromN(values, 0)
}

// InsertNextTo inserts item at index(match)+distance. If match is not
// found the slice is returned unchanged.
func InsertNextTo[T any](items []T, match func(T) bool, distance int, item T) []T {
	idx := -1
	for i, it := range items {
		if match(it) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items
	}
	pos := idx + distance
	if pos < 0 {
		pos = 0
	}
	if pos > len(items) {
		pos = len(items)
	}
	items = append(items, item)
	copy(items[pos+1:], items[pos:])
	items[pos] = item
	return items
}

// FindClosestIndex returns the index of the item in data closest to x.
// Ties resolve to the lower index. Returns -1 for empty data.
func FindClosestIndex(x float64, data []float64) int {
	best := -1
	bestDist := 0.0
	for i, d := range data {
		dist := d - x
		if dist < 0 {
			dist = -dist
		}
		if best < 0 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}
	return best
}

// FindClosestItem returns the item in data closest to x.
func FindClosestItem(x float64, data []float64) (float64, bool) {
	i := FindClosestIndex(x, data)
	if i < 0 {
		return 0, false
	}
	return data[i], true
}

// Uniqify removes duplicates, keeping the first occurrence.
func Uniqify[T any](items []T, equal func(a, b T) bool) []T {
	var out []T
	for _, it := range items {
		dup := false
		for _, seen := range out {
			if equal(it, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	return out
}

// CyclicPermutations returns every rotation of items, starting with items itself.
func CyclicPermutations[T any](items []T) [][]T {
	out := make([][]T, 0, len(items))
	for i := range items {
		rot := make([]T, 0, len(items))
		rot = append(rot, items[i:]...)
		rot = append(rot, items[:i]...)
		out = append(out, rot)
	}
	return out
}

// BisectRight returns the insertion point for x in sorted data, after any
// existing entries equal to x.
func BisectRight(data []float64, x float64) int {
	return sort.Search(len(data), func(i int) bool { return data[i] > x })
}

// ClassNameToObjectName converts a CamelCase type name to snake_case.
func ClassNameToObjectName(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ObjectNameToClassName converts snake_case to CamelCase.
func ObjectNameToClassName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
