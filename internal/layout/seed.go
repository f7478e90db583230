package layout

import (
	"math"
	"unicode/utf16"
)

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
	seedModulus = 100000
)

// Hash is 32-bit FNV-1a over the UTF-16 code units of s, so layouts agree
// with implementations that hash JavaScript strings.
func Hash(s string) uint32 {
	h := uint32(fnvOffset32)
	for _, unit := range utf16.Encode([]rune(s)) {
		h ^= uint32(unit)
		h *= fnvPrime32
	}
	return h
}

// Seed maps id+salt to a stable value in [0, 1).
func Seed(id, salt string) float64 {
	return float64(Hash(id+salt)%seedModulus) / seedModulus
}

// Quantize rounds v to the nearest 1/steps.
func Quantize(v float64, steps int) float64 {
	n := float64(steps)
	return math.Round(v*n) / n
}
