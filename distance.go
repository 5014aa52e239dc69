package photodupe

import (
	"fmt"
	"math"
	"strconv"

	"github.com/corona10/goimagehash"
)

// Fingerprint is a perceptual hash rendered as a string of '0' and '1'
// characters in row-major sample order. The empty Fingerprint means the
// image could not be analyzed.
type Fingerprint string

// FingerprintFromUint64 renders a 64-bit hash, most significant bit first.
func FingerprintFromUint64(v uint64) Fingerprint {
	return Fingerprint(fmt.Sprintf("%064b", v))
}

// ParseFingerprint validates s as a bitstring.
func ParseFingerprint(s string) (Fingerprint, error) {
	if s == "" {
		return "", fmt.Errorf("photodupe: empty fingerprint")
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return "", fmt.Errorf("photodupe: invalid fingerprint character %q at %d", s[i], i)
		}
	}
	return Fingerprint(s), nil
}

// Len returns the number of bits.
func (f Fingerprint) Len() int { return len(f) }

// Uint64 returns the fingerprint as an integer when it is exactly 64 valid bits.
func (f Fingerprint) Uint64() (uint64, bool) {
	if len(f) != FingerprintBits {
		return 0, false
	}
	v, err := strconv.ParseUint(string(f), 2, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Hex returns the 64-bit fingerprint as 16 hex digits, or "" for other lengths.
func (f Fingerprint) Hex() string {
	v, ok := f.Uint64()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%016x", v)
}

// words packs the bitstring into 64-bit words, most significant bit first,
// padding the last word with zeros.
func (f Fingerprint) words() ([]uint64, bool) {
	out := make([]uint64, (len(f)+63)/64)
	for i := 0; i < len(f); i++ {
		switch f[i] {
		case '1':
			out[i/64] |= 1 << (63 - uint(i%64))
		case '0':
		default:
			return nil, false
		}
	}
	return out, true
}

// HammingDistance counts differing bit positions. Fingerprints of different
// length, or an empty one, are treated as unrelated: the distance is the
// longer length (64 for standard fingerprints).
func HammingDistance(a, b Fingerprint) int {
	maxDist := max(len(a), len(b))
	if len(a) != len(b) || len(a) == 0 {
		return maxDist
	}

	if x, ok := a.Uint64(); ok {
		if y, ok := b.Uint64(); ok {
			d, err := goimagehash.NewImageHash(x, goimagehash.AHash).
				Distance(goimagehash.NewImageHash(y, goimagehash.AHash))
			if err == nil {
				return d
			}
		}
	}

	wa, okA := a.words()
	wb, okB := b.words()
	if okA && okB {
		ha := goimagehash.NewExtImageHash(wa, goimagehash.AHash, len(a))
		hb := goimagehash.NewExtImageHash(wb, goimagehash.AHash, len(b))
		if d, err := ha.Distance(hb); err == nil {
			return d
		}
	}

	// Not a clean bitstring: compare character by character.
	d := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// SimilarityScore maps a distance over bits to 0..100, where 0 means no
// match. A distance of bits or more scores 0.
func SimilarityScore(distance, bits int) int {
	if bits <= 0 || distance >= bits {
		return 0
	}
	score := 100 - float64(distance)/float64(bits)*100
	return int(math.Round(math.Max(0, score)))
}
