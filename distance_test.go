package photodupe

import (
	"strings"
	"testing"
)

func TestHammingDistance(t *testing.T) {
	t.Parallel()

	ones := Fingerprint(strings.Repeat("1", 64))
	zeros := bits("")

	tests := []struct {
		name string
		a, b Fingerprint
		want int
	}{
		{name: "identical", a: ones, b: ones, want: 0},
		{name: "complement", a: ones, b: zeros, want: 64},
		{name: "one bit", a: bits("11110000"), b: bits("11100000"), want: 1},
		{name: "ten bits", a: zeros, b: bits("1111111111"), want: 10},
		{name: "length mismatch", a: ones, b: "1111", want: 64},
		{name: "empty", a: "", b: ones, want: 64},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "short equal length", a: "1010", b: "1001", want: 2},
		{name: "long equal length", a: Fingerprint(strings.Repeat("1", 256)), b: Fingerprint(strings.Repeat("0", 128) + strings.Repeat("1", 128)), want: 128},
		{name: "non-binary characters", a: "abcd", b: "abce", want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HammingDistance(tc.a, tc.b); got != tc.want {
				t.Errorf("HammingDistance(a, b) = %d, want %d", got, tc.want)
			}
			if got := HammingDistance(tc.b, tc.a); got != tc.want {
				t.Errorf("HammingDistance(b, a) = %d, want %d (not symmetric)", got, tc.want)
			}
		})
	}
}

func TestSimilarityScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		distance int
		want     int
	}{
		{distance: 0, want: 100},
		{distance: 1, want: 98},
		{distance: 8, want: 88},
		{distance: 10, want: 84},
		{distance: 32, want: 50},
		{distance: 63, want: 2},
		{distance: 64, want: 0},
		{distance: 100, want: 0},
	}
	for _, tc := range tests {
		if got := SimilarityScore(tc.distance, 64); got != tc.want {
			t.Errorf("SimilarityScore(%d, 64) = %d, want %d", tc.distance, got, tc.want)
		}
	}
}

func TestSimilarityScore_StrictlyDecreasing(t *testing.T) {
	t.Parallel()

	prev := SimilarityScore(0, 64)
	for d := 1; d <= 64; d++ {
		got := SimilarityScore(d, 64)
		if got >= prev {
			t.Fatalf("score(%d) = %d, not below score(%d) = %d", d, got, d-1, prev)
		}
		prev = got
	}
}

func TestParseFingerprint(t *testing.T) {
	t.Parallel()

	if _, err := ParseFingerprint(""); err == nil {
		t.Error("empty string: expected error")
	}
	if _, err := ParseFingerprint("0102"); err == nil {
		t.Error("non-binary string: expected error")
	}
	fp, err := ParseFingerprint("0110")
	if err != nil {
		t.Fatalf("ParseFingerprint: %v", err)
	}
	if fp.Len() != 4 {
		t.Errorf("Len() = %d, want 4", fp.Len())
	}
}

func TestFingerprintUint64(t *testing.T) {
	t.Parallel()

	fp := FingerprintFromUint64(0x8000000000000001)
	if want := "1" + strings.Repeat("0", 62) + "1"; string(fp) != want {
		t.Errorf("FingerprintFromUint64 = %s, want %s", fp, want)
	}
	v, ok := fp.Uint64()
	if !ok || v != 0x8000000000000001 {
		t.Errorf("Uint64() = %x, %v", v, ok)
	}
	if got := fp.Hex(); got != "8000000000000001" {
		t.Errorf("Hex() = %q", got)
	}
	if _, ok := Fingerprint("101").Uint64(); ok {
		t.Error("Uint64() on 3 bits: expected !ok")
	}
}
