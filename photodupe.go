// Package photodupe finds perceptual near-duplicates in a batch of images and
// extracts the EXIF provenance (timestamp, GPS, device) that goes with them.
//
// A batch runs in two phases: every image is fingerprinted independently
// (average hash on a fixed grid), then all fingerprints are compared pairwise
// and each image is labelled Duplicate, Similar or Unique relative to the
// rest of the batch. Images that cannot be decoded are labelled NotAnalyzed.
package photodupe

import (
	"runtime"

	"github.com/disintegration/imaging"
)

const (
	// DefaultGridSize is the side of the sampling grid. 8x8 gives a 64-bit fingerprint.
	DefaultGridSize = 8

	// DefaultThreshold is the maximum Hamming distance recorded as a match
	// (10 of 64 bits, roughly 84% bit agreement).
	DefaultThreshold = 10

	// DefaultThumbnailSize is the side of the square preview in pixels.
	DefaultThumbnailSize = 200
)

// FingerprintBits is the fingerprint length for the default grid.
const FingerprintBits = DefaultGridSize * DefaultGridSize

// Algorithm selects how a fingerprint is computed.
type Algorithm int

const (
	AlgorithmAverage    Algorithm = iota // unweighted-luminance average hash (default)
	AlgorithmDifference                  // goimagehash dHash, 64 bits
	AlgorithmPerception                  // goimagehash pHash, 64 bits
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmDifference:
		return "difference"
	case AlgorithmPerception:
		return "perception"
	default:
		return "average"
	}
}

// ParseAlgorithm maps a name ("average", "difference", "perception") to an Algorithm.
// Unknown names fall back to AlgorithmAverage.
func ParseAlgorithm(name string) Algorithm {
	switch name {
	case "difference", "dhash":
		return AlgorithmDifference
	case "perception", "phash":
		return AlgorithmPerception
	default:
		return AlgorithmAverage
	}
}

// Config holds tunable policy and optional hooks. The zero value is ready to use.
type Config struct {
	GridSize      int                     // default: DefaultGridSize (8)
	Threshold     int                     // default: DefaultThreshold (10); negative means exact matches only
	ExactOnly     bool                    // only distance 0 counts as a match; overrides Threshold
	Algorithm     Algorithm               // default: AlgorithmAverage
	Filter        *imaging.ResampleFilter // default: imaging.Box
	Concurrency   int                     // fingerprint workers (default: GOMAXPROCS)
	Thumbnails    bool                    // generate preview data URLs in Analyze
	ThumbnailSize int                     // default: DefaultThumbnailSize (200)

	// Optional callbacks for metrics/logging.
	OnDecodeError func(filename string, err error)
	OnMatch       func(MatchEvent)
	OnPanic       func(tag string, r any)
}

// MatchEvent describes the annotation the matcher assigned to one record.
type MatchEvent struct {
	ID           string
	Filename     string
	Label        Label
	ClosestMatch string
	Distance     int
	Score        int
	Duplicates   int
}

// defaults fills zero-value fields with sensible defaults.
func (c *Config) defaults() {
	if c.GridSize <= 0 {
		c.GridSize = DefaultGridSize
	}
	switch {
	case c.ExactOnly:
		c.Threshold = -1
	case c.Threshold == 0:
		c.Threshold = DefaultThreshold
	}
	if c.Filter == nil {
		c.Filter = &imaging.Box
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.GOMAXPROCS(0)
	}
	if c.ThumbnailSize <= 0 {
		c.ThumbnailSize = DefaultThumbnailSize
	}
}

// resolved returns a copy of c with defaults applied. The receiver is never
// written, so one Config may be shared by concurrent callers.
func (c *Config) resolved() Config {
	r := *c
	r.defaults()
	return r
}

// Bits returns the fingerprint length produced under this configuration.
func (c *Config) Bits() int {
	r := c.resolved()
	if r.Algorithm != AlgorithmAverage {
		return FingerprintBits
	}
	return r.GridSize * r.GridSize
}
