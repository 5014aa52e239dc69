package photodupe

import (
	"fmt"
	"strings"
)

// maxListedDuplicates caps the filenames spelled out in a Duplicate status.
const maxListedDuplicates = 3

// Record is one image of a batch. Identity is ID; Filename is for display
// and may repeat within a batch.
type Record struct {
	ID             string
	Filename       string
	Path           string // relative path as uploaded
	Folder         string // containing folder, "Root" when none
	Size           int64
	Fingerprint    Fingerprint
	FingerprintErr error
	Metadata       *Metadata
	Thumbnail      string // data URL, set only with Config.Thumbnails

	// Derived by MatchBatch.
	ClosestMatch    string // filename of the closest record (path when it shares r's filename), "" when none
	ClosestMatchID  string
	ClosestDistance int
	SimilarityScore int
	HasDuplicate    bool
	Duplicates      []string // IDs at distance 0, in batch order
	Label           Label
	Status          string
}

// Analyzed reports whether the record took part in matching.
func (r *Record) Analyzed() bool { return r.Fingerprint != "" }

func (r *Record) resetMatch() {
	r.ClosestMatch = ""
	r.ClosestMatchID = ""
	r.ClosestDistance = r.Fingerprint.Len()
	r.SimilarityScore = 0
	r.HasDuplicate = false
	r.Duplicates = nil
	r.Label = LabelNotAnalyzed
	r.Status = "Not analyzed"
}

// MatchBatch annotates records with the default configuration.
func MatchBatch(records []*Record) []*Record {
	var cfg Config
	return cfg.MatchBatch(records)
}

// MatchBatch compares every analyzed record with every other one and fills
// in the derived match fields in place. Records without a fingerprint are
// neither annotated nor used as candidates. Candidates are visited in slice
// order, which decides ties: the first exact duplicate wins, and among near
// matches the first one at the smallest distance wins.
func (cfg *Config) MatchBatch(records []*Record) []*Record {
	rc := cfg.resolved()

	for i, r := range records {
		if r == nil {
			continue
		}
		r.resetMatch()
		if !r.Analyzed() {
			continue
		}

		bits := r.Fingerprint.Len()
		best, bestDist := -1, bits
		locked := false
		var dups []*Record

		for j, c := range records {
			if j == i || c == nil || c == r || !c.Analyzed() {
				continue
			}
			d := HammingDistance(r.Fingerprint, c.Fingerprint)
			if d == 0 {
				dups = append(dups, c)
				if !locked {
					best, bestDist, locked = j, 0, true
				}
				continue
			}
			if !locked && d < bestDist && d <= rc.Threshold {
				best, bestDist = j, d
			}
		}

		r.ClosestDistance = bestDist
		r.SimilarityScore = SimilarityScore(bestDist, bits)
		r.HasDuplicate = len(dups) > 0
		for _, d := range dups {
			r.Duplicates = append(r.Duplicates, d.ID)
		}
		if best >= 0 {
			r.ClosestMatch = displayName(r, records[best])
			r.ClosestMatchID = records[best].ID
		}
		r.Label = classify(r.HasDuplicate, best >= 0, bestDist, rc.Threshold)
		r.Status = statusMessage(r, dups)

		if rc.OnMatch != nil {
			rc.OnMatch(MatchEvent{
				ID:           r.ID,
				Filename:     r.Filename,
				Label:        r.Label,
				ClosestMatch: r.ClosestMatch,
				Distance:     r.ClosestDistance,
				Score:        r.SimilarityScore,
				Duplicates:   len(dups),
			})
		}
	}

	return records
}

// classify derives the label, in precedence order Duplicate > Similar >
// BestMatch > Unique.
func classify(hasDuplicate, hasMatch bool, distance, threshold int) Label {
	switch {
	case hasDuplicate:
		return LabelDuplicate
	case hasMatch && distance <= threshold:
		return LabelSimilar
	case hasMatch:
		return LabelBestMatch
	default:
		return LabelUnique
	}
}

// displayName is how other refers to itself in r's annotation: its filename,
// or its path when the filename is the same as r's.
func displayName(r, other *Record) string {
	if other.Filename == r.Filename && other.Path != "" {
		return other.Path
	}
	return other.Filename
}

func statusMessage(r *Record, dups []*Record) string {
	switch r.Label {
	case LabelDuplicate:
		names := make([]string, 0, maxListedDuplicates)
		for _, d := range dups[:min(len(dups), maxListedDuplicates)] {
			names = append(names, displayName(r, d))
		}
		msg := "Duplicate: " + strings.Join(names, ", ")
		if extra := len(dups) - maxListedDuplicates; extra > 0 {
			msg += fmt.Sprintf(" (+%d more)", extra)
		}
		return msg
	case LabelSimilar:
		return fmt.Sprintf("Similar: %s (%d%% match, distance: %d)", r.ClosestMatch, r.SimilarityScore, r.ClosestDistance)
	case LabelBestMatch:
		return fmt.Sprintf("Best Match: %s (%d%% match, distance: %d)", r.ClosestMatch, r.SimilarityScore, r.ClosestDistance)
	case LabelUnique:
		return "Unique (no matches)"
	default:
		return "Not analyzed"
	}
}
