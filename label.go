package photodupe

import "strings"

// Label classifies an image relative to the rest of its batch.
type Label int

const (
	LabelNotAnalyzed Label = iota // no fingerprint, nothing known
	LabelUnique                   // no candidate within threshold
	LabelBestMatch                // closest candidate recorded outside the similar band
	LabelSimilar                  // closest candidate within threshold
	LabelDuplicate                // at least one candidate at distance 0
)

func (l Label) String() string {
	switch l {
	case LabelUnique:
		return "unique"
	case LabelBestMatch:
		return "best_match"
	case LabelSimilar:
		return "similar"
	case LabelDuplicate:
		return "duplicate"
	default:
		return "not_analyzed"
	}
}

// ParseLabel is the inverse of Label.String. Unknown input maps to LabelNotAnalyzed.
func ParseLabel(s string) Label {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unique":
		return LabelUnique
	case "best_match", "best match", "bestmatch":
		return LabelBestMatch
	case "similar":
		return LabelSimilar
	case "duplicate":
		return LabelDuplicate
	default:
		return LabelNotAnalyzed
	}
}

// MarshalText implements encoding.TextMarshaler so labels serialize by name.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(b []byte) error {
	*l = ParseLabel(string(b))
	return nil
}
