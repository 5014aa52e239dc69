package photodupe

import (
	"math"
	"time"
)

// Summary aggregates a batch for an overview panel.
type Summary struct {
	TotalImages   int     `json:"total_images"`
	UniqueDevices int     `json:"unique_devices"`
	TimeSpanDays  int     `json:"time_span_days"`
	TotalSizeMB   float64 `json:"total_size_mb"`
	WithGPS       int     `json:"with_gps"`
	WithoutGPS    int     `json:"without_gps"`
	Duplicates    int     `json:"duplicates"`
	Similar       int     `json:"similar"`
	Unique        int     `json:"unique"`
	NotAnalyzed   int     `json:"not_analyzed"`
}

// Summarize computes batch totals. The time span covers records with a
// capture time and is rounded up to whole days.
func Summarize(records []*Record) Summary {
	var s Summary
	devices := make(map[string]bool)
	var first, last time.Time
	var bytes int64

	for _, r := range records {
		if r == nil {
			continue
		}
		s.TotalImages++
		bytes += r.Size

		switch r.Label {
		case LabelDuplicate:
			s.Duplicates++
		case LabelSimilar, LabelBestMatch:
			s.Similar++
		case LabelUnique:
			s.Unique++
		default:
			s.NotAnalyzed++
		}

		m := r.Metadata
		if m == nil {
			s.WithoutGPS++
			continue
		}
		if m.DeviceID != "" {
			devices[m.DeviceID] = true
		}
		if m.HasGPS() {
			s.WithGPS++
		} else {
			s.WithoutGPS++
		}
		if t := m.DateTime; !t.IsZero() {
			if first.IsZero() || t.Before(first) {
				first = t
			}
			if last.IsZero() || t.After(last) {
				last = t
			}
		}
	}

	s.UniqueDevices = len(devices)
	s.TotalSizeMB = float64(bytes) / (1024 * 1024)
	if !first.IsZero() {
		s.TimeSpanDays = int(math.Ceil(last.Sub(first).Hours() / 24))
	}
	return s
}
