package photodupe

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	lat, lon := 48.8566, 2.3522
	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []*Record{
		{Size: 1 << 20, Label: LabelDuplicate, Metadata: &Metadata{DeviceID: "Canon R5", DateTime: day, Latitude: &lat, Longitude: &lon}},
		{Size: 1 << 20, Label: LabelDuplicate, Metadata: &Metadata{DeviceID: "Canon R5", DateTime: day.Add(50 * time.Hour)}},
		{Size: 1 << 19, Label: LabelSimilar, Metadata: &Metadata{DeviceID: "Pixel 8"}},
		{Size: 1 << 19, Label: LabelUnique},
		{Label: LabelNotAnalyzed},
		nil,
	}

	got := Summarize(records)
	want := Summary{
		TotalImages:   5,
		UniqueDevices: 2,
		TimeSpanDays:  3,
		TotalSizeMB:   3,
		WithGPS:       1,
		WithoutGPS:    4,
		Duplicates:    2,
		Similar:       1,
		Unique:        1,
		NotAnalyzed:   1,
	}
	if got != want {
		t.Errorf("Summarize = %+v\nwant %+v", got, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	if got := Summarize(nil); got != (Summary{}) {
		t.Errorf("Summarize(nil) = %+v", got)
	}
}
