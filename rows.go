package photodupe

import (
	"strconv"
	"time"
)

const (
	missingValue = "-"
	noMatch      = "None"
)

// Row is a record flattened to primitives for tables and exports.
type Row struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	Path         string `json:"filepath"`
	Folder       string `json:"folder"`
	DeviceID     string `json:"device_id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	DateTime     string `json:"datetime"`
	Location     string `json:"location"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	SizeMB       string `json:"size_mb"`
	Format       string `json:"format"`
	Software     string `json:"software"`
	Fingerprint  string `json:"hash"`
	Label        string `json:"label"`
	Status       string `json:"similarity_status"`
	ClosestMatch string `json:"closest_match"`
	HasDuplicate bool   `json:"has_duplicate"`
	Score        string `json:"similarity_score"`
}

// ToRows flattens records. Absent values render as "-", a missing closest
// match as "None" and the score as "N%".
func ToRows(records []*Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		row := Row{
			ID:           r.ID,
			Filename:     r.Filename,
			Path:         r.Path,
			Folder:       orMissing(r.Folder),
			DeviceID:     missingValue,
			Make:         missingValue,
			Model:        missingValue,
			DateTime:     missingValue,
			Location:     missingValue,
			SizeMB:       strconv.FormatFloat(float64(r.Size)/(1024*1024), 'f', 2, 64),
			Format:       missingValue,
			Software:     missingValue,
			Fingerprint:  orMissing(string(r.Fingerprint)),
			Label:        r.Label.String(),
			Status:       r.Status,
			ClosestMatch: noMatch,
			HasDuplicate: r.HasDuplicate,
			Score:        missingValue,
		}
		if r.Analyzed() {
			row.Score = strconv.Itoa(r.SimilarityScore) + "%"
			if r.ClosestMatch != "" {
				row.ClosestMatch = r.ClosestMatch
			}
		}
		if m := r.Metadata; m != nil {
			row.DeviceID = orMissing(m.DeviceID)
			row.Make = orMissing(m.Make)
			row.Model = orMissing(m.Model)
			row.Location = orMissing(m.Location)
			row.Width, row.Height = m.Width, m.Height
			row.Format = orMissing(m.Format)
			row.Software = orMissing(m.Software)
			if !m.DateTime.IsZero() {
				row.DateTime = m.DateTime.Format(time.DateTime)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func orMissing(s string) string {
	if s == "" {
		return missingValue
	}
	return s
}
