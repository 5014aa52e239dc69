package photodupe

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/bep/imagemeta"
	"github.com/rwcarlsen/goexif/exif"
)

const (
	unknownValue = "Unknown"
	noGPS        = "No GPS"
	exifLayout   = "2006:01:02 15:04:05"
)

// Metadata is the provenance read from an image: capture time, GPS
// position, device and pixel dimensions.
type Metadata struct {
	Make      string
	Model     string
	DeviceID  string // "Make Model", or "Unknown"
	Software  string
	Artist    string
	Copyright string
	Width     int
	Height    int
	Format    string    // decoder name upper-cased, e.g. "JPEG"
	DateTime  time.Time // zero when absent
	Latitude  *float64
	Longitude *float64
	Location  string // "lat, lon" to 4 decimals, or "No GPS"
}

// HasGPS reports whether both coordinates are present.
func (m *Metadata) HasGPS() bool {
	return m != nil && m.Latitude != nil && m.Longitude != nil
}

// dateTags are tried in order; the first parseable value wins.
var dateTags = []string{"DateTimeOriginal", "DateTime", "CreateDate", "ModifyDate"}

// wantedEXIF lists every EXIF tag we read through imagemeta.
var wantedEXIF = map[string]bool{
	"Make":             true,
	"Model":            true,
	"Software":         true,
	"Artist":           true,
	"Copyright":        true,
	"DateTimeOriginal": true,
	"DateTime":         true,
	"CreateDate":       true,
	"ModifyDate":       true,
	"GPSLatitude":      true,
	"GPSLatitudeRef":   true,
	"GPSLongitude":     true,
	"GPSLongitudeRef":  true,
	"PixelXDimension":  true,
	"PixelYDimension":  true,
	"ExifImageWidth":   true,
	"ExifImageHeight":  true,
	"ImageWidth":       true,
	"ImageHeight":      true,
	"ImageLength":      true,
}

// ExtractMetadata reads EXIF provenance from raw image bytes. It returns nil
// when data is empty or is neither an image nor carries EXIF. Missing
// fields fall back to "Unknown" / "No GPS". Never returns an error.
func ExtractMetadata(data []byte) *Metadata {
	if len(data) == 0 {
		return nil
	}

	meta := &Metadata{}
	found := extractWithImagemeta(data, meta)
	if !found {
		found = extractWithGoexif(data, meta)
	}

	if imgCfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		if meta.Width == 0 || meta.Height == 0 {
			meta.Width, meta.Height = imgCfg.Width, imgCfg.Height
		}
		meta.Format = strings.ToUpper(format)
		found = true
	}

	if !found {
		return nil
	}

	meta.finish()
	return meta
}

// finish fills display defaults.
func (m *Metadata) finish() {
	m.DeviceID = strings.TrimSpace(m.Make + " " + m.Model)
	if m.DeviceID == "" {
		m.DeviceID = unknownValue
	}
	if m.Make == "" {
		m.Make = unknownValue
	}
	if m.Model == "" {
		m.Model = unknownValue
	}
	if m.Software == "" {
		m.Software = unknownValue
	}
	if m.Format == "" {
		m.Format = "UNKNOWN"
	}
	if m.HasGPS() {
		m.Location = fmt.Sprintf("%.4f, %.4f", *m.Latitude, *m.Longitude)
	} else {
		m.Latitude, m.Longitude = nil, nil
		m.Location = noGPS
	}
}

// extractWithImagemeta is the primary EXIF path.
func extractWithImagemeta(data []byte, meta *Metadata) (found bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("photodupe: imagemeta panic", "panic", r)
			found = false
		}
	}()

	var tags imagemeta.Tags
	_, err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(data),
		Sources: imagemeta.EXIF | imagemeta.XMP,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			if ti.Source == imagemeta.XMP {
				return ti.Tag == "Creator" || ti.Tag == "Rights"
			}
			return wantedEXIF[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			tags.Add(ti)
			return nil
		},
	})
	if err != nil {
		slog.Debug("photodupe: imagemeta decode", "error", err.Error())
		return false
	}

	ex := tags.EXIF()
	str := func(name string) string {
		if ti, ok := ex[name]; ok {
			return cleanString(tagValueString(ti.Value))
		}
		return ""
	}

	meta.Make = str("Make")
	meta.Model = str("Model")
	meta.Software = str("Software")
	meta.Artist = str("Artist")
	meta.Copyright = str("Copyright")

	xmp := tags.XMP()
	if meta.Artist == "" {
		if ti, ok := xmp["Creator"]; ok {
			meta.Artist = cleanString(tagValueString(ti.Value))
		}
	}
	if meta.Copyright == "" {
		if ti, ok := xmp["Rights"]; ok {
			meta.Copyright = cleanString(tagValueString(ti.Value))
		}
	}

	for _, pair := range [][2]string{
		{"PixelXDimension", "PixelYDimension"},
		{"ExifImageWidth", "ExifImageHeight"},
		{"ImageWidth", "ImageHeight"},
		{"ImageWidth", "ImageLength"},
	} {
		w, okW := tagValueInt(ex[pair[0]].Value)
		h, okH := tagValueInt(ex[pair[1]].Value)
		if okW && okH && w > 0 && h > 0 {
			meta.Width, meta.Height = w, h
			break
		}
	}

	for _, name := range dateTags {
		if t, ok := parseEXIFTime(str(name)); ok {
			meta.DateTime = t
			break
		}
	}
	if meta.DateTime.IsZero() {
		if t, err := tags.GetDateTime(); err == nil && !t.IsZero() {
			meta.DateTime = t
		}
	}

	if _, ok := ex["GPSLatitude"]; ok {
		if lat, lon, err := tags.GetLatLong(); err == nil && validCoords(lat, lon) {
			meta.Latitude, meta.Longitude = &lat, &lon
		}
	}

	return len(ex) > 0 || len(xmp) > 0
}

// extractWithGoexif covers files imagemeta could not read.
func extractWithGoexif(data []byte, meta *Metadata) (found bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("photodupe: goexif panic", "panic", r)
			found = false
		}
	}()

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return false
	}

	str := func(name exif.FieldName) string {
		tag, err := x.Get(name)
		if err != nil || tag == nil {
			return ""
		}
		s, err := tag.StringVal()
		if err != nil {
			return ""
		}
		return cleanString(s)
	}
	num := func(name exif.FieldName) int {
		tag, err := x.Get(name)
		if err != nil || tag == nil {
			return 0
		}
		v, err := tag.Int(0)
		if err != nil {
			return 0
		}
		return v
	}

	meta.Make = str(exif.Make)
	meta.Model = str(exif.Model)
	meta.Software = str(exif.Software)
	meta.Artist = str(exif.Artist)
	meta.Copyright = str(exif.Copyright)

	if w, h := num(exif.PixelXDimension), num(exif.PixelYDimension); w > 0 && h > 0 {
		meta.Width, meta.Height = w, h
	} else if w, h := num(exif.ImageWidth), num(exif.ImageLength); w > 0 && h > 0 {
		meta.Width, meta.Height = w, h
	}

	if t, err := x.DateTime(); err == nil {
		meta.DateTime = t
	}
	if lat, lon, err := x.LatLong(); err == nil && validCoords(lat, lon) {
		meta.Latitude, meta.Longitude = &lat, &lon
	}

	return true
}

func parseEXIFTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{exifLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func validCoords(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func cleanString(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

// tagValueString extracts a string from a tag value.
// XMP values may be string or []string (from altList/seqList).
func tagValueString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case []string:
		if len(val) > 0 {
			return val[0]
		}
		return ""
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return s
			}
		}
		return ""
	default:
		return ""
	}
}

// tagValueInt extracts a dimension from the integer types EXIF decoders produce.
func tagValueInt(v any) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case int32:
		return int(val), true
	case uint16:
		return int(val), true
	case uint32:
		return int(val), true
	case uint64:
		return int(val), true
	case float64:
		return int(val), true
	case []any:
		if len(val) > 0 {
			return tagValueInt(val[0])
		}
	case []uint16:
		if len(val) > 0 {
			return int(val[0]), true
		}
	case []uint32:
		if len(val) > 0 {
			return int(val[0]), true
		}
	}
	return 0, false
}
