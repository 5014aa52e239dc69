package photodupe

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Upload is one file entering a batch.
type Upload struct {
	Path string // slash-separated relative path; its base name is the display filename
	Data []byte
}

// Analyze runs a whole batch with the default configuration.
func Analyze(ctx context.Context, uploads []Upload) ([]*Record, error) {
	var cfg Config
	return cfg.Analyze(ctx, uploads)
}

// Analyze fingerprints and extracts metadata for every upload on a bounded
// worker pool, waits for all of them, then matches the complete batch.
// Records come back in upload order. A file that fails to decode is kept
// with an empty fingerprint and FingerprintErr set; it never fails the
// batch. The only error is ctx's, when the caller abandons the batch.
func (cfg *Config) Analyze(ctx context.Context, uploads []Upload) ([]*Record, error) {
	c := cfg.resolved()
	records, err := c.analyzeAll(ctx, uploads)
	if err != nil {
		return nil, err
	}
	c.MatchBatch(records)

	slog.Debug("photodupe: batch analyzed", "images", len(records), "workers", c.Concurrency)
	return records, nil
}

// analyzeAll is the fan-out phase. Each task writes only its own slot.
// cfg must be resolved.
func (cfg *Config) analyzeAll(ctx context.Context, uploads []Upload) ([]*Record, error) {
	records := make([]*Record, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	for i, up := range uploads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = cfg.analyzeOne(up)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// analyzeOne builds the record for a single upload. The decoded image is
// dropped when it returns.
func (cfg *Config) analyzeOne(up Upload) (rec *Record) {
	filename, folder := splitPath(up.Path)
	rec = &Record{
		ID:       uuid.NewString(),
		Filename: filename,
		Path:     up.Path,
		Folder:   folder,
		Size:     int64(len(up.Data)),
	}
	rec.resetMatch()

	defer func() {
		if r := recover(); r != nil {
			if cfg.OnPanic != nil {
				cfg.OnPanic("analyze", r)
			}
			slog.Warn("photodupe: panic analyzing image", "file", up.Path, "panic", r)
			rec.Fingerprint = ""
			rec.FingerprintErr = &DecodeError{Filename: filename, Err: fmt.Errorf("panic: %v", r)}
			rec.resetMatch()
		}
	}()

	img, decodeErr := cfg.decode(up.Data)
	rec.Fingerprint, rec.FingerprintErr = cfg.fingerprintUpload(filename, img, decodeErr)
	rec.Metadata = ExtractMetadata(up.Data)

	if cfg.Thumbnails && decodeErr == nil {
		thumb, err := Thumbnail(img, cfg.ThumbnailSize)
		if err != nil {
			slog.Debug("photodupe: thumbnail failed", "file", filename, "error", err.Error())
		} else {
			rec.Thumbnail = thumb
		}
	}
	rec.ClosestDistance = rec.Fingerprint.Len()
	return rec
}

// Session keeps the working set of one user session. Every membership
// change re-runs matching over the full set. It is safe for concurrent use.
type Session struct {
	cfg Config

	mu      sync.Mutex
	records []*Record
}

// NewSession creates an empty session. A nil cfg uses defaults.
func NewSession(cfg *Config) *Session {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Session{cfg: cfg.resolved()}
}

// Replace discards the working set and analyzes uploads as a fresh batch.
func (s *Session) Replace(ctx context.Context, uploads []Upload) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.cfg.Analyze(ctx, uploads)
	if err != nil {
		return nil, err
	}
	s.records = records
	return cloneRecords(s.records), nil
}

// Append adds uploads to the working set and re-matches everything.
// Uploads whose path is already present (or repeated within uploads) are
// skipped; fingerprints of existing records are not recomputed.
func (s *Session) Append(ctx context.Context, uploads []Upload) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(s.records)+len(uploads))
	for _, r := range s.records {
		seen[r.Path] = true
	}
	fresh := make([]Upload, 0, len(uploads))
	for _, up := range uploads {
		if seen[up.Path] {
			slog.Debug("photodupe: skipping already loaded file", "file", up.Path)
			continue
		}
		seen[up.Path] = true
		fresh = append(fresh, up)
	}

	added, err := s.cfg.analyzeAll(ctx, fresh)
	if err != nil {
		return nil, err
	}
	combined := append(slices.Clip(s.records), added...)
	s.cfg.MatchBatch(combined)
	s.records = combined
	return cloneRecords(s.records), nil
}

// Records returns a snapshot of the working set.
func (s *Session) Records() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecords(s.records)
}

// Len returns the number of records in the working set.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Reset empties the working set.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

func cloneRecords(in []*Record) []*Record {
	out := make([]*Record, len(in))
	for i, r := range in {
		c := *r
		c.Duplicates = slices.Clone(r.Duplicates)
		out[i] = &c
	}
	return out
}
