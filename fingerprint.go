package photodupe

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode is matched by every *DecodeError.
var ErrDecode = errors.New("photodupe: image decode failed")

// DecodeError reports that an image could not be turned into pixels.
// The batch continues without a fingerprint for that image.
type DecodeError struct {
	Filename string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("photodupe: decode: %v", e.Err)
	}
	return fmt.Sprintf("photodupe: decode %s: %v", e.Filename, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }

var errEmptyImage = errors.New("empty image data")

// ComputeFingerprint hashes data with the default configuration.
func ComputeFingerprint(data []byte) (Fingerprint, error) {
	var cfg Config
	return cfg.ComputeFingerprint(data)
}

// ComputeFingerprint decodes data and returns its perceptual fingerprint, or
// a *DecodeError when the bytes are empty, corrupt or in an unsupported format.
func (cfg *Config) ComputeFingerprint(data []byte) (Fingerprint, error) {
	c := cfg.resolved()
	img, err := c.decode(data)
	if err != nil {
		return "", &DecodeError{Err: err}
	}
	return c.fingerprintImage(img)
}

// decode turns bytes into an image, honouring EXIF orientation. Decoder
// panics on hostile input are reported as errors.
func (cfg *Config) decode(data []byte) (img image.Image, err error) {
	if len(data) == 0 {
		return nil, errEmptyImage
	}
	defer func() {
		if r := recover(); r != nil {
			if cfg.OnPanic != nil {
				cfg.OnPanic("decode", r)
			}
			img, err = nil, fmt.Errorf("decoder panic: %v", r)
		}
	}()
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

// fingerprintImage hashes an already decoded image. cfg must be resolved.
func (cfg *Config) fingerprintImage(img image.Image) (Fingerprint, error) {
	if img.Bounds().Empty() {
		return "", &DecodeError{Err: errEmptyImage}
	}

	switch cfg.Algorithm {
	case AlgorithmDifference:
		h, err := goimagehash.DifferenceHash(img)
		if err != nil {
			return "", &DecodeError{Err: err}
		}
		return FingerprintFromUint64(h.GetHash()), nil
	case AlgorithmPerception:
		h, err := goimagehash.PerceptionHash(img)
		if err != nil {
			return "", &DecodeError{Err: err}
		}
		return FingerprintFromUint64(h.GetHash()), nil
	}

	return averageHash(img, cfg.GridSize, *cfg.Filter), nil
}

// averageHash samples img on a size x size grid, takes the unweighted mean
// of R, G and B as luminance and sets a bit for each sample strictly above
// the mean luminance.
func averageHash(img image.Image, size int, filter imaging.ResampleFilter) Fingerprint {
	small := imaging.Resize(img, size, size, filter)

	lum := make([]float64, 0, size*size)
	var sum float64
	for y := 0; y < size; y++ {
		row := small.Pix[y*small.Stride:]
		for x := 0; x < size; x++ {
			p := row[x*4 : x*4+3]
			g := (float64(p[0]) + float64(p[1]) + float64(p[2])) / 3
			lum = append(lum, g)
			sum += g
		}
	}
	mean := sum / float64(len(lum))

	buf := make([]byte, len(lum))
	for i, g := range lum {
		if g > mean {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return Fingerprint(buf)
}

// fingerprintUpload is the per-image task run by Analyze.
func (cfg *Config) fingerprintUpload(name string, img image.Image, decodeErr error) (Fingerprint, error) {
	if decodeErr != nil {
		err := &DecodeError{Filename: name, Err: decodeErr}
		slog.Debug("photodupe: decode failed", "file", name, "error", decodeErr.Error())
		if cfg.OnDecodeError != nil {
			cfg.OnDecodeError(name, err)
		}
		return "", err
	}
	fp, err := cfg.fingerprintImage(img)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Filename = name
		}
		slog.Debug("photodupe: hash failed", "file", name, "error", err.Error())
		if cfg.OnDecodeError != nil {
			cfg.OnDecodeError(name, err)
		}
		return "", err
	}
	return fp, nil
}
