// Package dataset locates prediction, ground-truth and page image files.
//
// Predictions are JSON documents in one directory. Each is paired with
// exactly one ground-truth document whose name shares the prediction's stem,
// and, when pixel metrics are enabled, with the source page image.
package dataset

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"  // register BMP decoding
	_ "golang.org/x/image/tiff" // register TIFF decoding
	_ "golang.org/x/image/webp" // register WebP decoding
)

var (
	// ErrNoGroundTruth is returned when no ground-truth file matches a prediction
	ErrNoGroundTruth = errors.New("dataset: no matching ground-truth file")

	// ErrAmbiguousGroundTruth is returned when several ground-truth files match
	ErrAmbiguousGroundTruth = errors.New("dataset: more than one matching ground-truth file")

	// ErrImageNotFound is returned when the page image for a prediction is missing
	ErrImageNotFound = errors.New("dataset: page image not found")
)

// ListPredictions returns the regular files in dir sorted by name. Hidden
// files are skipped with an info event.
func ListPredictions(dir string, logger *zerolog.Logger) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read prediction directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			if logger != nil {
				logger.Info().Str("file", name).Msg("ignoring hidden file")
			}
			continue
		}
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// Stem strips a ".png" marker and the final extension from a prediction
// file name: "page-001.png.json" and "page-001.json" both yield "page-001"
func Stem(name string) string {
	name = strings.ReplaceAll(filepath.Base(name), ".png", "")
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// GroundTruthFor returns the single file in gtDir named "<stem>.<ext>" for
// the prediction file name
func GroundTruthFor(prediction, gtDir string) (string, error) {
	stem := Stem(prediction)
	entries, err := os.ReadDir(gtDir)
	if err != nil {
		return "", fmt.Errorf("failed to read ground-truth directory: %w", err)
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), stem+".") {
			matches = append(matches, filepath.Join(gtDir, e.Name()))
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%w for %s in %s", ErrNoGroundTruth, filepath.Base(prediction), gtDir)
	}
	return "", fmt.Errorf("%w for %s: %d candidates %v", ErrAmbiguousGroundTruth, filepath.Base(prediction), len(matches), matches)
}

// ImageFor returns the page image in imageDir. The document's recorded
// file name is tried first, then the prediction file name without its final
// extension ("page-001.png.json" gives "page-001.png").
func ImageFor(imageDir, prediction, recorded string) (string, error) {
	var candidates []string
	if recorded != "" {
		candidates = append(candidates, filepath.Base(recorded))
	}
	base := filepath.Base(prediction)
	candidates = append(candidates, strings.TrimSuffix(base, filepath.Ext(base)))

	for _, c := range candidates {
		path := filepath.Join(imageDir, c)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: expected %s in %s", ErrImageNotFound, strings.Join(candidates, " or "), imageDir)
}

// LoadImage decodes a PNG, JPEG, TIFF, BMP or WebP page image
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}
