package annotation

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lukasHoel/video-streaming/geometry"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk layout of an annotation file:
//
//	native: {width: 1920, height: 1080}
//	annotations:
//	  - id: 2b0e6c1e-2f4f-4a55-9a43-6bd3f0f2f1d1
//	    label: goal
//	    rect: {x: 1000, y: 500, width: 200, height: 100}
//	    start: 1m2s
//	    end: 1m5s
type fileFormat struct {
	Native      geometry.Dimensions `yaml:"native"`
	Annotations []fileAnnotation    `yaml:"annotations"`
}

type fileAnnotation struct {
	ID    string        `yaml:"id,omitempty"`
	Label string        `yaml:"label,omitempty"`
	Rect  geometry.Rect `yaml:"rect"`
	Start string        `yaml:"start,omitempty"`
	End   string        `yaml:"end,omitempty"`
}

// Load reads and parses an annotation file.
func Load(path string) (*Track, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat annotation file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read annotation file: %w", err)
	}

	track, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Load",
		"path":        path,
		"annotations": track.Len(),
		"native":      track.native,
	}).Info("Loaded annotation file")

	return track, nil
}

// Parse decodes an annotation file. Annotations without an id receive a new
// one. When the file declares native dimensions every rectangle must fit
// inside them.
func Parse(data []byte) (*Track, error) {
	var file fileFormat
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode annotations: %w", err)
	}
	if err := ValidateCount(len(file.Annotations)); err != nil {
		return nil, err
	}

	items := make([]Annotation, 0, len(file.Annotations))
	for i, fa := range file.Annotations {
		a, err := fa.decode()
		if err != nil {
			return nil, fmt.Errorf("annotation %d: %w", i, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("annotation %d: %w", i, err)
		}
		if file.Native.Valid() {
			if err := a.ValidateBounds(file.Native); err != nil {
				return nil, fmt.Errorf("annotation %d: %w", i, err)
			}
		}
		items = append(items, a)
	}

	track := NewTrack(items...)
	track.native = file.Native
	return track, nil
}

// Marshal encodes a track in the annotation file format.
func Marshal(t *Track) ([]byte, error) {
	native, _ := t.Native()
	file := fileFormat{Native: native}
	for _, a := range t.All() {
		fa := fileAnnotation{
			ID:    a.ID.String(),
			Label: a.Label,
			Rect:  a.Rect,
		}
		if a.Start != 0 {
			fa.Start = a.Start.String()
		}
		if a.End != 0 {
			fa.End = a.End.String()
		}
		file.Annotations = append(file.Annotations, fa)
	}
	return yaml.Marshal(&file)
}

func (fa fileAnnotation) decode() (Annotation, error) {
	a := Annotation{
		Label: fa.Label,
		Rect:  fa.Rect,
	}

	if fa.ID == "" {
		a.ID = uuid.New()
	} else {
		id, err := uuid.Parse(fa.ID)
		if err != nil {
			return Annotation{}, fmt.Errorf("%w: id %q: %v", ErrInvalidAnnotation, fa.ID, err)
		}
		a.ID = id
	}

	var err error
	if a.Start, err = parseOffset(fa.Start); err != nil {
		return Annotation{}, fmt.Errorf("%w: start: %v", ErrInvalidAnnotation, err)
	}
	if a.End, err = parseOffset(fa.End); err != nil {
		return Annotation{}, fmt.Errorf("%w: end: %v", ErrInvalidAnnotation, err)
	}
	return a, nil
}

func parseOffset(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
