// Package exif reads capture timestamps from image metadata. It is the one
// optional capability of the pipeline: callers that hold no Reader simply
// resolve dates from the filesystem instead.
package exif

import (
	"context"
	"errors"
	"os"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
)

type Reader struct{}

// TakenAt extracts the capture time, preferring DateTimeOriginal over the
// generic DateTime tag. Any error means "no usable metadata"; callers fall
// back to filesystem timestamps and never surface it.
func (Reader) TakenAt(ctx context.Context, path string) (time.Time, error) {
	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()

	meta, err := goexif.Decode(file)
	if err != nil {
		return time.Time{}, err
	}

	if tag, err := meta.Get(goexif.DateTimeOriginal); err == nil {
		if raw, err := tag.StringVal(); err == nil {
			if parsed, err := time.Parse("2006:01:02 15:04:05", raw); err == nil {
				return parsed, nil
			}
		}
	}

	if parsed, err := meta.DateTime(); err == nil {
		return parsed, nil
	}

	return time.Time{}, errors.New("no datetime tag")
}
