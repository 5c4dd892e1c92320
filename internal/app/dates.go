package app

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"time"

	"phorg/internal/domain"
	"phorg/internal/logging"
)

// datePatterns recognize capture dates embedded in common camera and phone
// file names, most specific first. The bare 8-digit form comes last so a
// timestamped name is not truncated to its date half by accident.
var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`(\d{8})_\d{6}`), "20060102"},
	{regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`), "2006-01-02"},
	{regexp.MustCompile(`(\d{8})`), "20060102"},
}

// resolveDate derives the capture date for path. Embedded metadata wins when
// the run prefers it and a reader is wired, then a date spelled out in the
// file name, then the filesystem's creation time (or modification time where
// the platform records none). It never fails; every file gets a date.
func (o *Organizer) resolveDate(ctx context.Context, log *slog.Logger, path string, info fs.FileInfo) domain.CaptureDate {
	if o.PreferMetadata && o.Metadata != nil {
		if t, err := o.Metadata.TakenAt(ctx, path); err == nil && !t.IsZero() {
			return domain.DateOf(t)
		}
		log.Debug("no usable metadata date, falling back", logging.String("path", path))
	}
	if t, ok := dateFromName(filepath.Base(path)); ok {
		return domain.DateOf(t)
	}
	if t, err := o.FS.CreationTime(path); err == nil && !t.IsZero() {
		return domain.DateOf(t)
	}
	return domain.DateOf(info.ModTime())
}

// dateFromName extracts a plausible date from a file name like
// IMG_20230415_103000.jpg or 2023-04-15 holiday.png.
func dateFromName(name string) (time.Time, bool) {
	for _, pattern := range datePatterns {
		match := pattern.re.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		t, err := time.Parse(pattern.layout, match[1])
		if err != nil {
			continue
		}
		if plausibleYear(t) {
			return t, true
		}
	}
	return time.Time{}, false
}

// plausibleYear filters out 8-digit runs that parse as dates but cannot be
// capture years, like 10871234.
func plausibleYear(t time.Time) bool {
	year := t.Year()
	return year >= 1980 && year <= time.Now().Year()+1
}
