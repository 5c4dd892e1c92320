package app

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"phorg/internal/domain"
	apperrors "phorg/internal/errors"
	"phorg/internal/logging"
)

// Enumerate collects the regular files under source that pass the criteria.
// Walk order is lexical, so results are deterministic for a given tree.
// A malformed exclusion pattern fails here, before any directory is read.
func Enumerate(ctx context.Context, fsys FileSystem, source string, criteria domain.Criteria, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	matcher, err := criteria.Compile()
	if err != nil {
		return nil, err
	}

	var files []string
	if criteria.Recursive {
		walkErr := fsys.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("skipping unreadable entry",
					logging.String("path", path), logging.Error(err))
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if entry.IsDir() || !entry.Type().IsRegular() {
				return nil
			}
			if matcher.Match(entry.Name()) {
				files = append(files, path)
			}
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	} else {
		entries, err := fsys.ReadDir(source)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.IOFailure, "enumerate", source, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !entry.Type().IsRegular() {
				continue
			}
			if matcher.Match(entry.Name()) {
				files = append(files, filepath.Join(source, entry.Name()))
			}
		}
	}

	logger.Debug("enumerated source",
		logging.String("source", source),
		logging.Int("files", len(files)),
		logging.Bool("recursive", criteria.Recursive))
	return files, nil
}
