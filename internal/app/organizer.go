package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"phorg/internal/domain"
	apperrors "phorg/internal/errors"
	"phorg/internal/hashutil"
	"phorg/internal/logging"
)

// Organizer drives one run: enumerate, resolve dates, plan destinations,
// detect duplicates, transfer. Files are isolated from each other; one
// failure is recorded and the run moves on.
type Organizer struct {
	FS         FileSystem
	Metadata   MetadataReader
	Hash       HashFunc
	Logger     *slog.Logger
	OnProgress ProgressFunc

	Criteria         domain.Criteria
	Layout           domain.Layout
	Copy             bool
	DeleteDuplicates bool
	DryRun           bool
	PreferMetadata   bool
	MaxHashSize      int64
	Workers          int

	locks pathLocks
}

// Run organizes everything under source into target. The returned summary is
// valid even when err is non-nil; it covers whatever was processed before the
// abort. Per-file failures do not produce an error here, they live in the
// summary.
func (o *Organizer) Run(ctx context.Context, source, target string) (domain.Summary, error) {
	start := time.Now()
	summary := domain.Summary{RunID: uuid.NewString(), DryRun: o.DryRun}

	if o.FS == nil {
		return summary, errors.New("organizer requires FS")
	}
	log := logging.NewComponentLogger(o.Logger, "organizer").With(
		logging.String("run_id", summary.RunID))

	cleanSource, err := domain.SanitizePath(source)
	if err != nil {
		return summary, err
	}
	cleanTarget, err := domain.SanitizePath(target)
	if err != nil {
		return summary, err
	}

	info, err := o.FS.Stat(cleanSource)
	if err != nil {
		return summary, apperrors.Wrap(apperrors.NotFound, "organize", cleanSource, err)
	}
	if !info.IsDir() {
		return summary, apperrors.New(apperrors.InvalidPath, "organize", cleanSource, "not a directory")
	}
	if err := o.FS.MkdirAll(cleanTarget, 0o755); err != nil {
		return summary, apperrors.Wrap(apperrors.IOFailure, "organize", cleanTarget, err)
	}

	files, err := Enumerate(ctx, o.FS, cleanSource, o.Criteria, o.Logger)
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		log.Info("nothing to organize", logging.String("source", cleanSource))
		summary.Duration = time.Since(start)
		return summary, nil
	}

	log.Info("run started",
		logging.Int("files", len(files)),
		logging.String("source", cleanSource),
		logging.String("target", cleanTarget),
		logging.Bool("copy", o.Copy),
		logging.Bool("dry_run", o.DryRun))

	results := o.processAll(ctx, log, files, cleanTarget)
	for _, res := range results {
		if res == nil {
			continue
		}
		summary.Record(*res)
	}
	summary.Duration = time.Since(start)

	log.Info("run finished",
		logging.Int("succeeded", summary.Succeeded()),
		logging.Int("failed", len(summary.Failed)),
		logging.Duration("elapsed", summary.Duration))

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// processAll fans the candidate files out over the worker pool and collects
// results back into enumeration order. Entries stay nil for files the pool
// never reached because the context was cancelled.
func (o *Organizer) processAll(ctx context.Context, log *slog.Logger, files []string, target string) []*domain.Result {
	workers := o.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	type indexed struct {
		idx int
		res domain.Result
	}

	jobs := make(chan int)
	results := make(chan indexed)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results <- indexed{idx: idx, res: o.processFile(ctx, log, files[idx], target)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]*domain.Result, len(files))
	total := len(files)
	done := 0
	if o.OnProgress != nil {
		o.OnProgress(0, total)
	}
	for res := range results {
		r := res.res
		out[res.idx] = &r
		done++
		if o.OnProgress != nil {
			o.OnProgress(done, total)
		}
	}
	return out
}

// processFile walks one file through the state machine: sanitize, resolve
// date, plan destination, duplicate check, transfer. Steps for a single file
// are strictly sequential; the per-destination lock keeps two files aimed at
// the same path from interleaving between the existence check and the
// transfer.
func (o *Organizer) processFile(ctx context.Context, log *slog.Logger, source, target string) domain.Result {
	res := domain.Result{Source: source}

	clean, err := domain.SanitizePath(source)
	if err != nil {
		return o.failed(log, res, err)
	}
	res.Source = clean

	info, err := o.FS.Stat(clean)
	if err != nil {
		return o.failed(log, res, apperrors.Wrap(apperrors.IOFailure, "stat", clean, err))
	}

	date := o.resolveDate(ctx, log, clean, info)
	destDir := o.Layout.PlanDir(target, date)
	if err := o.FS.MkdirAll(destDir, 0o755); err != nil {
		return o.failed(log, res, apperrors.Wrap(apperrors.IOFailure, "mkdir", destDir, err))
	}
	dest := filepath.Join(destDir, filepath.Base(clean))
	res.Dest = dest

	release := o.locks.acquire(dest)
	defer release()

	exists, err := o.FS.Exists(dest)
	if err != nil {
		return o.failed(log, res, apperrors.Wrap(apperrors.IOFailure, "stat", dest, err))
	}
	if exists {
		return o.resolveCollision(log, res, clean, dest)
	}

	if err := o.FS.CanWrite(destDir); err != nil {
		return o.failed(log, res, apperrors.Wrap(apperrors.PermissionDenied, "write check", destDir, err))
	}

	res.Bytes = info.Size()
	res.Outcome = domain.OutcomeMoved
	if o.Copy {
		res.Outcome = domain.OutcomeCopied
	}
	if o.DryRun {
		log.Info("would transfer",
			logging.String("source", clean),
			logging.String("dest", dest),
			logging.Bool("copy", o.Copy))
		return res
	}

	var transferErr error
	if o.Copy {
		transferErr = o.FS.CopyFile(clean, dest)
	} else {
		transferErr = o.FS.MoveFile(clean, dest)
	}
	if transferErr != nil {
		res.Bytes = 0
		kind := apperrors.IOFailure
		if errors.Is(transferErr, fs.ErrPermission) {
			kind = apperrors.PermissionDenied
		}
		return o.failed(log, res, apperrors.Wrap(kind, "transfer", clean, transferErr))
	}

	log.Info(res.Outcome.String(),
		logging.String("source", clean),
		logging.String("dest", dest),
		logging.String("date", date.String()))
	return res
}

// resolveCollision handles a destination that already exists. Identical
// content is a duplicate (skip, or delete the source when enabled); differing
// content is a conflict and the file fails. Nothing ever overwrites the
// destination.
func (o *Organizer) resolveCollision(log *slog.Logger, res domain.Result, source, dest string) domain.Result {
	if source == dest {
		// The file already sits at its planned destination. Deleting the
		// "source" here would destroy the only copy.
		res.Outcome = domain.OutcomeSkippedDuplicate
		log.Debug("already organized", logging.String("path", source))
		return res
	}

	srcPrint, err := o.fingerprint(source)
	if err != nil {
		return o.failed(log, res, apperrors.Wrap(apperrors.HashFailure, "fingerprint", source, err))
	}
	destPrint, err := o.fingerprint(dest)
	if err != nil {
		return o.failed(log, res, apperrors.Wrap(apperrors.HashFailure, "fingerprint", dest, err))
	}

	if srcPrint != destPrint {
		return o.failed(log, res, apperrors.New(apperrors.NameConflict, "transfer", dest,
			"destination exists with different content"))
	}

	if o.DeleteDuplicates {
		res.Outcome = domain.OutcomeDeletedDuplicate
		if o.DryRun {
			log.Info("would delete duplicate", logging.String("source", source))
			return res
		}
		if err := o.FS.Remove(source); err != nil {
			return o.failed(log, res, apperrors.Wrap(apperrors.IOFailure, "delete duplicate", source, err))
		}
		log.Info("deleted duplicate",
			logging.String("source", source),
			logging.String("dest", dest))
		return res
	}

	res.Outcome = domain.OutcomeSkippedDuplicate
	log.Info("skipped duplicate",
		logging.String("source", source),
		logging.String("dest", dest))
	return res
}

func (o *Organizer) fingerprint(path string) (hashutil.Fingerprint, error) {
	fn := o.Hash
	if fn == nil {
		fn = hashutil.File
	}
	return fn(path, o.MaxHashSize)
}

func (o *Organizer) failed(log *slog.Logger, res domain.Result, err error) domain.Result {
	res.Outcome = domain.OutcomeFailed
	res.Err = err
	res.Bytes = 0
	log.Error("file failed",
		logging.String("source", res.Source),
		logging.String("kind", string(apperrors.KindOf(err))),
		logging.Error(err))
	return res
}
