package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"phorg/internal/hashutil"
	"phorg/internal/logging"
)

func testLogger() *slog.Logger {
	return logging.NewNop()
}

// fakeFS is an in-memory FileSystem. All methods are safe for concurrent use
// so worker-pool tests can run with real parallelism.
type fakeFS struct {
	mu    sync.Mutex
	files map[string]*fakeFile
	dirs  map[string]bool

	statErr     map[string]error
	readDirErr  map[string]error
	walkErr     map[string]error
	mkdirErr    map[string]error
	removeErr   map[string]error
	copyErr     map[string]error
	moveErr     map[string]error
	writeErr    map[string]error
	creationErr map[string]error

	moved   []string
	copied  []string
	removed []string
}

type fakeFile struct {
	content string
	mode    fs.FileMode
	modTime time.Time
	created time.Time
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		files:       map[string]*fakeFile{},
		dirs:        map[string]bool{},
		statErr:     map[string]error{},
		readDirErr:  map[string]error{},
		walkErr:     map[string]error{},
		mkdirErr:    map[string]error{},
		removeErr:   map[string]error{},
		copyErr:     map[string]error{},
		moveErr:     map[string]error{},
		writeErr:    map[string]error{},
		creationErr: map[string]error{},
	}
}

func (f *fakeFS) addDir(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markDirs(path)
}

func (f *fakeFS) addFile(path, content string, modTime time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = &fakeFile{content: content, modTime: modTime}
	f.markDirs(filepath.Dir(path))
}

func (f *fakeFS) addSpecial(path string, mode fs.FileMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = &fakeFile{mode: mode}
	f.markDirs(filepath.Dir(path))
}

// markDirs records path and every ancestor as directories. Callers hold mu.
func (f *fakeFS) markDirs(path string) {
	for path != "." && path != "/" && path != "" {
		f.dirs[path] = true
		path = filepath.Dir(path)
	}
}

func (f *fakeFS) has(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok
}

func (f *fakeFS) content(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if file, ok := f.files[path]; ok {
		return file.content
	}
	return ""
}

func (f *fakeFS) hasDir(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirs[path]
}

func (f *fakeFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	f.mu.Lock()
	entries := map[string]fakeDirEntry{}
	for p, file := range f.files {
		if underRoot(p, root) {
			entries[p] = fakeDirEntry{name: filepath.Base(p), mode: file.mode}
		}
	}
	for p := range f.dirs {
		if underRoot(p, root) {
			entries[p] = fakeDirEntry{name: filepath.Base(p), dir: true, mode: fs.ModeDir}
		}
	}
	f.mu.Unlock()

	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := f.walkErr[p]; err != nil {
			if fnErr := fn(p, nil, err); fnErr != nil {
				return fnErr
			}
			continue
		}
		if err := fn(p, entries[p], nil); err != nil {
			return err
		}
	}
	return nil
}

func underRoot(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+"/")
}

func (f *fakeFS) ReadDir(path string) ([]fs.DirEntry, error) {
	if err := f.readDirErr[path]; err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirs[path] {
		return nil, fs.ErrNotExist
	}
	var entries []fakeDirEntry
	for p, file := range f.files {
		if filepath.Dir(p) == path {
			entries = append(entries, fakeDirEntry{name: filepath.Base(p), mode: file.mode})
		}
	}
	for p := range f.dirs {
		if filepath.Dir(p) == path {
			entries = append(entries, fakeDirEntry{name: filepath.Base(p), dir: true, mode: fs.ModeDir})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	out := make([]fs.DirEntry, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out, nil
}

func (f *fakeFS) Stat(path string) (fs.FileInfo, error) {
	if err := f.statErr[path]; err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if file, ok := f.files[path]; ok {
		return fakeFileInfo{name: filepath.Base(path), size: int64(len(file.content)), modTime: file.modTime, mode: file.mode}, nil
	}
	if f.dirs[path] {
		return fakeFileInfo{name: filepath.Base(path), dir: true, mode: fs.ModeDir}, nil
	}
	return nil, fs.ErrNotExist
}

func (f *fakeFS) Exists(path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; ok {
		return true, nil
	}
	return f.dirs[path], nil
}

func (f *fakeFS) MkdirAll(path string, _ fs.FileMode) error {
	if err := f.mkdirErr[path]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markDirs(path)
	return nil
}

func (f *fakeFS) Remove(path string) error {
	if err := f.removeErr[path]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; !ok {
		return fs.ErrNotExist
	}
	delete(f.files, path)
	f.removed = append(f.removed, path)
	return nil
}

func (f *fakeFS) CopyFile(src, dst string) error {
	if err := f.copyErr[src]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[src]
	if !ok {
		return fs.ErrNotExist
	}
	if _, ok := f.files[dst]; ok {
		return fs.ErrExist
	}
	clone := *file
	f.files[dst] = &clone
	f.copied = append(f.copied, src)
	return nil
}

func (f *fakeFS) MoveFile(src, dst string) error {
	if err := f.moveErr[src]; err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[src]
	if !ok {
		return fs.ErrNotExist
	}
	if _, ok := f.files[dst]; ok {
		return fs.ErrExist
	}
	f.files[dst] = file
	delete(f.files, src)
	f.moved = append(f.moved, src)
	return nil
}

func (f *fakeFS) CreationTime(path string) (time.Time, error) {
	if err := f.creationErr[path]; err != nil {
		return time.Time{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[path]
	if !ok {
		return time.Time{}, fs.ErrNotExist
	}
	if !file.created.IsZero() {
		return file.created, nil
	}
	return file.modTime, nil
}

func (f *fakeFS) CanWrite(dir string) error {
	return f.writeErr[dir]
}

// hash fingerprints fake files by their literal content, with the same
// oversize cutoff behavior as the real fingerprinter.
func (f *fakeFS) hash(path string, maxSize int64) (hashutil.Fingerprint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.files[path]
	if !ok {
		return "", fs.ErrNotExist
	}
	if maxSize > 0 && int64(len(file.content)) > maxSize {
		return hashutil.LargeFileMarker, nil
	}
	return hashutil.Fingerprint(file.content), nil
}

type fakeDirEntry struct {
	name string
	dir  bool
	mode fs.FileMode
}

func (e fakeDirEntry) Name() string      { return e.name }
func (e fakeDirEntry) IsDir() bool       { return e.dir }
func (e fakeDirEntry) Type() fs.FileMode { return e.mode.Type() }
func (e fakeDirEntry) Info() (fs.FileInfo, error) {
	return fakeFileInfo{name: e.name, dir: e.dir, mode: e.mode}, nil
}

type fakeFileInfo struct {
	name    string
	size    int64
	modTime time.Time
	mode    fs.FileMode
	dir     bool
}

func (i fakeFileInfo) Name() string       { return i.name }
func (i fakeFileInfo) Size() int64        { return i.size }
func (i fakeFileInfo) Mode() fs.FileMode  { return i.mode }
func (i fakeFileInfo) ModTime() time.Time { return i.modTime }
func (i fakeFileInfo) IsDir() bool        { return i.dir }
func (i fakeFileInfo) Sys() any           { return nil }

type fakeMetadata struct {
	dates map[string]time.Time
	err   error
}

func (m *fakeMetadata) TakenAt(_ context.Context, path string) (time.Time, error) {
	if m.err != nil {
		return time.Time{}, m.err
	}
	if t, ok := m.dates[path]; ok {
		return t, nil
	}
	return time.Time{}, errors.New("no datetime tag")
}
