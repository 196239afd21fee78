package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/IvanShishkin/logwatch/pkg/models"
	"go.uber.org/zap"
)

// DirReader lists a directory. os.ReadDir satisfies it.
type DirReader func(name string) ([]os.DirEntry, error)

// WarningCallback receives non-fatal failures as they occur
type WarningCallback func(path string, err error)

// Walker walks the filesystem and finds text files to scan
type Walker struct {
	classifier *Classifier
	logger     *zap.Logger
	readDir    DirReader
	onWarning  WarningCallback
}

// NewWalker creates a new filesystem walker
func NewWalker(classifier *Classifier, logger *zap.Logger) *Walker {
	if classifier == nil {
		classifier = defaultClassifier
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Walker{
		classifier: classifier,
		logger:     logger,
		readDir:    os.ReadDir,
	}
}

// SetDirReader replaces the directory lister
func (w *Walker) SetDirReader(r DirReader) {
	if r == nil {
		r = os.ReadDir
	}
	w.readDir = r
}

// SetWarningCallback sets the warning sink
func (w *Walker) SetWarningCallback(cb WarningCallback) {
	w.onWarning = cb
}

// Discover walks root and returns the candidate files sorted by path
func (w *Walker) Discover(root string) ([]string, error) {
	files, err := w.Walk(root)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Walk recursively collects non-empty text files under root in traversal
// order. Only a failure to list root itself is returned as an error.
func (w *Walker) Walk(root string) ([]string, error) {
	entries, err := w.readDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, models.NewError(models.KindPermissionDenied, root, "cannot access directory", err)
		}
		return nil, models.NewError(models.KindIO, root, "", err)
	}

	var files []string
	w.walkEntries(root, entries, &files)

	w.logger.Debug("Directory walk finished",
		zap.String("root", root),
		zap.Int("files", len(files)))

	return files, nil
}

// walkDir lists dir and walks its entries. Listing errors are warnings;
// entries returned alongside the error are still processed.
func (w *Walker) walkDir(dir string, files *[]string) {
	entries, err := w.readDir(dir)
	if err != nil {
		msg := "error accessing directory"
		if errors.Is(err, fs.ErrPermission) {
			msg = "skipping directory"
		}
		w.warn(dir, msg, err)
	}
	w.walkEntries(dir, entries, files)
}

func (w *Walker) walkEntries(dir string, entries []os.DirEntry, files *[]string) {
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		mode := entry.Type()

		switch {
		case mode.IsRegular():
			info, err := entry.Info()
			if err != nil {
				w.warn(path, "error accessing entry", err)
				continue
			}
			w.addIfText(path, info, files)
		case mode.IsDir():
			w.walkDir(path, files)
		case mode&fs.ModeSymlink != 0:
			info, err := os.Stat(path)
			if err != nil {
				w.warn(path, "cannot resolve symlink", err)
				continue
			}
			if info.Mode().IsRegular() {
				w.addIfText(path, info, files)
			} else if info.IsDir() {
				w.logger.Debug("Not following directory symlink", zap.String("path", path))
			}
		default:
			// sockets, devices, pipes
		}
	}
}

// addIfText appends path when it is a non-empty text file
func (w *Walker) addIfText(path string, info fs.FileInfo, files *[]string) {
	if info.Size() == 0 {
		w.logger.Debug("Skipping empty file", zap.String("path", path))
		return
	}
	if w.classifier.IsText(path) {
		*files = append(*files, path)
		return
	}
	w.logger.Debug("Skipping non-text file", zap.String("path", path))
}

func (w *Walker) warn(path, msg string, err error) {
	kind := models.KindIO
	switch {
	case errors.Is(err, fs.ErrPermission):
		kind = models.KindPermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		kind = models.KindNotFound
	}

	werr := models.NewError(kind, path, msg, err)
	w.logger.Warn("Error accessing path", zap.String("path", path), zap.Error(err))
	if w.onWarning != nil {
		w.onWarning(path, werr)
	}
}
