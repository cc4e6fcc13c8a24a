package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/tileboard/internal/errors"
)

// settleDelay is how long a file must go without writes before it is read.
const settleDelay = 100 * time.Millisecond

// FileSource reads the document from a local JSON or YAML file.
type FileSource struct {
	path string
	wait time.Duration
	opts options
}

// NewFileSource creates a source reading path. When wait is positive and the
// file does not exist yet, Load waits up to wait for it to be created.
func NewFileSource(path string, wait time.Duration, opts ...Option) *FileSource {
	return &FileSource{path: path, wait: wait, opts: newOptions(opts)}
}

func (s *FileSource) String() string { return s.path }

// Load reads and decodes the file.
func (s *FileSource) Load(ctx context.Context) (*Document, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) && s.wait > 0 {
		if err := s.waitForFile(ctx); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.NewFetchError("reading definition file", err).
			WithURL(s.path).
			WithAttempt(1).
			WithRetryable(false)
	}

	doc, err := DecodeFile(s.path, data)
	if err != nil {
		return nil, err
	}
	doc.Source = s.path
	doc.Attempts = 1
	return doc, nil
}

// waitForFile blocks until the file exists and has stopped changing.
func (s *FileSource) waitForFile(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory; the file itself cannot be watched before it exists.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.wait)
	defer cancel()

	s.opts.logger.Info("waiting for definition file", "path", s.path, "wait", s.wait.String())

	target := filepath.Base(s.path)
	settle := time.NewTimer(settleDelay)
	if _, err := os.Stat(s.path); err != nil {
		// Not created between the first check and the watch.
		settle.Stop()
	}
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			cause := ctx.Err()
			if errors.Is(cause, context.DeadlineExceeded) {
				cause = fmt.Errorf("%w after %s: %w", errors.ErrTimeout, s.wait, cause)
			}
			return errors.NewFetchError("definition file did not appear", cause).
				WithURL(s.path).
				WithRetryable(false)

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.NewFetchError("file watcher closed", nil).WithURL(s.path)
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			settle.Reset(settleDelay)

		case <-settle.C:
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.NewFetchError("file watcher closed", nil).WithURL(s.path)
			}
			s.opts.logger.Warn("file watcher error", "path", s.path, "error", err.Error())
		}
	}
}
