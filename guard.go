package raffle

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// SourceGuard watches a participants file while a draw runs. A draw that read
// the file before it was rewritten must not be published.
type SourceGuard struct {
	path    string
	watcher *fsnotify.Watcher
	logger  Logger

	// digest of the content when watching started, nil if it was unreadable
	digest []byte

	mu      sync.Mutex
	changed bool
	done    chan struct{}
}

// WatchSource starts watching path. The parent directory is watched so that
// editors replacing the file by rename are seen too.
func WatchSource(path string, logger Logger) (*SourceGuard, error) {
	if logger == nil {
		logger = NewSilentLogger()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ErrSourceUnreadable.New().WithDetails("%s", path).WithCause(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ErrSystemError.New().WithOperation("watch").WithCause(err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, ErrSourceNotFound.New().WithDetails("%s", path).WithCause(err)
	}

	g := &SourceGuard{
		path:    abs,
		watcher: watcher,
		logger:  logger,
		done:    make(chan struct{}),
	}
	if sum, err := fileDigest(abs); err == nil {
		g.digest = sum
	}
	go g.loop()
	return g, nil
}

func (g *SourceGuard) loop() {
	defer close(g.done)
	for {
		select {
		case event, ok := <-g.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != g.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				g.markChanged()
				g.logger.Warn("Participants file %s changed (%s)", g.path, event.Op)
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
			g.logger.Error("Watching %s: %v", g.path, err)
		}
	}
}

// Changed reports whether the file was modified since the guard started
func (g *SourceGuard) Changed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.changed
}

func (g *SourceGuard) markChanged() {
	g.mu.Lock()
	g.changed = true
	g.mu.Unlock()
}

// Check returns ErrSourceChanged if the file was modified. fsnotify events
// arrive asynchronously, so the content is also re-hashed against the digest
// taken when watching started.
func (g *SourceGuard) Check() error {
	if !g.Changed() && g.digest != nil {
		sum, err := fileDigest(g.path)
		if err != nil || !bytes.Equal(sum, g.digest) {
			g.markChanged()
		}
	}
	if g.Changed() {
		return ErrSourceChanged.New().WithDetails("%s", g.path)
	}
	return nil
}

func fileDigest(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	return sum[:], nil
}

// Close stops watching
func (g *SourceGuard) Close() error {
	err := g.watcher.Close()
	<-g.done
	return err
}
