// Package watcher imports card files dropped into a watched directory.
//
// The drop folder is laid out as <root>/<owner email>/<file>, where the
// file is a CSV or JSON export. Processed files are renamed in place with
// an ".imported" or ".failed" suffix so they are never picked up twice.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/flashlearn/flashlearn-server/internal/domain"
	"github.com/flashlearn/flashlearn-server/internal/service"
)

// importTimeout bounds a single file import.
const importTimeout = 30 * time.Second

// UserResolver maps drop folder names to user accounts.
type UserResolver interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CardImporter creates cards from a parsed payload.
type CardImporter interface {
	Import(ctx context.Context, ownerID string, req service.ImportRequest) (int, error)
}

// Importer watches a drop directory and imports settled card files.
type Importer struct {
	root     string
	opts     Options
	users    UserResolver
	importer CardImporter
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	pending map[string]*time.Timer // path -> settle timer
	mu      sync.Mutex             // protects pending map
}

// New creates a drop folder importer rooted at dir.
func New(dir string, users UserResolver, importer CardImporter, logger *slog.Logger, opts Options) (*Importer, error) {
	opts.setDefaults()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Importer{
		root:     filepath.Clean(dir),
		opts:     opts,
		users:    users,
		importer: importer,
		watcher:  w,
		logger:   logger,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Start watches the drop folder until the context is cancelled. Files
// already present when the watcher starts are imported first.
func (im *Importer) Start(ctx context.Context) error {
	if err := os.MkdirAll(im.root, 0o755); err != nil {
		return fmt.Errorf("create drop folder: %w", err)
	}

	if err := im.watchTree(); err != nil {
		return err
	}

	im.sweepExisting(ctx)

	im.logger.Info("Drop folder watcher started", "path", im.root)

	for {
		select {
		case <-ctx.Done():
			im.drainTimers()
			return im.watcher.Close()

		case event, ok := <-im.watcher.Events:
			if !ok {
				return nil
			}
			im.handleEvent(ctx, event)

		case err, ok := <-im.watcher.Errors:
			if !ok {
				return nil
			}
			im.logger.Error("Watcher error", "error", err)
		}
	}
}

// watchTree watches the root and any existing user directories.
func (im *Importer) watchTree() error {
	if err := im.watcher.Add(im.root); err != nil {
		return fmt.Errorf("watch drop folder: %w", err)
	}

	entries, err := os.ReadDir(im.root)
	if err != nil {
		return fmt.Errorf("read drop folder: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(im.root, entry.Name())
		if im.opts.shouldIgnore(path) {
			continue
		}
		if err := im.watcher.Add(path); err != nil {
			im.logger.Warn("Failed to watch user folder", "path", path, "error", err)
		}
	}

	return nil
}

// sweepExisting imports files that were dropped while the server was down.
func (im *Importer) sweepExisting(ctx context.Context) {
	entries, err := os.ReadDir(im.root)
	if err != nil {
		im.logger.Warn("Failed to sweep drop folder", "error", err)
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		userDir := filepath.Join(im.root, entry.Name())
		files, err := os.ReadDir(userDir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			im.processFile(ctx, filepath.Join(userDir, f.Name()))
		}
	}
}

func (im *Importer) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if im.opts.shouldIgnore(path) {
		return
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			// New user folder, start watching it.
			if filepath.Dir(path) == im.root {
				if err := im.watcher.Add(path); err != nil {
					im.logger.Warn("Failed to watch user folder", "path", path, "error", err)
				}
			}
			return
		}
	}

	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}

	im.scheduleImport(ctx, path)
}

// scheduleImport (re)arms the settle timer for a file. Writers that are
// still streaming keep pushing the import back.
func (im *Importer) scheduleImport(ctx context.Context, path string) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if prev, ok := im.pending[path]; ok {
		prev.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(im.opts.SettleDelay, func() {
		im.mu.Lock()
		if im.pending[path] != timer {
			// Superseded by a newer write.
			im.mu.Unlock()
			return
		}
		delete(im.pending, path)
		im.mu.Unlock()

		im.processFile(ctx, path)
	})
	im.pending[path] = timer
}

// drainTimers stops all pending settle timers.
func (im *Importer) drainTimers() {
	im.mu.Lock()
	defer im.mu.Unlock()

	for path, timer := range im.pending {
		timer.Stop()
		delete(im.pending, path)
	}
}

// processFile imports a single dropped file and renames it by outcome.
func (im *Importer) processFile(ctx context.Context, path string) {
	format, ok := formatForFile(path)
	if !ok {
		return
	}

	// Files must live in a per-user folder directly under the root.
	userDir := filepath.Dir(path)
	if filepath.Dir(userDir) != im.root {
		return
	}
	email := filepath.Base(userDir)

	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	user, err := im.users.GetUserByEmail(ctx, email)
	if err != nil {
		im.logger.Warn("Drop folder does not match a user", "folder", email, "file", path)
		im.markFile(path, ".failed")
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		im.logger.Warn("Failed to read dropped file", "file", path, "error", err)
		return
	}

	count, err := im.importer.Import(ctx, user.ID, service.ImportRequest{
		Format: format,
		Text:   string(data),
	})
	if err != nil {
		im.logger.Warn("Drop folder import failed", "file", path, "user", email, "error", err)
		im.markFile(path, ".failed")
		return
	}

	im.logger.Info("Imported dropped file", "file", path, "user", email, "cards", count)
	im.markFile(path, ".imported")
}

// markFile renames a processed file so it is not picked up again.
func (im *Importer) markFile(path, suffix string) {
	if err := os.Rename(path, path+suffix); err != nil {
		im.logger.Error("Failed to mark processed file", "file", path, "error", err)
	}
}

// formatForFile maps a file extension to an import format.
func formatForFile(path string) (service.Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return service.FormatDelimited, true
	case ".json":
		return service.FormatStructured, true
	}
	return "", false
}
