// Package filesystem imports catalog entities from JSON Lines files and
// watches a drop directory for new exports.
//
// A feed directory holds one file per resource, named after it:
// products.jsonl, orders.jsonl, customers.jsonl, carts.jsonl and
// members.jsonl. Each line is one entity payload.
package filesystem

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/core/ports/driven"
	"github.com/custodia-labs/storesync/internal/logger"
)

// Extension is the suffix of feed files.
const Extension = ".jsonl"

// maxRecordSize bounds one JSON Lines record.
const maxRecordSize = 4 << 20

// ImportJSONL stores every non-blank line of in as an entity of resource
// and returns how many were stored. It stops at the first bad line.
func ImportJSONL(ctx context.Context, catalog driven.CatalogStore, storeID string, resource domain.ResourceType, in io.Reader) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	imported, line := 0, 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		line++
		record := bytes.TrimSpace(scanner.Bytes())
		if len(record) == 0 {
			continue
		}
		entity, err := domain.DecodeEntity(resource, record)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if err := catalog.Put(ctx, storeID, entity); err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		imported++
	}
	if err := scanner.Err(); err != nil {
		return imported, fmt.Errorf("read line %d: %w", line+1, err)
	}
	return imported, nil
}

// ResourceForPath returns the resource a feed file holds. Hidden files,
// other extensions and unknown resource names are rejected.
func ResourceForPath(path string) (domain.ResourceType, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, Extension) {
		return "", false
	}
	resource, err := domain.ParseResourceType(strings.TrimSuffix(base, Extension))
	if err != nil {
		return "", false
	}
	return resource, true
}

// Feed imports a drop directory into the catalog of one store.
type Feed struct {
	dir     string
	storeID string
	catalog driven.CatalogStore
	log     *zap.Logger
}

// New creates a feed for dir.
func New(dir, storeID string, catalog driven.CatalogStore, log *zap.Logger) *Feed {
	return &Feed{
		dir:     dir,
		storeID: storeID,
		catalog: catalog,
		log:     logger.Channel(log, "feed"),
	}
}

// ImportFile imports one feed file and returns how many entities it held.
func (f *Feed) ImportFile(ctx context.Context, path string) (int, error) {
	resource, ok := ResourceForPath(path)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a feed file", domain.ErrInvalidInput, filepath.Base(path))
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	n, err := ImportJSONL(ctx, f.catalog, f.storeID, resource, file)
	if err != nil {
		return n, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	f.log.Info("feed imported",
		zap.String("file", filepath.Base(path)),
		zap.String("resource", resource.String()),
		zap.Int("entities", n),
	)
	return n, nil
}

// ImportAll imports every feed file currently in the directory, keyed by resource.
func (f *Feed) ImportAll(ctx context.Context) (map[domain.ResourceType]int, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.ResourceType]int)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		resource, ok := ResourceForPath(entry.Name())
		if !ok {
			continue
		}
		n, err := f.ImportFile(ctx, filepath.Join(f.dir, entry.Name()))
		if err != nil {
			return counts, err
		}
		counts[resource] += n
	}
	return counts, nil
}

// Watch imports feed files as they are created or rewritten until ctx ends.
// A file that fails to import is logged and skipped; the watch continues.
// onImport, when non-nil, is called after each successful import.
func (f *Feed) Watch(ctx context.Context, onImport func(resource domain.ResourceType, n int)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(f.dir); err != nil {
		return fmt.Errorf("watching %s: %w", f.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			resource, ok := f.handleFsEvent(event)
			if !ok {
				continue
			}
			n, err := f.ImportFile(ctx, event.Name)
			if err != nil {
				f.log.Warn("feed import failed", zap.String("file", event.Name), zap.Error(err))
				continue
			}
			if onImport != nil {
				onImport(resource, n)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				f.log.Warn("watch events dropped, rescanning")
				if _, err := f.ImportAll(ctx); err != nil {
					f.log.Warn("rescan failed", zap.Error(err))
				}
				continue
			}
			f.log.Error("watch error", zap.Error(err))
		}
	}
}

// handleFsEvent reports whether event should trigger an import.
// Removals and renames leave the catalog as it is.
func (f *Feed) handleFsEvent(event fsnotify.Event) (domain.ResourceType, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	resource, ok := ResourceForPath(event.Name)
	if !ok {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return resource, true
}
