package index

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/storage"
)

// watcherTestEnv sets up a docs tree, storage, resolver, and DB.
func watcherTestEnv(t *testing.T) (string, storage.Provider, *catalog.Resolver, *DB, *slog.Logger) {
	t.Helper()
	docsDir := t.TempDir()
	store, err := storage.NewFS(docsDir)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	resolver := catalog.NewResolver(store, false, logger)
	return docsDir, store, resolver, testDB(t), logger
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_NewFileIndexed(t *testing.T) {
	docsDir, store, resolver, db, logger := watcherTestEnv(t)
	writeFile(t, docsDir, "Notes/Misc/seed.md", "# Seed\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, db, store, resolver, docsDir, logger, func(kind, path string) {
		mu.Lock()
		events = append(events, kind+":"+path)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	writeFile(t, docsDir, "Notes/Misc/new.md", "# New\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("Notes/Misc/new.md")
		return cs != ""
	}, "new file not indexed by watcher")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "created:Notes/Misc/new.md" {
				return true
			}
		}
		return false
	}, "expected created callback for new file")
}

func TestWatcher_RewritePublishesUpdated(t *testing.T) {
	docsDir, store, resolver, db, logger := watcherTestEnv(t)
	writeFile(t, docsDir, "Notes/Misc/doc.md", "# Doc\n")
	if err := Sync(db, store, resolver, logger); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, db, store, resolver, docsDir, logger, func(kind, path string) {
		mu.Lock()
		events = append(events, kind+":"+path)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	writeFile(t, docsDir, "Notes/Misc/doc.md", "# Doc\n\nmore\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, e := range events {
			if e == "updated:Notes/Misc/doc.md" {
				return true
			}
		}
		return false
	}, "expected updated callback for rewritten file")

	mu.Lock()
	defer mu.Unlock()
	for _, e := range events {
		if e == "created:Notes/Misc/doc.md" {
			t.Errorf("already-indexed file reported as created: %v", events)
		}
	}
}

func TestWatcher_NewSubcategoryWatched(t *testing.T) {
	docsDir, store, resolver, db, logger := watcherTestEnv(t)
	writeFile(t, docsDir, "Notes/Misc/seed.md", "# Seed\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, store, resolver, docsDir, logger, nil)
	time.Sleep(100 * time.Millisecond)

	subDir := filepath.Join(docsDir, "Notes", "Ideas")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	writeFile(t, docsDir, "Notes/Ideas/deep.md", "# Deep\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("Notes/Ideas/deep.md")
		return cs != ""
	}, "file in new subcategory not indexed by watcher")
}

func TestWatcher_DeleteRemovesFromIndex(t *testing.T) {
	docsDir, store, resolver, db, logger := watcherTestEnv(t)
	writeFile(t, docsDir, "Notes/Misc/del.md", "# Delete Me\n")
	if err := Sync(db, store, resolver, logger); err != nil {
		t.Fatal(err)
	}

	if cs, _ := db.GetChecksum("Notes/Misc/del.md"); cs == "" {
		t.Fatal("precondition: file should be indexed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, store, resolver, docsDir, logger, nil)
	time.Sleep(100 * time.Millisecond)

	if err := os.Remove(filepath.Join(docsDir, "Notes", "Misc", "del.md")); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("Notes/Misc/del.md")
		return cs == ""
	}, "deleted file still in index")
}

func TestWatcher_RenameReconciles(t *testing.T) {
	docsDir, store, resolver, db, logger := watcherTestEnv(t)
	writeFile(t, docsDir, "Notes/Misc/old.md", "# Rename\n")
	if err := Sync(db, store, resolver, logger); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, store, resolver, docsDir, logger, nil)
	time.Sleep(100 * time.Millisecond)

	if err := os.Rename(
		filepath.Join(docsDir, "Notes", "Misc", "old.md"),
		filepath.Join(docsDir, "Notes", "Misc", "renamed.md"),
	); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		oldCS, _ := db.GetChecksum("Notes/Misc/old.md")
		newCS, _ := db.GetChecksum("Notes/Misc/renamed.md")
		return oldCS == "" && newCS != ""
	}, "rename reconciliation failed: old path should be removed and new path indexed")
}

func TestWatcher_ChangeInvalidatesResolverCache(t *testing.T) {
	docsDir, store, resolver, db, logger := watcherTestEnv(t)
	writeFile(t, docsDir, "Notes/Misc/a.md", "# A\n")

	// Warm the memoized listing.
	if got := len(resolver.Documents("Notes", false)); got != 1 {
		t.Fatalf("len = %d", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go Watch(ctx, db, store, resolver, docsDir, logger, nil)
	time.Sleep(100 * time.Millisecond)

	writeFile(t, docsDir, "Notes/Misc/b.md", "# B\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		return len(resolver.Documents("Notes", false)) == 2
	}, "resolver cache not invalidated by watcher")
}
