package godsync

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSyncTreeCopiesNewFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello, world"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stats, err := SyncTree(src, dst, SyncTreeOptions{}, nil)
	if err != nil {
		t.Fatalf("SyncTree: %v", err)
	}
	if len(stats.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", stats.Errors)
	}
	if stats.FilesSynced != 1 {
		t.Fatalf("expected 1 file synced, got %+v", stats)
	}

	got, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello, world" {
		t.Fatalf("got %q, want %q", got, "hello, world")
	}
}

func TestSyncTreeLeavesIdenticalFilesAlone(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	content := []byte("unchanged content")
	if err := os.WriteFile(filepath.Join(src, "a.txt"), content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dst, "a.txt"), content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stats, err := SyncTree(src, dst, SyncTreeOptions{}, nil)
	if err != nil {
		t.Fatalf("SyncTree: %v", err)
	}
	if stats.FilesIdentical != 1 || stats.FilesSynced != 0 {
		t.Fatalf("expected the identical file to be skipped, got %+v", stats)
	}
}

func TestSyncTreeHonorsSyncIgnore(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	if err := os.WriteFile(filepath.Join(src, ".syncignore"), []byte("*.log\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "keep.txt"), []byte("keep"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "skip.log"), []byte("skip"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stats, err := SyncTree(src, dst, SyncTreeOptions{}, nil)
	if err != nil {
		t.Fatalf("SyncTree: %v", err)
	}
	if stats.FilesSynced != 1 {
		t.Fatalf("expected only keep.txt to sync, got %+v", stats)
	}
	if _, err := os.Stat(filepath.Join(dst, "skip.log")); !os.IsNotExist(err) {
		t.Fatalf("expected skip.log to not be synced")
	}
}

func TestSyncTreeDryRunWritesNothing(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stats, err := SyncTree(src, dst, SyncTreeOptions{DryRun: true}, nil)
	if err != nil {
		t.Fatalf("SyncTree: %v", err)
	}
	if stats.FilesSynced != 1 {
		t.Fatalf("expected dry run to still report a planned sync, got %+v", stats)
	}
	if _, err := os.Stat(filepath.Join(dst, "a.txt")); !os.IsNotExist(err) {
		t.Fatalf("dry run should not write any files")
	}
}
