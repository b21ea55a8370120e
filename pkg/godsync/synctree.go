package godsync

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrexox/godsync/internal/ignore"
)

// TreeStats aggregates per-file Stats across a whole SyncTree run.
type TreeStats struct {
	FilesTotal     int
	FilesIdentical int
	FilesSynced    int
	FilesSkipped   int
	Errors         []error
	Stats
}

// add folds one file's delta Stats into the aggregate.
func (t *TreeStats) add(s Stats) {
	t.ChunksTotal += s.ChunksTotal
	t.ChunksCopied += s.ChunksCopied
	t.ChunksInserted += s.ChunksInserted
	t.BytesCopied += s.BytesCopied
	t.BytesInserted += s.BytesInserted
}

// SyncTreeOptions configures SyncTree.
type SyncTreeOptions struct {
	// Params are the chunker size bounds used for every file. Zero value
	// means DefaultParams().
	Params Params
	// DryRun computes and reports what would change without writing to
	// dest.
	DryRun bool
}

// SyncTree walks sourceRoot and, for every regular file not excluded by
// a .syncignore, diffs it against the file at the same relative path
// under destRoot (treated as empty if absent) and applies the resulting
// patch in place under destRoot. This is pure orchestration over
// BuildSignature/Diff/WritePatch/Apply; it introduces no new wire format
// and does not touch any file destRoot doesn't have a counterpart for in
// sourceRoot (files present only in destRoot are left untouched — there
// is no Delete operation).
func SyncTree(sourceRoot, destRoot string, opts SyncTreeOptions, cb ProgressCallback) (TreeStats, error) {
	params := opts.Params
	if (params == Params{}) {
		params = DefaultParams()
	}

	matcher, err := ignore.Load(sourceRoot)
	if err != nil {
		return TreeStats{}, fmt.Errorf("godsync: loading .syncignore: %w", err)
	}

	var stats TreeStats

	walkErr := filepath.Walk(sourceRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			stats.Errors = append(stats.Errors, err)
			return nil
		}

		relPath, relErr := filepath.Rel(sourceRoot, path)
		if relErr != nil {
			stats.Errors = append(stats.Errors, relErr)
			return nil
		}
		if relPath == "." {
			return nil
		}

		if info.IsDir() {
			if matcher.MatchDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() || info.Name() == ignore.FileName || matcher.Match(relPath) {
			stats.FilesSkipped++
			return nil
		}

		stats.FilesTotal++
		fileStats, changed, err := syncFile(path, filepath.Join(destRoot, relPath), params, opts.DryRun, cb)
		if err != nil {
			stats.Errors = append(stats.Errors, fmt.Errorf("%s: %w", relPath, err))
			return nil
		}
		stats.add(fileStats)
		if changed {
			stats.FilesSynced++
		} else {
			stats.FilesIdentical++
		}
		return nil
	})
	if walkErr != nil {
		return stats, fmt.Errorf("godsync: walking %s: %w", sourceRoot, walkErr)
	}

	return stats, nil
}

func syncFile(sourcePath, destPath string, params Params, dryRun bool, cb ProgressCallback) (Stats, bool, error) {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return Stats{}, false, fmt.Errorf("opening source: %w", err)
	}
	defer sourceFile.Close()

	targetSig, err := BuildSignature(sourceFile, params, cb)
	if err != nil {
		return Stats{}, false, fmt.Errorf("building target signature: %w", err)
	}

	destFile, err := os.Open(destPath)
	var destSig *Signature
	if err == nil {
		defer destFile.Close()
		destSig, err = BuildSignature(destFile, params, nil)
		if err != nil {
			return Stats{}, false, fmt.Errorf("building dest signature: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Stats{}, false, fmt.Errorf("opening dest: %w", err)
	} else {
		destSig = &Signature{Version: targetSig.Version, Params: params}
	}

	if destSig.Equal(targetSig) {
		return Stats{ChunksTotal: uint64(len(targetSig.Chunks)), ChunksCopied: uint64(len(targetSig.Chunks))}, false, nil
	}

	// ops' Copy ranges reference destSig's file (the old contents);
	// Insert payload bytes are embedded from sourceFile (the new
	// contents) when the patch is serialized below.
	ops, stats := Diff(destSig, targetSig)

	if dryRun {
		return stats, true, nil
	}

	if _, err := sourceFile.Seek(0, 0); err != nil {
		return stats, true, fmt.Errorf("rewinding source: %w", err)
	}

	var patchBuf bytes.Buffer
	if err := WritePatch(&patchBuf, ops, sourceFile); err != nil {
		return stats, true, fmt.Errorf("writing patch: %w", err)
	}

	oldDest, err := os.Open(destPath)
	if err != nil && !os.IsNotExist(err) {
		return stats, true, fmt.Errorf("opening dest for copy ranges: %w", err)
	}
	if oldDest == nil {
		oldDest, err = os.Open(os.DevNull)
		if err != nil {
			return stats, true, fmt.Errorf("opening placeholder source: %w", err)
		}
	}
	defer oldDest.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return stats, true, fmt.Errorf("creating dest directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".godsync-synctree-*")
	if err != nil {
		return stats, true, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Apply(&patchBuf, oldDest, tmp); err != nil {
		tmp.Close()
		return stats, true, fmt.Errorf("applying patch: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return stats, true, fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), destPath); err != nil {
		return stats, true, fmt.Errorf("committing synced file: %w", err)
	}

	return stats, true, nil
}
