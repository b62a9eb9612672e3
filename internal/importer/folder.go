// Package importer bulk-loads sales exports from a directory through the
// same pipeline the upload endpoint uses.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/JonMunkholm/InstaDash/internal/core"
)

// DefaultFileTimeout bounds the import of a single file.
const DefaultFileTimeout = 5 * time.Minute

// Importer is the part of core.Service the folder loader needs.
type Importer interface {
	Import(ctx context.Context, req core.ImportRequest) (*core.ImportResult, error)
}

// FileResult records the outcome for one file.
type FileResult struct {
	FileName string
	Result   *core.ImportResult
	Err      error
}

// Folder imports every export file in Root for one user.
type Folder struct {
	Service     Importer
	UserID      string
	Root        string
	Encoding    string
	FileTimeout time.Duration
	// StopOnError aborts the run at the first failed file.
	StopOnError bool
}

// isExport reports whether name looks like a sales export.
func isExport(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt", ".xlsx", ".xlsm":
		return true
	}
	return false
}

// Run imports the directory's export files in name order. Files are
// independent: each gets its own batch and a failure in one does not roll
// back the others. The returned error is non-nil only when the directory
// cannot be read, ctx ends, or StopOnError trips.
func (f *Folder) Run(ctx context.Context) ([]FileResult, error) {
	entries, err := os.ReadDir(f.Root)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", f.Root, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !isExport(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	results := make([]FileResult, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := f.importFile(ctx, name)
		results = append(results, FileResult{FileName: name, Result: res, Err: err})

		if err != nil {
			slog.Warn("file import failed", "file", name, "error", err)
			if f.StopOnError {
				return results, fmt.Errorf("%s: %w", name, err)
			}
			continue
		}
		slog.Info("file imported",
			"file", name,
			"batch_id", res.BatchID,
			"imported", res.ImportedCount,
			"total_rows", res.TotalRows,
		)
	}
	return results, nil
}

func (f *Folder) importFile(ctx context.Context, name string) (*core.ImportResult, error) {
	timeout := f.FileTimeout
	if timeout <= 0 {
		timeout = DefaultFileTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	file, err := os.Open(filepath.Join(f.Root, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	res, err := f.Service.Import(ctx, core.ImportRequest{
		UserID:   f.UserID,
		FileName: name,
		Reader:   file,
		Encoding: f.Encoding,
	})
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("import timed out after %v: %w", timeout, err)
	}
	return res, err
}

// Totals sums imported and total rows and counts failed files.
func Totals(results []FileResult) (imported, total, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		imported += r.Result.ImportedCount
		total += r.Result.TotalRows
	}
	return imported, total, failed
}
