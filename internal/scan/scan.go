// Package scan walks a directory tree looking for encodable audio files.
package scan

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the audio file extensions recognized when the
// caller does not supply its own list.
var DefaultExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".wav":  true,
	".wma":  true,
	".alac": true,
	".opus": true,
}

// Candidate is one audio file discovered by Walk.
type Candidate struct {
	Path       string
	Size       int64
	ModifiedAt int64 // unix timestamp
}

// Walk traverses root looking for files whose extension is in exts
// (case-insensitive). A nil exts uses DefaultExtensions. Hidden directories
// are skipped entirely.
func Walk(ctx context.Context, root string, exts map[string]bool) ([]Candidate, error) {
	if exts == nil {
		exts = DefaultExtensions
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "scan", Path: root, Err: os.ErrInvalid}
	}

	var candidates []Candidate

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !exts[ext] {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}

		candidates = append(candidates, Candidate{
			Path:       path,
			Size:       fi.Size(),
			ModifiedAt: fi.ModTime().Unix(),
		})
		return nil
	})

	if err != nil && err != context.Canceled {
		return candidates, err
	}

	log.Printf("[SCAN] discovered %d audio files under %s", len(candidates), root)
	return candidates, nil
}
