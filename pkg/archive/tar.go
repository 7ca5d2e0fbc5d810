// Copyright (c) 2025, Red Hat, Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/defaults"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

// Limits bound what Extract writes to disk.
type Limits struct {
	// MaxEntrySize is the largest single file.
	MaxEntrySize int64
	// MaxTotalSize is the largest sum of file sizes.
	MaxTotalSize int64
	// MaxEntries is the largest number of entries of any type.
	MaxEntries int
}

// DefaultLimits returns the extraction limits from package defaults.
func DefaultLimits() Limits {
	return Limits{
		MaxEntrySize: defaults.MaxArchiveEntrySize,
		MaxTotalSize: defaults.MaxExtractedSize,
		MaxEntries:   defaults.MaxArchiveEntries,
	}
}

// ExtractOption overrides an extraction limit.
type ExtractOption func(*Limits)

// WithMaxEntrySize sets the largest single extracted file.
func WithMaxEntrySize(n int64) ExtractOption {
	return func(l *Limits) { l.MaxEntrySize = n }
}

// WithMaxTotalSize sets the largest sum of extracted file sizes.
func WithMaxTotalSize(n int64) ExtractOption {
	return func(l *Limits) { l.MaxTotalSize = n }
}

// WithMaxEntries sets the largest number of extracted entries.
func WithMaxEntries(n int) ExtractOption {
	return func(l *Limits) { l.MaxEntries = n }
}

// Pack writes the tree under dir to a gzip-compressed tarball at out. The
// entries are placed below a top-level directory named after out without
// its extension.
func Pack(dir, out string) error {
	top := TopDir(out)

	f, err := os.Create(out)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to create archive %s", out), err)
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	files := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(filepath.Join(top, rel))
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		if _, err := io.Copy(tw, src); err != nil {
			return err
		}
		files++
		return nil
	})
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to pack %s", dir), err)
	}

	if err := tw.Close(); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInternal, "failed to finish tar stream", err)
	}
	if err := gw.Close(); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInternal, "failed to finish gzip stream", err)
	}

	slog.Debug("packed archive", slog.String("path", out), slog.Int("files", files))
	return nil
}

// TopDir returns the base name of path without its archive extension.
func TopDir(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".tar.gz", ".tgz", ".tar"} {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return base
}

// Extract unpacks the tarball at in into dir. Gzip compression is detected
// from the content. Entries escaping dir or exceeding a limit fail the
// extraction; links and special files are skipped.
func Extract(in, dir string, opts ...ExtractOption) error {
	limits := DefaultLimits()
	for _, opt := range opts {
		opt(&limits)
	}

	f, err := os.Open(in)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeNotFound, fmt.Sprintf("failed to open archive %s", in), err)
	}
	defer f.Close()

	r, err := decompress(f)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("failed to read archive %s", in), err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to create %s", dir), err)
	}

	var (
		total   int64
		entries int
	)
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "failed to read archive entry", err)
		}
		if err := validateEntry(hdr.Name, dir); err != nil {
			return err
		}

		entries++
		if limits.MaxEntries > 0 && entries > limits.MaxEntries {
			return cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest, "archive has too many entries",
				map[string]any{"limit": limits.MaxEntries})
		}
		if hdr.Typeflag == tar.TypeReg {
			if limits.MaxEntrySize > 0 && hdr.Size > limits.MaxEntrySize {
				return cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest, "archive entry too large",
					map[string]any{"path": hdr.Name, "size": hdr.Size, "limit": limits.MaxEntrySize})
			}
			total += hdr.Size
			if limits.MaxTotalSize > 0 && total > limits.MaxTotalSize {
				return cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest, "archive expands beyond size limit",
					map[string]any{"path": hdr.Name, "limit": limits.MaxTotalSize})
			}
		}

		dest := filepath.Join(dir, filepath.Clean(hdr.Name)) //nolint:gosec // checked by validateEntry
		if err := extractEntry(tr, dest, hdr); err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to extract %s", hdr.Name), err)
		}
	}
	return nil
}

func decompress(f *os.File) (io.Reader, error) {
	magic := make([]byte, 2)
	n, err := io.ReadFull(f, magic)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	if n == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		return gzip.NewReader(f)
	}
	return f, nil
}

func extractEntry(tr *tar.Reader, dest string, hdr *tar.Header) error {
	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(dest, 0o755)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		defer out.Close()
		n, err := io.Copy(out, tr)
		if err != nil {
			return err
		}
		if n != hdr.Size {
			return fmt.Errorf("short entry: wrote %d of %d bytes", n, hdr.Size)
		}
		return nil
	default:
		slog.Debug("skipping archive entry", slog.String("name", hdr.Name), slog.Int("type", int(hdr.Typeflag)))
		return nil
	}
}

// validateEntry rejects entry names that are absolute or resolve outside root.
func validateEntry(name, root string) error {
	traversal := func(reason string) error {
		return cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest, "path traversal detected: "+reason,
			map[string]any{"path": name})
	}

	if name == "" {
		return traversal("empty path")
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return traversal("absolute path")
	}
	cleaned := filepath.Clean(name)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return traversal("parent reference")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInternal, "failed to resolve archive root", err)
	}
	absDest, err := filepath.Abs(filepath.Join(root, cleaned))
	if err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInternal, "failed to resolve archive entry", err)
	}
	if absDest != absRoot && !strings.HasPrefix(absDest, absRoot+string(filepath.Separator)) {
		return traversal("resolves outside root")
	}
	return nil
}
