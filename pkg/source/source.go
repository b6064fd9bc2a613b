// Package source abstracts file content access for the detection pipeline.
package source

import (
	"os"
	"path/filepath"
	"unicode/utf8"
)

// ContentSource provides file content.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem, optionally
// resolving paths against a root directory. A rooted source lets callers use
// corpus-relative paths as document IDs.
type FilesystemSource struct {
	root string
}

// NewFilesystem creates a source that reads paths as given.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// NewFilesystemAt creates a source that resolves paths relative to root.
func NewFilesystemAt(root string) *FilesystemSource {
	return &FilesystemSource{root: root}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	if f.root != "" {
		path = filepath.Join(f.root, path)
	}
	return os.ReadFile(path)
}

// DecodeText converts raw bytes to a string with best-effort recovery:
// invalid UTF-8 sequences are dropped rather than failing or substituting
// replacement characters. The pipeline downstream treats the result as
// already-decoded text and never re-validates encoding.
func DecodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		out = append(out, r)
		i += size
	}
	return string(out)
}
