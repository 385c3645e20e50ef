package generator

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/klauspost/compress/flate"
)

// Assemble packs a rendered project into a single deflate-compressed zip
// archive at maximum compression. Path uniqueness is structural (Project is
// a map); an empty path or any writer failure is reported rather than
// silently dropping the entry.
func Assemble(project Project) ([]byte, error) {
	if len(project) == 0 {
		return nil, errorf(KindInternalAssembly, "project has no entries")
	}

	paths := make([]string, 0, len(project))
	for path := range project {
		if strings.TrimSpace(path) == "" {
			return nil, errorf(KindInternalAssembly, "project entry with empty path")
		}
		paths = append(paths, path)
	}
	// Entry order is not semantically significant; sorting just keeps the
	// archive reproducible for a given project.
	sort.Strings(paths)

	buf := bytes.NewBuffer(nil)
	zw := zip.NewWriter(buf)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	for _, path := range paths {
		entry, err := zw.Create(path)
		if err != nil {
			_ = zw.Close()
			return nil, newError(KindInternalAssembly, fmt.Errorf("create entry %q: %w", path, err))
		}
		if _, err := entry.Write(project[path]); err != nil {
			_ = zw.Close()
			return nil, newError(KindInternalAssembly, fmt.Errorf("write entry %q: %w", path, err))
		}
	}

	if err := zw.Close(); err != nil {
		return nil, newError(KindInternalAssembly, fmt.Errorf("finalize archive: %w", err))
	}
	return buf.Bytes(), nil
}
