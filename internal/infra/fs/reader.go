// Package fs provides the file system access used by the scanner.
package fs

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/cpscan/cpscan/internal/types"
)

// readBufferSize is the initial buffer for line reads. Longer lines grow
// the buffer rather than fail.
const readBufferSize = 64 * 1024

// Open opens filePath for reading.
func Open(filePath string) types.Result[*os.File] {
	return types.TryFrom(os.Open(filePath))
}

// EachLine calls fn for every physical line of r in order, with the line
// terminator removed. A final line without a trailing newline is still
// delivered. It returns the number of bytes consumed.
func EachLine(r io.Reader, fn func(line string)) (int64, error) {
	reader := bufio.NewReaderSize(r, readBufferSize)
	var consumed int64

	for {
		line, err := reader.ReadString('\n')
		consumed += int64(len(line))

		if len(line) > 0 {
			fn(strings.TrimRight(line, "\r\n"))
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return consumed, nil
			}
			return consumed, err
		}
	}
}

// GetFileInfo returns the path and size of a file.
func GetFileInfo(filePath string) types.Result[FileInfo] {
	stat, err := os.Stat(filePath)
	if err != nil {
		return types.Err[FileInfo](err)
	}

	return types.Ok(FileInfo{
		Path:  filePath,
		Size:  stat.Size(),
		IsDir: stat.IsDir(),
	})
}

// FileInfo contains information about a file on disk.
type FileInfo struct {
	Path  string
	Size  int64
	IsDir bool
}
