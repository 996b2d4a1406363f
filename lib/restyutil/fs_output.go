package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FilesystemOutput writes each dumped http exchange into its own file.
type FilesystemOutput struct {
	directory string
	prefix    string
}

// NewFilesystemOutput creates dir when it is missing. Files already in dir
// are never removed or overwritten, the exchanges of a run go into new files
// named after the run.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{
		directory: dir,
		prefix:    fmt.Sprintf("farescan-%s-%d", time.Now().Format("20060102T150405"), os.Getpid()),
	}, nil
}

// Path is the file the exchange with the given id is written to.
func (o FilesystemOutput) Path(id string) string {
	return filepath.Join(o.directory, fmt.Sprintf("%s-%s.http", o.prefix, id))
}

func (o FilesystemOutput) Write(id string, contents string) {
	path := o.Path(id)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		slog.Warn("failed to create message info file", "path", path, "err", err)
		return
	}
	defer f.Close()

	_, err = f.WriteString(contents)
	if err != nil {
		slog.Warn("failed to write message info file", "path", path, "err", err)
	}
}
