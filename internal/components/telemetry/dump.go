package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// MessageOutput receives the full text of every request/response exchange
// made by an instrumented client.
type MessageOutput interface {
	Write(id string, contents string)
}

var (
	dumpLock   sync.RWMutex
	dumpOutput MessageOutput
)

// SetHttpDumpOutput makes every instrumented client write its exchanges to
// out, nil turns dumping off.
func SetHttpDumpOutput(out MessageOutput) {
	dumpLock.Lock()
	defer dumpLock.Unlock()
	dumpOutput = out
}

func currentDumpOutput() MessageOutput {
	dumpLock.RLock()
	defer dumpLock.RUnlock()
	return dumpOutput
}

// FilesystemOutput writes each exchange to its own file in a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears dir and recreates it.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	path := filepath.Join(o.directory, fmt.Sprintf("%s.txt", id))
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write http dump file", "id", id, "err", err)
	}
}
