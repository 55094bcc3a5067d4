package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"

	devenv "diary-export/dev/env"
)

// FilesystemOutput writes every http message into its own file under
// directory, named by message id.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears and recreates dir, which may start with
// "<dev_state>".
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.RemoveAll(dir)
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
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
