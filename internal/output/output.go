package internaloutput

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// DefaultFile is the service worker written in the working directory.
const DefaultFile = "service-worker.js"

const perm os.FileMode = 0o644

// Write replaces the content of path with data, without asking for confirmation.
//
// On the OS filesystem the content is written to a temporary file first and renamed over path,
// so readers never observe a truncated script.
func Write(fs afero.Fs, path string, data []byte) error {
	if _, ok := fs.(*afero.OsFs); ok {
		if err := writeFileAtomic(path, data, perm); err != nil {
			return fmt.Errorf("couldn't write %s: %w", path, err)
		}

		return nil
	}

	if err := afero.WriteFile(fs, path, data, perm); err != nil {
		return fmt.Errorf("couldn't write %s: %w", path, err)
	}

	return nil
}
