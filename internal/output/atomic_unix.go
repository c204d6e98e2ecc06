//go:build !windows

package internaloutput

import (
	"os"

	"github.com/google/renameio/v2"
)

// writeFileAtomic uses renameio for atomic file writing on Unix systems.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(filename, data, perm)
}
