package util

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// PartialSuffix marks an archive that is still being written.
const PartialSuffix = ".part"

// WriteArchive delivers data as dir/name. The bytes go to a partial file
// first and are renamed into place once fully written.
func WriteArchive(data []byte, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create output folder: %w", err)
	}

	final := filepath.Join(dir, name)
	tmp := final + PartialSuffix

	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("epub: %w", err)
	}

	if _, err := out.Write(data); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("error closing output file %s: %v", tmp, cerr)
		}
		_ = os.Remove(tmp)
		return "", fmt.Errorf("epub: %w", err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("epub: %w", err)
	}

	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("epub: %w", err)
	}

	return final, nil
}
