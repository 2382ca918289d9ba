package jsonrepo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"productapi/internal/core/domain"

	"github.com/gofrs/uuid/v5"
)

const defaultFilePermissions = os.FileMode(0644)

// Needs to be exported so we can swap it out in tests
type Persister interface {
	Persist(products domain.Collection) error
}

// FilePersister replaces the whole backing file on every call. The new content is
// written to a sibling temp file first and renamed over the target.
type FilePersister struct {
	filename string
}

func NewFilePersister(filename string) *FilePersister {
	return &FilePersister{filename: filename}
}

func (fp *FilePersister) Persist(products domain.Collection) error {
	if products == nil {
		products = domain.Collection{}
	}

	payload, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding products: %w", err)
	}
	payload = append(payload, '\n')

	tmpPath, err := fp.tempPath()
	if err != nil {
		return err
	}

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, defaultFilePermissions)
	if err != nil {
		return fmt.Errorf("error opening temp file %s for persistence: %w", tmpPath, err)
	}

	if _, err := file.Write(payload); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("error writing JSON to file %s: %w", tmpPath, err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("error syncing file %s: %w", tmpPath, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error closing file %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, fp.filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("error replacing %s: %w", fp.filename, err)
	}

	return nil
}

// tempPath lives next to the target so the rename never crosses filesystems
func (fp *FilePersister) tempPath() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("could not generate temp file name: %w", err)
	}

	dir, base := filepath.Split(fp.filename)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, id)), nil
}
