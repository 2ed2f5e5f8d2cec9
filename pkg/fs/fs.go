package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalFileSystem stores originals and artifacts on the local disk.
type LocalFileSystem struct{}

func NewLocalFileSystem() *LocalFileSystem {
	return &LocalFileSystem{}
}

// Creates a directory (and parents) if not present. Fails if the path exists but isn't a directory.
func (lfs *LocalFileSystem) CreateDir(dirPath string, permission os.FileMode) error {
	stat, err := os.Stat(dirPath)
	if err == nil {
		if !stat.IsDir() {
			return fmt.Errorf("existing path isn't a directory: %s", dirPath)
		}
		return nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(dirPath, permission); err != nil {
		return fmt.Errorf("error in creating all directories %s: %w", dirPath, err)
	}
	return nil
}

// Writes contents to a new file. Fails if the file already exists, artifacts are written exactly once.
func (lfs *LocalFileSystem) WriteFile(filePath string, permission os.FileMode, contents []byte) error {
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, permission)
	if err != nil {
		return err
	}

	if _, err := file.Write(contents); err != nil {
		file.Close()
		os.Remove(filePath)
		return err
	}
	return file.Close()
}

// Copies a file from source to destination, streaming the contents.
func (lfs *LocalFileSystem) CopyFile(sourcePath, destPath string) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}

	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		os.Remove(destPath)
		return err
	}
	return dest.Close()
}

// Read file contents.
func (lfs *LocalFileSystem) ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

// Size returns the size of a regular file in bytes.
func (lfs *LocalFileSystem) Size(filePath string) (int64, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	if !stat.Mode().IsRegular() {
		return 0, fmt.Errorf("not a regular file: %s", filePath)
	}
	return stat.Size(), nil
}

// Deletes a file.
func (lfs *LocalFileSystem) DeleteFile(filePath string) error {
	return os.Remove(filePath)
}

// Checks if a file exists or not.
func (lfs *LocalFileSystem) Exists(file string) (bool, error) {
	_, err := os.Stat(file)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
