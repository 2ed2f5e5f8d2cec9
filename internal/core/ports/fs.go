package ports

import "os"

// FileSystem abstracts the storage of uploaded originals and produced artifacts.
type FileSystem interface {
	CreateDir(dirPath string, permission os.FileMode) error

	WriteFile(filePath string, permission os.FileMode, contents []byte) error
	ReadFile(filePath string) ([]byte, error)
	CopyFile(sourcePath, destPath string) error
	DeleteFile(filePath string) error

	Size(filePath string) (int64, error)
	Exists(filePath string) (bool, error)
}
