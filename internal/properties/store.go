package properties

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	fileSystemNotConfiguredMessageConstant = "file system not configured"
	fileNameRequiredMessageConstant        = "properties file name must be provided"
	libraryNameRequiredMessageConstant     = "library name must be provided"
	libraryNameInvalidTemplateConstant     = "library name %q must not contain path separators"
	createDirectoryErrorTemplateConstant   = "create directory %s: %w"
	writeFileErrorTemplateConstant         = "write %s: %w"
	readFileErrorTemplateConstant          = "read %s: %w"
	listDirectoryErrorTemplateConstant     = "list %s: %w"
	defaultStoreRootConstant               = "."
	directoryPermissionsConstant           = os.FileMode(0o755)
	filePermissionsConstant                = os.FileMode(0o644)
)

// StoreEntry describes one item found directly under the store root.
type StoreEntry struct {
	Name      string
	IsLibrary bool
}

// Store keeps one <root>/<library>/<file> properties document per library.
// Writes are not transactional: an interrupted write can leave a partial file.
type Store struct {
	fileSystem afero.Fs
	root       string
	fileName   string
}

// NewStore creates a store rooted at root on the file system.
func NewStore(fileSystem afero.Fs, root string, fileName string) (*Store, error) {
	if fileSystem == nil {
		return nil, errors.New(fileSystemNotConfiguredMessageConstant)
	}
	trimmedFileName := strings.TrimSpace(fileName)
	if len(trimmedFileName) == 0 {
		return nil, errors.New(fileNameRequiredMessageConstant)
	}
	trimmedRoot := strings.TrimSpace(root)
	if len(trimmedRoot) == 0 {
		trimmedRoot = defaultStoreRootConstant
	}
	return &Store{fileSystem: fileSystem, root: filepath.Clean(trimmedRoot), fileName: trimmedFileName}, nil
}

// Root returns the directory holding the library folders.
func (store *Store) Root() string {
	return store.root
}

// FileName returns the name of the properties file inside each library folder.
func (store *Store) FileName() string {
	return store.fileName
}

// Write stores the encoded record, creating the library folder when absent, and returns the file path.
func (store *Store) Write(libraryName string, record Record) (string, error) {
	libraryDirectory, pathError := store.libraryDirectory(libraryName)
	if pathError != nil {
		return "", pathError
	}
	if mkdirError := store.fileSystem.MkdirAll(libraryDirectory, directoryPermissionsConstant); mkdirError != nil {
		return "", fmt.Errorf(createDirectoryErrorTemplateConstant, libraryDirectory, mkdirError)
	}

	filePath := filepath.Join(libraryDirectory, store.fileName)
	if writeError := afero.WriteFile(store.fileSystem, filePath, []byte(record.Encode()), filePermissionsConstant); writeError != nil {
		return "", fmt.Errorf(writeFileErrorTemplateConstant, filePath, writeError)
	}
	return filePath, nil
}

// Read returns the raw properties file content of a library.
func (store *Store) Read(libraryName string) ([]byte, error) {
	libraryDirectory, pathError := store.libraryDirectory(libraryName)
	if pathError != nil {
		return nil, pathError
	}
	filePath := filepath.Join(libraryDirectory, store.fileName)
	content, readError := afero.ReadFile(store.fileSystem, filePath)
	if readError != nil {
		return nil, fmt.Errorf(readFileErrorTemplateConstant, filePath, readError)
	}
	return content, nil
}

// List returns every entry under the root sorted by name. Directories holding a properties file are libraries.
func (store *Store) List() ([]StoreEntry, error) {
	fileInfos, readError := afero.ReadDir(store.fileSystem, store.root)
	if readError != nil {
		return nil, fmt.Errorf(listDirectoryErrorTemplateConstant, store.root, readError)
	}

	entries := make([]StoreEntry, 0, len(fileInfos))
	for _, fileInfo := range fileInfos {
		entry := StoreEntry{Name: fileInfo.Name()}
		if fileInfo.IsDir() {
			propertiesInfo, statError := store.fileSystem.Stat(filepath.Join(store.root, fileInfo.Name(), store.fileName))
			entry.IsLibrary = statError == nil && propertiesInfo.Mode().IsRegular()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (store *Store) libraryDirectory(libraryName string) (string, error) {
	trimmedName := strings.TrimSpace(libraryName)
	if len(trimmedName) == 0 {
		return "", errors.New(libraryNameRequiredMessageConstant)
	}
	if strings.ContainsAny(trimmedName, `/\`) || trimmedName == "." || trimmedName == ".." {
		return "", fmt.Errorf(libraryNameInvalidTemplateConstant, libraryName)
	}
	return filepath.Join(store.root, trimmedName), nil
}
