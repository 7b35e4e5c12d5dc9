package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileSystem wraps the Afero Fs interface
type FileSystem struct {
	Fs afero.Fs
}

// NewMemoryFileSystem creates a new in-memory file system
func NewMemoryFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOsFileSystem creates a new OS-based file system
func NewOsFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewOsFs(),
	}
}

// AlreadyExistsError is returned when a component file is present and
// overwriting was not requested.
type AlreadyExistsError struct {
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists (use --force to overwrite)", e.Path)
}

// Written holds the paths produced by WriteComponent.
type Written struct {
	Dir           string
	ComponentFile string
	IndexFile     string
}

// ComponentPaths returns where WriteComponent puts componentName under outputDir.
func ComponentPaths(outputDir, componentName string) Written {
	dir := filepath.Join(outputDir, componentName)
	return Written{
		Dir:           dir,
		ComponentFile: filepath.Join(dir, componentName+".jsx"),
		IndexFile:     filepath.Join(dir, "index.js"),
	}
}

// IndexSource is the content of the re-exporting index file.
func IndexSource(componentName string) string {
	return fmt.Sprintf("export { default } from './%s';\n", componentName)
}

// WriteComponent writes <outputDir>/<name>/<name>.jsx and its index.js.
// Nothing is written when the component file exists and overwrite is false.
// The two writes are not atomic.
func (fs *FileSystem) WriteComponent(outputDir, componentName, source string, overwrite bool) (Written, error) {
	if componentName == "" || componentName != filepath.Base(componentName) || componentName == ".." {
		return Written{}, fmt.Errorf("invalid component name %q", componentName)
	}
	paths := ComponentPaths(outputDir, componentName)

	exists, err := afero.Exists(fs.Fs, paths.ComponentFile)
	if err != nil {
		return Written{}, fmt.Errorf("error checking %s: %w", paths.ComponentFile, err)
	}
	if exists && !overwrite {
		return Written{}, &AlreadyExistsError{Path: paths.ComponentFile}
	}

	if err := fs.Fs.MkdirAll(paths.Dir, 0755); err != nil {
		return Written{}, fmt.Errorf("error creating directory %s: %w", paths.Dir, err)
	}
	if err := fs.WriteFile(paths.ComponentFile, source); err != nil {
		return Written{}, err
	}
	if err := fs.WriteFile(paths.IndexFile, IndexSource(componentName)); err != nil {
		return Written{}, err
	}

	return paths, nil
}

// WriteFile creates a new file with the given content or overwrites an existing file with the content
func (fs *FileSystem) WriteFile(path string, content string) error {
	err := afero.WriteFile(fs.Fs, path, []byte(content), 0644)
	if err != nil {
		return fmt.Errorf("error writing file %s: %w", path, err)
	}
	return nil
}

// ListFiles returns the files below root, relative to it, in lexical order.
func (fs *FileSystem) ListFiles(root string) ([]string, error) {
	var files []string
	err := afero.Walk(fs.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", root, err)
	}
	return files, nil
}
