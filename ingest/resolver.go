package ingest

import (
	"io"
	"os"
	"path/filepath"
)

// Resource is one discovered source handle.
type Resource interface {
	// Name returns the filename, including extension.
	Name() string
	// Path returns the full path or URI of the resource.
	Path() string
	// Open returns the resource's byte stream. The caller closes it.
	Open() (io.ReadCloser, error)
}

// Resolver enumerates resources matching a glob-like pattern.
type Resolver interface {
	Resolve(pattern string) ([]Resource, error)
}

// SourceID derives the stable source identity of a resource as
// "category/filename", where category is the path segment immediately
// preceding the filename.
func SourceID(res Resource) string {
	dir := filepath.Base(filepath.Dir(res.Path()))
	return dir + "/" + res.Name()
}

// FileResolver resolves patterns against the local filesystem using
// filepath.Glob semantics.
type FileResolver struct{}

// Resolve returns a Resource per regular file matching pattern.
func (FileResolver) Resolve(pattern string) ([]Resource, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	resources := make([]Resource, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		resources = append(resources, fileResource{path: path})
	}
	return resources, nil
}

type fileResource struct {
	path string
}

func (r fileResource) Name() string { return filepath.Base(r.path) }
func (r fileResource) Path() string { return r.path }

func (r fileResource) Open() (io.ReadCloser, error) {
	return os.Open(r.path)
}
