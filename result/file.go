package result

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/go-data-exporter/bookexport/exporterr"
	"github.com/go-data-exporter/bookexport/filetype"
)

// fileResult streams its content to a file it owns under dir. The file is
// named <uuid>_<name>.<ext> so concurrent exports never collide.
type fileResult struct {
	meta
	dir    string
	mu     sync.Mutex
	path   string
	closed bool
}

type fileFactory struct {
	dir string
}

// NewFileFactory returns a Factory storing content under dir, creating the
// directory when missing. Results delete only the files they created.
func NewFileFactory(dir string) (Factory, error) {
	if dir == "" {
		return nil, exporterr.New(component, "NewFileFactory", "dir", exporterr.ErrMissingArgument)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "result: create working dir %s", dir)
	}
	return fileFactory{dir: dir}, nil
}

func (f fileFactory) New(name string, format filetype.FileType, count int) (Result, error) {
	m, err := newMeta(name, format, count)
	if err != nil {
		return nil, err
	}
	return &fileResult{meta: m, dir: f.dir}, nil
}

// Path returns the backing file, or "" before SetData.
func (r *fileResult) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

func (r *fileResult) SetData(ctx context.Context, src io.Reader) error {
	if src == nil {
		return exporterr.New(component, "SetData", "r", exporterr.ErrMissingArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return exporterr.New(component, "SetData", "", exporterr.ErrInvalidState)
	}
	if r.path != "" {
		return exporterr.New(component, "SetData", "", exporterr.ErrAlreadySet)
	}

	base := strings.ReplaceAll(r.CreateFileName(), string(filepath.Separator), "_")
	path := filepath.Join(r.dir, uuid.NewString()+"_"+base)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "result: create file")
	}
	_, err = io.Copy(f, ctxReader{ctx: ctx, r: src})
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.Wrapf(err, "result: write %s", path)
	}
	r.path = path
	return nil
}

func (r *fileResult) Data(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.path == "" || r.closed {
		return nil, exporterr.Newf(component, "Data", "", exporterr.ErrInvalidState, "no data (closed=%t)", r.closed)
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, errors.Wrap(err, "result: open data")
	}
	return f, nil
}

func (r *fileResult) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.path == "" {
		return nil
	}
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "result: remove data")
	}
	return nil
}
