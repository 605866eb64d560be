package result

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/go-data-exporter/bookexport/exporterr"
	"github.com/go-data-exporter/bookexport/filetype"
)

type memoryResult struct {
	meta
	mu     sync.Mutex
	data   []byte
	set    bool
	closed bool
}

type memoryFactory struct{}

// NewMemoryFactory returns a Factory keeping content in process memory.
func NewMemoryFactory() Factory {
	return memoryFactory{}
}

func (memoryFactory) New(name string, format filetype.FileType, count int) (Result, error) {
	m, err := newMeta(name, format, count)
	if err != nil {
		return nil, err
	}
	return &memoryResult{meta: m}, nil
}

func (r *memoryResult) SetData(ctx context.Context, src io.Reader) error {
	if src == nil {
		return exporterr.New(component, "SetData", "r", exporterr.ErrMissingArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return exporterr.New(component, "SetData", "", exporterr.ErrInvalidState)
	}
	if r.set {
		return exporterr.New(component, "SetData", "", exporterr.ErrAlreadySet)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(ctxReader{ctx: ctx, r: src}); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.Wrap(err, "result: buffer data")
	}
	r.data = buf.Bytes()
	r.set = true
	return nil
}

func (r *memoryResult) Data(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.set || r.closed {
		return nil, exporterr.Newf(component, "Data", "", exporterr.ErrInvalidState, "no data (set=%t closed=%t)", r.set, r.closed)
	}
	return io.NopCloser(bytes.NewReader(r.data)), nil
}

func (r *memoryResult) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = nil
	r.closed = true
	return nil
}
