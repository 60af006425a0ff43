// Package asset loads item images and point clouds off the UI loop. Results
// are handed back through a post function so that callbacks run where the
// caller dispatches.
package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/philipparndt/golabel/internal/logger"
	"github.com/philipparndt/golabel/pkg/pointcloud"
)

// ErrUnsupported is returned for urls and files the loader cannot read
var ErrUnsupported = errors.New("unsupported asset")

// Loader fetches item assets asynchronously. Exactly one of the callbacks
// is called for every load.
type Loader interface {
	LoadImage(ctx context.Context, url string, onSuccess func(w, h int, img image.Image), onError func(error))
	LoadPointCloud(ctx context.Context, url string, onSuccess func(*pointcloud.Cloud), onError func(error))
}

// FileLoader reads assets from the local file system. Relative paths are
// resolved against the base directory.
type FileLoader struct {
	base string
	post func(func())
	wg   sync.WaitGroup
}

// NewFileLoader creates a loader. post receives the callbacks; when nil
// they run on the loading goroutine.
func NewFileLoader(base string, post func(func())) *FileLoader {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &FileLoader{base: base, post: post}
}

// Resolve turns an item url into a file path. Only plain paths and file
// urls are supported.
func Resolve(base, raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty url", ErrUnsupported)
	}
	path := raw
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		if u.Scheme != "file" {
			return "", fmt.Errorf("%w: scheme %q", ErrUnsupported, u.Scheme)
		}
		path = u.Path
	}
	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(base, path)
	}
	return filepath.Clean(path), nil
}

func (l *FileLoader) run(ctx context.Context, kind, raw string, load func(path string) error, onError func(error)) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		fail := func(err error) {
			logger.Logger().Warn("asset load failed", "kind", kind, "url", raw, "error", err)
			l.post(func() { onError(err) })
		}
		path, err := Resolve(l.base, raw)
		if err != nil {
			fail(err)
			return
		}
		if err := ctx.Err(); err != nil {
			fail(err)
			return
		}
		if err := load(path); err != nil {
			fail(err)
		}
	}()
}

// LoadImage decodes an image file
func (l *FileLoader) LoadImage(ctx context.Context, raw string, onSuccess func(w, h int, img image.Image), onError func(error)) {
	l.run(ctx, "image", raw, func(path string) error {
		img, err := OpenImage(path)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		b := img.Bounds()
		logger.Logger().Debug("image loaded", "url", raw, "width", b.Dx(), "height", b.Dy())
		l.post(func() { onSuccess(b.Dx(), b.Dy(), img) })
		return nil
	}, onError)
}

// LoadPointCloud parses a PLY or XYZ file
func (l *FileLoader) LoadPointCloud(ctx context.Context, raw string, onSuccess func(*pointcloud.Cloud), onError func(error)) {
	l.run(ctx, "pointcloud", raw, func(path string) error {
		cloud, err := pointcloud.Parse(path)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Logger().Debug("point cloud loaded", "url", raw, "points", cloud.Len())
		l.post(func() { onSuccess(cloud) })
		return nil
	}, onError)
}

// Wait blocks until all started loads have delivered their callback
func (l *FileLoader) Wait() {
	l.wg.Wait()
}
