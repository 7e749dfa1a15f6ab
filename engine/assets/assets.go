package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spaghettifunk/anima-gl/engine/core"
	"github.com/spaghettifunk/anima-gl/engine/renderer/metadata"
	"golang.org/x/sync/errgroup"
)

const DefaultImageCacheSize int = 64

type AssetType uint8

const (
	AssetTypeNone AssetType = iota
	AssetTypeImage
	AssetTypeShader
)

/**
 * @brief Loads images and shader sources relative to an assets directory.
 * Decoded images are kept in an LRU cache keyed by their resolved path.
 * All methods are safe to call from any goroutine.
 */
type AssetManager struct {
	root   string
	images *lru.Cache[string, *metadata.Image]

	mutex    sync.Mutex
	fsnotify *fsnotify.Watcher
	done     chan struct{}
	stopped  chan struct{}
	isClosed bool

	// Debounce is how long a file has to stay quiet before a change is reported.
	Debounce time.Duration
}

func NewAssetManager(root string, cacheSize int) (*AssetManager, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultImageCacheSize
	}
	images, err := lru.New[string, *metadata.Image](cacheSize)
	if err != nil {
		return nil, err
	}
	return &AssetManager{
		root:     root,
		images:   images,
		Debounce: 100 * time.Millisecond,
	}, nil
}

func (am *AssetManager) Root() string { return am.root }

// Path resolves name against the assets directory. Absolute paths are kept.
func (am *AssetManager) Path(name string) string {
	if filepath.IsAbs(name) || am.root == "" {
		return filepath.Clean(name)
	}
	return filepath.Join(am.root, name)
}

/**
 * @brief Reads and decodes an image. Repeated loads of the same path return
 * the cached image until the file changes under a watch or falls out of
 * the cache.
 */
func (am *AssetManager) LoadImage(name string) (*metadata.Image, error) {
	path := am.Path(name)
	if img, ok := am.images.Get(path); ok {
		return img, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}
	img := metadata.NewImage(path, data)
	if _, _, _, _, err := img.Decode(); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", core.ErrImageDecode, path, err.Error())
	}
	am.images.Add(path, img)
	core.LogDebug("loaded image %s", path)
	return img, nil
}

/**
 * @brief Loads every image in parallel. The result keeps the order of
 * names. The first error cancels the images not yet started.
 */
func (am *AssetManager) LoadImages(ctx context.Context, names []string) ([]*metadata.Image, error) {
	images := make([]*metadata.Image, len(names))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, name := range names {
		i, name := i, name
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := am.LoadImage(name)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// LoadShaderSource reads a GLSL source file.
func (am *AssetManager) LoadShaderSource(name string) (string, error) {
	path := am.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", core.ErrEmptyShaderSource, path)
	}
	return string(data), nil
}

// Forget drops a cached image so the next load reads the file again.
func (am *AssetManager) Forget(name string) {
	am.images.Remove(am.Path(name))
}

func (am *AssetManager) CachedImages() int {
	return am.images.Len()
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed || am.fsnotify == nil {
		am.isClosed = true
		am.mutex.Unlock()
		am.images.Purge()
		return nil
	}
	am.isClosed = true
	close(am.done)
	stopped := am.stopped
	am.mutex.Unlock()

	<-stopped
	am.images.Purge()
	return nil
}

var errClosed = errors.New("asset manager already closed")

func determineAssetType(path string) AssetType {
	switch filepath.Ext(path) {
	case ".vert", ".frag", ".geom", ".comp", ".tesc", ".tese", ".glsl":
		return AssetTypeShader
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		return AssetTypeImage
	default:
		return AssetTypeNone
	}
}
