package imaging

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// GridCache provides thread-safe caching of decoded images and their
// intensity grids, keyed by file path and smoothing radius.
//
// Detection is usually an interactive loop: the user clicks the same image
// repeatedly while tuning the tolerance. Caching the decoded image and the
// converted grid means only the first click pays for decode + conversion.
//
// GridCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached entries remain in memory until explicitly removed via Evict() or
// Clear(). Long-running servers handling many images should evict entries
// they are done with.
type GridCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	img  image.Image
	grid *Grid
}

// NewGridCache creates an empty cache ready for concurrent use.
func NewGridCache() *GridCache {
	return &GridCache{entries: make(map[string]*cacheEntry)}
}

// Load returns the decoded image and intensity grid for a file, decoding
// and converting on first use.
//
// smoothRadius, when positive, applies a Gaussian blur of that radius to
// the decoded image before grid conversion. Noisy captures can otherwise
// fragment a dark region into many small components; a light blur merges
// them without moving the boundary materially.
//
// Decoding goes through the imaging library, which honors EXIF orientation
// and supports PNG, JPEG, GIF, TIFF, and BMP. Entries are keyed by the
// exact path string plus the smoothing radius, so the same file loaded
// with different radii occupies two entries.
func (c *GridCache) Load(path string, smoothRadius float64) (image.Image, *Grid, error) {
	key := cacheKey(path, smoothRadius)

	c.mu.RLock()
	if e, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return e.img, e.grid, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}

	gridSource := img
	if smoothRadius > 0 {
		gridSource = blur.Gaussian(img, smoothRadius)
	}
	grid := FromImage(gridSource)

	c.mu.Lock()
	c.entries[key] = &cacheEntry{img: img, grid: grid}
	c.mu.Unlock()

	return img, grid, nil
}

// Clear removes all entries, freeing the associated memory.
func (c *GridCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Evict removes all entries for a path, regardless of smoothing radius.
// If the path is not cached, Evict does nothing.
func (c *GridCache) Evict(path string) {
	prefix := path + "|"
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

func cacheKey(path string, smoothRadius float64) string {
	return fmt.Sprintf("%s|%g", path, smoothRadius)
}

// ImageInfo contains metadata about a loaded image file together with the
// intensity statistics the detection tools need up front.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the image format guessed from the file extension:
	// "png", "jpeg", "gif", "tiff", "bmp", or "unknown".
	Format string `json:"format"`

	// MinIntensity and MaxIntensity are the extremes of the collapsed
	// single-channel grid, in the 0-255 sample range. Equal values mean
	// the image is uniform and detection will fail on it.
	MinIntensity float64 `json:"min_intensity"`
	MaxIntensity float64 `json:"max_intensity"`
}

// LoadImageInfo loads an image through the cache and reports its
// dimensions, format, and intensity range.
func LoadImageInfo(cache *GridCache, path string) (*ImageInfo, error) {
	img, grid, err := cache.Load(path, 0)
	if err != nil {
		return nil, err
	}

	min, max := grid.MinMax()
	bounds := img.Bounds()

	return &ImageInfo{
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		Format:       formatFromPath(path),
		MinIntensity: min,
		MaxIntensity: max,
	}, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	default:
		return "unknown"
	}
}
