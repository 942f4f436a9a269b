package credential

import (
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// Background is the decoded credential background image, loaded on first use.
// After TTL the file modification time is checked again and the image is reloaded when it changed
type Background struct {
	path string
	ttl  time.Duration
	now  func() time.Time

	mu        sync.Mutex
	img       image.Image
	modTime   time.Time
	checkedAt time.Time
}

func NewBackground(path string, ttl time.Duration) *Background {
	return &Background{path: path, ttl: ttl, now: time.Now}
}

// Get the decoded image
func (bg *Background) Image() (image.Image, error) {
	bg.mu.Lock()
	defer bg.mu.Unlock()

	now := bg.now()
	if bg.img != nil && now.Sub(bg.checkedAt) < bg.ttl {
		return bg.img, nil
	}

	info, err := os.Stat(bg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat background %s: %w", bg.path, err)
	}

	if bg.img != nil && info.ModTime().Equal(bg.modTime) {
		bg.checkedAt = now
		return bg.img, nil
	}

	img, err := imaging.Open(bg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode background %s: %w", bg.path, err)
	}

	bg.img, bg.modTime, bg.checkedAt = img, info.ModTime(), now
	return img, nil
}
