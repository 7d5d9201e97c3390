// Package imagecache is a bounded in-memory image store. When full, the
// oldest inserted image is evicted first.
package imagecache

import (
	"sync"

	"github.com/elliotchance/orderedmap/v3"
)

// Image is a cached image body
type Image struct {
	ContentType string
	Data        []byte
}

// Cache is safe for concurrent use. Create one per application and pass it to
// whatever needs it.
type Cache struct {
	mu       sync.Mutex
	capacity int
	items    *orderedmap.OrderedMap[string, Image]
}

// New creates a cache holding at most capacity images. A capacity below one is
// treated as one.
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		items:    orderedmap.NewOrderedMap[string, Image](),
	}
}

// Put stores img under key and returns how many images were evicted. Replacing
// an existing key keeps its original position.
func (c *Cache) Put(key string, img Image) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items.Set(key, img)
	evicted := 0
	for c.items.Len() > c.capacity {
		oldest := c.items.Front()
		if oldest == nil {
			break
		}
		c.items.Delete(oldest.Key)
		evicted++
	}
	return evicted
}

func (c *Cache) Get(key string) (Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Get(key)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Len()
}

func (c *Cache) Capacity() int {
	return c.capacity
}

// Purge empties the cache
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = orderedmap.NewOrderedMap[string, Image]()
}
