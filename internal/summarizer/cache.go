package summarizer

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"sync"
)

type summaryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	maxEntries int
}

type summaryCacheEntry struct {
	key     string
	bullets []string
}

func newSummaryCache(maxEntries int) *summaryCache {
	if maxEntries <= 0 {
		return nil
	}

	return &summaryCache{
		entries:    make(map[string]*list.Element, maxEntries),
		order:      list.New(),
		maxEntries: maxEntries,
	}
}

func summaryCacheKey(serializedRecord []byte) string {
	if len(serializedRecord) == 0 {
		return ""
	}

	hash := sha256.Sum256(serializedRecord)

	return hex.EncodeToString(hash[:])
}

func (c *summaryCache) get(key string) ([]string, bool) {
	if c == nil || key == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry, ok := elem.Value.(*summaryCacheEntry)
	if !ok {
		return nil, false
	}

	c.order.MoveToFront(elem)

	return slices.Clone(entry.bullets), true
}

func (c *summaryCache) set(key string, bullets []string) {
	if c == nil || key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		if entry, entryOK := elem.Value.(*summaryCacheEntry); entryOK {
			entry.bullets = slices.Clone(bullets)
		}
		c.order.MoveToFront(elem)

		return
	}

	elem := c.order.PushFront(&summaryCacheEntry{
		key:     key,
		bullets: slices.Clone(bullets),
	})
	c.entries[key] = elem

	for c.order.Len() > c.maxEntries {
		c.removeElement(c.order.Back())
	}
}

func (c *summaryCache) removeElement(elem *list.Element) {
	if elem == nil {
		return
	}

	if entry, ok := elem.Value.(*summaryCacheEntry); ok {
		delete(c.entries, entry.key)
	}

	c.order.Remove(elem)
}
