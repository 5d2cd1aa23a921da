package embedding

import "sync"

// cacheNode is one entry in the intrusive LRU list.
type cacheNode struct {
	key        string
	value      []float32
	prev, next *cacheNode
}

// EmbeddingCache is an LRU cache for embeddings keyed by text. Safe for
// concurrent use.
type EmbeddingCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*cacheNode
	head     *cacheNode // most recently used
	tail     *cacheNode // least recently used
}

// NewEmbeddingCache creates a cache holding at most capacity embeddings.
func NewEmbeddingCache(capacity int) *EmbeddingCache {
	if capacity <= 0 {
		capacity = 1024
	}
	return &EmbeddingCache{
		capacity: capacity,
		entries:  make(map[string]*cacheNode, capacity),
	}
}

// Get returns the cached embedding for key if present, marking it most
// recently used.
func (c *EmbeddingCache) Get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	node, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(node)
	return node.value, true
}

// Set stores the embedding for key, evicting the least recently used entry
// when the cache is full.
func (c *EmbeddingCache) Set(key string, value []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.entries[key]; ok {
		node.value = value
		c.moveToFront(node)
		return
	}

	node := &cacheNode{key: key, value: value}
	c.entries[key] = node
	c.pushFront(node)

	if len(c.entries) > c.capacity && c.tail != nil {
		evicted := c.tail
		c.unlink(evicted)
		delete(c.entries, evicted.key)
	}
}

// Len returns the number of cached embeddings.
func (c *EmbeddingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *EmbeddingCache) moveToFront(node *cacheNode) {
	if c.head == node {
		return
	}
	c.unlink(node)
	c.pushFront(node)
}

func (c *EmbeddingCache) pushFront(node *cacheNode) {
	node.prev = nil
	node.next = c.head
	if c.head != nil {
		c.head.prev = node
	}
	c.head = node
	if c.tail == nil {
		c.tail = node
	}
}

func (c *EmbeddingCache) unlink(node *cacheNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		c.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		c.tail = node.prev
	}
	node.prev, node.next = nil, nil
}
