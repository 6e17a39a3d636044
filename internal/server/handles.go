package server

import (
	"log"
	"sync"

	"github.com/ironsheep/keypoint-tools-mcp/internal/surf"
)

// handleKey identifies the frame geometry a detector handle was built for.
type handleKey struct {
	width   int
	height  int
	format  surf.PixelFormat
	octaves int
}

// pooledHandle is a cached detector. mu serialises extractions, since a
// surf.Handle holds the points of its last frame.
type pooledHandle struct {
	mu     sync.Mutex
	handle *surf.Handle

	// Guarded by handlePool.mu.
	refs     int
	lastUsed uint64
}

// handlePool caches one detector per frame geometry so repeated calls on
// same-sized images reuse their buffers.
type handlePool struct {
	mu      sync.Mutex
	limit   int
	clock   uint64
	entries map[handleKey]*pooledHandle
}

func newHandlePool(limit int) *handlePool {
	return &handlePool{
		limit:   limit,
		entries: make(map[handleKey]*pooledHandle),
	}
}

// acquire returns the handle for key, creating it if needed, locked for the
// caller. Every acquire must be paired with release.
func (p *handlePool) acquire(key handleKey) (*pooledHandle, error) {
	p.mu.Lock()
	e, ok := p.entries[key]
	if !ok {
		h, err := surf.Create(key.width, key.height, key.format, surf.WithOctaves(key.octaves))
		if err != nil {
			p.mu.Unlock()
			return nil, err
		}
		p.evictLocked()
		e = &pooledHandle{handle: h}
		p.entries[key] = e
	}
	p.clock++
	e.lastUsed = p.clock
	e.refs++
	p.mu.Unlock()

	e.mu.Lock()
	return e, nil
}

func (p *handlePool) release(e *pooledHandle) {
	e.mu.Unlock()
	p.mu.Lock()
	e.refs--
	p.mu.Unlock()
}

// evictLocked destroys least recently used idle handles until there is room
// for one more. Handles in use are never evicted, so the pool may briefly
// exceed its bound.
func (p *handlePool) evictLocked() {
	if p.limit <= 0 {
		return
	}
	for len(p.entries) >= p.limit {
		var (
			victimKey handleKey
			victim    *pooledHandle
		)
		for k, e := range p.entries {
			if e.refs > 0 {
				continue
			}
			if victim == nil || e.lastUsed < victim.lastUsed {
				victimKey, victim = k, e
			}
		}
		if victim == nil {
			return
		}
		log.Printf("Evicting detector handle %dx%d %v", victimKey.width, victimKey.height, victimKey.format)
		victim.handle.Destroy()
		delete(p.entries, victimKey)
	}
}

func (p *handlePool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

func (p *handlePool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, e := range p.entries {
		e.mu.Lock()
		e.handle.Destroy()
		e.mu.Unlock()
		delete(p.entries, k)
	}
}
