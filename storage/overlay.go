package storage

import (
	"errors"
	"sort"
	"sync"
)

var errOverlayClosed = errors.New("storage: overlay already committed or discarded")

// Overlay buffers writes on top of a parent database. Reads observe the
// buffered writes first. Nothing reaches the parent until Commit, which
// flushes every pending write through a single parent batch.
type Overlay struct {
	mu      sync.RWMutex
	parent  Database
	pending map[string][]byte
	deleted map[string]struct{}
	closed  bool
}

// NewOverlay creates an empty overlay on top of parent.
func NewOverlay(parent Database) *Overlay {
	return &Overlay{
		parent:  parent,
		pending: make(map[string][]byte),
		deleted: make(map[string]struct{}),
	}
}

// Put buffers value under key. The parent is untouched until Commit.
func (o *Overlay) Put(key []byte, value []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return errOverlayClosed
	}
	k := string(key)
	delete(o.deleted, k)
	o.pending[k] = append([]byte(nil), value...)
	return nil
}

// Get reads through the buffer to the parent. Keys deleted in the overlay
// report ErrNotFound.
func (o *Overlay) Get(key []byte) ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	k := string(key)
	if _, ok := o.deleted[k]; ok {
		return nil, ErrNotFound
	}
	if value, ok := o.pending[k]; ok {
		return append([]byte(nil), value...), nil
	}
	return o.parent.Get(key)
}

// Has reports whether key is visible through the overlay.
func (o *Overlay) Has(key []byte) (bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	k := string(key)
	if _, ok := o.deleted[k]; ok {
		return false, nil
	}
	if _, ok := o.pending[k]; ok {
		return true, nil
	}
	return o.parent.Has(key)
}

// Delete masks key until Commit removes it from the parent.
func (o *Overlay) Delete(key []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return errOverlayClosed
	}
	k := string(key)
	delete(o.pending, k)
	o.deleted[k] = struct{}{}
	return nil
}

// NewBatch returns a batch that writes into the overlay, not the parent.
func (o *Overlay) NewBatch() Batch { return &overlayBatch{overlay: o} }

// Close discards pending writes without touching the parent.
func (o *Overlay) Close() { o.Discard() }

// Dirty reports the number of buffered writes and deletes.
func (o *Overlay) Dirty() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.pending) + len(o.deleted)
}

// Commit flushes the buffered writes to the parent atomically. The overlay
// cannot be used afterwards.
func (o *Overlay) Commit() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return errOverlayClosed
	}
	batch := o.parent.NewBatch()
	// Sorted for deterministic batch contents.
	keys := make([]string, 0, len(o.pending))
	for k := range o.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		batch.Put([]byte(k), o.pending[k])
	}
	deletes := make([]string, 0, len(o.deleted))
	for k := range o.deleted {
		deletes = append(deletes, k)
	}
	sort.Strings(deletes)
	for _, k := range deletes {
		batch.Delete([]byte(k))
	}
	if err := batch.Write(); err != nil {
		return err
	}
	o.reset()
	return nil
}

// Discard drops every buffered write.
func (o *Overlay) Discard() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reset()
}

func (o *Overlay) reset() {
	o.pending = make(map[string][]byte)
	o.deleted = make(map[string]struct{})
	o.closed = true
}

type overlayBatch struct {
	overlay *Overlay
	ops     []memOp
}

func (b *overlayBatch) Put(key []byte, value []byte) {
	b.ops = append(b.ops, memOp{key: string(key), value: append([]byte(nil), value...)})
}

func (b *overlayBatch) Delete(key []byte) {
	b.ops = append(b.ops, memOp{key: string(key), delete: true})
}

func (b *overlayBatch) Len() int { return len(b.ops) }

func (b *overlayBatch) Write() error {
	for _, op := range b.ops {
		var err error
		if op.delete {
			err = b.overlay.Delete([]byte(op.key))
		} else {
			err = b.overlay.Put([]byte(op.key), op.value)
		}
		if err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}
