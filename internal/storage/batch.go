package storage

import (
	"encoding/json"
	"fmt"
)

// Op is a single write inside a Batch. Delete ops ignore Value.
type Op struct {
	Key    string
	Value  string
	Delete bool
}

// Batch collects puts and deletes that a Provider applies atomically, in order.
type Batch struct {
	ops []Op
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{}
}

// Put stores value under key.
func (b *Batch) Put(key, value string) {
	b.ops = append(b.ops, Op{Key: key, Value: value})
}

// PutJSON encodes v and stores it under key.
func (b *Batch) PutJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	b.Put(key, string(data))
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (b *Batch) Delete(key string) {
	b.ops = append(b.ops, Op{Key: key, Delete: true})
}

// Ops returns the queued writes in order.
func (b *Batch) Ops() []Op {
	out := make([]Op, len(b.ops))
	copy(out, b.ops)
	return out
}

// Len returns the number of queued writes.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.ops)
}

// ApplyTo replays the batch onto a plain map. Backends that keep their
// documents in memory use it on a copy before swapping it in.
func (b *Batch) ApplyTo(m map[string]string) {
	if b == nil {
		return
	}
	for _, op := range b.ops {
		if op.Delete {
			delete(m, op.Key)
			continue
		}
		m[op.Key] = op.Value
	}
}

// GetJSON reads key from r and decodes it into v. It reports false when the
// key is absent.
func GetJSON(r Reader, key string, v any) (bool, error) {
	raw, ok, err := r.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}
