// Package prefixtree wraps the radix tree, adds type safety and atomicity.
package prefixtree

import (
	"sync"

	"github.com/armon/go-radix"
)

// Tree is a typed radix tree guarded by a RW mutex.
type Tree[T any] struct {
	lock *sync.RWMutex
	tree *radix.Tree
}

func New[T any]() *Tree[T] {
	return &Tree[T]{lock: &sync.RWMutex{}, tree: radix.New()}
}

func (t *Tree[T]) Insert(key string, value T) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.tree.Insert(key, value)
}

func (t *Tree[T]) Delete(key string) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	_, ok := t.tree.Delete(key)
	return ok
}

func (t *Tree[T]) Get(key string) (T, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	value, found := t.tree.Get(key)
	if !found {
		var empty T
		return empty, false
	}
	return value.(T), true
}

// LongestPrefix finds the inserted key that is the longest prefix of the search key.
func (t *Tree[T]) LongestPrefix(key string) (string, T, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	prefix, value, found := t.tree.LongestPrefix(key)
	if !found {
		var empty T
		return "", empty, false
	}
	return prefix, value.(T), true
}

// AllFromPrefix returns values of all keys with the prefix, ordered by the key.
func (t *Tree[T]) AllFromPrefix(prefix string) []T {
	t.lock.RLock()
	defer t.lock.RUnlock()
	var out []T
	t.tree.WalkPrefix(prefix, func(_ string, value any) bool {
		out = append(out, value.(T))
		return false
	})
	return out
}

func (t *Tree[T]) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.tree.Len()
}
