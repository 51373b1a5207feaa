// Package trie provides a persistent prefix tree over any comparable symbol type.
//
// A Trie is never modified after it is built. Insert returns a new root which
// shares every untouched subtree with the receiver, so older roots keep
// answering queries exactly as they did before the insert. Nodes can be read
// from any number of goroutines without locking.
package trie

import (
	"iter"
	"maps"
	"slices"
)

// Trie is a single node. The path of symbols from the root to a node is the
// sequence it represents; terminal marks that sequence as stored.
// A nil *Trie is the empty trie.
type Trie[S comparable] struct {
	terminal bool
	children map[S]*Trie[S]
}

// Empty returns a non-terminal node without children.
func Empty[S comparable]() *Trie[S] {
	return &Trie[S]{}
}

// Singleton builds the chain of nodes that stores exactly seq.
func Singleton[S comparable](seq []S) *Trie[S] {
	if len(seq) == 0 {
		return &Trie[S]{terminal: true}
	}
	return &Trie[S]{
		children: map[S]*Trie[S]{seq[0]: Singleton(seq[1:])},
	}
}

// IsTerminal reports whether the sequence leading to t is stored.
func (t *Trie[S]) IsTerminal() bool {
	return t != nil && t.terminal
}

// Lookup reports whether key is stored. A strict prefix of a stored
// sequence is not a member unless it was inserted itself.
func (t *Trie[S]) Lookup(key []S) bool {
	node, ok := t.SubtrieForPrefix(key)
	return ok && node.terminal
}

// SubtrieForPrefix returns the node reached after consuming prefix.
// ok is false when no stored sequence starts with prefix.
func (t *Trie[S]) SubtrieForPrefix(prefix []S) (*Trie[S], bool) {
	node := t
	for _, sym := range prefix {
		if node == nil {
			return nil, false
		}
		child, exists := node.children[sym]
		if !exists {
			return nil, false
		}
		node = child
	}
	if node == nil {
		return nil, false
	}
	return node, true
}

// All yields every stored sequence below t, relative to t. The empty
// sequence comes first when t is terminal; the order of the rest follows
// map iteration and is not stable. Yielded slices must not be retained
// past the next iteration without copying.
func (t *Trie[S]) All() iter.Seq[[]S] {
	return func(yield func([]S) bool) {
		buf := make([]S, 0, 16)
		t.walk(buf, yield)
	}
}

func (t *Trie[S]) walk(path []S, yield func([]S) bool) bool {
	if t == nil {
		return true
	}
	if t.terminal && !yield(path) {
		return false
	}
	for sym, child := range t.children {
		if !child.walk(append(path, sym), yield) {
			return false
		}
	}
	return true
}

// AllSequences collects every stored sequence below t. No ordering is
// guaranteed and no sequence appears twice.
func (t *Trie[S]) AllSequences() [][]S {
	var out [][]S
	for seq := range t.All() {
		out = append(out, slices.Clone(seq))
	}
	return out
}

// Len returns the number of stored sequences below t.
func (t *Trie[S]) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	if t.terminal {
		n = 1
	}
	for _, child := range t.children {
		n += child.Len()
	}
	return n
}

// Insert returns a trie that stores key in addition to everything t stores.
// t itself is left untouched: only the nodes on the path to key are
// rebuilt, all other subtrees are shared between the two versions.
func (t *Trie[S]) Insert(key []S) *Trie[S] {
	if t == nil {
		return Singleton(key)
	}
	if len(key) == 0 {
		// children were never mutated, so the map can be shared as is
		return &Trie[S]{terminal: true, children: t.children}
	}

	head, tail := key[0], key[1:]
	next := make(map[S]*Trie[S], len(t.children)+1)
	maps.Copy(next, t.children)
	if child, ok := t.children[head]; ok {
		next[head] = child.Insert(tail)
	} else {
		next[head] = Singleton(tail)
	}
	return &Trie[S]{terminal: t.terminal, children: next}
}
