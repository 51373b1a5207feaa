package suggest

import (
	"slices"
	"sync"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

// TrieCompleter completes words from a persistent rune trie.
// The root is the only mutable state; each AddToHistory swaps in a new
// version, so a Snapshot taken earlier never changes.
type TrieCompleter struct {
	mu   sync.RWMutex
	root *trie.Trie[rune]
}

// NewTrieCompleter returns a completer with an empty history
func NewTrieCompleter() *TrieCompleter {
	return &TrieCompleter{root: trie.Empty[rune]()}
}

// NewTrieCompleterFrom starts a completer from an existing trie version,
// typically one returned by Snapshot.
func NewTrieCompleterFrom(root *trie.Trie[rune]) *TrieCompleter {
	if root == nil {
		root = trie.Empty[rune]()
	}
	return &TrieCompleter{root: root}
}

// AddToHistory folds text and inserts it. Only emptiness is checked;
// whitespace is stored like any other rune.
func (c *TrieCompleter) AddToHistory(text string) {
	if text == "" {
		return
	}
	key := []rune(utils.Fold(text))

	c.mu.Lock()
	c.root = c.root.Insert(key)
	c.mu.Unlock()
}

// AutoComplete finds every stored word whose folded form starts with the
// folded prefix and reassembles it behind typed as given.
func (c *TrieCompleter) AutoComplete(typed string) []string {
	sub, ok := c.Snapshot().SubtrieForPrefix([]rune(utils.Fold(typed)))
	if !ok {
		log.Debugf("No stored prefix for %q", typed)
		return []string{}
	}

	words := make([]string, 0, 8)
	for suffix := range sub.All() {
		words = append(words, typed+string(suffix))
	}
	slices.Sort(words)
	return words
}

// Elements gathers every stored word and sorts it
func (c *TrieCompleter) Elements() []string {
	root := c.Snapshot()
	words := make([]string, 0, root.Len())
	for seq := range root.All() {
		words = append(words, string(seq))
	}
	slices.Sort(words)
	return words
}

// Snapshot returns the current trie version. It stays valid and unchanged
// no matter what is added afterwards.
func (c *TrieCompleter) Snapshot() *trie.Trie[rune] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

// Restore replaces the current history with a previously taken snapshot.
func (c *TrieCompleter) Restore(root *trie.Trie[rune]) {
	if root == nil {
		root = trie.Empty[rune]()
	}
	c.mu.Lock()
	c.root = root
	c.mu.Unlock()
}

// Clone returns an independent completer starting from the same history.
// Nothing is copied; the two diverge as words are added to either one.
func (c *TrieCompleter) Clone() *TrieCompleter {
	return NewTrieCompleterFrom(c.Snapshot())
}

// Stats returns statistics about the stored history
func (c *TrieCompleter) Stats() map[string]int {
	return map[string]int{
		"totalWords": c.Snapshot().Len(),
	}
}
