package suggest

import (
	"slices"
	"sync"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// present is stored as the item of every key; patricia skips nil items
// while visiting.
var present = struct{}{}

// PatriciaCompleter completes words from a mutable patricia trie.
// Unlike TrieCompleter it keeps no history versions.
type PatriciaCompleter struct {
	mu    sync.RWMutex
	trie  *patricia.Trie
	total int
}

// NewPatriciaCompleter returns a completer with an empty history
func NewPatriciaCompleter() *PatriciaCompleter {
	return &PatriciaCompleter{trie: patricia.NewTrie()}
}

// AddToHistory folds text and inserts it, ignoring empty text
func (p *PatriciaCompleter) AddToHistory(text string) {
	if text == "" {
		return
	}
	key := patricia.Prefix(utils.Fold(text))

	p.mu.Lock()
	if p.trie.Insert(key, present) {
		p.total++
	}
	p.mu.Unlock()
}

// AutoComplete visits the subtree under the folded prefix
func (p *PatriciaCompleter) AutoComplete(typed string) []string {
	folded := utils.Fold(typed)
	words := make([]string, 0, 8)

	collect := func(key patricia.Prefix, _ patricia.Item) error {
		words = append(words, typed+string(key[len(folded):]))
		return nil
	}

	p.mu.RLock()
	var err error
	if folded == "" {
		// VisitSubtree panics on a nil prefix
		err = p.trie.Visit(collect)
	} else {
		err = p.trie.VisitSubtree(patricia.Prefix(folded), collect)
	}
	p.mu.RUnlock()
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return []string{}
	}

	slices.Sort(words)
	return words
}

// Elements visits the whole trie
func (p *PatriciaCompleter) Elements() []string {
	p.mu.RLock()
	words := make([]string, 0, p.total)
	err := p.trie.Visit(func(key patricia.Prefix, _ patricia.Item) error {
		words = append(words, string(key))
		return nil
	})
	p.mu.RUnlock()
	if err != nil {
		log.Errorf("Error visiting trie: %v", err)
		return []string{}
	}

	slices.Sort(words)
	return words
}

// Stats returns statistics about the stored history
func (p *PatriciaCompleter) Stats() map[string]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return map[string]int{
		"totalWords": p.total,
	}
}
