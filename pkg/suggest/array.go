package suggest

import (
	"slices"
	"sync"

	"github.com/bastiangx/wordtrie/internal/utils"
)

// ArrayCompleter keeps history in insertion order and scans it on every
// query. Simple, but every operation is linear in the history size.
type ArrayCompleter struct {
	mu      sync.RWMutex
	history []string
}

// NewArrayCompleter returns a completer with an empty history
func NewArrayCompleter() *ArrayCompleter {
	return &ArrayCompleter{}
}

// AddToHistory appends the folded text unless it is empty or already stored
func (a *ArrayCompleter) AddToHistory(text string) {
	if text == "" {
		return
	}
	word := utils.Fold(text)

	a.mu.Lock()
	defer a.mu.Unlock()
	if slices.Contains(a.history, word) {
		return
	}
	a.history = append(a.history, word)
}

// AutoComplete returns sorted history entries sharing the folded prefix
func (a *ArrayCompleter) AutoComplete(typed string) []string {
	folded := utils.Fold(typed)

	a.mu.RLock()
	words := make([]string, 0, 8)
	for _, word := range a.history {
		if utils.HasPrefixFold(word, folded) {
			words = append(words, typed+word[len(folded):])
		}
	}
	a.mu.RUnlock()

	slices.Sort(words)
	return words
}

// Elements returns a sorted copy of the history
func (a *ArrayCompleter) Elements() []string {
	a.mu.RLock()
	words := slices.Clone(a.history)
	a.mu.RUnlock()

	if words == nil {
		words = []string{}
	}
	slices.Sort(words)
	return words
}

// Stats returns statistics about the stored history
func (a *ArrayCompleter) Stats() map[string]int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return map[string]int{
		"totalWords": len(a.history),
	}
}
