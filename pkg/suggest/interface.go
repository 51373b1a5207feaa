// Package suggest provides word completion over a history of typed words.
//
// Every engine satisfies Autocompleter. TrieCompleter is the default and is
// backed by the persistent trie in pkg/trie; ArrayCompleter and
// PatriciaCompleter implement the same contract with a linear scan and a
// mutable patricia trie, which makes them useful for cross-checking.
package suggest

import (
	"errors"
	"fmt"
)

// Autocompleter defines the interface for history-backed completion engines
type Autocompleter interface {
	// AutoComplete returns every stored word starting with typed, sorted.
	// The typed text is kept as written and followed by the stored suffix.
	AutoComplete(typed string) []string

	// AddToHistory stores text case-folded. Empty text is ignored.
	AddToHistory(text string)

	// Elements returns every stored word, sorted.
	Elements() []string
}

// Backend names accepted by New.
const (
	BackendTrie     = "trie"
	BackendArray    = "array"
	BackendPatricia = "patricia"
)

// ErrUnknownBackend is returned by New for names it does not recognize.
var ErrUnknownBackend = errors.New("unknown completion backend")

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendTrie, BackendArray, BackendPatricia}
}

// New builds an empty completer for the named backend. An empty name
// selects the trie.
func New(backend string) (Autocompleter, error) {
	switch backend {
	case "", BackendTrie:
		return NewTrieCompleter(), nil
	case BackendArray:
		return NewArrayCompleter(), nil
	case BackendPatricia:
		return NewPatriciaCompleter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
