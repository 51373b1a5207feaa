// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	addCommand = ":add"
	allCommand = ":all"
)

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler processes user input line by line. A line is either a
// command (":add <text>", ":all") or a prefix to complete. Prefix length
// limits, the suggestion limit and filtering are set at construction.
type InputHandler struct {
	completer       suggest.Autocompleter
	in              io.Reader
	log             *log.Logger
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.Autocompleter, in io.Reader, logger *log.Logger, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		completer:       completer,
		in:              in,
		log:             logger,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
	}
}

// Start begins the interface loop.
// It prompts for input, reads a line and passes the trimmed line to
// handleInput. The loop ends cleanly at EOF and with an error on any other
// read failure.
func (h *InputHandler) Start() error {
	h.log.Print("WordTrie CLI [BETA]")
	h.log.Print("type a prefix and press Enter, ':add <text>' to grow history, ':all' to list it (Ctrl+C to exit):")

	reader := bufio.NewReader(h.in)
	for {
		h.log.Print("> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// handleInput routes a line to a command or to completion
func (h *InputHandler) handleInput(line string) {
	switch {
	case line == allCommand:
		h.printElements()
	case line == addCommand || strings.HasPrefix(line, addCommand+" "):
		text := strings.TrimSpace(strings.TrimPrefix(line, addCommand))
		n := suggest.Feed(h.completer, text)
		h.log.Printf("Added %d words to history", n)
	default:
		h.complete(line)
	}
}

// complete validates the prefix's length and content, asks the completer
// for suggestions and prints them.
func (h *InputHandler) complete(prefix string) {
	n := utf8.RuneCountInString(prefix)
	if n < h.minPrefixLength {
		h.log.Errorf("Prefix too short: %s", prefix)
		return
	}
	if n > h.maxPrefixLength {
		h.log.Errorf("Prefix too long: %s", prefix)
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidInput(prefix) {
			h.log.Warnf("No suggestions found for prefix: '%s' (filtered out)", prefix)
			return
		}
	} else {
		h.log.Debug("Input filtering disabled")
	}

	start := time.Now()
	suggestions := h.completer.AutoComplete(prefix)
	h.log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(suggestions) == 0 {
		h.log.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	total := len(suggestions)
	if h.suggestLimit > 0 && total > h.suggestLimit {
		suggestions = suggestions[:h.suggestLimit]
	}

	h.log.Printf("Found %s suggestions for prefix '%s':", utils.FormatWithCommas(total), prefix)
	for i, s := range suggestions {
		h.log.Printf("%2d. %s", i+1, wordStyle.Render(s))
	}
}

func (h *InputHandler) printElements() {
	words := h.completer.Elements()
	h.log.Printf("History holds %s words:", utils.FormatWithCommas(len(words)))
	for i, w := range words {
		h.log.Printf("%2d. %s", i+1, wordStyle.Render(w))
	}
}
