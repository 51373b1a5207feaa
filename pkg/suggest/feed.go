package suggest

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/charmbracelet/log"
)

// Feed splits text into words and adds each one to the history.
// It returns the number of words fed, duplicates included.
func Feed(ac Autocompleter, text string) int {
	words := utils.SplitWords(text)
	for _, word := range words {
		ac.AddToHistory(word)
	}
	return len(words)
}

// FeedReader feeds r line by line, e.g. a seed file given on startup.
func FeedReader(ac Autocompleter, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	total := 0
	for scanner.Scan() {
		total += Feed(ac, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return total, fmt.Errorf("reading history text: %w", err)
	}
	log.Debugf("Fed %d words into history", total)
	return total, nil
}
