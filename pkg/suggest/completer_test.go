package suggest

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gibson = "'We have no future because our present is too volatile. We have only risk management. " +
	"The spinning of the given moment's scenarios. Pattern recognition.'― William Gibson, Pattern Recognition"

// eachBackend runs fn against a fresh completer of every backend so they
// are all held to the same expectations.
func eachBackend(t *testing.T, fn func(t *testing.T, ac Autocompleter)) {
	t.Helper()
	for _, name := range Backends() {
		t.Run(name, func(t *testing.T) {
			ac, err := New(name)
			require.NoError(t, err)
			fn(t, ac)
		})
	}
}

func add(ac Autocompleter, words ...string) {
	for _, w := range words {
		ac.AddToHistory(w)
	}
}

func TestNewBackend(t *testing.T) {
	ac, err := New("")
	require.NoError(t, err)
	assert.IsType(t, &TrieCompleter{}, ac)

	_, err = New("btree")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestAutoCompleteSorted(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		add(ac, "apple", "app", "apt")
		assert.Equal(t, []string{"app", "apple", "apt"}, ac.AutoComplete("ap"))
		assert.Equal(t, []string{"apple"}, ac.AutoComplete("appl"))
		assert.Equal(t, []string{"app", "apple"}, ac.AutoComplete("app"))
	})
}

func TestAutoCompleteNoMatch(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		for c := 'a'; c < 'z'; c++ {
			ac.AddToHistory(string(c) + "word")
		}
		got := ac.AutoComplete("z")
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Empty(t, ac.AutoComplete("awordy"))
	})
}

func TestAutoCompleteEmptyHistory(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		assert.Empty(t, ac.AutoComplete("a"))
		assert.Empty(t, ac.AutoComplete(""))
		assert.Empty(t, ac.Elements())
	})
}

func TestAutoCompleteEmptyPrefixListsAll(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		add(ac, "beta", "alpha")
		assert.Equal(t, []string{"alpha", "beta"}, ac.AutoComplete(""))
	})
}

func TestAddEmptyIsIgnored(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		add(ac, "one")
		before := ac.Elements()
		ac.AddToHistory("")
		assert.Equal(t, before, ac.Elements())
		assert.Empty(t, ac.AutoComplete("x"))
	})
}

func TestWhitespaceIsStored(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		ac.AddToHistory(" ")
		assert.Equal(t, []string{" "}, ac.Elements())
	})
}

func TestCaseFoldingCollapsesDuplicates(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		add(ac, "Pattern", "pattern", "PATTERN")
		assert.Equal(t, []string{"pattern"}, ac.Elements())
	})
}

// The query is folded too; the caller's spelling of the prefix is kept.
func TestQueryIsFolded(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		add(ac, "Pattern", "patience", "present")
		assert.Equal(t, []string{"Patience", "Pattern"}, ac.AutoComplete("Pat"))
		assert.Equal(t, []string{"PAtience", "PAttern"}, ac.AutoComplete("PA"))
		assert.Equal(t, []string{"patience", "pattern"}, ac.AutoComplete("pat"))
	})
}

func TestInvalidUTF8IsReplaced(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		add(ac, "ab\xffc", "AB\uFFFDC", "x\xff\xfey")
		assert.Equal(t, []string{"ab\uFFFDc", "x\uFFFDy"}, ac.Elements())
		assert.Equal(t, []string{"ab\xffc"}, ac.AutoComplete("ab\xff"))
		assert.Equal(t, []string{"x\uFFFDy"}, ac.AutoComplete("x\uFFFD"))
	})
}

func TestElementsCompleteAndUnique(t *testing.T) {
	input := []string{"Zebra", "apple", "Mango", "apricot", "über", "Äpfel"}
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		add(ac, input...)
		add(ac, input...)
		assert.Equal(t, []string{"apple", "apricot", "mango", "zebra", "äpfel", "über"}, ac.Elements())
	})
}

func TestCompletionsAreStored(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		Feed(ac, gibson)
		elements := ac.Elements()
		for _, prefix := range []string{"p", "pa", "re", "w", "t", "s"} {
			for _, word := range ac.AutoComplete(prefix) {
				assert.True(t, strings.HasPrefix(word, prefix))
				assert.Contains(t, elements, word)
			}
		}
	})
}

func TestFeedGibsonQuote(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		n := Feed(ac, gibson)
		assert.Equal(t, 29, n)

		assert.Equal(t, []string{"the", "too"}, ac.AutoComplete("t"))
		assert.Equal(t, []string{"we", "william"}, ac.AutoComplete("w"))
		assert.Equal(t, []string{"pattern", "present"}, ac.AutoComplete("p"))
		assert.Equal(t, []string{"pattern"}, ac.AutoComplete("pa"))
		assert.Len(t, ac.Elements(), 24)
	})
}

func TestFeedReader(t *testing.T) {
	ac := NewTrieCompleter()
	n, err := FeedReader(ac, strings.NewReader("alpha beta\ngamma, alpha\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, ac.Elements())

	boom := errors.New("boom")
	_, err = FeedReader(ac, iotest.ErrReader(boom))
	assert.ErrorIs(t, err, boom)
}

func TestSnapshotIsolation(t *testing.T) {
	c := NewTrieCompleter()
	add(c, "apple", "banana")

	archived := c.Snapshot()
	c.AddToHistory("apt")

	assert.False(t, archived.Lookup([]rune("apt")))
	assert.True(t, c.Snapshot().Lookup([]rune("apt")))
	assert.Equal(t, []string{"apple", "banana"}, NewTrieCompleterFrom(archived).Elements())

	c.Restore(archived)
	assert.Equal(t, []string{"apple", "banana"}, c.Elements())
}

func TestCloneDiverges(t *testing.T) {
	original := NewTrieCompleter()
	add(original, "app")

	copied := original.Clone()
	original.AddToHistory("apple")
	copied.AddToHistory("apt")

	assert.Equal(t, []string{"app", "apple"}, original.AutoComplete("ap"))
	assert.Equal(t, []string{"app", "apt"}, copied.AutoComplete("ap"))
}

func TestStats(t *testing.T) {
	eachBackend(t, func(t *testing.T, ac Autocompleter) {
		add(ac, "a", "b", "A")
		s, ok := ac.(interface{ Stats() map[string]int })
		require.True(t, ok)
		assert.Equal(t, 2, s.Stats()["totalWords"])
	})
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	c := NewTrieCompleter()
	Feed(c, gibson)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			c.AddToHistory("word" + string(rune('a'+i%26)))
		}
	}()
	for i := 0; i < 200; i++ {
		for _, w := range c.AutoComplete("p") {
			assert.True(t, strings.HasPrefix(w, "p"))
		}
	}
	<-done
	assert.Len(t, c.AutoComplete("word"), 26)
}
