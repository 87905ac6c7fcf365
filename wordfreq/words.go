package wordfreq

import (
	"bufio"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/ostree/btree"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax29"
	"golang.org/x/text/cases"
)

// WordCount is a word together with its number of occurrences and its
// position in lexical order.
type WordCount struct {
	Word  string
	Count int
	Rank  int
}

// Counter accumulates word counts over any number of texts.
// A Counter is not safe for concurrent use.
type Counter struct {
	tree  *btree.Tree[string, int]
	fold  cases.Caser
	total int
}

// New creates a counter. cfg configures the underlying tree; its Less
// function may be left nil to get lexical byte order.
func New(cfg btree.Config[string]) (*Counter, error) {
	if cfg.Less == nil {
		cfg.Less = func(a, b string) bool { return a < b }
	}
	tree, err := btree.New[string, int](cfg)
	if err != nil {
		return nil, err
	}
	return &Counter{tree: tree, fold: cases.Fold()}, nil
}

// Tree exposes the word → count tree. Clients must not modify it.
func (c *Counter) Tree() *btree.Tree[string, int] {
	return c.tree
}

// Vocabulary returns the number of distinct words.
func (c *Counter) Vocabulary() int {
	return c.tree.Len()
}

// Total returns the number of words counted.
func (c *Counter) Total() int {
	return c.total
}

// Count returns the number of occurrences of word (after case folding).
func (c *Counter) Count(word string) int {
	n, _ := c.tree.Get(c.fold.String(word))
	return n
}

// Rank returns the position of word (after case folding) in lexical order.
func (c *Counter) Rank(word string) int {
	return c.tree.Rank(c.fold.String(word))
}

// Add counts one occurrence of word, which is case-folded first.
func (c *Counter) Add(word string) {
	word = c.fold.String(word)
	if cur, ok := c.tree.Find(word); ok {
		cur.SetValue(cur.Value() + 1)
	} else {
		c.tree.Insert(word, 1)
	}
	c.total++
}

// CountText segments the text read from r into words and counts them.
// Segments without letters or digits (spaces, punctuation) are skipped.
// It returns the number of words found.
func (c *Counter) CountText(r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	// the segmenter swallows read errors, so we capture them on the way
	er := &errReader{r: br}
	segmenter := segment.NewSegmenter(uax29.NewWordBreaker(1))
	segmenter.Init(er)
	n := 0
	for segmenter.Next() {
		frag := segmenter.Bytes()
		if !isWord(frag) {
			continue
		}
		c.Add(string(frag))
		n++
	}
	if er.err != nil && er.err != io.EOF {
		tracer().Errorf("wordfreq: reading text failed: %v", er.err)
		return n, er.err
	}
	tracer().Debugf("wordfreq: counted %d words, vocabulary is %d", n, c.Vocabulary())
	return n, nil
}

// CountHTML extracts the text of an HTML document and counts its words.
func (c *Counter) CountHTML(r io.Reader) (int, error) {
	text, err := TextFromHTML(r)
	if err != nil {
		return 0, err
	}
	return c.CountText(strings.NewReader(text))
}

// Top returns the k most frequent words, most frequent first. Words with
// equal counts are ordered lexically.
func (c *Counter) Top(k int) []WordCount {
	all := make([]WordCount, 0, c.tree.Len())
	rank := 0
	c.tree.Walk(func(w string, n int) bool {
		all = append(all, WordCount{Word: w, Count: n, Rank: rank})
		rank++
		return true
	})
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Count > all[j].Count
	})
	if k >= 0 && k < len(all) {
		all = all[:k]
	}
	return all
}

func isWord(frag []byte) bool {
	for len(frag) > 0 {
		r, width := utf8.DecodeRune(frag)
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
		frag = frag[width:]
	}
	return false
}

type errReader struct {
	r   io.RuneReader
	err error
}

func (er *errReader) ReadRune() (rune, int, error) {
	r, size, err := er.r.ReadRune()
	if err != nil && er.err == nil {
		er.err = err
	}
	return r, size, err
}
