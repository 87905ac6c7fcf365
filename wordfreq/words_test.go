package wordfreq

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/ostree/btree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func newCounter(t *testing.T) *Counter {
	t.Helper()
	c, err := New(btree.Config[string]{Order: 4, Paranoid: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestCountText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ostree")
	defer teardown()

	c := newCounter(t)
	n, err := c.CountText(strings.NewReader("Hello  my\nname\tis Simon. Hello, Simon!"))
	if err != nil {
		t.Fatalf("CountText failed: %v", err)
	}
	if n != 7 || c.Total() != 7 {
		t.Fatalf("unexpected word count: got=%d want=7", n)
	}
	if c.Vocabulary() != 5 {
		t.Fatalf("unexpected vocabulary: got=%d want=5", c.Vocabulary())
	}
	if c.Count("hello") != 2 || c.Count("SIMON") != 2 || c.Count("name") != 1 {
		t.Fatalf("unexpected counts: hello=%d simon=%d", c.Count("hello"), c.Count("simon"))
	}
	// hello < is < my < name < simon
	if r := c.Rank("Name"); r != 3 {
		t.Fatalf("unexpected rank of 'name': got=%d want=3", r)
	}
	if err := c.Tree().Check(); err != nil {
		t.Fatalf("word tree invalid: %v", err)
	}
}

func TestTopOrdersByCount(t *testing.T) {
	c := newCounter(t)
	c.CountText(strings.NewReader("b a c b c c d"))
	top := c.Top(2)
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].Word != "c" || top[0].Count != 3 || top[0].Rank != 2 {
		t.Fatalf("unexpected top entry: %+v", top[0])
	}
	if top[1].Word != "b" || top[1].Count != 2 {
		t.Fatalf("unexpected second entry: %+v", top[1])
	}
	if all := c.Top(-1); len(all) != 4 || all[3].Word != "d" {
		t.Fatalf("unexpected full list: %+v", all)
	}
}

func TestCountHTMLSkipsMarkupAndScripts(t *testing.T) {
	c := newCounter(t)
	doc := `<html><head><title>Trees</title><script>var x = "hidden";</script></head>
<body><p>Order <b>statistics</b> trees</p><style>p { color: red }</style></body></html>`
	n, err := c.CountHTML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("CountHTML failed: %v", err)
	}
	if n != 4 {
		t.Fatalf("unexpected word count: got=%d want=4", n)
	}
	if c.Count("trees") != 2 || c.Count("hidden") != 0 || c.Count("color") != 0 {
		t.Fatalf("unexpected counts: trees=%d hidden=%d", c.Count("trees"), c.Count("hidden"))
	}
}

type failingReader struct{}

var errBroken = errors.New("broken pipe")

func (failingReader) Read([]byte) (int, error) { return 0, errBroken }

func TestCountTextReportsReadErrors(t *testing.T) {
	c := newCounter(t)
	if _, err := c.CountText(failingReader{}); !errors.Is(err, errBroken) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestNewRejectsInvalidOrder(t *testing.T) {
	if _, err := New(btree.Config[string]{Order: 1000}); !errors.Is(err, btree.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
