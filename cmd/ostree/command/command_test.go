package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns its standard output.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--no-color"))
	err := root.Execute()
	return out.String(), err
}

func TestDemo(t *testing.T) {
	out, err := run(t, "", "demo")
	require.NoError(t, err)
	require.Contains(t, out, "5,v5(d2l) 6,v6(d1n) 7,v7(d2l) 10,v10(d0n)")
	require.Contains(t, out, "rank(12) = 4")
	require.Contains(t, out, "len=7 height=2")
	require.Contains(t, out, "len=0 height=1")
	require.NotContains(t, out, "check failed")
	require.Contains(t, out, "split=4")
}

func TestDemoRejectsInvalidOrder(t *testing.T) {
	_, err := run(t, "", "demo", "--order", "2")
	require.Error(t, err)
}

func TestShell(t *testing.T) {
	script := `SET 10 ten
SET 5 five
SET 10 TEN
GET 10
GET 7
RANK 10
SELECT 0
SELECT 9
DEL 5
DEL 5
LEN
CHECK
bogus
EXIT
SET 1 never
`
	out, err := run(t, script, "shell", "--order", "3")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, []string{
		"inserted",
		"inserted",
		"replaced",
		"TEN",
		"Key not found.",
		"1",
		"5 five",
		"btree: index out of bounds",
		"deleted",
		"Key not found.",
		"1",
		"ok",
		`Unknown command "bogus"`,
	}, lines)
}

func TestWords(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "text.txt")
	require.NoError(t, os.WriteFile(text, []byte("the tree and the forest, the end"), 0o644))
	out, err := run(t, "", "words", text, "--top", "1")
	require.NoError(t, err)
	require.Contains(t, out, "7 words, vocabulary of 5")
	require.Regexp(t, `3\s+3\s+the`, out)

	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte("<p>one <i>two</i></p><script>three</script>"), 0o644))
	out, err = run(t, "", "words", page, "--html")
	require.NoError(t, err)
	require.Contains(t, out, "2 words, vocabulary of 2")

	_, err = run(t, "", "words", filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}

func TestBench(t *testing.T) {
	out, err := run(t, "", "bench", "--workers", "3", "--keys", "5000", "--order", "5")
	require.NoError(t, err)
	require.Contains(t, out, "check ok")
	require.Regexp(t, `syncmap\.insert\s+5000`, out)
	require.Regexp(t, `syncmap\.len\s+2500`, out)
	require.Contains(t, out, "pool.tasks")
}

func TestDot(t *testing.T) {
	out, err := run(t, "", "dot", "--keys", "30")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "strict digraph {"))
	require.True(t, strings.HasSuffix(out, "}\n"))
}

func TestEventsAndTraceFlags(t *testing.T) {
	_, err := run(t, "", "dot", "--events", "--trace", "debug")
	require.NoError(t, err)
	_, err = run(t, "", "dot", "--trace", "chatty")
	require.Error(t, err)
}
