package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsInteractiveReader reports whether r is a terminal. Readers that are
// not files, such as redirected or in-memory input, never are.
func IsInteractiveReader(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && IsInteractive(f)
}

// PromptQuery is the line-based fallback when fzf is unavailable. It lists
// the remembered queries and reads one line; "#N" reuses entry N, anything
// else is taken literally. An empty line yields "".
func PromptQuery(in io.Reader, out io.Writer, queries []string) (string, error) {
	if len(queries) > 0 {
		fmt.Fprintln(out, "Recent searches:")
		for i, q := range queries {
			fmt.Fprintf(out, "  %d) %s\n", i+1, q)
		}
		fmt.Fprintf(out, "Search term (or #1-%d): ", len(queries))
	} else {
		fmt.Fprint(out, "Search term: ")
	}

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", ErrCancelled
		}
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")

	if idx, ok := historyIndex(line, len(queries)); ok {
		return queries[idx], nil
	}
	return line, nil
}

func historyIndex(line string, n int) (int, bool) {
	rest, ok := strings.CutPrefix(line, "#")
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(rest)
	if err != nil || idx < 1 || idx > n {
		return 0, false
	}
	return idx - 1, true
}
