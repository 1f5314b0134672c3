package wavefront

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/objloader/pkg/encoding"
)

// maxLineSize bounds a single logical line, continuations included.
const maxLineSize = 16 * 1024 * 1024

// statement is one logical line split into its keyword and arguments.
type statement struct {
	line    int    // line number the statement starts on
	keyword string // first token
	args    []string
	rest    string // everything after the keyword, trimmed
}

// scanStatements reads r line by line, joining backslash continuations and
// dropping comments and blank lines, and calls fn for every statement.
func scanStatements(r io.Reader, fn func(st statement) error) error {
	scanner := bufio.NewScanner(encoding.NewTextReader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	var pending strings.Builder
	start := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimRight(scanner.Text(), "\r")
		if pending.Len() == 0 {
			start = lineNo
		}
		if strings.HasSuffix(text, "\\") {
			pending.WriteString(strings.TrimSuffix(text, "\\"))
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(text)
		logical := pending.String()
		pending.Reset()

		st, ok := splitStatement(logical)
		if !ok {
			continue
		}
		st.line = start
		if err := fn(st); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}
	if pending.Len() > 0 {
		if st, ok := splitStatement(pending.String()); ok {
			st.line = start
			return fn(st)
		}
	}
	return nil
}

func splitStatement(line string) (statement, bool) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return statement{}, false
	}
	fields := strings.Fields(line)
	keyword := fields[0]
	rest := strings.TrimSpace(line[len(keyword):])
	return statement{
		keyword: keyword,
		args:    fields[1:],
		rest:    rest,
	}, true
}

// parseFloats parses every argument as a float32.
func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}
