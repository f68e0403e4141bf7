package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// Render writes every diagnostic in d to w as
// "path:line,col: error: message" followed by the offending source line
// and a caret/tilde underline aligned to the reported byte range.
//
// Coloring is applied only when w is a terminal: isatty on the
// underlying file descriptor, when w is an *os.File.
func Render(w io.Writer, path, source string, reports []Diagnostic) {
	color := isTerminal(w)
	lineStarts := computeLineStarts(source)

	for _, d := range reports {
		line, col := lineColAt(lineStarts, d.Start)
		renderOne(w, path, source, lineStarts, d, line, col, color)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func renderOne(w io.Writer, path, source string, lineStarts []int, d Diagnostic, line, col int, color bool) {
	if color {
		fmt.Fprintf(w, "%s:%d,%d: %s%serror%s: %s\n", path, line, col, ansiBold, ansiRed, ansiReset, d.Message)
	} else {
		fmt.Fprintf(w, "%s:%d,%d: error: %s\n", path, line, col, d.Message)
	}

	srcLine, lineStart := lineText(source, lineStarts, line)
	fmt.Fprintln(w, srcLine)

	underlineStart := d.Start - lineStart
	underlineEnd := d.End - lineStart
	if underlineEnd > len(srcLine) {
		underlineEnd = len(srcLine)
	}
	if underlineStart < 0 {
		underlineStart = 0
	}
	if underlineEnd <= underlineStart {
		underlineEnd = underlineStart + 1
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", underlineStart))
	sb.WriteString("^")
	for i := underlineStart + 1; i < underlineEnd; i++ {
		sb.WriteString("~")
	}
	if color {
		fmt.Fprintf(w, "%s%s%s\n", ansiRed, sb.String(), ansiReset)
	} else {
		fmt.Fprintln(w, sb.String())
	}
}

// computeLineStarts returns the byte offset of the start of each line in
// source (line 1 starts at offset 0).
func computeLineStarts(source string) []int {
	starts := []int{0}
	for i, c := range []byte(source) {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineColAt(lineStarts []int, offset int) (line, col int) {
	line = 1
	for i, start := range lineStarts {
		if start > offset {
			break
		}
		line = i + 1
	}
	col = offset - lineStarts[line-1] + 1
	return line, col
}

func lineText(source string, lineStarts []int, line int) (text string, start int) {
	start = lineStarts[line-1]
	end := len(source)
	if line < len(lineStarts) {
		end = lineStarts[line] - 1 // exclude the newline
	}
	if end > len(source) {
		end = len(source)
	}
	if end < start {
		end = start
	}
	return source[start:end], start
}
