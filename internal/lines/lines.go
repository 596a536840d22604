// Package lines reads and writes the flat, line-oriented files that connect
// the extractor and the gallery renderer.
package lines

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Filter decides whether a trimmed line is kept.
type Filter func(line string) bool

// Requests keeps non-blank lines that are not '#' comments.
func Requests(line string) bool {
	return line != "" && !strings.HasPrefix(line, "#")
}

// NonBlank keeps every non-blank line.
func NonBlank(line string) bool {
	return line != ""
}

// Read returns the trimmed lines of r accepted by keep, in order.
func Read(r io.Reader, keep Filter) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var out []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if keep(line) {
			out = append(out, line)
		}
	}
	return out, scanner.Err()
}

// ReadFile opens path and reads it with Read. A missing file surfaces as an
// error satisfying errors.Is(err, os.ErrNotExist).
func ReadFile(path string, keep Filter) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, keep)
}

// Write joins values with newlines, without a trailing newline.
func Write(w io.Writer, values []string) error {
	_, err := io.WriteString(w, strings.Join(values, "\n"))
	return err
}

// WriteFile replaces path with the newline-joined values.
func WriteFile(path string, values []string) error {
	return os.WriteFile(path, []byte(strings.Join(values, "\n")), 0o644)
}
