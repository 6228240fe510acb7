package ignorefile

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// GlobMarker is the line written when the ignore file has no glob section yet.
const GlobMarker = "syntax: glob"

var (
	globMarkerRe = regexp.MustCompile(`^syntax:.*glob`)
	syntaxRe     = regexp.MustCompile(`^syntax:`)
)

// File is an ignore file split into lines. Lines are split on "\n", so a
// file using CRLF keeps the "\r" at the end of each line; lines added by
// Insert follow the same convention. trailingNewline records whether the
// last line was terminated.
type File struct {
	Lines []string

	trailingNewline bool
	crlf            bool
}

// Read parses the ignore file at path. A missing file yields an empty File.
func Read(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Parse(nil), nil
		}
		return nil, err
	}
	return Parse(content), nil
}

func Parse(content []byte) *File {
	f := &File{}
	if len(content) == 0 {
		return f
	}
	f.crlf = bytes.Contains(content, []byte("\r\n"))
	f.Lines = strings.Split(string(content), "\n")
	if last := len(f.Lines) - 1; f.Lines[last] == "" {
		f.Lines = f.Lines[:last]
		f.trailingNewline = true
	}
	return f
}

// Marker returns the index of the first glob marker line, or -1.
func (f *File) Marker() int {
	for i, line := range f.Lines {
		if globMarkerRe.MatchString(line) {
			return i
		}
	}
	return -1
}

// Contains reports whether entry is present verbatim as a line,
// ignoring surrounding whitespace.
func (f *File) Contains(entry string) bool {
	for _, line := range f.Lines {
		if strings.TrimSpace(line) == entry {
			return true
		}
	}
	return false
}

// Insert places entries directly below the first glob marker. Without a
// marker, a new glob section holding the entries is appended.
func (f *File) Insert(entries ...string) {
	entries = f.terminated(entries)
	i := f.Marker()
	if i < 0 {
		f.terminateLast()
		lines := make([]string, 0, len(f.Lines)+1+len(entries))
		lines = append(lines, f.Lines...)
		lines = append(lines, f.terminated([]string{GlobMarker})...)
		f.Lines = append(lines, entries...)
		f.trailingNewline = true
		return
	}
	if len(entries) == 0 {
		return
	}
	if i == len(f.Lines)-1 {
		f.terminateLast()
	}

	lines := make([]string, 0, len(f.Lines)+len(entries))
	lines = append(lines, f.Lines[:i+1]...)
	lines = append(lines, entries...)
	lines = append(lines, f.Lines[i+1:]...)
	if i == len(f.Lines)-1 {
		f.trailingNewline = true
	}
	f.Lines = lines
}

// terminated returns lines with "\r" appended when the file uses CRLF.
func (f *File) terminated(lines []string) []string {
	if !f.crlf {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line + "\r"
	}
	return out
}

// terminateLast adds the missing "\r" to an unterminated last line of a
// CRLF file before more lines are placed after it.
func (f *File) terminateLast() {
	last := len(f.Lines) - 1
	if f.crlf && !f.trailingNewline && last >= 0 && !strings.HasSuffix(f.Lines[last], "\r") {
		f.Lines[last] += "\r"
	}
}

// GlobPatterns returns the patterns of every glob section, plus lines
// carrying an explicit "glob:" prefix elsewhere. Blank lines and comments
// are skipped.
func (f *File) GlobPatterns() []string {
	var (
		patterns []string
		inGlob   = false
	)
	for _, line := range f.Lines {
		line = strings.TrimSpace(line)
		switch {
		case syntaxRe.MatchString(line):
			inGlob = globMarkerRe.MatchString(line)
			continue
		case line == "", strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "glob:"):
			patterns = append(patterns, strings.TrimPrefix(line, "glob:"))
		case inGlob:
			patterns = append(patterns, line)
		}
	}
	return patterns
}

func (f *File) Bytes() []byte {
	if len(f.Lines) == 0 {
		return nil
	}
	buf := bytes.Buffer{}
	for i, line := range f.Lines {
		buf.WriteString(line)
		if i != len(f.Lines)-1 || f.trailingNewline {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}
