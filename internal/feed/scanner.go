package feed

import (
	"bufio"
	"io"
	"strings"

	pkgerrors "github.com/harborlabs/medcatalog-backend/pkg/errors"
)

// maxLineBytes bounds a single feed line; supplier descriptions run long.
const maxLineBytes = 1 << 20

// Scanner is a pull-based reader over the tab-separated feed. The stream's
// own first line is a header and is always discarded regardless of content;
// field names come from the fixed column layout instead.
//
// The caller drives consumption one row at a time, which is what lets the
// pipeline suspend the stream while a chunk is being processed.
type Scanner struct {
	scanner       *bufio.Scanner
	current       Row
	headerSkipped bool
	err           error
}

// NewScanner wraps the reader; nothing is consumed until the first Scan.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &Scanner{scanner: sc}
}

// Scan advances to the next row, returning false at end of stream or on a
// read failure. Check Err after a false return.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if !s.headerSkipped {
		s.headerSkipped = true
		if !s.scanner.Scan() {
			s.err = s.readErr()
			return false
		}
	}
	for s.scanner.Scan() {
		line := s.scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.current = rowFromFields(strings.Split(line, "\t"))
		return true
	}
	s.err = s.readErr()
	return false
}

// Row returns the row produced by the last successful Scan.
func (s *Scanner) Row() Row {
	return s.current
}

// Err returns the fatal stream error, if any. A stream that simply ended
// returns nil.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) readErr() error {
	if err := s.scanner.Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading feed stream")
	}
	return nil
}
