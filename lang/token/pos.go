package token

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	stdtoken "go/token"
)

// Pos is a compact source position: a 1-based offset into the concatenation
// of every file registered in a FileSet. The zero value, NoPos, is not
// associated with any file.
type Pos int

// NoPos is the zero Pos value, meaning "no position".
const NoPos Pos = 0

// IsValid reports whether p denotes an actual source position.
func (p Pos) IsValid() bool { return p != NoPos }

// PosMode controls how FormatPos renders a position.
type PosMode int

//nolint:revive
const (
	PosNone PosMode = iota
	PosRaw
	PosOffsets
	PosLong
)

func (m PosMode) String() string {
	switch m {
	case PosNone:
		return "none"
	case PosRaw:
		return "raw"
	case PosOffsets:
		return "offsets"
	case PosLong:
		return "long"
	default:
		return "PosMode(?)"
	}
}

// Position is the expanded, human-readable form of a Pos. It is a type
// alias for go/token.Position (same Filename/Offset/Line/Column shape) so
// that error.Add(token.Position{...}, msg) is usable with go/scanner's
// ErrorList directly.
type Position = stdtoken.Position

// File tracks the line boundaries of a single source file registered in a
// FileSet, so that a Pos belonging to it can be expanded into a Position.
type File struct {
	name string
	base int
	size int

	mu    sync.Mutex
	lines []int // offsets recorded via AddLine, strictly increasing
}

// Name returns the file name as given to FileSet.AddFile.
func (f *File) Name() string { return f.name }

// Base returns the Pos value of the file's first byte.
func (f *File) Base() int { return f.base }

// Size returns the file's content length in bytes.
func (f *File) Size() int { return f.size }

// AddLine records a line-boundary byte offset. Offsets must be added in
// increasing order and be within the file's bounds; out-of-order or
// out-of-bounds offsets are silently ignored.
func (f *File) AddLine(offset int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n := len(f.lines); (n == 0 || f.lines[n-1] < offset) && offset < f.size {
		f.lines = append(f.lines, offset)
	}
}

// Pos returns the Pos value for the given byte offset into the file.
func (f *File) Pos(offset int) Pos { return Pos(f.base + offset) }

// Offset returns the byte offset of p within the file.
func (f *File) Offset(p Pos) int { return int(p) - f.base }

// Position expands p, which must belong to f, into a line/column pair.
func (f *File) Position(p Pos) Position {
	off := f.Offset(p)
	f.mu.Lock()
	defer f.mu.Unlock()

	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > off })
	line := i + 1
	col := off + 1
	if i > 0 {
		col = off - f.lines[i-1]
	}
	return Position{Filename: f.name, Offset: off, Line: line, Column: col}
}

// crossed counts the recorded line boundaries x with a < x <= b.
func (f *File) crossed(a, b int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	lo := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > a })
	hi := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > b })
	return hi - lo
}

// FileSet assigns disjoint Pos ranges to a sequence of source files so a
// single Pos value can be resolved back to the file and line/column it
// belongs to.
type FileSet struct {
	mu    sync.Mutex
	base  int
	files []*File
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet { return &FileSet{base: 1} }

// AddFile registers a new file of the given size and returns it. If base is
// negative, the next available base in the set is used.
func (s *FileSet) AddFile(name string, base, size int) *File {
	s.mu.Lock()
	defer s.mu.Unlock()
	if base < 0 {
		base = s.base
	}
	f := &File{name: name, base: base, size: size}
	if next := base + size + 1; next > s.base {
		s.base = next
	}
	s.files = append(s.files, f)
	return f
}

// File returns the file containing p, or nil if p belongs to none.
func (s *FileSet) File(p Pos) *File {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := sort.Search(len(s.files), func(i int) bool { return s.files[i].base > int(p) }) - 1
	if i < 0 || i >= len(s.files) {
		return nil
	}
	f := s.files[i]
	if int(p) > f.base+f.size {
		return nil
	}
	return f
}

// Position resolves p to its expanded Position, looking up the owning file.
func (s *FileSet) Position(p Pos) Position {
	if f := s.File(p); f != nil {
		return f.Position(p)
	}
	return Position{}
}

// FormatPos renders pos for display according to mode. withFilename
// controls whether PosLong includes the file name.
func FormatPos(mode PosMode, f *File, pos Pos, withFilename bool) string {
	switch mode {
	case PosRaw:
		return strconv.Itoa(int(pos))
	case PosOffsets:
		if !pos.IsValid() {
			return "-"
		}
		return strconv.Itoa(f.Offset(pos))
	case PosLong:
		name := ""
		if withFilename && f != nil {
			name = f.Name()
		}
		if !pos.IsValid() {
			return name + ":-:-"
		}
		p := f.Position(pos)
		return fmt.Sprintf("%s:%d:%d", name, p.Line, p.Column)
	default:
		return ""
	}
}

// Spanner is implemented by anything with a start/end position, such as an
// AST node.
type Spanner interface {
	Span() (start, end Pos)
}

// PosInside reports whether test's span is entirely inside ref's span.
func PosInside(ref, test Spanner) bool {
	rs, re := ref.Span()
	ts, te := test.Span()
	return rs <= ts && te <= re
}

// PosAdjacent reports whether test is close enough to ref, within f's line
// structure, to be considered attached to it: a test that starts at or
// after ref's end must be on the very same line, while a test that ends at
// or before ref's start may trail it by up to one line.
func PosAdjacent(ref, test Spanner, f *File) bool {
	rs, re := ref.Span()
	ts, te := test.Span()

	switch {
	case ts >= re:
		return f.crossed(f.Offset(re), f.Offset(ts)) == 0
	case te <= rs:
		return f.crossed(f.Offset(te), f.Offset(rs)) <= 1
	default:
		return true
	}
}
