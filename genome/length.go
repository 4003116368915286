package genome

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"

	"github.com/genomevis/gtrack/fileutil"
)

// LengthTable maps chromosome names to their total lengths for one reference
// build.  A table is read-only after load and safe for concurrent readers.
type LengthTable struct {
	// Name identifies the build (e.g. "hg19").  May be empty for ad-hoc
	// tables.
	Name string
	// Source is the file the table was loaded from, kept for error messages.
	Source  string
	lengths map[string]int
}

// UnknownChromError is returned when a range names a chromosome absent from
// the reference table.
type UnknownChromError struct {
	Chrom string
	Table string
}

func (e *UnknownChromError) Error() string {
	return fmt.Sprintf("genome: chromosome %q not in reference table %s", e.Chrom, e.Table)
}

// LoadLengths reads a chromosome-length table: one "name length" pair per
// line, whitespace-delimited, extra columns ignored.  A line whose length
// field is not an integer is skipped with a warning, so the table simply
// lacks that chromosome.
func LoadLengths(r io.Reader, name, source string) (*LengthTable, error) {
	t := &LengthTable{Name: name, Source: source, lengths: make(map[string]int)}
	scanner := bufio.NewScanner(r)
	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			log.Error.Printf("genome.LoadLengths: %s line %d has no length field, skipping", source, lineIdx)
			continue
		}
		length, err := strconv.Atoi(fields[1])
		if err != nil {
			log.Error.Printf("genome.LoadLengths: %s line %d: length %q is not an integer, skipping", source, lineIdx, fields[1])
			continue
		}
		t.lengths[fields[0]] = length
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadLengthsFromPath loads a possibly gzip-compressed length table from a
// path.
func LoadLengthsFromPath(path, name string) (t *LengthTable, err error) {
	in, err := fileutil.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return LoadLengths(in, name, path)
}

// Lookup returns the length of chrom and whether the table knows it.
func (t *LengthTable) Lookup(chrom string) (int, bool) {
	length, ok := t.lengths[chrom]
	return length, ok
}

// Len returns the number of chromosomes in the table.
func (t *LengthTable) Len() int { return len(t.lengths) }

// ContainsRange reports whether r is valid against the table: the chromosome
// is present, start >= 1, and end <= the chromosome length.  Both bounds are
// treated as one-based here.
func (t *LengthTable) ContainsRange(r Range) bool {
	length, ok := t.lengths[r.Chrom]
	if !ok {
		return false
	}
	return r.Start >= 1 && r.End <= length
}

// Bound clamps r into [1, chromosome length].  A contained range is returned
// unchanged.  If the chromosome is absent there is no length to clamp
// against and an *UnknownChromError is returned.  When clipping the end
// would leave start >= end (a range entirely past the chromosome end), the
// window slides left to keep its length, floored at position 1, so a valid
// Range is always produced for a known chromosome.
func (t *LengthTable) Bound(r Range) (Range, error) {
	if t.ContainsRange(r) {
		return r, nil
	}
	length, ok := t.lengths[r.Chrom]
	if !ok {
		return Range{}, &UnknownChromError{Chrom: r.Chrom, Table: t.describe()}
	}
	start, end := r.Start, r.End
	if start < 1 {
		start = 1
	}
	if end > length {
		end = length
		if start >= end {
			start = end - r.Length()
			if start < 1 {
				start = 1
			}
		}
	}
	return NewRange(r.Chrom, start, end)
}

func (t *LengthTable) describe() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Source
}
