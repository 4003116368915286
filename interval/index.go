package interval

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	itree "github.com/biogo/store/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"

	"github.com/genomevis/gtrack/fileutil"
)

// bufio.Scanner does not grow its buffer past the cap we hand it, and BED
// payload columns can be long.
const maxLineBytes = 16 << 20

// Entry is one interval loaded from a BED-like file.  Columns past the third
// are kept verbatim as Payload; it is nil for plain 3-column input.
type Entry struct {
	Start, End int
	Payload    []string
	id         uintptr
}

// Overlap reports half-open overlap with the query range.
func (e Entry) Overlap(b itree.IntRange) bool {
	return e.End > b.Start && e.Start < b.End
}

// ID satisfies biogo's interval interface; ids are insertion sequence
// numbers, unique per index.
func (e Entry) ID() uintptr { return e.id }

// Range satisfies biogo's interval interface.
func (e Entry) Range() itree.IntRange {
	return itree.IntRange{Start: e.Start, End: e.End}
}

// Index holds one interval tree per chromosome, built in a single pass over
// a coordinate-sorted interval file.  It is immutable once built.
//
// MinValue and MaxValue are the smallest and largest numeric value seen
// across all payload columns, usable as a rendering scale.  They stay at
// +Inf/-Inf when no line contributed an all-numeric payload; callers must
// treat those sentinels as "no numeric data observed".
type Index struct {
	name  string
	trees map[string]*itree.IntTree
	n     int

	MinValue float64
	MaxValue float64
}

// New builds an Index from a possibly gzip-compressed BED-like file.
func New(path string) (x *Index, err error) {
	in, err := fileutil.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return NewFromReader(in, path)
}

// NewFromReader builds an Index from r.  name identifies the input in
// diagnostics.
//
// Every non-comment, non-header, non-blank line must carry at least three
// tab-separated fields (chrom, start, end) with end > start, and starts must
// be nondecreasing within each contiguous run of one chromosome.  Violations
// are hard errors naming the offending line, and the in-progress index is
// discarded.  Zero valid intervals is not an error: the result is an empty
// index and a warning.
func NewFromReader(r io.Reader, name string) (*Index, error) {
	x := &Index{
		name:     name,
		trees:    make(map[string]*itree.IntTree),
		MinValue: math.Inf(1),
		MaxValue: math.Inf(-1),
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineBytes)
	lineNum := 0
	prevChrom := ""
	prevStart := -1
	prevLine := ""
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") ||
			strings.HasPrefix(line, "browser") || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(strings.TrimSpace(line), "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("interval: %s line %d: expected at least 3 fields, got: %s", name, lineNum, line)
		}
		chrom := fields[0]
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("interval: %s line %d: the start field is not an integer: %q", name, lineNum, fields[1])
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("interval: %s line %d: the end field is not an integer: %q", name, lineNum, fields[2])
		}
		if chrom == prevChrom && start < prevStart {
			return nil, fmt.Errorf("interval: %s is not sorted: line %d: %s has start before previous line: %s",
				name, lineNum, line, prevLine)
		}
		if end <= start {
			return nil, fmt.Errorf("interval: %s line %d: start position larger or equal than end: %s", name, lineNum, line)
		}
		var payload []string
		if len(fields) > 3 {
			payload = fields[3:]
			x.observeValues(payload)
		}
		tree := x.trees[chrom]
		if tree == nil {
			tree = &itree.IntTree{}
			x.trees[chrom] = tree
		}
		if err := tree.Insert(Entry{Start: start, End: end, Payload: payload, id: uintptr(x.n)}, true); err != nil {
			return nil, errors.E(err, "interval:", name)
		}
		x.n++
		prevChrom, prevStart, prevLine = chrom, start, line
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "interval:", name)
	}
	for _, tree := range x.trees {
		tree.AdjustRanges()
	}
	if x.n == 0 {
		log.Error.Printf("interval: no valid intervals were found in %s", name)
	}
	return x, nil
}

// observeValues folds a line's payload into MinValue/MaxValue, but only when
// every payload column of the line is numeric.
func (x *Index) observeValues(payload []string) {
	lineMin := math.Inf(1)
	lineMax := math.Inf(-1)
	for _, p := range payload {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return
		}
		if v < lineMin {
			lineMin = v
		}
		if v > lineMax {
			lineMax = v
		}
	}
	if lineMin < x.MinValue {
		x.MinValue = lineMin
	}
	if lineMax > x.MaxValue {
		x.MaxValue = lineMax
	}
}

// Overlaps returns every entry on chrom overlapping the half-open query
// [start, end), in tree order.  A chromosome the index never saw yields nil.
func (x *Index) Overlaps(chrom string, start, end int) []Entry {
	tree := x.trees[chrom]
	if tree == nil {
		return nil
	}
	q := Entry{Start: start, End: end, id: uintptr(x.n)}
	var out []Entry
	tree.DoMatching(func(iv itree.IntInterface) (done bool) {
		out = append(out, iv.(Entry))
		return false
	}, q)
	return out
}

// Len returns the number of intervals in the index.
func (x *Index) Len() int { return x.n }

// Chroms returns the chromosomes present in the index, sorted.
func (x *Index) Chroms() []string {
	names := make([]string, 0, len(x.trees))
	for name := range x.trees {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasValues reports whether any line contributed numeric payload data, i.e.
// whether MinValue/MaxValue left their sentinel infinities.
func (x *Index) HasValues() bool {
	return x.MinValue <= x.MaxValue
}
