package bed

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/genomevis/gtrack/fileutil"
)

// BED12 block lists for heavily fragmented transcripts can make lines long;
// bufio.Scanner does not grow its buffer past the cap we hand it.
const maxLineBytes = 16 << 20

// Reader is a lazy, single-pass reader of BED-family records.  Construction
// classifies the file's variant from its first data line; every later line
// is validated against that variant.  Records must arrive with nondecreasing
// start positions within each contiguous run of one chromosome; the input is
// expected pre-sorted and is never re-sorted here.
type Reader struct {
	name    string
	variant Variant
	scanner *bufio.Scanner
	closer  io.Closer

	lineNum int
	// The classifying line is replayed as the first record, matching a
	// rewind of the stream (comment lines before it produce no records).
	pending     string
	pendingLine int
	hasPending  bool

	prevChrom string
	prevStart int
	prevLine  string
	err       error
}

// NewReader classifies and prepares to read BED records from r.  name
// identifies the input in diagnostics.  An input with no data lines at all
// is an error, since there is nothing to classify.
func NewReader(r io.Reader, name string) (*Reader, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineBytes)
	rd := &Reader{name: name, scanner: scanner}
	for scanner.Scan() {
		rd.lineNum++
		line := scanner.Text()
		if skipLine(line) {
			continue
		}
		rd.pending = line
		rd.pendingLine = rd.lineNum
		rd.hasPending = true
		nFields := len(strings.Fields(line))
		variant, standard := ClassifyVariant(nFields)
		if !standard {
			log.Error.Printf("bed: %s: number of fields (%d) is not standard, assuming %s", name, nFields, variant)
		}
		rd.variant = variant
		return rd, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "bed: %s", name)
	}
	return nil, errors.Errorf("bed: %s has no data lines", name)
}

// NewReaderFromPath is a wrapper for NewReader that takes a path instead of
// an io.Reader; gzip-compressed files are decoded transparently.  Close the
// Reader when done.
func NewReaderFromPath(path string) (*Reader, error) {
	in, err := fileutil.Open(path)
	if err != nil {
		return nil, err
	}
	rd, err := NewReader(in, path)
	if err != nil {
		_ = in.Close()
		return nil, err
	}
	rd.closer = in
	return rd, nil
}

// Variant returns the variant classified at construction.
func (r *Reader) Variant() Variant { return r.variant }

// Close releases the underlying file when the Reader was built from a path.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// skipLine reports whether a line is a comment, header or blank line that
// never counts as data.
func skipLine(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "track") ||
		strings.HasPrefix(line, "browser") ||
		strings.TrimSpace(line) == ""
}

func (r *Reader) nextDataLine() (string, int, bool) {
	if r.hasPending {
		r.hasPending = false
		return r.pending, r.pendingLine, true
	}
	for r.scanner.Scan() {
		r.lineNum++
		line := r.scanner.Text()
		if skipLine(line) {
			continue
		}
		return line, r.lineNum, true
	}
	return "", 0, false
}

// Read returns the next record, or io.EOF at end of input.  Hard errors
// (wrong field count, malformed coordinates, unsorted input) are terminal:
// every later call returns the same error.  A record whose non-critical
// integer fields fail to parse is degraded to the zero Record with a logged
// warning, and reading continues.
func (r *Reader) Read() (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}
	line, lineNum, ok := r.nextDataLine()
	if !ok {
		if err := r.scanner.Err(); err != nil {
			r.err = errors.Wrapf(err, "bed: %s", r.name)
		} else {
			r.err = io.EOF
		}
		return Record{}, r.err
	}
	rec, err := r.parseLine(line, lineNum)
	if err != nil {
		r.err = err
		return Record{}, err
	}
	if rec.Chrom == "" {
		// Degraded record; nothing to order against.
		return rec, nil
	}
	if r.prevChrom == rec.Chrom && rec.Start < r.prevStart {
		r.err = errors.Errorf(
			"bed: %s is not sorted: line %d: %s has start before previous line: %s",
			r.name, lineNum, line, r.prevLine)
		return Record{}, r.err
	}
	r.prevChrom = rec.Chrom
	r.prevStart = rec.Start
	r.prevLine = line
	return rec, nil
}

func (r *Reader) parseLine(line string, lineNum int) (Record, error) {
	fields := strings.Split(strings.TrimSpace(line), "\t")
	if len(fields) != r.variant.NFields() {
		return Record{}, errors.Errorf(
			"bed: %s: file type detected is %s but line %d: %q has %d fields instead of %d",
			r.name, r.variant, lineNum, line, len(fields), r.variant.NFields())
	}
	rec := Record{Variant: r.variant, Chrom: fields[0]}
	var err error
	if rec.Start, err = strconv.Atoi(fields[1]); err != nil {
		return Record{}, errors.Errorf("bed: %s line %d: start %q is not an integer", r.name, lineNum, fields[1])
	}
	if rec.End, err = strconv.Atoi(fields[2]); err != nil {
		return Record{}, errors.Errorf("bed: %s line %d: end %q is not an integer", r.name, lineNum, fields[2])
	}
	if rec.End <= rec.Start {
		return Record{}, errors.Errorf(
			"bed: %s line %d: start position larger or equal than end: %q", r.name, lineNum, line)
	}
	switch r.variant {
	case Bed3:
		rec.pad()
	case Bedgraph:
		rec.Value = ParseNumOrText(fields[3])
		rec.pad()
	default:
		rec.Name = fields[3]
		rec.Score = ParseNumOrText(fields[4])
		rec.Strand = r.normalizeStrand(fields[5], lineNum, line)
		if r.variant == Bed9 || r.variant == Bed12 {
			thickStart, ok := r.coerceInt(fields[6], 7, lineNum)
			if !ok {
				return Record{}, nil
			}
			thickEnd, ok := r.coerceInt(fields[7], 8, lineNum)
			if !ok {
				return Record{}, nil
			}
			rec.ThickStart, rec.ThickEnd = thickStart, thickEnd
			rgb, ok := parseRGB(fields[8])
			if !ok {
				log.Error.Printf("bed: %s line %d: the rgb field %q is not valid", r.name, lineNum, fields[8])
			}
			rec.RGB = rgb
		}
		if r.variant == Bed12 {
			blockCount, ok := r.coerceInt(fields[9], 10, lineNum)
			if !ok {
				return Record{}, nil
			}
			rec.BlockCount = blockCount
			if rec.BlockSizes, ok = parseIntList(fields[10]); !ok {
				log.Error.Printf("bed: %s line %d: the block sizes field %q is not valid", r.name, lineNum, fields[10])
			}
			if rec.BlockStarts, ok = parseIntList(fields[11]); !ok {
				log.Error.Printf("bed: %s line %d: the block starts field %q is not valid", r.name, lineNum, fields[11])
			}
		}
	}
	return rec, nil
}

// pad gives bed3 and bedgraph records the placeholder name, score and
// strand, so callers see a uniform 6-field shape.
func (r *Record) pad() {
	r.Name = "."
	r.Score = NumOrText{IsNum: true}
	r.Strand = "."
}

func (r *Reader) normalizeStrand(s string, lineNum int, line string) string {
	switch s {
	case "+", "-", ".":
		return s
	case "1":
		return "+"
	case "-1":
		return "-"
	}
	log.Error.Printf("bed: %s line %d: invalid strand value %q in %q, setting strand to '.'",
		r.name, lineNum, s, line)
	return "."
}

// coerceInt parses a non-critical integer column.  On failure it warns and
// reports !ok; the caller degrades the whole record instead of aborting the
// parse.
func (r *Reader) coerceInt(s string, column, lineNum int) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Error.Printf("bed: %s line %d: value %q in field %d is not an integer", r.name, lineNum, s, column)
		return 0, false
	}
	return v, true
}
