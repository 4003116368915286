// Package genome provides the coordinate model shared by the rest of the
// toolkit: validated chromosome ranges, chromosome-name convention
// switching, and per-build chromosome-length tables.
package genome

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// Range is a span on a named chromosome.  End is exclusive by the convention
// of the BED-family formats the range usually originates from, but both
// bounds are stored as plain integers; the only invariant enforced at
// construction is End > Start.
type Range struct {
	Chrom string
	Start int
	End   int
}

// positionJunk is layout punctuation commonly pasted into region strings
// (e.g. "chr1:1,000,000-2,000,000" from a genome browser).
const positionJunk = ",.;|!{}()"

// ParseRegionString splits a "chrom:start-end" string into its parts.  The
// chromosome is everything before the first ':'; the position substring is
// cleaned of layout punctuation before being split on '-'.
func ParseRegionString(region string) (chrom string, start, end int, err error) {
	colon := strings.IndexByte(region, ':')
	if colon == -1 {
		err = fmt.Errorf("genome.ParseRegionString: %q is not of the form \"chrom:start-end\"", region)
		return
	}
	chrom = region[:colon]
	position := strings.Map(func(r rune) rune {
		if strings.ContainsRune(positionJunk, r) {
			return -1
		}
		return r
	}, region[colon+1:])
	parts := strings.Split(position, "-")
	if len(parts) != 2 {
		err = fmt.Errorf("genome.ParseRegionString: cannot parse position %q in region %q", position, region)
		return
	}
	if start, err = strconv.Atoi(parts[0]); err != nil {
		err = fmt.Errorf("genome.ParseRegionString: start %q in region %q is not an integer", parts[0], region)
		return
	}
	if end, err = strconv.Atoi(parts[1]); err != nil {
		err = fmt.Errorf("genome.ParseRegionString: end %q in region %q is not an integer", parts[1], region)
		return
	}
	return chrom, start, end, nil
}

// NewRange constructs a Range, requiring End > Start.
func NewRange(chrom string, start, end int) (Range, error) {
	if end <= start {
		return Range{}, errors.E(fmt.Sprintf(
			"genome.NewRange: region end must be larger than region start (got start: %d, end: %d)", start, end))
	}
	return Range{Chrom: chrom, Start: start, End: end}, nil
}

// ParseRange constructs a Range from a "chrom:start-end" string.
func ParseRange(region string) (Range, error) {
	chrom, start, end, err := ParseRegionString(region)
	if err != nil {
		return Range{}, err
	}
	return NewRange(chrom, start, end)
}

// String returns the canonical "chrom:start-end" form.  Two ranges are the
// same range iff their canonical strings are byte-identical, so "chr1" and
// "1" spellings never compare equal even when they name the same locus.
func (r Range) String() string {
	return r.Chrom + ":" + strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

// Equal reports whether r and other have the same canonical string.
func (r Range) Equal(other Range) bool {
	return r.String() == other.String()
}

// Length returns End - Start; always >= 1 for a constructed Range.
func (r Range) Length() int {
	return r.End - r.Start
}

// Contains reports whether other lies entirely within r on the same
// chromosome spelling.
func (r Range) Contains(other Range) bool {
	if other.Chrom != r.Chrom {
		return false
	}
	return other.Start >= r.Start && other.End <= r.End
}

// FlipChromName switches the chromosome between the "chr1" and "1" naming
// conventions in place.  Start and End are unchanged.
func (r *Range) FlipChromName() {
	r.Chrom = ChangeChromName(r.Chrom)
}

// ChangeChromName converts a UCSC-style chromosome name ("chr1") to the
// Ensembl style ("1") and vice versa.  It is its own inverse for ordinary
// names; a name that already embeds the prefix ambiguously (e.g. "chrchr1")
// gets a single strip or prepend with no further special handling.
func ChangeChromName(chrom string) string {
	if strings.HasPrefix(chrom, "chr") {
		return chrom[3:]
	}
	return "chr" + chrom
}
