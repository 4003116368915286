package genome_test

import (
	"testing"

	"github.com/grailbio/testutil/expect"

	"github.com/genomevis/gtrack/genome"
)

func TestParseRangeRoundTrip(t *testing.T) {
	// Parsing a canonical region string and re-serializing must reproduce it
	// exactly.
	for _, region := range []string{
		"chr1:1000-2000",
		"1:5-10",
		"chrX:0-100",
		"scaffold_17:123-456",
	} {
		r, err := genome.ParseRange(region)
		expect.NoError(t, err)
		expect.EQ(t, r.String(), region)
	}
}

func TestParseRegionString(t *testing.T) {
	tests := []struct {
		region string
		chrom  string
		start  int
		end    int
	}{
		{"chr1:10-20", "chr1", 10, 20},
		{"chr1:1,000,000-2,000,000", "chr1", 1000000, 2000000},
		{"chr2:2000-4000", "chr2", 2000, 4000},
		{"MT:1-16571", "MT", 1, 16571},
	}
	for _, tt := range tests {
		chrom, start, end, err := genome.ParseRegionString(tt.region)
		expect.NoError(t, err)
		expect.EQ(t, chrom, tt.chrom)
		expect.EQ(t, start, tt.start)
		expect.EQ(t, end, tt.end)
	}
}

func TestParseRegionStringErrors(t *testing.T) {
	for _, region := range []string{
		"chr1",          // no colon
		"chr1:0",        // single position, no dash pair
		"chr1:1-2-3",    // too many tokens
		"chr1:a-100",    // non-numeric start
		"chr1:100-b",    // non-numeric end
		"chr1:-100-200", // leading dash makes three tokens
	} {
		if _, _, _, err := genome.ParseRegionString(region); err == nil {
			t.Errorf("ParseRegionString(%q): expected error", region)
		}
	}
}

func TestNewRangeInvalid(t *testing.T) {
	for _, tt := range []struct{ start, end int }{
		{2000, 1000},
		{5, 5},
		{0, 0},
		{0, -1},
	} {
		if _, err := genome.NewRange("chr1", tt.start, tt.end); err == nil {
			t.Errorf("NewRange(chr1, %d, %d): expected error", tt.start, tt.end)
		}
	}
}

func TestChangeChromName(t *testing.T) {
	expect.EQ(t, genome.ChangeChromName("chr1"), "1")
	expect.EQ(t, genome.ChangeChromName("1"), "chr1")
	expect.EQ(t, genome.ChangeChromName("MT"), "chrMT")
	expect.EQ(t, genome.ChangeChromName("chrX"), "X")

	// Involution for unambiguous names.
	for _, name := range []string{"chr1", "1", "chrX", "MT"} {
		expect.EQ(t, genome.ChangeChromName(genome.ChangeChromName(name)), name)
	}
}

func TestFlipChromName(t *testing.T) {
	r, err := genome.NewRange("chr1", 1000, 2000)
	expect.NoError(t, err)
	r.FlipChromName()
	expect.EQ(t, r.String(), "1:1000-2000")
	r.FlipChromName()
	expect.EQ(t, r.String(), "chr1:1000-2000")
}

func TestRangeEqual(t *testing.T) {
	a, err := genome.NewRange("chr1", 1000, 2000)
	expect.NoError(t, err)
	b, err := genome.ParseRange("chr1:1000-2000")
	expect.NoError(t, err)
	expect.True(t, a.Equal(b))

	// Different chromosome spellings are different ranges even when they
	// name the same locus.
	c, err := genome.ParseRange("1:1000-2000")
	expect.NoError(t, err)
	expect.False(t, a.Equal(c))
}

func TestRangeLengthAndContains(t *testing.T) {
	r, err := genome.NewRange("chr1", 0, 1000)
	expect.NoError(t, err)
	expect.EQ(t, r.Length(), 1000)

	inner, err := genome.NewRange("chr1", 100, 900)
	expect.NoError(t, err)
	otherChrom, err := genome.NewRange("chr2", 100, 900)
	expect.NoError(t, err)
	wider, err := genome.NewRange("chr1", 0, 1001)
	expect.NoError(t, err)

	expect.True(t, r.Contains(inner))
	expect.True(t, r.Contains(r))
	expect.False(t, r.Contains(otherChrom))
	expect.False(t, r.Contains(wider))
}
