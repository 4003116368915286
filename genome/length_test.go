package genome_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genomevis/gtrack/genome"
)

const lengthData = "chr1\t1000\nchr2\t500 extra tokens ignored\nchrBad\toops\n\nchrM\t100\n"

func loadTestTable(t *testing.T) *genome.LengthTable {
	table, err := genome.LoadLengths(strings.NewReader(lengthData), "test", "test.txt")
	require.NoError(t, err)
	return table
}

func TestLoadLengths(t *testing.T) {
	table := loadTestTable(t)
	require.Equal(t, 3, table.Len())

	length, ok := table.Lookup("chr1")
	assert.True(t, ok)
	assert.Equal(t, 1000, length)

	length, ok = table.Lookup("chr2")
	assert.True(t, ok)
	assert.Equal(t, 500, length)

	// Non-integer length: the entry is skipped, not inserted.
	_, ok = table.Lookup("chrBad")
	assert.False(t, ok)
}

func TestContainsRange(t *testing.T) {
	table := loadTestTable(t)
	tests := []struct {
		region string
		want   bool
	}{
		{"chr1:1-1000", true},
		{"chr1:1-1001", false},
		{"chr1:500-600", true},
		{"chr3:1-10", false}, // unknown chromosome
	}
	for _, tt := range tests {
		r, err := genome.ParseRange(tt.region)
		require.NoError(t, err)
		assert.Equal(t, tt.want, table.ContainsRange(r), "region %s", tt.region)
	}
	// start < 1 cannot come from ParseRange (the dash-split rejects it), so
	// build it directly.
	assert.False(t, table.ContainsRange(genome.Range{Chrom: "chr1", Start: 0, End: 10}))
}

func TestBound(t *testing.T) {
	table := loadTestTable(t)
	tests := []struct {
		in   genome.Range
		want string
	}{
		// Already contained: unchanged.
		{genome.Range{Chrom: "chr1", Start: 10, End: 20}, "chr1:10-20"},
		// Start below 1 is clipped up.
		{genome.Range{Chrom: "chr1", Start: -5, End: 50}, "chr1:1-50"},
		{genome.Range{Chrom: "chr1", Start: 0, End: 50}, "chr1:1-50"},
		// End past the chromosome is clipped down.
		{genome.Range{Chrom: "chr1", Start: 900, End: 2000}, "chr1:900-1000"},
		// Entirely past the end: the window slides left, keeping its length.
		{genome.Range{Chrom: "chr1", Start: 1500, End: 1600}, "chr1:900-1000"},
		// Sliding is floored at position 1.
		{genome.Range{Chrom: "chrM", Start: 150, End: 5000}, "chrM:1-100"},
	}
	for _, tt := range tests {
		got, err := table.Bound(tt.in)
		require.NoError(t, err, "bound %v", tt.in)
		assert.Equal(t, tt.want, got.String())
	}
}

func TestBoundUnknownChrom(t *testing.T) {
	table := loadTestTable(t)
	_, err := table.Bound(genome.Range{Chrom: "chr17", Start: 1, End: 10})
	require.Error(t, err)
	var unknown *genome.UnknownChromError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "chr17", unknown.Chrom)
}

func TestBuiltinTables(t *testing.T) {
	for _, tt := range []struct {
		build string
		chrom string
		want  int
	}{
		{"hg19", "chr1", 249250621},
		{"hg38", "chr1", 248956422},
		{"mm9", "chrX", 166650296},
		{"mm10", "chr19", 61431566},
	} {
		table := genome.Builtin(tt.build)
		require.NotNil(t, table, tt.build)
		length, ok := table.Lookup(tt.chrom)
		assert.True(t, ok, "%s %s", tt.build, tt.chrom)
		assert.Equal(t, tt.want, length, "%s %s", tt.build, tt.chrom)
	}
	assert.Nil(t, genome.Builtin("hg18"))
	assert.Equal(t, []string{"hg19", "hg38", "mm10", "mm9"}, genome.BuiltinNames())
}
