// Package bed parses BED-family genomic interval files (BED3/6/9/12 and the
// 4-column bedgraph variant) into typed records, and converts UCSC refGene
// gene models to BED12.
package bed

import (
	"strconv"
	"strings"
)

// Variant identifies which member of the BED family a file is, decided once
// per file from the column count of its first data line.
type Variant int

const (
	Bed3 Variant = iota
	Bedgraph
	Bed6
	Bed9
	Bed12
)

var variantNames = [...]string{"bed3", "bedgraph", "bed6", "bed9", "bed12"}
var variantFields = [...]int{3, 4, 6, 9, 12}

func (v Variant) String() string { return variantNames[v] }

// NFields returns the column count every data line of the variant must have.
func (v Variant) NFields() int { return variantFields[v] }

// ClassifyVariant maps a whitespace-split field count to a Variant.  Counts
// of 3, 4, 6, 9 and 12 are exact matches.  Anything else is a best-effort
// guess with no correctness guarantee: more than 6 fields is treated as
// bed6, fewer as bed3; standard reports whether the count was an exact
// match so callers can warn.
func ClassifyVariant(nFields int) (v Variant, standard bool) {
	switch nFields {
	case 3:
		return Bed3, true
	case 4:
		return Bedgraph, true
	case 6:
		return Bed6, true
	case 9:
		return Bed9, true
	case 12:
		return Bed12, true
	}
	if nFields > 6 {
		return Bed6, false
	}
	return Bed3, false
}

// NumOrText is a field value that is numeric when the text parses as an
// integer or float, and raw text otherwise.
type NumOrText struct {
	Num   float64
	Text  string
	IsNum bool
}

// ParseNumOrText attempts integer then float parsing and falls back to raw
// text.
func ParseNumOrText(s string) NumOrText {
	if i, err := strconv.Atoi(s); err == nil {
		return NumOrText{Num: float64(i), IsNum: true}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return NumOrText{Num: f, IsNum: true}
	}
	return NumOrText{Text: s}
}

// RGB is a BED itemRgb field.  When the field is not three comma-separated
// integers, Valid is false and Raw holds the original text.
type RGB struct {
	R, G, B int
	Valid   bool
	Raw     string
}

func parseRGB(s string) (RGB, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{Raw: s}, true
	}
	var c [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return RGB{Raw: s}, false
		}
		c[i] = v
	}
	return RGB{R: c[0], G: c[1], B: c[2], Valid: true}, true
}

// parseIntList parses a comma-separated integer list, skipping empty
// entries (BED block lists conventionally end with a trailing comma).
func parseIntList(s string) ([]int, bool) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// Record is one line of a BED-family file.  Variant tags which fields are
// meaningful: bed3 and bedgraph records are padded with name ".", score 0
// and strand "." so every record presents the uniform 6-field shape;
// Value is set only for bedgraph; ThickStart/ThickEnd/RGB from bed9 up;
// block fields only for bed12.
type Record struct {
	Variant Variant

	Chrom  string
	Start  int
	End    int
	Name   string
	Score  NumOrText
	Strand string

	Value NumOrText

	ThickStart int
	ThickEnd   int
	RGB        RGB

	BlockCount  int
	BlockSizes  []int
	BlockStarts []int
}
