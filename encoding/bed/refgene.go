package bed

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/pkg/errors"

	"github.com/genomevis/gtrack/fileutil"
)

// UCSC refGene.txt column layout (16 tab-separated columns).
const (
	rgBin = iota
	rgName
	rgChrom
	rgStrand
	rgTxStart
	rgTxEnd
	rgCdsStart
	rgCdsEnd
	rgExonCount
	rgExonStarts
	rgExonEnds
	rgScore
	rgName2
	rgCdsStartStat
	rgCdsEndStat
	rgExonFrames
	rgNFields
)

// RefGeneToBed12 converts refGene gene-model records from src into BED12
// lines on dst.  Transcript bounds become the interval and the thick region,
// exon starts become block starts relative to the transcript start, and exon
// sizes become block sizes.  The input is trusted to be well formed (it
// comes straight from a UCSC table dump), so no sortedness or coordinate
// validation is re-applied; integer lists that cannot be parsed still fail,
// since the transform is impossible without them.
func RefGeneToBed12(src io.Reader, dst io.Writer, name string) error {
	w := tsv.NewWriter(dst)
	scanner := bufio.NewScanner(src)
	scanner.Buffer(nil, maxLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != rgNFields {
			return errors.Errorf("bed: %s line %d: refGene record has %d fields instead of %d",
				name, lineNum, len(fields), rgNFields)
		}
		txStart, err := strconv.Atoi(fields[rgTxStart])
		if err != nil {
			return errors.Errorf("bed: %s line %d: txStart %q is not an integer", name, lineNum, fields[rgTxStart])
		}
		exonStarts, ok := parseIntList(fields[rgExonStarts])
		if !ok {
			return errors.Errorf("bed: %s line %d: exon starts %q are not valid", name, lineNum, fields[rgExonStarts])
		}
		exonEnds, ok := parseIntList(fields[rgExonEnds])
		if !ok {
			return errors.Errorf("bed: %s line %d: exon ends %q are not valid", name, lineNum, fields[rgExonEnds])
		}
		if len(exonStarts) != len(exonEnds) {
			return errors.Errorf("bed: %s line %d: %d exon starts but %d exon ends",
				name, lineNum, len(exonStarts), len(exonEnds))
		}
		var blockStarts, blockSizes strings.Builder
		for i := range exonStarts {
			blockStarts.WriteString(strconv.Itoa(exonStarts[i] - txStart))
			blockStarts.WriteByte(',')
			blockSizes.WriteString(strconv.Itoa(exonEnds[i] - exonStarts[i]))
			blockSizes.WriteByte(',')
		}
		w.WriteString(fields[rgChrom])
		w.WriteString(fields[rgTxStart])
		w.WriteString(fields[rgTxEnd])
		w.WriteString(fields[rgName2])
		w.WriteString(fields[rgScore])
		w.WriteString(fields[rgStrand])
		w.WriteString(fields[rgTxStart]) // thickStart
		w.WriteString(fields[rgTxEnd])   // thickEnd
		w.WriteString("0")               // itemRgb
		w.WriteString(fields[rgExonCount])
		w.WriteString(blockSizes.String())
		w.WriteString(blockStarts.String())
		if err := w.EndLine(); err != nil {
			return errors.Wrapf(err, "bed: writing BED12 for %s line %d", name, lineNum)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "bed: %s", name)
	}
	return w.Flush()
}

// RefGeneToBed12Path converts a possibly gzip-compressed refGene.txt file
// into a BED12 file written at bedPath.
func RefGeneToBed12Path(refGenePath, bedPath string) (err error) {
	in, err := fileutil.Open(refGenePath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	ctx := vcontext.Background()
	out, err := file.Create(ctx, bedPath)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	return RefGeneToBed12(in, out.Writer(ctx), refGenePath)
}
