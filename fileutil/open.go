// Package fileutil opens genomic text files for sequential reading,
// transparently decoding gzip-compressed streams.
package fileutil

import (
	"bufio"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	gfileio "github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// gzip streams start with these two bytes regardless of how the file is
// named.
var gzipMagic = [2]byte{0x1f, 0x8b}

type reader struct {
	io.Reader
	gz *gzip.Reader
	f  file.File
}

func (r *reader) Close() error {
	var err error
	if r.gz != nil {
		err = r.gz.Close()
	}
	if cerr := r.f.Close(vcontext.Background()); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Open opens path for sequential reading.  The first two bytes of the stream
// decide whether it is gzip-compressed; the content decides, not the file
// name.  Either way the returned stream yields decoded text from byte 0.
func Open(path string) (io.ReadCloser, error) {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "fileutil.Open:", path)
	}
	br := bufio.NewReader(f.Reader(ctx))
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		_ = f.Close(ctx)
		return nil, errors.E(err, "fileutil.Open:", path)
	}
	if len(magic) == 2 && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			_ = f.Close(ctx)
			return nil, errors.E(err, "fileutil.Open:", path)
		}
		return &reader{Reader: gz, gz: gz, f: f}, nil
	}
	if gfileio.DetermineType(path) == gfileio.Gzip {
		// A .gz name on an uncompressed stream usually means a botched
		// download or rename; keep going with the plain bytes.
		log.Error.Printf("fileutil.Open: %s is named like gzip but is not compressed", path)
	}
	return &reader{Reader: br, f: f}, nil
}
