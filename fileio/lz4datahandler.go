package fileio

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// newLZ4Stream wraps w in an LZ4 frame writer
func newLZ4Stream(w io.Writer) io.WriteCloser {
	zw := lz4.NewWriter(w)
	zw.Apply(lz4.BlockChecksumOption(true), lz4.CompressionLevelOption(lz4.Fast))
	return zw
}

// NewLZ4Reader returns reader that inflates an LZ4 frame stream
func NewLZ4Reader(r io.Reader) io.Reader {
	return lz4.NewReader(r)
}
