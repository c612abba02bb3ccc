package fileio

import (
	"bufio"
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"io"
	"os"

	"github.com/pkg/errors"
)

// BufferedWriter does buffered write to file
type BufferedWriter struct {
	file       *os.File
	stream     io.WriteCloser // LZ4 frame writer when compressing
	writer     *bufio.Writer
	wqLen      int
	compress   bool
	crc32Hash  uint32
	sha256Hash hash.Hash
}

// New creates new file for writing or returns error upon failing to do so
func (b *BufferedWriter) New(filename string, bufferSize, qlen int, sha bool) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	if sha {
		b.sha256Hash = sha256.New()
	}
	b.file = file

	var sink io.Writer = file
	if b.compress {
		b.stream = newLZ4Stream(file)
		sink = b.stream
	}

	// New buffered writer.
	b.writer = bufio.NewWriterSize(sink, bufferSize)
	b.wqLen = qlen
	return nil
}

// StartWriting starts goroutine for writing chunks of data to file
func (b *BufferedWriter) StartWriting() (chan<- []byte, <-chan Completion) {
	if b.file == nil {
		panic("cannot start writing without file handle")
	}
	done := make(chan Completion, 1)
	// Make write queue.
	stream := make(chan []byte, b.wqLen)
	// Start consuming queue in goroutine.
	go func(chunkStream chan []byte, result chan Completion) {
		var written int64
		var werr error

		for chunk := range chunkStream {
			// Keep draining after a failure so the producer never blocks.
			if werr != nil {
				continue
			}
			n, err := b.writer.Write(chunk)
			written += int64(n)
			if err != nil {
				werr = errors.Wrap(err, "write output file")
				continue
			}

			// Update hash.
			if b.sha256Hash != nil {
				progressiveChecksumSHA256(b.sha256Hash, chunk)
			} else {
				b.crc32Hash = progressiveChecksumCRC32(b.crc32Hash, chunk)
			}
		}

		// Write any remaining bytes.
		if err := b.writer.Flush(); err != nil && werr == nil {
			werr = errors.Wrap(err, "flush output file")
		}
		if b.stream != nil {
			if err := b.stream.Close(); err != nil && werr == nil {
				werr = errors.Wrap(err, "close lz4 stream")
			}
		}
		if err := b.file.Close(); err != nil && werr == nil {
			werr = errors.Wrap(err, "close output file")
		}

		var bytes []byte

		// Get SHA256 or CRC32 checksum for all data written so far.
		if b.sha256Hash != nil {
			bytes = b.sha256Hash.Sum(nil)
		} else {
			bytes = binary.BigEndian.AppendUint32(make([]byte, 0, 4), b.crc32Hash)
		}

		// Signal that all data has been written.
		result <- Completion{Checksum: bytes, Written: written, Err: werr}
		close(result)
	}(stream, done)
	return stream, done
}

// WriteChunks persists ordered chunks with a writer from factory and waits for completion
func WriteChunks(factory IOFactory, filename string, chunks [][]byte, bufferSize int, sha bool) Completion {
	writer := factory.NewWriter()
	if err := writer.New(filename, bufferSize, len(chunks)+1, sha); err != nil {
		return Completion{Err: err}
	}

	queue, done := writer.StartWriting()
	for _, chunk := range chunks {
		queue <- chunk
	}
	close(queue)

	return <-done
}
