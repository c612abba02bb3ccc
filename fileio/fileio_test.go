package fileio

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func chunks() [][]byte {
	return [][]byte{
		bytes.Repeat([]byte("a"), 512),
		bytes.Repeat([]byte("b"), 512),
		[]byte("tail"),
	}
}

func joined() []byte {
	return bytes.Join(chunks(), nil)
}

func TestWriteChunksPlainCRC32(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(c.TempDir(), "out.bin")
	done := WriteChunks(NewFactory(false), path, chunks(), 4096, false)
	c.Assert(done.Err, qt.IsNil)
	c.Assert(done.Written, qt.Equals, int64(1028))

	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(data, qt.DeepEquals, joined())

	want := binary.BigEndian.AppendUint32(nil, crc32.ChecksumIEEE(joined()))
	c.Assert(done.Checksum, qt.DeepEquals, want)

	onDisk, err := GetFileChecksumCRC32(path)
	c.Assert(err, qt.IsNil)
	c.Assert(onDisk, qt.DeepEquals, want)
}

func TestWriteChunksSHA256(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(c.TempDir(), "out.bin")
	done := WriteChunks(NewFactory(false), path, chunks(), 64, true)
	c.Assert(done.Err, qt.IsNil)

	sum := sha256.Sum256(joined())
	c.Assert(done.Checksum, qt.DeepEquals, sum[:])

	onDisk, err := GetFileChecksumSHA256(path)
	c.Assert(err, qt.IsNil)
	c.Assert(onDisk, qt.DeepEquals, sum[:])
}

func TestWriteChunksLZ4(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(c.TempDir(), "out.bin.lz4")
	done := WriteChunks(NewFactory(true), path, chunks(), 4096, false)
	c.Assert(done.Err, qt.IsNil)
	c.Assert(done.Written, qt.Equals, int64(1028))

	// Checksum covers the uncompressed payload.
	c.Assert(done.Checksum, qt.DeepEquals, binary.BigEndian.AppendUint32(nil, crc32.ChecksumIEEE(joined())))

	file, err := os.Open(path)
	c.Assert(err, qt.IsNil)
	defer file.Close()

	data, err := io.ReadAll(NewLZ4Reader(file))
	c.Assert(err, qt.IsNil)
	c.Assert(data, qt.DeepEquals, joined())

	info, err := os.Stat(path)
	c.Assert(err, qt.IsNil)
	c.Assert(info.Size() < int64(len(joined())), qt.IsTrue)
}

func TestWriteChunksEmpty(t *testing.T) {
	c := qt.New(t)

	path := filepath.Join(c.TempDir(), "empty.bin")
	done := WriteChunks(NewFactory(false), path, nil, 4096, false)
	c.Assert(done.Err, qt.IsNil)
	c.Assert(done.Written, qt.Equals, int64(0))

	info, err := os.Stat(path)
	c.Assert(err, qt.IsNil)
	c.Assert(info.Size(), qt.Equals, int64(0))
}

func TestWriteChunksBadPath(t *testing.T) {
	c := qt.New(t)

	done := WriteChunks(NewFactory(false), filepath.Join(c.TempDir(), "missing", "out.bin"), chunks(), 4096, false)
	c.Assert(done.Err, qt.ErrorMatches, "create output file: .*")
}

func TestChecksumMissingFile(t *testing.T) {
	c := qt.New(t)

	_, err := GetFileChecksumCRC32(filepath.Join(c.TempDir(), "nope"))
	c.Assert(err, qt.ErrorMatches, "open for checksum: .*")
}
