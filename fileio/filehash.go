package fileio

import (
	"crypto/sha256"
	"hash"
	"hash/crc32"
	"io"
	"os"

	"github.com/pkg/errors"
)

// GetFileChecksumSHA256 returns SHA256 checksum of given file
func GetFileChecksumSHA256(file string) ([]byte, error) {
	return fileChecksum(file, sha256.New())
}

// GetFileChecksumCRC32 returns CRC32 checksum of given file
func GetFileChecksumCRC32(file string) ([]byte, error) {
	return fileChecksum(file, crc32.New(crc32.IEEETable))
}

func fileChecksum(file string, h hash.Hash) ([]byte, error) {
	handle, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "open for checksum")
	}
	defer handle.Close()

	if _, err := io.CopyBuffer(h, handle, make([]byte, 64*1024)); err != nil {
		return nil, errors.Wrap(err, "read for checksum")
	}

	return h.Sum(nil), nil
}

// progressiveChecksumSHA256 incrementally calculates SHA256 checksum
func progressiveChecksumSHA256(shaHash hash.Hash, data []byte) hash.Hash {
	if shaHash == nil {
		shaHash = sha256.New()
	}
	if len(data) > 0 {
		shaHash.Write(data)
	}
	return shaHash
}

// progressiveChecksumCRC32 incrementally calculates CRC32 checksum
func progressiveChecksumCRC32(hash uint32, data []byte) uint32 {
	return crc32.Update(hash, crc32.IEEETable, data)
}
