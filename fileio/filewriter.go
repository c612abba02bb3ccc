package fileio

// Completion is delivered once all queued chunks are persisted
type Completion struct {
	Checksum []byte // CRC32 or SHA256 of uncompressed data
	Written  int64  // Uncompressed bytes written
	Err      error
}

type FileWriter interface {
	New(filename string, bufferSize, qlen int, sha bool) error
	StartWriting() (chan<- []byte, <-chan Completion)
}
