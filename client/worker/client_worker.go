package worker

import (
	"sync/atomic"
)

// Assembler collects accepted blocks in arrival order
type Assembler struct {
	blocks     [][]byte
	blockCount atomic.Uint32
	duplicates atomic.Uint32
	byteCount  atomic.Uint64
	onBlock    func(block uint16, payload []byte)
}

// NewAssembler returns assembler that also forwards each new block to onBlock (may be nil)
func NewAssembler(onBlock func(block uint16, payload []byte)) *Assembler {
	return &Assembler{onBlock: onBlock}
}

// Accept appends new block. Caller guarantees block is next in sequence.
func (a *Assembler) Accept(block uint16, payload []byte) {
	// Empty final block carries nothing to keep.
	if len(payload) > 0 {
		a.blocks = append(a.blocks, payload)
	}
	a.blockCount.Add(1)
	a.byteCount.Add(uint64(len(payload)))

	if a.onBlock != nil {
		a.onBlock(block, payload)
	}
}

// Duplicate records a retransmitted block that was re-acknowledged
func (a *Assembler) Duplicate() {
	a.duplicates.Add(1)
}

// GetBlockStats returns blocks accepted, duplicates seen and payload bytes so far
func (a *Assembler) GetBlockStats() (int, int, int64) {
	return int(a.blockCount.Load()), int(a.duplicates.Load()), int64(a.byteCount.Load())
}

// Chunks returns accepted payloads in order
func (a *Assembler) Chunks() [][]byte {
	return a.blocks
}

// Bytes returns accepted payloads concatenated
func (a *Assembler) Bytes() []byte {
	out := make([]byte, 0, a.byteCount.Load())
	for _, chunk := range a.blocks {
		out = append(out, chunk...)
	}
	return out
}
