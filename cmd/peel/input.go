package main

import (
	"bytes"
	"io"

	"github.com/mel2oo/go-peel/mempool"
)

// inputPoolSize and inputChunkSize bound the pooled buffer used to stage a
// dissection input before it is handed to the driver: large enough for any
// realistic single capture, in fixed-size chunks. Each readPooledInput call
// builds its own pool, so chunks are not shared between calls.
const (
	inputPoolSize_bytes  = 64 << 20
	inputChunkSize_bytes = 32 << 10
)

// readPooledInput drains r through a mempool-backed buffer and returns a
// materialized copy of the bytes read. The pooled buffer (and its
// memview.MemView) are both released back to the pool before this function
// returns; the returned slice owns independent storage.
func readPooledInput(r io.Reader) ([]byte, error) {
	pool, err := mempool.MakeBufferPool(inputPoolSize_bytes, inputChunkSize_bytes)
	if err != nil {
		return nil, err
	}

	buf := pool.NewBuffer()
	defer buf.Release()

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	mv := buf.Bytes()
	if _, err := io.Copy(&out, mv.CreateReader()); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
