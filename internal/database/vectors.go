package database

import (
	"encoding/binary"
	"fmt"
	"math"
)

// encodeVector packs v as a little-endian F32 blob.
func encodeVector(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector extracts a vector from binary format (F32 blob)
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding size: %d bytes is not a multiple of 4", len(blob))
	}
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4 : (i+1)*4])
		vector[i] = math.Float32frombits(bits)
	}
	return vector, nil
}
