package svo

// ChunkLen is the number of voxel words in a Chunk.
const ChunkLen = 256

// Chunk is a fixed-size block of packed voxel words as uploaded to the
// renderer.
type Chunk struct {
	Voxels [ChunkLen]uint32
}

// World is the set of chunks handed to the renderer at startup.
type World struct {
	Chunks []Chunk
}

// TryChunkFromSlice copies words into a Chunk. It fails with a
// *LengthError unless len(words) == ChunkLen.
func TryChunkFromSlice(words []uint32) (Chunk, error) {
	var c Chunk
	if len(words) != ChunkLen {
		return c, &LengthError{Expected: ChunkLen, Got: len(words)}
	}
	copy(c.Voxels[:], words)
	return c, nil
}

// ChunkFromSlice is like TryChunkFromSlice but panics on a length
// mismatch.
func ChunkFromSlice(words []uint32) Chunk {
	c, err := TryChunkFromSlice(words)
	if err != nil {
		panic(err)
	}
	return c
}

// CollectWorld builds the bootstrap payload: a single chunk whose words
// count up from 0.
func CollectWorld() World {
	words := make([]uint32, 0, ChunkLen)
	for i := range uint32(ChunkLen) {
		words = append(words, i)
	}
	return World{Chunks: []Chunk{ChunkFromSlice(words)}}
}
