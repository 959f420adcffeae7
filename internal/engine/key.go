package engine

// Key wraps an owned Blob reference together with its precomputed bucket
// hash, and is used as map identity. Two keys are equal iff their blob
// contents compare equal and their precomputed hashes match.
type Key struct {
	blob *Blob
	hash int
}

// NewKey takes ownership of blob and computes its bucket hash.
func NewKey(blob *Blob) *Key {
	return &Key{blob: blob, hash: BlobHash(blob)}
}

// Hash returns the key's precomputed bucket hash, in [0, NumBuckets).
func (k *Key) Hash() int {
	return k.hash
}

// Equal reports whether k and other have equal content and hash.
func (k *Key) Equal(other *Key) bool {
	return k.hash == other.hash && BlobsEqual(k.blob, other.blob)
}

// Dispose releases the key's blob reference exactly once. The key must not
// be used again after disposal.
func (k *Key) Dispose() {
	k.blob.Release()
	k.blob = nil
}
