package engine

// version is one entry in a key's version chain: the value a particular
// transaction wrote, linked to its neighbors in creator-ID order. A
// version owns one reference on its creator transaction and one reference
// on its blob.
type version struct {
	creator *Transaction
	blob    *Blob
	next    *version
	prev    *version
}

// newVersion takes ownership of an Acquire'd reference on creator and on
// blob, and links the new version into neither list yet; the caller
// (via mapEntry.appendVersion) is responsible for splicing it into the chain.
func newVersion(creator *Transaction, blob *Blob) *version {
	return &version{creator: creator, blob: blob}
}

// dispose releases the version's held references. The version must
// already be unlinked from its chain.
func (v *version) dispose() {
	v.creator.Release()
	v.blob.Release()
	v.creator = nil
	v.blob = nil
	v.next = nil
	v.prev = nil
}
