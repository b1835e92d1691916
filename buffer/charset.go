package buffer

// CharacterSet is a set of bytes used as token break characters by
// ParseToken.
type CharacterSet [4]uint64

// NewCharacterSet builds a set containing every byte of chars.
func NewCharacterSet(chars string) *CharacterSet {
	var cs CharacterSet
	for i := 0; i < len(chars); i++ {
		cs.Add(chars[i])
	}
	return &cs
}

// Add inserts c into the set.
func (cs *CharacterSet) Add(c byte) {
	cs[c>>6] |= 1 << (c & 63)
}

// Contains reports whether c is in the set.
func (cs *CharacterSet) Contains(c byte) bool {
	return cs[c>>6]&(1<<(c&63)) != 0
}
