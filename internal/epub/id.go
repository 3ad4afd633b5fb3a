package epub

// IDSequence generates unique identifier strings from a monotonically
// increasing counter. The counter is rendered as a bijective mixed-radix
// numeral: the first character is drawn from one alphabet, every further
// character from another, least significant digit first. Distinct counter
// values always render to distinct strings, so identifiers are never reused.
type IDSequence struct {
	first []byte
	rest  []byte
	n     uint64
}

// NewNameIDs returns a sequence suitable for container entry names:
// digits and lowercase letters only, safe for case-insensitive filesystems.
func NewNameIDs() *IDSequence {
	return &IDSequence{
		first: []byte("0123456789abcdefghijklmnopqrstuvwxyz"),
		rest:  []byte("0123456789abcdefghijklmnopqrstuvwxyz"),
	}
}

// NewItemIDs returns a sequence suitable for XML id attributes. The first
// alphabet contains letters only, because an XML Name must not start with
// a digit.
func NewItemIDs() *IDSequence {
	return &IDSequence{
		first: []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"),
		rest:  []byte("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"),
	}
}

// Next renders the current counter value and advances the sequence.
func (s *IDSequence) Next() string {
	n := s.n
	s.n++

	buf := []byte{s.first[n%uint64(len(s.first))]}
	n /= uint64(len(s.first))
	for n != 0 {
		buf = append(buf, s.rest[n%uint64(len(s.rest))])
		n /= uint64(len(s.rest))
	}
	return string(buf)
}
