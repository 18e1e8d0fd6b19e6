package name

// Set is a NameAwareDict used as name -> name.
type Set struct {
	d *Dict[*Name]
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{d: NewDict[*Name]()}
}

// Add inserts n into the set.
func (s *Set) Add(n *Name) {
	s.d.Set(n, n)
}

// Contains reports whether a name equal to n is in the set.
func (s *Set) Contains(n *Name) bool {
	return s.d.Contains(n)
}

// Delete removes a name equal to n from the set.
func (s *Set) Delete(n *Name) {
	s.d.Delete(n)
}

// Len returns the number of distinct names in the set.
func (s *Set) Len() int {
	return s.d.Len()
}

// Names returns every distinct name in the set.
func (s *Set) Names() []*Name {
	return s.d.Keys()
}
