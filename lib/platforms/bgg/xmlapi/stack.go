package xmlapi

// contextStack holds the local names of the currently open elements, the
// innermost element last.
type contextStack struct {
	names []string
}

func (s *contextStack) push(name string) {
	s.names = append(s.names, name)
}

// pop is a no-op on an empty stack, the tokenizer rejects unbalanced
// documents before that could matter.
func (s *contextStack) pop() {
	if len(s.names) == 0 {
		return
	}
	s.names = s.names[:len(s.names)-1]
}

func (s *contextStack) depth() int {
	return len(s.names)
}

// ancestorAt returns the element depth levels above the innermost one, 0 is
// the innermost element itself and 1 is its parent.
func (s *contextStack) ancestorAt(depth int) (string, bool) {
	idx := len(s.names) - 1 - depth
	if depth < 0 || idx < 0 {
		return "", false
	}
	return s.names[idx], true
}

func (s *contextStack) top() string {
	name, _ := s.ancestorAt(0)
	return name
}

func (s *contextStack) parentIs(name string) bool {
	parent, ok := s.ancestorAt(1)
	return ok && parent == name
}
