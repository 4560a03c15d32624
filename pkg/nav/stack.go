package nav

// DefaultHistoryDepth caps the in-app back stack when no depth is configured.
const DefaultHistoryDepth = 50

// Stack is the in-app back stack. It is independent of the browser's own
// history and never holds two consecutive equal routes.
type Stack struct {
	entries  []Route
	maxDepth int
}

// NewStack creates an empty stack. maxDepth <= 0 means unbounded; when the
// cap is reached the oldest entry is evicted.
func NewStack(maxDepth int) *Stack {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Stack{maxDepth: maxDepth}
}

// Push appends r unless it equals the current top. It reports whether the
// stack changed.
func (s *Stack) Push(r Route) bool {
	if top, ok := s.Top(); ok && top == r {
		return false
	}
	s.entries = append(s.entries, r)
	if s.maxDepth > 0 && len(s.entries) > s.maxDepth {
		s.entries = append(s.entries[:0], s.entries[len(s.entries)-s.maxDepth:]...)
	}
	return true
}

// Pop removes and returns the top entry. With a single entry the stack is
// left as is and that entry is returned.
func (s *Stack) Pop() Route {
	switch len(s.entries) {
	case 0:
		return Route{}
	case 1:
		return s.entries[0]
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return top
}

// Top returns the current entry.
func (s *Stack) Top() (Route, bool) {
	if len(s.entries) == 0 {
		return Route{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Previous returns the entry under the top.
func (s *Stack) Previous() (Route, bool) {
	if len(s.entries) < 2 {
		return Route{}, false
	}
	return s.entries[len(s.entries)-2], true
}

// Len returns the number of entries.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the stack, oldest first.
func (s *Stack) Entries() []Route {
	out := make([]Route, len(s.entries))
	copy(out, s.entries)
	return out
}

// Reset replaces the contents with a single entry.
func (s *Stack) Reset(r Route) {
	s.entries = append(s.entries[:0], r)
}
