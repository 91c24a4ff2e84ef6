package internal

// URLSet remembers URLs in the order they were first added.
type URLSet struct {
	seen  map[string]struct{}
	order []string
}

func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add reports whether url was new.
func (s *URLSet) Add(url string) bool {
	if _, ok := s.seen[url]; ok {
		return false
	}
	s.seen[url] = struct{}{}
	s.order = append(s.order, url)
	return true
}

func (s *URLSet) Len() int {
	return len(s.order)
}

// Items returns a copy of the URLs in insertion order.
func (s *URLSet) Items() []string {
	return append([]string(nil), s.order...)
}
