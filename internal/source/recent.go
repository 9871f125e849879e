package source

// RecentSet is a fixed-capacity set of IDs that forgets the oldest insertion first.
// It is backed by a ring buffer holding insertion order and a map for lookups.
// RecentSet is not safe for concurrent use; Pipeline guards it.
type RecentSet struct {
	ring  []string
	head  int // index of the oldest ID
	size  int
	index map[string]struct{}
}

// NewRecentSet creates a RecentSet holding at most capacity IDs (minimum 1).
func NewRecentSet(capacity int) *RecentSet {
	if capacity < 1 {
		capacity = 1
	}
	return &RecentSet{
		ring:  make([]string, capacity),
		index: make(map[string]struct{}, capacity),
	}
}

// Contains reports whether id is currently remembered.
func (s *RecentSet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add remembers id. When the set is full the oldest ID is evicted and returned.
// Adding an ID already present is a no-op and does not refresh its position.
func (s *RecentSet) Add(id string) (evicted string, didEvict bool) {
	if s.Contains(id) {
		return "", false
	}

	if s.size == len(s.ring) {
		evicted = s.ring[s.head]
		delete(s.index, evicted)
		s.ring[s.head] = id
		s.head = (s.head + 1) % len(s.ring)
		didEvict = true
	} else {
		s.ring[(s.head+s.size)%len(s.ring)] = id
		s.size++
	}
	s.index[id] = struct{}{}
	return evicted, didEvict
}

// Len returns the number of remembered IDs.
func (s *RecentSet) Len() int {
	return s.size
}

// Cap returns the maximum number of remembered IDs.
func (s *RecentSet) Cap() int {
	return len(s.ring)
}

// IDs returns the remembered IDs, oldest first.
func (s *RecentSet) IDs() []string {
	out := make([]string, 0, s.size)
	for i := 0; i < s.size; i++ {
		out = append(out, s.ring[(s.head+i)%len(s.ring)])
	}
	return out
}
