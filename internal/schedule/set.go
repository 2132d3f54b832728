package schedule

// Set is the canonical match set, keyed by id with stable insertion order.
// Reconciliation semantics (first sufficiently-scoring match wins) depend on
// that order being deterministic, so all mutation must happen on one
// goroutine or under one exclusive lock owned by the caller.
type Set struct {
	order []string
	byID  map[string]*Match
}

// NewSet creates an empty canonical set.
func NewSet() *Set {
	return &Set{byID: make(map[string]*Match)}
}

// Len returns the number of matches in the set.
func (s *Set) Len() int {
	return len(s.order)
}

// Get returns the match with the given id.
func (s *Set) Get(id string) (*Match, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// Upsert inserts a match or, when the id already exists, overwrites its
// metadata while accumulating servers: the existing server list is kept in
// order and any new servers are appended with URL dedup. Server lists never
// regress on re-insertion.
func (s *Set) Upsert(m *Match) {
	existing, ok := s.byID[m.ID]
	if !ok {
		s.order = append(s.order, m.ID)
		s.byID[m.ID] = m
		return
	}

	incoming := m.Servers
	m.Servers = existing.Servers
	for _, srv := range incoming {
		m.AddServer(srv)
	}
	*existing = *m
}

// Matches returns the matches in insertion order. The returned slice is
// freshly allocated; the matches themselves are shared.
func (s *Set) Matches() []*Match {
	out := make([]*Match, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// TeamNames returns the display names of every team in the set, in insertion
// order. The translation fallback searches over this list.
func (s *Set) TeamNames() []string {
	out := make([]string, 0, 2*len(s.order))
	for _, id := range s.order {
		m := s.byID[id]
		out = append(out, m.Team1.Name, m.Team2.Name)
	}
	return out
}
