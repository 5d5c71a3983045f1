package core

// Store owns the in-memory collection of notas. A slice keeps creation
// order, which drives both query output and the serialized document; the
// id index makes duplicate detection O(1) across every status. The store
// applies no business rules beyond id uniqueness.
type Store struct {
	notas []Nota
	index map[string]Status
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{index: make(map[string]Status)}
}

// Insert adds a nota. It fails if the id is already taken, regardless of
// the existing nota's status.
func (s *Store) Insert(n Nota) error {
	if existing, ok := s.index[n.ID]; ok {
		return &DuplicateIDError{ID: n.ID, Existing: existing}
	}
	s.notas = append(s.notas, n)
	s.index[n.ID] = n.Status
	return nil
}

// Get returns the nota with the given id.
func (s *Store) Get(id string) (Nota, error) {
	if _, ok := s.index[id]; !ok {
		return Nota{}, &NotFoundError{ID: id}
	}
	for _, n := range s.notas {
		if n.ID == id {
			return n, nil
		}
	}
	// Index and slice are kept in sync by every mutating method.
	return Nota{}, &NotFoundError{ID: id}
}

// Update replaces the nota stored under id, keeping its slot so creation
// order survives edits. The replacement keeps the same id.
func (s *Store) Update(id string, n Nota) error {
	for i := range s.notas {
		if s.notas[i].ID == id {
			s.notas[i] = n
			s.index[id] = n.Status
			return nil
		}
	}
	return &NotFoundError{ID: id}
}

// Remove deletes the nota with the given id and returns it.
func (s *Store) Remove(id string) (Nota, error) {
	for i, n := range s.notas {
		if n.ID == id {
			s.notas = append(s.notas[:i], s.notas[i+1:]...)
			delete(s.index, id)
			return n, nil
		}
	}
	return Nota{}, &NotFoundError{ID: id}
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []Nota {
	out := make([]Nota, len(s.notas))
	copy(out, s.notas)
	return out
}

// Clone returns an independent copy of the store. Snapshots for
// serialization use this so encoding can happen outside any lock.
func (s *Store) Clone() *Store {
	out := &Store{
		notas: make([]Nota, len(s.notas)),
		index: make(map[string]Status, len(s.index)),
	}
	copy(out.notas, s.notas)
	for id, st := range s.index {
		out.index[id] = st
	}
	return out
}

// Len returns the number of notas.
func (s *Store) Len() int { return len(s.notas) }

// StatusOf returns the status recorded for id in the uniqueness index.
func (s *Store) StatusOf(id string) (Status, bool) {
	st, ok := s.index[id]
	return st, ok
}

// Contains reports whether an id is taken.
func (s *Store) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}
