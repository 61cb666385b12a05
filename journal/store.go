package journal

// Store is the in-memory journal for one session. Records are kept in
// submission order, oldest first. There is one writer, so no locking.
type Store struct {
	records []Record
}

func NewStore() *Store {
	return &Store{}
}

// Append adds r after every existing record.
func (s *Store) Append(r Record) {
	s.records = append(s.records, r)
}

// LoadSnapshot replaces the whole journal with records.
func (s *Store) LoadSnapshot(records []Record) {
	s.records = append([]Record(nil), records...)
}

// All returns a copy of the records in submission order.
func (s *Store) All() []Record {
	return append([]Record(nil), s.records...)
}

func (s *Store) Len() int {
	return len(s.records)
}

// Find returns the record with the given id.
func (s *Store) Find(id string) (Record, bool) {
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}
