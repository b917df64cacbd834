package history

// Session ties a Store to the Storage it was loaded from. It is the
// surface the command-line shell uses: load once at startup, record and
// read while running, save once when done.
type Session struct {
	store   *Store
	storage Storage
}

// Load reads the persisted history from storage and wraps it in a Session.
func Load(storage Storage, opts ...StoreOption) *Session {
	return &Session{
		store:   NewStore(storage.Load(), opts...),
		storage: storage,
	}
}

// Record remembers query as the most recent search.
func (s *Session) Record(query string) {
	s.store.Record(query)
}

// Queries returns the remembered queries, most recent first.
func (s *Session) Queries() []string {
	return s.store.Queries()
}

// Entries returns a copy of the remembered entries.
func (s *Session) Entries() Sequence {
	return s.store.Entries()
}

// Remove forgets query and reports whether it was remembered.
func (s *Session) Remove(query string) bool {
	return s.store.Remove(query)
}

// Clear forgets every query.
func (s *Session) Clear() {
	s.store.Clear()
}

// Location describes where the history is persisted.
func (s *Session) Location() string {
	return s.storage.Location()
}

// Save writes the current history back to storage. Failures are returned
// to the caller and never retried.
func (s *Session) Save() error {
	return s.storage.Save(s.store.Entries())
}
