package formstate

// Parties that can close out the circulation.
const (
	CompletedByEmployer = "employer"
	CompletedByMedical  = "medical"
)

// CompletedBy returns the party that last completed its part of the
// circulation, or "" when none has.
func (s *PersistedFormState) CompletedBy() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completedBy
}

// SetCompletedBy records party as having completed and persists the marker
// immediately. Unknown parties are ignored.
func (s *PersistedFormState) SetCompletedBy(party string) {
	if party != CompletedByEmployer && party != CompletedByMedical {
		s.logger.Warn("ignoring unknown completing party", "party", party)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.completedBy = party
	if err := s.store.Set(KeyCompletedBy, party); err != nil {
		s.logPersistence("failed to save completion marker", persistenceError("write", KeyCompletedBy, err))
	}
}

// ClearCompletedBy removes the completion marker.
func (s *PersistedFormState) ClearCompletedBy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.completedBy = ""
	if err := s.store.Remove(KeyCompletedBy); err != nil {
		s.logPersistence("failed to clear completion marker", persistenceError("remove", KeyCompletedBy, err))
	}
}

func (s *PersistedFormState) loadCompletedBy() {
	v, err := s.store.Get(KeyCompletedBy)
	if err != nil {
		s.logLoadFailure(KeyCompletedBy, err)
		return
	}
	if v != CompletedByEmployer && v != CompletedByMedical {
		s.logger.Warn("ignoring unknown completion marker", "value", v)
		return
	}
	s.mu.Lock()
	s.completedBy = v
	s.mu.Unlock()
}
