package formstate

import "time"

// StartAutosave persists the state every interval on a background
// goroutine. Starting while already running is a logged no-op.
func (s *PersistedFormState) StartAutosave(interval time.Duration) {
	s.autosaveMu.Lock()
	defer s.autosaveMu.Unlock()

	if s.stopCh != nil {
		s.logger.Warn("autosave already started")
		return
	}
	if interval <= 0 {
		s.logger.Warn("autosave interval must be positive", "interval", interval.String())
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	s.stopCh, s.doneCh = stop, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.SaveToStorage()
			}
		}
	}()

	s.logger.Debug("autosave started", "interval", interval.String())
}

// StopAutosave stops the autosave goroutine and waits for it to exit.
// Stopping when not running does nothing.
func (s *PersistedFormState) StopAutosave() {
	s.autosaveMu.Lock()
	stop, done := s.stopCh, s.doneCh
	s.stopCh, s.doneCh = nil, nil
	s.autosaveMu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	s.logger.Debug("autosave stopped")
}

// AutosaveRunning reports whether the autosave goroutine is active.
func (s *PersistedFormState) AutosaveRunning() bool {
	s.autosaveMu.Lock()
	defer s.autosaveMu.Unlock()
	return s.stopCh != nil
}
