package coordinator

import "time"

// ProviderSession tracks one registered provider between RegisterProvider
// and UnregisterProvider/eviction.
type ProviderSession struct {
	ID         string
	ProviderID string
	DeviceIDs  []string

	LastUpdate time.Time

	// LastTickGeneration is nil until the session's first UpdateSignals
	// call, matching the "created: last_tick_generation=None" state in
	// spec.md §4.7's per-session state machine.
	LastTickGeneration *uint64
}

func newProviderSession(id, providerID string, deviceIDs []string, now time.Time) *ProviderSession {
	return &ProviderSession{
		ID:         id,
		ProviderID: providerID,
		DeviceIDs:  deviceIDs,
		LastUpdate: now,
	}
}

func (s *ProviderSession) ownsDevice(deviceID string) bool {
	for _, d := range s.DeviceIDs {
		if d == deviceID {
			return true
		}
	}
	return false
}

// evictStaleSessions removes every session other than excludeID whose
// LastUpdate is older than timeout, logging a warning for each. Callers
// must hold the coordinator's mutex.
func (c *Coordinator) evictStaleSessions(now time.Time, excludeID string) {
	for id, sess := range c.sessions {
		if id == excludeID {
			continue
		}
		if now.Sub(sess.LastUpdate) <= c.sessionTimeout {
			continue
		}
		delete(c.sessions, id)
		c.logger.Warn("evicting stale provider session",
			"session_id", id, "provider_id", sess.ProviderID, "idle", now.Sub(sess.LastUpdate))
	}
}
