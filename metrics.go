package guardweb

import "sync/atomic"

// MetricID identifies a counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricLoginSuccess counts accepted login attempts.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected or failed login attempts.
	MetricLoginFailure
	// MetricRegisterSuccess counts accepted registrations.
	MetricRegisterSuccess
	// MetricRegisterFailure counts rejected or failed registrations.
	MetricRegisterFailure
	// MetricLogout counts explicit logouts.
	MetricLogout
	// MetricForcedLogout counts session invalidations not initiated by the
	// caller: rejected tokens, global 401 responses, corrupt persisted state.
	MetricForcedLogout
	// MetricValidateSuccess counts token probes that confirmed the credential.
	MetricValidateSuccess
	// MetricValidateFailure counts token probes that did not.
	MetricValidateFailure
	// MetricSessionRestored counts successful restores from persisted storage.
	MetricSessionRestored
	// MetricSessionRestoreFailed counts restores abandoned for missing or
	// corrupt persisted state.
	MetricSessionRestoreFailed
	// MetricStaleResponseDropped counts responses discarded because the
	// session generation advanced while the request was in flight.
	MetricStaleResponseDropped
	// MetricUnauthorizedResponse counts 401 responses that forced a logout.
	MetricUnauthorizedResponse
	// MetricGuardAllow counts navigations the guard let through unchanged.
	MetricGuardAllow
	// MetricGuardRedirectLogin counts navigations redirected to the login route.
	MetricGuardRedirectLogin
	// MetricGuardRedirectHome counts navigations redirected to the home route.
	MetricGuardRedirectHome
	// MetricPasswordChangeSuccess counts accepted password changes.
	MetricPasswordChangeSuccess
	// MetricPasswordChangeFailure counts rejected password changes.
	MetricPasswordChangeFailure
	// MetricPasswordResetRequest counts reset-credential requests.
	MetricPasswordResetRequest
	// MetricPasswordResetConfirm counts accepted reset confirmations.
	MetricPasswordResetConfirm
	// MetricAvatarUpdated counts accepted avatar uploads.
	MetricAvatarUpdated
	// MetricUserInfoRefreshed counts successful user record refreshes.
	MetricUserInfoRefreshed
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters for session and guard activity. Counters
// are stored in cache-line-padded slots and incremented atomically; the write
// path is allocation-free.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// NewMetrics creates a Metrics instance configured by cfg. When Enabled is
// false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether the instance records increments.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments the counter identified by id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value returns the current value of the counter identified by id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot returns a deep copy of the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: map[MetricID]uint64{}}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		if v := atomic.LoadUint64(&m.counters[id].value); v != 0 {
			snap.Counters[id] = v
		}
	}
	return snap
}
