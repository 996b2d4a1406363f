package telemetry

import (
	"fmt"
)

// API is an abstraction over logging/metrics so components can be asserted
// on in tests.
//
// note: fault injection point
type API interface {
	// ReportBroken reports a component that failed in a way that stops the run
	ReportBroken(id string, params ...any)

	// ReportWarning reports a scenario that is not fatal but may be worth a look
	ReportWarning(id string, params ...any)

	// ReportDebug reports information only useful when debugging
	ReportDebug(message string, params ...any)

	// ReportProgress reports a human readable progress line, these are always shown
	ReportProgress(message string, attrs ...any)

	// ReportCount reports the current count of a specific event at the current time,
	// these counts should not be summed but interpreted as points of data over time.
	ReportCount(id string, count int64)
}

// ScopedAPI is a telemetry API that attaches a namespace to the ids of another API,
// similar to creating a "sub" logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

// NewScopedAPI creates a ScopedAPI out of a given namespace and another api.
func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return fmt.Sprintf("%s:%s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(message string, params ...any) {
	s.inner.ReportDebug(s.scoped(message), params...)
}

func (s ScopedAPI) ReportProgress(message string, attrs ...any) {
	s.inner.ReportProgress(message, attrs...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}
