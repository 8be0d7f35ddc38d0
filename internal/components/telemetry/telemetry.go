package telemetry

import (
	"fmt"
)

// API is an abstraction over logging/metrics.
// Components receive it instead of calling slog directly so tests can assert
// on what was reported.
type API interface {
	// ReportBroken reports a component that failed in a way the caller cannot recover from.
	//
	// The `id` names the component that broke, not the line that broke, think `fetcher.simple-fetch`
	// rather than `fetcher.simple-fetch.read-body`. Extra detail goes into params or a wrapped error.
	//
	// Formatting rules:
	// 1) all lowercase
	// 2) use underscores for large components
	// 3) use dashes for methods part of a larger component
	ReportBroken(id string, params ...any)

	// ReportWarning reports something that was recovered from but may be worth looking at,
	// ex. a form POST that failed and fell back to a plain GET.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information that is only shown with --verbose.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the size of something at the current time, ex. how many
	// options a scan produced.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, kind of like creating a
// "sub" logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

// NewScopedAPI creates a ScopedAPI out of a given namespace and another api.
func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}
