// Package settings is sekret's process-wide configuration registry.
//
// A single Settings value, created on first use by Get, records which plugins
// and filters are configured. Plugins and Filters resolve that configuration
// into live objects and memoize the result until CacheBust. Transient swaps in
// a temporary configuration for the duration of a callback and always puts the
// previous one back, including when the callback fails or panics.
//
// The registry is not safe for concurrent use. Callers that share it between
// goroutines must serialize access themselves.
package settings
