// Package registry tracks the set of currently connected client sessions
// and supports waiting for that set to drain and shutting it down.
package registry
