/*
Package session drives a single client connection through its
transaction's lifecycle: one goroutine per connection reads request
packets, applies them against the engine, and writes replies, until the
transaction reaches a terminal state or the connection is closed.
*/
package session
