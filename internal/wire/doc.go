// Package wire implements the Xacto packet protocol: a fixed-size header
// (see HeaderSize) followed by an optional payload of the length the
// header names.
package wire
