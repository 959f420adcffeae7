package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadHeader blocks until a complete header has been read from r, or
// returns the first read error encountered (including io.EOF on a clean
// close between packets).
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, err
	}
	return Header{
		Type:          Type(buf[0]),
		Status:        Status(buf[1]),
		Null:          buf[2] != 0,
		Size:          binary.BigEndian.Uint32(buf[3:7]),
		TimestampSec:  binary.BigEndian.Uint32(buf[7:11]),
		TimestampNsec: binary.BigEndian.Uint32(buf[11:15]),
	}, nil
}

// WriteHeader writes h's fixed-size encoding to w in full, or returns the
// first write error encountered.
func WriteHeader(w io.Writer, h Header) error {
	var buf [HeaderSize]byte
	buf[0] = byte(h.Type)
	buf[1] = byte(h.Status)
	if h.Null {
		buf[2] = 1
	}
	binary.BigEndian.PutUint32(buf[3:7], h.Size)
	binary.BigEndian.PutUint32(buf[7:11], h.TimestampSec)
	binary.BigEndian.PutUint32(buf[11:15], h.TimestampNsec)
	_, err := w.Write(buf[:])
	return err
}

// ReadPayload reads exactly size bytes from r. Called after a header
// whose Size field is nonzero and Null is false.
func ReadPayload(r io.Reader, size uint32) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// WritePayload writes data to w in full.
func WritePayload(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}

// Packet is a complete header plus its optional payload, as exchanged
// between ReadPacket/WritePacket and a session.
type Packet struct {
	Header  Header
	Payload []byte
}

// ReadPacket reads a header and, if it names a nonzero, non-null size, its
// payload.
func ReadPacket(r io.Reader) (Packet, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return Packet{}, err
	}
	if h.Null || h.Size == 0 {
		return Packet{Header: h}, nil
	}
	payload, err := ReadPayload(r, h.Size)
	if err != nil {
		return Packet{}, fmt.Errorf("wire: reading %d-byte payload for %s: %w", h.Size, h.Type, err)
	}
	return Packet{Header: h, Payload: payload}, nil
}

// WritePacket writes p's header followed by its payload, if any. A
// payload is written whenever len(p.Payload) > 0, regardless of the
// Null/Size fields already set on the header (callers should set those
// consistently with the payload they pass).
func WritePacket(w io.Writer, p Packet) error {
	if err := WriteHeader(w, p.Header); err != nil {
		return fmt.Errorf("wire: writing header for %s: %w", p.Header.Type, err)
	}
	if len(p.Payload) > 0 {
		if err := WritePayload(w, p.Payload); err != nil {
			return fmt.Errorf("wire: writing %d-byte payload for %s: %w", len(p.Payload), p.Header.Type, err)
		}
	}
	return nil
}
