package main

import (
	"fmt"
	"net"
	"time"

	"github.com/xactodb/xacto/internal/wire"
)

// Client wraps a single connection to a Xacto server for one-shot CLI
// commands: it speaks exactly the PUT/GET/COMMIT sequence its caller
// drives, and is not meant to be reused across transactions.
type Client struct {
	conn net.Conn
}

// Dial connects to addr and returns a Client bound to a fresh server-side
// transaction.
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the underlying connection, aborting the transaction if it
// has not already committed.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Put sends a PUT request and returns the transaction's status as
// reported by the server's reply.
func (c *Client) Put(key, value []byte) (string, error) {
	if err := wire.WritePacket(c.conn, wire.Packet{Header: wire.Header{Type: wire.PutPacket}}); err != nil {
		return "", err
	}
	if err := c.sendData(key); err != nil {
		return "", err
	}
	if err := c.sendData(value); err != nil {
		return "", err
	}
	return c.readReply()
}

// Get sends a GET request and returns the observed value (nil if the key
// has never been written) and the transaction's status.
func (c *Client) Get(key []byte) ([]byte, string, error) {
	if err := wire.WritePacket(c.conn, wire.Packet{Header: wire.Header{Type: wire.GetPacket}}); err != nil {
		return nil, "", err
	}
	if err := c.sendData(key); err != nil {
		return nil, "", err
	}

	status, err := c.readReply()
	if err != nil || status != "PENDING" {
		return nil, status, err
	}

	data, err := wire.ReadPacket(c.conn)
	if err != nil {
		return nil, "", err
	}
	if data.Header.Null {
		return nil, status, nil
	}
	return data.Payload, status, nil
}

// Commit sends a COMMIT request and returns the transaction's final
// status.
func (c *Client) Commit() (string, error) {
	if err := wire.WritePacket(c.conn, wire.Packet{Header: wire.Header{Type: wire.CommitPacket}}); err != nil {
		return "", err
	}
	return c.readReply()
}

func (c *Client) sendData(content []byte) error {
	p := wire.Packet{Header: wire.Header{Type: wire.DataPacket}}
	if len(content) == 0 {
		p.Header.Null = true
	} else {
		p.Header.Size = uint32(len(content))
		p.Payload = content
	}
	return wire.WritePacket(c.conn, p)
}

func (c *Client) readReply() (string, error) {
	p, err := wire.ReadPacket(c.conn)
	if err != nil {
		return "", err
	}
	switch p.Header.Status {
	case wire.StatusCommitted:
		return "COMMITTED", nil
	case wire.StatusAborted:
		return "ABORTED", nil
	default:
		return "PENDING", nil
	}
}
