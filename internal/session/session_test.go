package session

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xactodb/xacto/internal/engine"
	"github.com/xactodb/xacto/internal/registry"
	"github.com/xactodb/xacto/internal/wire"
	"github.com/xactodb/xacto/pkg/log"
)

func newTestSession(t *testing.T, store *engine.Store, mgr *engine.Manager) (*Session, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() { _ = client.Close() })
	reg := registry.New()
	return New(server, store, mgr, reg, log.Logger), client
}

func sendPacket(t *testing.T, conn net.Conn, p wire.Packet) {
	t.Helper()
	require.NoError(t, wire.WritePacket(conn, p))
}

func recvPacket(t *testing.T, conn net.Conn) wire.Packet {
	t.Helper()
	p, err := wire.ReadPacket(conn)
	require.NoError(t, err)
	return p
}

func TestSessionPutGetCommit(t *testing.T) {
	store := engine.NewStore()
	mgr := engine.NewManager()
	sess, client := newTestSession(t, store, mgr)

	done := make(chan struct{})
	go func() { sess.Run(); close(done) }()

	// PUT k=v1
	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.PutPacket}})
	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.DataPacket, Size: 1}, Payload: []byte("k")})
	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.DataPacket, Size: 2}, Payload: []byte("v1")})
	reply := recvPacket(t, client)
	assert.Equal(t, wire.ReplyPacket, reply.Header.Type)
	assert.Equal(t, wire.StatusPending, reply.Header.Status)

	// GET k
	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.GetPacket}})
	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.DataPacket, Size: 1}, Payload: []byte("k")})
	reply = recvPacket(t, client)
	require.Equal(t, wire.StatusPending, reply.Header.Status)
	data := recvPacket(t, client)
	assert.Equal(t, wire.DataPacket, data.Header.Type)
	assert.Equal(t, []byte("v1"), data.Payload)

	// COMMIT
	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.CommitPacket}})
	reply = recvPacket(t, client)
	assert.Equal(t, wire.StatusCommitted, reply.Header.Status)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not finish after commit")
	}
}

func TestSessionGetOnMissingKeyReturnsNull(t *testing.T) {
	store := engine.NewStore()
	mgr := engine.NewManager()
	sess, client := newTestSession(t, store, mgr)

	go sess.Run()

	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.GetPacket}})
	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.DataPacket, Size: 7}, Payload: []byte("missing")})
	reply := recvPacket(t, client)
	require.Equal(t, wire.StatusPending, reply.Header.Status)
	data := recvPacket(t, client)
	assert.True(t, data.Header.Null)

	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.CommitPacket}})
	reply = recvPacket(t, client)
	assert.Equal(t, wire.StatusCommitted, reply.Header.Status)
}

func TestSessionWriteWriteConflictAborts(t *testing.T) {
	store := engine.NewStore()
	mgr := engine.NewManager()

	// The session's transaction is created first and so gets the lower
	// ID. A transaction created afterwards (higher ID) then writes the
	// same key first; the session's subsequent write cannot be
	// serialized before it and must abort.
	sess, client := newTestSession(t, store, mgr)
	blocker := mgr.Create()
	require.Equal(t, engine.Pending, store.Put(blocker, engine.NewKey(engine.NewBlob([]byte("k"))), engine.NewBlob([]byte("blocker"))))

	done := make(chan struct{})
	go func() { sess.Run(); close(done) }()

	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.PutPacket}})
	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.DataPacket, Size: 1}, Payload: []byte("k")})
	sendPacket(t, client, wire.Packet{Header: wire.Header{Type: wire.DataPacket, Size: 2}, Payload: []byte("v2")})

	reply := recvPacket(t, client)
	assert.Equal(t, wire.StatusAborted, reply.Header.Status)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not finish after abort")
	}

	blocker.Commit(context.Background())
}
