package session

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/xactodb/xacto/internal/engine"
	"github.com/xactodb/xacto/internal/registry"
	"github.com/xactodb/xacto/internal/wire"
	"github.com/xactodb/xacto/pkg/metrics"
)

// State is one of a session's lifecycle states.
type State int

const (
	// Active is the initial state: the session reads and dispatches
	// PUT/GET/COMMIT requests against its transaction.
	Active State = iota
	// FinalizingCommit is entered once COMMIT has been requested and
	// accepted; the session sends the commit reply and closes.
	FinalizingCommit
	// FinalizingAbort is entered once the transaction has aborted (by
	// write-rule conflict, cascade, or a wire error); the session sends
	// the abort reply and closes.
	FinalizingAbort
	// Closed is terminal: the connection has been torn down.
	Closed
)

// Session drives one client connection's transaction from ACTIVE through
// to CLOSED. Exactly one Session runs per accepted connection, in its own
// goroutine.
type Session struct {
	conn  net.Conn
	store *engine.Store
	txn   *engine.Transaction
	reg   *registry.Registry
	log   zerolog.Logger

	state State
}

// New creates a session for a freshly accepted connection, registering it
// with reg and creating a new transaction from mgr.
func New(conn net.Conn, store *engine.Store, mgr *engine.Manager, reg *registry.Registry, log zerolog.Logger) *Session {
	reg.Register(conn)
	txn := mgr.Create()
	return &Session{
		conn:  conn,
		store: store,
		txn:   txn,
		reg:   reg,
		log:   log.With().Uint64("txn_id", txn.ID).Logger(),
		state: Active,
	}
}

// Run drives the session to completion: it dispatches requests until the
// transaction reaches a terminal state or the connection fails, sends a
// final reply reflecting that outcome, and unregisters the connection.
// Run always returns (never propagates a network or protocol error to its
// caller); all such errors are converted into a transaction abort.
func (s *Session) Run() {
	defer s.close()

	for s.state == Active {
		if err := s.dispatchOne(); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) && !errors.Is(err, net.ErrClosed) {
				s.log.Error().Err(err).Msg("wire error, aborting transaction")
			}
			s.txn.Abort()
			s.state = FinalizingAbort
			break
		}
	}

	s.finalize()
}

// dispatchOne reads one request packet and applies it, transitioning
// s.state to FinalizingCommit or FinalizingAbort if the request settles
// the transaction. It returns a non-nil error only for wire-level
// failures (short read/write, EOF); MVCC aborts are reflected via state,
// not via an error return.
func (s *Session) dispatchOne() error {
	pkt, err := wire.ReadPacket(s.conn)
	if err != nil {
		return err
	}

	switch pkt.Header.Type {
	case wire.PutPacket:
		return s.handlePut()
	case wire.GetPacket:
		return s.handleGet()
	case wire.CommitPacket:
		return s.handleCommit()
	default:
		// An unrecognized request type is a protocol violation; treat it
		// the same as any other wire error.
		return errors.New("session: unrecognized packet type " + pkt.Header.Type.String())
	}
}

func (s *Session) handlePut() error {
	keyPkt, err := wire.ReadPacket(s.conn)
	if err != nil {
		return err
	}
	key := engine.NewKey(blobFromPayload(keyPkt))

	valPkt, err := wire.ReadPacket(s.conn)
	if err != nil {
		return err
	}
	value := blobFromPayload(valPkt)

	status := s.store.Put(s.txn, key, value)
	if status == engine.Aborted {
		// The write rule aborted tp internally (a transient reference);
		// release the session's own reference too. Abort is idempotent,
		// so this only discharges our ownership without re-notifying.
		s.txn.Abort()
		s.state = FinalizingAbort
		return nil
	}
	return s.sendReply(wire.StatusPending)
}

func (s *Session) handleGet() error {
	keyPkt, err := wire.ReadPacket(s.conn)
	if err != nil {
		return err
	}
	key := engine.NewKey(blobFromPayload(keyPkt))

	blob, status := s.store.Get(s.txn, key)
	if status == engine.Aborted {
		blob.Release()
		s.txn.Abort()
		s.state = FinalizingAbort
		return nil
	}

	if err := s.sendReply(wire.StatusPending); err != nil {
		blob.Release()
		return err
	}

	data := wire.Packet{Header: wire.Header{Type: wire.DataPacket}}
	if blob.IsNull() {
		data.Header.Null = true
	} else {
		data.Header.Size = uint32(blob.Size())
		data.Payload = blob.Content()
	}
	setTimestamp(&data.Header)
	err = wire.WritePacket(s.conn, data)
	blob.Release()
	return err
}

func (s *Session) handleCommit() error {
	timer := metrics.NewTimer()
	status := s.txn.Commit(context.Background())
	timer.ObserveDuration(metrics.CommitWaitDuration)

	if status == engine.Aborted {
		s.state = FinalizingAbort
		return nil
	}
	// The transaction is already committed, so a failed reply can no
	// longer abort it; the error is logged and the session closes.
	s.state = FinalizingCommit
	if err := s.sendReply(wire.StatusCommitted); err != nil {
		s.log.Debug().Err(err).Msg("failed to send commit reply")
	}
	return nil
}

// finalize sends the terminal reply matching s.state, if any is still
// owed (a commit/abort reply may already have been sent inline above;
// this only covers the case where the transaction aborted outside of an
// explicit client-visible reply path).
func (s *Session) finalize() {
	if s.state != FinalizingAbort {
		return
	}
	h := wire.Header{Type: wire.ReplyPacket, Status: wire.StatusAborted}
	setTimestamp(&h)
	if err := wire.WritePacket(s.conn, wire.Packet{Header: h}); err != nil {
		s.log.Debug().Err(err).Msg("failed to send final abort reply")
	}
}

func (s *Session) sendReply(status wire.Status) error {
	h := wire.Header{Type: wire.ReplyPacket, Status: status}
	setTimestamp(&h)
	return wire.WritePacket(s.conn, wire.Packet{Header: h})
}

func (s *Session) close() {
	switch s.state {
	case FinalizingCommit:
		metrics.CommitsTotal.Inc()
	case FinalizingAbort:
		metrics.AbortsTotal.Inc()
	}
	s.state = Closed
	s.reg.Unregister(s.conn)
	_ = s.conn.Close()
}

func blobFromPayload(pkt wire.Packet) *engine.Blob {
	if pkt.Header.Null || len(pkt.Payload) == 0 {
		return engine.NullBlob()
	}
	return engine.NewBlob(pkt.Payload)
}

func setTimestamp(h *wire.Header) {
	now := time.Now()
	h.TimestampSec = uint32(now.Unix())
	h.TimestampNsec = uint32(now.Nanosecond())
}
