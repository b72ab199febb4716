package smpp

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/smppkit/smpp/internal/mock"
	"github.com/smppkit/smpp/pdu"
)

func encodeTestPDU(t *testing.T, p pdu.PDU, seq uint32, status pdu.Status) []byte {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	enc := pdu.NewEncoder(buf, nil)
	if _, err := enc.Encode(p, pdu.EncodeSeq(seq), pdu.EncodeStatus(status)); err != nil {
		t.Fatalf("encoding test pdu: %v", err)
	}
	return buf.Bytes()
}

func TestKeepAlivePingCompletesOnResponse(t *testing.T) {
	bindTRx := &pdu.BindTRx{SystemID: "ESME", Password: "password"}
	bindTRxResp := bindTRx.Response("SMSC")
	enq := &pdu.EnquireLink{}
	enqResp := &pdu.EnquireLinkResp{}

	conn := mock.NewConn().
		ByteWrite(encodeTestPDU(t, bindTRx, 1, pdu.StatusOK)).ByteRead(encodeTestPDU(t, bindTRxResp, 1, pdu.StatusOK)).
		ByteWrite(encodeTestPDU(t, enq, 2, pdu.StatusOK)).ByteRead(encodeTestPDU(t, enqResp, 2, pdu.StatusOK)).
		Wait(1).
		Closed()

	sess := NewSession(conn, SessionConf{SystemID: "test"})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := sess.Send(ctx, bindTRx); err != nil {
		t.Fatalf("binding test session: %v", err)
	}

	sess.keepAlive = newKeepAlive(sess, KeepAliveConf{MaxPending: 1})
	sess.keepAlive.ping()

	deadline := time.After(time.Second)
	for {
		sess.keepAlive.mu.Lock()
		n := len(sess.keepAlive.pending)
		sess.keepAlive.mu.Unlock()
		if n == 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("keepalive ping never completed")
		case <-time.After(2 * time.Millisecond):
		}
	}

	if err := sess.Close(); err != nil {
		t.Errorf("closing session: %v", err)
	}
	if errs := conn.Validate(); errs != nil {
		for _, err := range errs {
			t.Error(err)
		}
	}
}

func TestKeepAlivePingClosesSessionWhenPendingExceeded(t *testing.T) {
	bindTRx := &pdu.BindTRx{SystemID: "ESME", Password: "password"}
	bindTRxResp := bindTRx.Response("SMSC")
	enq := &pdu.EnquireLink{}

	conn := mock.NewConn().
		ByteWrite(encodeTestPDU(t, bindTRx, 1, pdu.StatusOK)).ByteRead(encodeTestPDU(t, bindTRxResp, 1, pdu.StatusOK)).
		ByteWrite(encodeTestPDU(t, enq, 2, pdu.StatusOK)).NoResp().
		Closed()

	sess := NewSession(conn, SessionConf{SystemID: "test"})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := sess.Send(ctx, bindTRx); err != nil {
		t.Fatalf("binding test session: %v", err)
	}

	sess.keepAlive = newKeepAlive(sess, KeepAliveConf{MaxPending: 1})
	sess.keepAlive.ping()
	sess.keepAlive.ping() // exceeds MaxPending, should trigger async Close

	select {
	case <-sess.NotifyClosed():
	case <-time.After(time.Second):
		t.Fatal("session was not closed after exceeding max pending keepalive pings")
	}
}
