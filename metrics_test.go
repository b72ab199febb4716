package smpp_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smppkit/smpp"
	"github.com/smppkit/smpp/internal/mock"
	"github.com/smppkit/smpp/pdu"
)

func TestMetricsCountSentRequests(t *testing.T) {
	bindTx := &pdu.BindTx{SystemID: "ESME", Password: "password"}
	bindTxResp := bindTx.Response("SMSC")
	e := newTestEncoder(0)
	conn := mock.NewConn().
		ByteWrite(e.i(bindTx)).ByteRead(e.s(bindTxResp)).
		Wait(1).
		Closed()

	m := smpp.NewMetrics("test")
	sess := smpp.NewSession(conn, smpp.SessionConf{Metrics: m})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := sess.Send(ctx, bindTx); err != nil {
		t.Fatalf("sending bind: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Errorf("closing session: %v", err)
	}

	if got := testutil.ToFloat64(m.RequestsSent.WithLabelValues("2")); got != 1 {
		t.Errorf("expected 1 bind_transmitter sent, got %v", got)
	}
	if errs := conn.Validate(); errs != nil {
		for _, err := range errs {
			t.Error(err)
		}
	}
}
