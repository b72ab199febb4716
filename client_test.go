package smpp_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/smppkit/smpp"
	"github.com/smppkit/smpp/pdu"
)

func TestClientReconnectsAfterConnectionLoss(t *testing.T) {
	const addr = ":30305"
	srv := smpp.NewServer(addr, smpp.SessionConf{
		Handler: smpp.HandlerFunc(func(ctx *smpp.Context) {
			if ctx.CommandID() == pdu.BindTransceiverID {
				btrx, err := ctx.BindTRx()
				if err != nil {
					t.Errorf(err.Error())
				}
				ctx.Respond(btrx.Response("TestingServer"), pdu.StatusOK)
			}
		}),
	})
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			t.Errorf("Expected no error on server close %v", err)
		}
	}()
	time.Sleep(time.Millisecond * 10)
	defer srv.Close()

	var lost, reconnected int32
	cl, err := smpp.NewClient(smpp.ClientConf{
		BindType: smpp.ClientTRx,
		BindConf: smpp.BindConf{Addr: addr, SystemID: "Client", Password: "password"},
		Backoff: func() backoff.BackOff {
			return backoff.NewConstantBackOff(time.Millisecond)
		},
		MaxReconnectAttempts: -1,
		ConnectionLost:       func(err error) { atomic.AddInt32(&lost, 1) },
		Reconnected:          func(sess *smpp.Session) { atomic.AddInt32(&reconnected, 1) },
	})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	defer cl.Disconnect()

	if atomic.LoadInt32(&reconnected) != 1 {
		t.Fatalf("expected Reconnected to fire once on initial connect, got %d", reconnected)
	}

	first := cl.Session()
	first.Close()

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&reconnected) < 2 {
		select {
		case <-deadline:
			t.Fatal("client did not reconnect after connection loss")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if atomic.LoadInt32(&lost) == 0 {
		t.Error("expected ConnectionLost to fire")
	}
	if cl.Session() == first {
		t.Error("expected client to hold a new session after reconnecting")
	}
}
