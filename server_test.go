package smpp_test

import (
	"context"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smppkit/smpp"
	"github.com/smppkit/smpp/pdu"
)

const (
	TestAddr = ":30303"
)

func TestSMPPServer(t *testing.T) {
	sessConf := smpp.SessionConf{
		Handler: smpp.HandlerFunc(func(ctx *smpp.Context) {
			switch ctx.CommandID() {
			case pdu.BindTransceiverID:
				btrx, err := ctx.BindTRx()
				if err != nil {
					t.Errorf(err.Error())
				}
				resp := btrx.Response("TestingServer")
				if err := ctx.Respond(resp, pdu.StatusOK); err != nil {
					t.Errorf(err.Error())
				}
			}
		}),
	}
	srv := smpp.NewServer(TestAddr, sessConf)
	go func() {
		err := srv.ListenAndServe()
		if err != nil {
			t.Errorf("Expected no error on server close %v", err)
		}
	}()
	time.Sleep(time.Millisecond * 10)
	sess1 := bindToServer(TestAddr, smpp.HandlerFunc(func(ctx *smpp.Context) {
		switch ctx.CommandID() {
		case pdu.UnbindID:
			ubd, err := ctx.Unbind()
			if err != nil {
				t.Errorf(err.Error())
			}
			resp := ubd.Response()
			if err := ctx.Respond(resp, pdu.StatusOK); err != nil {
				t.Errorf(err.Error())
			}
		}
	}))
	sess2 := bindToServer(TestAddr, smpp.HandlerFunc(func(ctx *smpp.Context) {
		switch ctx.CommandID() {
		case pdu.UnbindID:
			ubd, err := ctx.Unbind()
			if err != nil {
				t.Errorf(err.Error())
			}
			resp := ubd.Response()
			if err := ctx.Respond(resp, pdu.StatusOK); err != nil {
				t.Errorf(err.Error())
			}
		}
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := srv.Unbind(ctx)
	if err != nil {
		t.Error(err.Error())
	}
	select {
	case <-sess1.NotifyClosed():
	case <-time.After(100 * time.Millisecond):
		t.Errorf("session %s was not closed in time", sess1)
	}
	select {
	case <-sess2.NotifyClosed():
	case <-time.After(100 * time.Millisecond):
		t.Errorf("session %s was not closed in time", sess2)
	}
}

func TestServerAuthenticateAndLifecycleHooks(t *testing.T) {
	const addr = ":30304"
	sessConf := smpp.SessionConf{
		Handler: smpp.HandlerFunc(func(ctx *smpp.Context) {
			if ctx.CommandID() == pdu.BindTransceiverID {
				btrx, err := ctx.BindTRx()
				if err != nil {
					t.Errorf(err.Error())
				}
				ctx.Respond(btrx.Response("TestingServer"), pdu.StatusOK)
			}
		}),
	}
	var created, bound, destroyed int32
	srv := smpp.NewServer(addr, sessConf)
	srv.Authenticate = smpp.AuthenticatorFunc(func(systemID, password, systemType string) error {
		if password != "password" {
			return smpp.ErrAuthFailed
		}
		return nil
	})
	srv.SessionCreated = func(sess *smpp.Session) { atomic.AddInt32(&created, 1) }
	srv.SessionBound = func(sess *smpp.Session) { atomic.AddInt32(&bound, 1) }
	srv.SessionDestroyed = func(sess *smpp.Session) { atomic.AddInt32(&destroyed, 1) }

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			t.Errorf("Expected no error on server close %v", err)
		}
	}()
	time.Sleep(time.Millisecond * 10)
	defer srv.Close()

	if _, err := smpp.BindTRx(smpp.SessionConf{}, smpp.BindConf{Addr: addr, SystemID: "Client", Password: "wrong"}); err == nil {
		t.Error("expected bind with bad credentials to fail")
	}

	sess, err := smpp.BindTRx(smpp.SessionConf{}, smpp.BindConf{Addr: addr, SystemID: "Client", Password: "password"})
	if err != nil {
		t.Fatalf("binding with correct credentials: %v", err)
	}
	defer sess.Close()

	deadline := time.After(200 * time.Millisecond)
	for atomic.LoadInt32(&bound) == 0 {
		select {
		case <-deadline:
			t.Fatal("SessionBound hook was not fired")
		case <-time.After(2 * time.Millisecond):
		}
	}
	if atomic.LoadInt32(&created) < 2 {
		t.Errorf("expected SessionCreated to fire for both connection attempts, got %d", created)
	}
}

func bindToServer(bind string, hf smpp.HandlerFunc) *smpp.Session {
	bc := smpp.BindConf{
		Addr:     bind,
		SystemID: "Client",
		Password: "password",
	}
	sc := smpp.SessionConf{
		Handler: hf,
	}
	sess, err := smpp.BindTRx(sc, bc)
	if err != nil {
		log.Fatalf("error during bind %v", err)
	}
	return sess
}
