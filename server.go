package smpp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/smppkit/smpp/pdu"
)

// tcpKeepAliveListener sets TCP keep-alive timeouts on accepted
// connections. It's used by ListenAndServe and ListenAndServeTLS so
// dead TCP connections (e.g. closing laptop mid-download) eventually
// go away.
type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (c net.Conn, err error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return
	}
	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)
	return tc, nil
}

// Authenticator validates the credentials carried on a peer's first bind
// request before the session is handed to the configured Handler.
type Authenticator interface {
	Authenticate(systemID, password, systemType string) error
}

// AuthenticatorFunc adapts a plain function into an Authenticator.
type AuthenticatorFunc func(systemID, password, systemType string) error

// Authenticate implements Authenticator.
func (f AuthenticatorFunc) Authenticate(systemID, password, systemType string) error {
	return f(systemID, password, systemType)
}

// ErrAuthFailed is the error an Authenticator should wrap or return when
// credentials are rejected; Server reports it with ESME_RINVPASWD.
var ErrAuthFailed = fmt.Errorf("smpp: authentication failed")

// Server implements SMPP SMSC server.
type Server struct {
	Addr        string
	SessionConf *SessionConf

	// Authenticate, when set, gates every incoming bind_transmitter,
	// bind_receiver and bind_transceiver request. A non-nil error fails
	// the bind with ESME_RINVPASWD and closes the session without ever
	// reaching SessionConf.Handler.
	Authenticate Authenticator

	// MaxConnections caps how many sessions may be accepted concurrently.
	// Zero means unlimited. Connections beyond the cap are accepted and
	// then closed immediately, the way the teacher's accept loop already
	// handles other fatal per-connection conditions.
	MaxConnections int

	// SessionCreated, SessionBound and SessionDestroyed are lifecycle
	// hooks fired as a server-side session progresses: once a Session is
	// constructed for an accepted connection, once it completes a
	// successful bind exchange, and once it's fully torn down.
	SessionCreated   func(sess *Session)
	SessionBound     func(sess *Session)
	SessionDestroyed func(sess *Session)

	wg         sync.WaitGroup
	mu         sync.Mutex
	listeners  map[net.Listener]struct{}
	doneChan   chan struct{}
	activeSess map[*Session]struct{}
	connSem    chan struct{}
}

// NewServer creates new SMPP server for managing SMSC sessions.
// Sessions will use provided SessionConf as template configuration.
func NewServer(addr string, conf SessionConf) *Server {
	return &Server{
		Addr:        addr,
		SessionConf: &conf,
	}
}

// ListenAndServe starts server listening. Blocking function.
func (srv *Server) ListenAndServe() error {
	addr := srv.Addr
	if addr == "" {
		addr = ":2775"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return srv.Serve(tcpKeepAliveListener{ln.(*net.TCPListener)})
}

// Serve accepts incoming connections and starts SMPP sessions.
func (srv *Server) Serve(ln net.Listener) error {
	defer ln.Close()
	srv.trackListener(ln, true)
	// How long to sleep on accept failure.
	var tempDelay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-srv.getDoneChan():
				return nil
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := 1 * time.Second; tempDelay > max {
					tempDelay = max
				}
				time.Sleep(tempDelay)
				continue
			}
			return err
		}
		tempDelay = 0

		if sem := srv.connSemaphore(); sem != nil {
			select {
			case sem <- struct{}{}:
			default:
				conn.Close()
				continue
			}
		}

		srv.wg.Add(1)
		go func(conf SessionConf) {
			defer srv.wg.Done()
			defer srv.releaseConn()
			conf.Type = SMSC
			if srv.Authenticate != nil {
				conf.Handler = authGateHandler{srv: srv, next: conf.Handler}
			}
			sess := NewSession(conn, conf)
			srv.trackSess(sess, true)
			if srv.SessionCreated != nil {
				srv.SessionCreated(sess)
			}
			select {
			case <-sess.NotifyClosed():
			case <-srv.getDoneChan():
				sess.Close()
			}
			srv.trackSess(sess, false)
			if srv.SessionDestroyed != nil {
				srv.SessionDestroyed(sess)
			}
		}(*srv.SessionConf)
	}
}

func (srv *Server) connSemaphore() chan struct{} {
	if srv.MaxConnections <= 0 {
		return nil
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.connSem == nil {
		srv.connSem = make(chan struct{}, srv.MaxConnections)
	}
	return srv.connSem
}

func (srv *Server) releaseConn() {
	srv.mu.Lock()
	sem := srv.connSem
	srv.mu.Unlock()
	if sem == nil {
		return
	}
	select {
	case <-sem:
	default:
	}
}

// authGateHandler intercepts bind_transmitter, bind_receiver and
// bind_transceiver requests to run Server.Authenticate before the
// configured Handler ever sees them, and fires Server.SessionBound once
// the underlying Handler answers a bind with ESME_ROK.
type authGateHandler struct {
	srv  *Server
	next Handler
}

func (h authGateHandler) ServeSMPP(ctx *Context) {
	systemID, password, systemType, resp, isBind := bindCredentials(ctx)
	if !isBind || h.srv.Authenticate == nil {
		h.callNext(ctx)
		return
	}
	if err := h.srv.Authenticate.Authenticate(systemID, password, systemType); err != nil {
		ctx.sess.conf.Logger.ErrorF("authentication rejected: %s %+v", ctx.sess, err)
		ctx.Respond(resp, pdu.StatusInvPaswd)
		ctx.CloseSession()
		return
	}
	h.callNext(ctx)
}

func (h authGateHandler) callNext(ctx *Context) {
	next := h.next
	if next == nil {
		next = defaultHandler{}
	}
	next.ServeSMPP(ctx)
	if isBindCommand(ctx.CommandID()) && ctx.Status() == pdu.StatusOK && h.srv.SessionBound != nil {
		h.srv.SessionBound(ctx.sess)
	}
}

func isBindCommand(id pdu.CommandID) bool {
	switch id {
	case pdu.BindTransmitterID, pdu.BindReceiverID, pdu.BindTransceiverID:
		return true
	}
	return false
}

// bindCredentials extracts the system ID, password and system type from a
// bind request, along with a matching empty-body response PDU to use if
// authentication fails. isBind is false for any other request, in which
// case the other return values are zero.
func bindCredentials(ctx *Context) (systemID, password, systemType string, resp pdu.PDU, isBind bool) {
	switch req := ctx.req.(type) {
	case *pdu.BindTx:
		return req.SystemID, req.Password, req.SystemType, req.Response(""), true
	case *pdu.BindRx:
		return req.SystemID, req.Password, req.SystemType, req.Response(""), true
	case *pdu.BindTRx:
		return req.SystemID, req.Password, req.SystemType, req.Response(""), true
	}
	return "", "", "", nil, false
}

// Unbind gracefully closes server by sending Unbind requests to all connected peers.
func (srv *Server) Unbind(ctx context.Context) error {
	srv.mu.Lock()
	for sess := range srv.activeSess {
		Unbind(ctx, sess)
	}
	srv.mu.Unlock()
	return srv.Close()
}

// Close implements closer interface.
func (srv *Server) Close() error {
	srv.mu.Lock()
	srv.closeDoneChanLocked()
	err := srv.closeListenersLocked()
	srv.mu.Unlock()
	srv.wg.Wait()
	return err
}

func (srv *Server) getDoneChan() <-chan struct{} {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return srv.getDoneChanLocked()
}

func (srv *Server) getDoneChanLocked() chan struct{} {
	if srv.doneChan == nil {
		srv.doneChan = make(chan struct{})
	}
	return srv.doneChan
}

func (srv *Server) closeDoneChanLocked() {
	ch := srv.getDoneChanLocked()
	select {
	case <-ch:
		// Already closed. Don't close again.
	default:
		// Safe to close here. We're the only closer, guarded by srv.mu.
		close(ch)
	}
}

func (srv *Server) trackListener(ln net.Listener, add bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.listeners == nil {
		srv.listeners = make(map[net.Listener]struct{})
	}
	if add {
		// If the *Server is being reused after a previous
		// Close or Shutdown, reset its doneChan:
		if len(srv.listeners) == 0 && len(srv.activeSess) == 0 {
			srv.doneChan = nil
		}
		srv.listeners[ln] = struct{}{}
	} else {
		delete(srv.listeners, ln)
	}
}

func (srv *Server) closeListenersLocked() error {
	var err error
	for ln := range srv.listeners {
		if cerr := ln.Close(); cerr != nil && err == nil {
			err = cerr
		}
		delete(srv.listeners, ln)
	}
	return err
}

func (srv *Server) trackSess(sess *Session, add bool) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.activeSess == nil {
		srv.activeSess = make(map[*Session]struct{})
	}
	if add {
		srv.activeSess[sess] = struct{}{}
	} else {
		delete(srv.activeSess, sess)
	}
}
