package smpp

import (
	"context"
	"errors"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/smppkit/smpp/pdu"
)

// BindType selects which bind flavor a Client (re)establishes on every
// (re)connect.
type BindType int

const (
	// ClientTx binds the client as a transmitter.
	ClientTx BindType = iota
	// ClientRx binds the client as a receiver.
	ClientRx
	// ClientTRx binds the client as a transceiver.
	ClientTRx
)

// ClientConf configures a Client's reconnect policy on top of the plain
// BindTx/BindRx/BindTRx helpers.
type ClientConf struct {
	SessionConf SessionConf
	BindConf    BindConf
	BindType    BindType

	// Backoff builds the retry schedule used between reconnect attempts.
	// A fresh BackOff is requested for every connect/reconnect cycle,
	// since most backoff.BackOff implementations are stateful and single
	// use. Defaults to an unbounded exponential backoff when nil.
	Backoff func() backoff.BackOff
	// MaxReconnectAttempts bounds how many consecutive failed connect
	// attempts a single connect/reconnect cycle tolerates before giving up.
	// A negative value such as -1 retries indefinitely. Zero, the field's
	// zero value, disables reconnection entirely: once the session drops,
	// Client stops watching rather than redialing, and the initial connect
	// is tried once. A positive n bounds each cycle to n retries.
	MaxReconnectAttempts int

	// Reconnected is called, if set, every time a new Session is bound,
	// including the first.
	Reconnected func(sess *Session)
	// ConnectionLost is called, if set, whenever the current Session's
	// connection drops without Disconnect having been called, including
	// when reconnection is disabled.
	ConnectionLost func(err error)
}

// Client wraps the BindTx/BindRx/BindTRx dial helpers with an automatic
// reconnect policy: when the underlying Session closes unexpectedly,
// Client redials and rebinds following its configured backoff until
// Disconnect is called.
type Client struct {
	conf ClientConf

	mu         sync.Mutex
	sess       *Session
	disconnect bool
	done       chan struct{}
}

// NewClient performs the first connect attempt and, once it succeeds,
// starts the background watcher that reconnects on future session loss.
func NewClient(conf ClientConf) (*Client, error) {
	c := &Client{conf: conf, done: make(chan struct{})}
	if err := c.connect(); err != nil {
		return nil, err
	}
	go c.watch()
	return c, nil
}

func (c *Client) newBackoff() backoff.BackOff {
	var b backoff.BackOff
	if c.conf.Backoff != nil {
		b = c.conf.Backoff()
	} else {
		eb := backoff.NewExponentialBackOff()
		eb.MaxElapsedTime = 0
		b = eb
	}
	if c.conf.MaxReconnectAttempts >= 0 {
		b = backoff.WithMaxRetries(b, uint64(c.conf.MaxReconnectAttempts))
	}
	return b
}

func (c *Client) dial() (*Session, error) {
	switch c.conf.BindType {
	case ClientRx:
		return BindRx(c.conf.SessionConf, c.conf.BindConf)
	case ClientTRx:
		return BindTRx(c.conf.SessionConf, c.conf.BindConf)
	default:
		return BindTx(c.conf.SessionConf, c.conf.BindConf)
	}
}

func (c *Client) connect() error {
	op := func() error {
		sess, err := c.dial()
		if err != nil {
			return err
		}
		c.mu.Lock()
		c.sess = sess
		c.mu.Unlock()
		return nil
	}
	if err := backoff.Retry(op, c.newBackoff()); err != nil {
		return err
	}
	if c.conf.Reconnected != nil {
		c.conf.Reconnected(c.Session())
	}
	return nil
}

// watch blocks on the current session's closure and, unless Disconnect
// has suppressed it, reconnects and keeps watching the replacement.
func (c *Client) watch() {
	for {
		c.mu.Lock()
		sess := c.sess
		c.mu.Unlock()
		if sess == nil {
			return
		}
		select {
		case <-sess.NotifyClosed():
		case <-c.done:
			return
		}
		c.mu.Lock()
		suppressed := c.disconnect
		c.mu.Unlock()
		if suppressed {
			return
		}
		if c.conf.ConnectionLost != nil {
			c.conf.ConnectionLost(errors.New("smpp: connection lost"))
		}
		if c.conf.MaxReconnectAttempts == 0 {
			return
		}
		if err := c.connect(); err != nil {
			return
		}
	}
}

// Session returns the Client's current underlying Session. It changes
// identity across reconnects, so long-lived callers should go through
// Client.Send rather than holding on to a Session reference.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess
}

// Send forwards req to the Client's current Session.
func (c *Client) Send(ctx context.Context, req pdu.PDU) (pdu.PDU, error) {
	return c.Session().Send(ctx, req)
}

// Disconnect suppresses any future reconnect attempt and closes the
// current session. It must be called at most once.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	c.disconnect = true
	sess := c.sess
	c.mu.Unlock()
	close(c.done)
	if sess == nil {
		return nil
	}
	return sess.Close()
}
