package smpp

import (
	"sync"
	"time"

	"github.com/smppkit/smpp/pdu"
)

// KeepAliveConf configures the idle-timer enquire_link loop a Session can
// run alongside its main request/response traffic.
type KeepAliveConf struct {
	// Interval between enquire_link pings sent while the session is idle.
	Interval time.Duration
	// Timeout is how long a ping may stay unanswered before the session
	// is closed. Zero disables the per-ping timeout.
	Timeout time.Duration
	// MaxPending bounds how many un-acked pings may accumulate before the
	// session is considered dead and closed. Defaults to 3.
	MaxPending int
}

// keepAlive runs a dedicated enquire_link exchange independent of the
// session's main sliding window, so a slow peer never starves application
// request slots just to answer a liveness check. It maintains two
// independent timers: a write-idle timer that pings the peer every
// Interval, and a read-idle timer that closes the session if no inbound
// PDU of any kind arrives within 3x Interval, regardless of whether pings
// get answered.
type keepAlive struct {
	sess *Session
	conf KeepAliveConf

	mu      sync.Mutex
	pending map[uint32]struct{}

	activity chan struct{}
	stop     chan struct{}
	wg       sync.WaitGroup
}

func newKeepAlive(sess *Session, conf KeepAliveConf) *keepAlive {
	if conf.MaxPending <= 0 {
		conf.MaxPending = 3
	}
	ka := &keepAlive{
		sess:     sess,
		conf:     conf,
		pending:  make(map[uint32]struct{}),
		activity: make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	if conf.Interval > 0 {
		ka.wg.Add(1)
		go ka.run()
		ka.wg.Add(1)
		go ka.runReadIdle()
	}
	return ka
}

func (ka *keepAlive) run() {
	defer ka.wg.Done()
	t := time.NewTicker(ka.conf.Interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			ka.ping()
		case <-ka.sess.NotifyClosed():
			return
		case <-ka.stop:
			return
		}
	}
}

// runReadIdle closes the session if no inbound PDU arrives within 3x the
// ping interval. It is independent of ping(): a peer that keeps sending
// unrelated traffic but never answers enquire_link is only caught by run's
// MaxPending check, while a peer that stops sending anything at all,
// including enquire_link responses, is caught here.
func (ka *keepAlive) runReadIdle() {
	defer ka.wg.Done()
	timeout := ka.conf.Interval * 3
	t := time.NewTimer(timeout)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			ka.sess.conf.Logger.ErrorF("keepalive: no inbound traffic for %s, closing %s", timeout, ka.sess)
			go ka.sess.Close()
			return
		case <-ka.activity:
			if !t.Stop() {
				select {
				case <-t.C:
				default:
				}
			}
			t.Reset(timeout)
		case <-ka.sess.NotifyClosed():
			return
		case <-ka.stop:
			return
		}
	}
}

// markActivity records inbound traffic, resetting the read-idle timer. It
// never blocks: a timer reset that's already pending doesn't need another.
func (ka *keepAlive) markActivity() {
	select {
	case ka.activity <- struct{}{}:
	default:
	}
}

func (ka *keepAlive) ping() {
	ka.mu.Lock()
	if len(ka.pending) >= ka.conf.MaxPending {
		ka.mu.Unlock()
		ka.sess.conf.Logger.ErrorF("keepalive: %d pending enquire_link unanswered, closing %s", ka.conf.MaxPending, ka.sess)
		go ka.sess.Close()
		return
	}
	ka.mu.Unlock()

	seq, err := ka.sess.encodeDirect(&pdu.EnquireLink{})
	if err != nil {
		ka.sess.conf.Logger.ErrorF("keepalive: encoding enquire_link: %s %+v", ka.sess, err)
		return
	}
	ka.mu.Lock()
	ka.pending[seq] = struct{}{}
	ka.mu.Unlock()

	if ka.conf.Timeout > 0 {
		time.AfterFunc(ka.conf.Timeout, func() { ka.expire(seq) })
	}
}

func (ka *keepAlive) expire(seq uint32) {
	ka.mu.Lock()
	_, ok := ka.pending[seq]
	if ok {
		delete(ka.pending, seq)
	}
	ka.mu.Unlock()
	if ok {
		ka.sess.conf.Logger.ErrorF("keepalive: enquire_link seq %d timed out, closing %s", seq, ka.sess)
		go ka.sess.Close()
	}
}

// complete reports whether seq belongs to a pending keep-alive ping and, if
// so, clears it.
func (ka *keepAlive) complete(seq uint32) bool {
	ka.mu.Lock()
	_, ok := ka.pending[seq]
	if ok {
		delete(ka.pending, seq)
	}
	ka.mu.Unlock()
	return ok
}
