package adapter

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mdlayher/arp"
	"github.com/mdlayher/ethernet"
	"github.com/rs/zerolog"
)

type countingRequester struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	total    atomic.Int32
}

func (r *countingRequester) Request(_ netip.Addr) error {
	cur := r.inFlight.Add(1)
	for {
		max := r.maxSeen.Load()
		if cur <= max || r.maxSeen.CompareAndSwap(max, cur) {
			break
		}
	}
	time.Sleep(100 * time.Microsecond)
	r.inFlight.Add(-1)
	r.total.Add(1)
	return nil
}

func TestSendRequestsBoundsConcurrency(t *testing.T) {
	req := &countingRequester{}
	prefix := netip.MustParsePrefix("10.0.0.0/20") // 4096 addresses

	sendRequests(req, prefix)

	if got := req.maxSeen.Load(); got > maxConcurrentRequests {
		t.Errorf("peak in-flight requests = %d, want at most %d", got, maxConcurrentRequests)
	}
	if got := req.total.Load(); got != 4096 {
		t.Errorf("requests sent = %d, want one per address (4096)", got)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "i/o timeout" }
func (timeoutErr) Timeout() bool { return true }

// fakeConn serves queued replies, then a fixed error
type fakeConn struct {
	mu      sync.Mutex
	reads   int
	replies []*arp.Packet
	err     error
}

func (f *fakeConn) SetReadDeadline(time.Time) error { return nil }

func (f *fakeConn) Read() (*arp.Packet, *ethernet.Frame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if len(f.replies) > 0 {
		pkt := f.replies[0]
		f.replies = f.replies[1:]
		return pkt, nil, nil
	}
	return nil, nil, f.err
}

func (f *fakeConn) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func newTestARPProber(sweep time.Duration) *ARPProber {
	return &ARPProber{
		sweepTimeout: sweep,
		vendors:      vendorFunc(func(string) string { return "" }),
		log:          zerolog.Nop(),
	}
}

func reply(ip string, mac net.HardwareAddr) *arp.Packet {
	return &arp.Packet{
		Operation:          arp.OperationReply,
		SenderHardwareAddr: mac,
		SenderIP:           netip.MustParseAddr(ip),
	}
}

func TestCollectRepliesBacksOffOnReadErrors(t *testing.T) {
	conn := &fakeConn{err: errors.New("read: bad file descriptor")}
	p := newTestARPProber(80 * time.Millisecond)

	records := p.collectReplies(context.Background(), conn, netip.MustParsePrefix("192.168.1.0/24"))

	if len(records) != 0 {
		t.Errorf("expected no records from a failing socket, got %d", len(records))
	}
	// Without the pause between failed reads the loop would spin through
	// thousands of iterations inside the window.
	if got := conn.readCount(); got > 20 {
		t.Errorf("read attempts = %d, failing socket should be paced", got)
	}
}

func TestCollectRepliesStopsOnTimeout(t *testing.T) {
	conn := &fakeConn{err: timeoutErr{}}
	p := newTestARPProber(5 * time.Second)

	start := time.Now()
	p.collectReplies(context.Background(), conn, netip.MustParsePrefix("192.168.1.0/24"))

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout should end the window immediately, took %v", elapsed)
	}
	if got := conn.readCount(); got != 1 {
		t.Errorf("read attempts = %d, want 1", got)
	}
}

func TestCollectRepliesDeduplicatesAndFilters(t *testing.T) {
	mac := net.HardwareAddr{0xaa, 0xbb, 0xcc, 0x00, 0x00, 0x01}
	conn := &fakeConn{
		replies: []*arp.Packet{
			reply("192.168.1.5", mac),
			reply("192.168.1.5", mac), // duplicate sender
			reply("10.9.9.9", mac),    // outside the target range
			{Operation: arp.OperationRequest, SenderIP: netip.MustParseAddr("192.168.1.7")},
		},
		err: timeoutErr{},
	}
	p := newTestARPProber(5 * time.Second)

	records := p.collectReplies(context.Background(), conn, netip.MustParsePrefix("192.168.1.0/24"))

	if len(records) != 1 {
		t.Fatalf("records = %d, want 1 (dedupe, range filter, replies only)", len(records))
	}
	if records[0].IP != "192.168.1.5" || records[0].MAC != "aa:bb:cc:00:00:01" {
		t.Errorf("unexpected record %+v", records[0])
	}
}
