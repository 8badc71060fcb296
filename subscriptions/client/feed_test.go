package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/omertoast/quotefeed/transport"
)

// fakeFeed is an in-memory transport.Client. It records every façade call,
// fails the steps it is told to fail, and can deliver events the way the
// real feed does: synchronously on whatever goroutine calls Emit.
type fakeFeed struct {
	mu      sync.Mutex
	nextID  int
	calls   []string
	failOn  map[string]error
	handles map[transport.Handle]bool
	regs    map[transport.Handle]fakeReg
	symbols map[transport.Handle]map[string]bool

	// When set, the next RemoveSymbol closes removeStarted and then waits
	// for removeRelease before proceeding.
	removeStarted chan struct{}
	removeRelease chan struct{}

	lastCode int
	lastDesc string
	lastErr  error
}

type fakeReg struct {
	listener transport.Listener
	token    string
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		failOn:  map[string]error{},
		handles: map[transport.Handle]bool{},
		regs:    map[transport.Handle]fakeReg{},
		symbols: map[transport.Handle]map[string]bool{},
	}
}

func (f *fakeFeed) CreateSubscription(ctx context.Context, kind transport.EventKind) (transport.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "create")
	if err := f.failOn["create"]; err != nil {
		return "", err
	}

	f.nextID++
	h := transport.Handle(fmt.Sprintf("h-%d", f.nextID))
	f.handles[h] = true
	f.symbols[h] = map[string]bool{}

	return h, nil
}

func (f *fakeFeed) AttachListener(ctx context.Context, h transport.Handle, l transport.Listener, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "attach")
	if err := f.failOn["attach"]; err != nil {
		return err
	}

	f.regs[h] = fakeReg{listener: l, token: token}

	return nil
}

func (f *fakeFeed) AddSymbol(ctx context.Context, h transport.Handle, symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "add")
	if err := f.stepErr("add", symbol); err != nil {
		return err
	}

	f.symbols[h][symbol] = true

	return nil
}

func (f *fakeFeed) RemoveSymbol(ctx context.Context, h transport.Handle, symbol string) error {
	f.mu.Lock()
	f.calls = append(f.calls, "remove")
	started, release := f.removeStarted, f.removeRelease
	f.removeStarted = nil
	err := f.stepErr("remove", symbol)
	f.mu.Unlock()

	if started != nil {
		close(started)
		<-release
	}

	if err != nil {
		return err
	}

	f.mu.Lock()
	delete(f.symbols[h], symbol)
	f.mu.Unlock()

	return nil
}

func (f *fakeFeed) DetachListener(ctx context.Context, h transport.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "detach")
	if err := f.failOn["detach"]; err != nil {
		return err
	}

	delete(f.regs, h)

	return nil
}

func (f *fakeFeed) CloseSubscription(ctx context.Context, h transport.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, "close")
	if err := f.failOn["close"]; err != nil {
		return err
	}

	delete(f.handles, h)
	delete(f.regs, h)
	delete(f.symbols, h)

	return nil
}

func (f *fakeFeed) LastError(ctx context.Context) (int, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastCode, f.lastDesc, f.lastErr
}

func (f *fakeFeed) Close(ctx context.Context) error {
	return nil
}

// Emit plays the feed's delivery goroutine: it invokes the listener attached
// to h, if any, exactly the way the transport would.
func (f *fakeFeed) Emit(h transport.Handle, kind transport.EventKind, symbol string, quotes []transport.Quote) {
	f.mu.Lock()
	reg, ok := f.regs[h]
	f.mu.Unlock()

	if !ok {
		return
	}

	reg.listener(kind, symbol, quotes, reg.token)
}

func (f *fakeFeed) handleOf(symbol string) transport.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()

	for h, set := range f.symbols {
		if set[symbol] {
			return h
		}
	}

	return ""
}

func (f *fakeFeed) callCount(step string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.calls {
		if c == step {
			n++
		}
	}

	return n
}

func (f *fakeFeed) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.calls))
	copy(out, f.calls)

	return out
}

// stepErr honors both blanket ("remove") and per-symbol ("remove:ETH/USD")
// failure injections. Callers must hold mu.
func (f *fakeFeed) stepErr(step, symbol string) error {
	if err := f.failOn[step]; err != nil {
		return err
	}

	return f.failOn[step+":"+symbol]
}
