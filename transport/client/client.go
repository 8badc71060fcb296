package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/omertoast/quotefeed/environment"
	"github.com/omertoast/quotefeed/transport"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

var _ transport.Client = &client{}

type (
	client struct {
		connection *websocket.Conn
		log        *zap.Logger

		mu       sync.Mutex
		nextID   uint64
		pending  map[uint64]chan frame
		handles  map[transport.Handle]bool
		regs     map[transport.Handle]registration
		lastCode int
		lastDesc string
		closed   bool
	}

	registration struct {
		listener transport.Listener
		token    string
	}

	// frame is the single wire shape: control requests and acks are
	// correlated by ID, event frames carry an Event field instead.
	frame struct {
		Action string `json:"action,omitempty"`
		ID     uint64 `json:"id,omitempty"`
		Kind   string `json:"kind,omitempty"`
		Handle string `json:"handle,omitempty"`
		Symbol string `json:"symbol,omitempty"`

		OK    *bool  `json:"ok,omitempty"`
		Code  int    `json:"code,omitempty"`
		Error string `json:"error,omitempty"`

		Event  string            `json:"event,omitempty"`
		Quotes []transport.Quote `json:"quotes,omitempty"`
	}

	Backends interface {
		Environment() environment.Client
	}
)

func New(b Backends, log *zap.Logger) (transport.Client, error) {
	ctx := context.Background() // TODO: make this with context timeout

	feedURL, err := b.Environment().Get(ctx, "FEED_URL")
	if err != nil {
		return nil, fmt.Errorf("%w %s", transport.ErrInternal, err)
	}

	conn, _, err := websocket.Dial(ctx, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w %s", transport.ErrInternal, err)
	}

	c := &client{
		connection: conn,
		log:        log,
		pending:    make(map[uint64]chan frame),
		handles:    make(map[transport.Handle]bool),
		regs:       make(map[transport.Handle]registration),
	}

	go c.readLoop()

	return c, nil
}

// readLoop is the connection-owned delivery goroutine: it routes acks back
// to waiting callers and dispatches event frames to attached listeners.
func (c *client) readLoop() {
	ctx := context.Background()

	for {
		var f frame
		err := wsjson.Read(ctx, c.connection, &f)
		if err != nil {
			c.log.Info("feed read loop stopped", zap.Error(err))
			c.shutdown()
			return
		}

		switch {
		case f.ID != 0:
			c.mu.Lock()
			ch, ok := c.pending[f.ID]
			delete(c.pending, f.ID)
			c.mu.Unlock()
			if ok {
				ch <- f
			}
		case f.Event != "":
			c.dispatch(f)
		}
	}
}

func (c *client) dispatch(f frame) {
	c.mu.Lock()
	reg, ok := c.regs[transport.Handle(f.Handle)]
	c.mu.Unlock()

	if !ok {
		return
	}

	reg.listener(kindFromWire(f.Event), f.Symbol, f.Quotes, reg.token)
}

// shutdown marks the connection unusable and fails every in-flight call.
func (c *client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, ch := range c.pending {
		delete(c.pending, id)
		close(ch)
	}
}

// call writes one control frame and waits for its ack. A negative ack is
// recorded as the connection's last error before being returned.
func (c *client) call(ctx context.Context, f frame) (frame, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return frame{}, transport.ErrClosed
	}
	c.nextID++
	f.ID = c.nextID
	ch := make(chan frame, 1)
	c.pending[f.ID] = ch
	c.mu.Unlock()

	err := wsjson.Write(ctx, c.connection, &f)
	if err != nil {
		c.mu.Lock()
		delete(c.pending, f.ID)
		c.mu.Unlock()
		return frame{}, fmt.Errorf("%w %s", transport.ErrInternal, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return frame{}, transport.ErrClosed
		}
		if resp.OK != nil && !*resp.OK {
			c.mu.Lock()
			c.lastCode = resp.Code
			c.lastDesc = resp.Error
			c.mu.Unlock()
			return resp, fmt.Errorf("%w %s", transport.ErrInternal, resp.Error)
		}
		return resp, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, f.ID)
		c.mu.Unlock()
		return frame{}, fmt.Errorf("%w %s", transport.ErrInternal, ctx.Err())
	}
}

func (c *client) CreateSubscription(ctx context.Context, kind transport.EventKind) (transport.Handle, error) {
	resp, err := c.call(ctx, frame{Action: "create", Kind: kindToWire(kind)})
	if err != nil {
		return "", err
	}

	h := transport.Handle(resp.Handle)

	c.mu.Lock()
	c.handles[h] = true
	c.mu.Unlock()

	return h, nil
}

// AttachListener registers the delivery target for h. Attachment is local
// to the client: the feed starts sending events for h once a symbol is
// watched, and dispatch drops frames for handles with no listener.
func (c *client) AttachListener(ctx context.Context, h transport.Handle, l transport.Listener, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return transport.ErrClosed
	}
	if !c.handles[h] {
		return fmt.Errorf("%w %s", transport.ErrUnknownHandle, h)
	}

	c.regs[h] = registration{listener: l, token: token}

	return nil
}

func (c *client) AddSymbol(ctx context.Context, h transport.Handle, symbol string) error {
	_, err := c.call(ctx, frame{Action: "add", Handle: string(h), Symbol: symbol})
	return err
}

func (c *client) RemoveSymbol(ctx context.Context, h transport.Handle, symbol string) error {
	_, err := c.call(ctx, frame{Action: "remove", Handle: string(h), Symbol: symbol})
	return err
}

func (c *client) DetachListener(ctx context.Context, h transport.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return transport.ErrClosed
	}
	if !c.handles[h] {
		return fmt.Errorf("%w %s", transport.ErrUnknownHandle, h)
	}

	delete(c.regs, h)

	return nil
}

func (c *client) CloseSubscription(ctx context.Context, h transport.Handle) error {
	_, err := c.call(ctx, frame{Action: "close", Handle: string(h)})
	if err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.handles, h)
	delete(c.regs, h)
	c.mu.Unlock()

	return nil
}

func (c *client) LastError(ctx context.Context) (int, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, "", transport.ErrUnavailable
	}

	return c.lastCode, c.lastDesc, nil
}

func (c *client) Close(ctx context.Context) error {
	c.shutdown()

	err := c.connection.Close(websocket.StatusNormalClosure, "")
	if err != nil {
		return fmt.Errorf("%w %s", transport.ErrInternal, err)
	}

	return nil
}

func kindToWire(k transport.EventKind) string {
	switch k {
	case transport.KindQuote:
		return "quote"
	}

	return ""
}

func kindFromWire(s string) transport.EventKind {
	switch s {
	case "quote":
		return transport.KindQuote
	}

	return transport.KindUnknown
}
