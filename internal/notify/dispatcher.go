// Package notify delivers best-effort webhook events from a bounded queue.
// Delivery failures are logged and never reported to the caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Defaults
const (
	DefaultWorkers      = 2
	DefaultQueueSize    = 100
	DefaultTimeout      = 5 * time.Second
	DefaultRatePerSec   = 5.0
	DefaultBurst        = 5
	maxLoggedBodyLength = 512
)

// Config configures a Dispatcher. Endpoints maps an event kind to its webhook
// URL; kinds without a URL are accepted and discarded.
type Config struct {
	Endpoints  map[string]string
	Workers    int
	QueueSize  int
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
	Client     *http.Client
}

type event struct {
	kind string
	url  string
	body []byte
}

// Dispatcher queues events and posts them as JSON from a fixed worker pool.
type Dispatcher struct {
	endpoints map[string]string
	client    *http.Client
	limiter   *hostLimiter
	workers   int
	queue     chan event

	mu     sync.RWMutex
	closed bool
}

// New creates a Dispatcher. Call Run to start delivering.
func New(cfg Config) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = DefaultRatePerSec
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	endpoints := make(map[string]string, len(cfg.Endpoints))
	for kind, url := range cfg.Endpoints {
		if url != "" {
			endpoints[kind] = url
		}
	}
	return &Dispatcher{
		endpoints: endpoints,
		client:    client,
		limiter:   newHostLimiter(cfg.RatePerSec, cfg.Burst),
		workers:   cfg.Workers,
		queue:     make(chan event, cfg.QueueSize),
	}
}

// Enabled reports whether kind has a destination.
func (d *Dispatcher) Enabled(kind string) bool {
	_, ok := d.endpoints[kind]
	return ok
}

// Enqueue serializes payload and queues it for delivery without blocking.
// It returns false when the event was dropped because the queue is full,
// the dispatcher is closed or the payload cannot be encoded.
func (d *Dispatcher) Enqueue(kind string, payload any) bool {
	url, ok := d.endpoints[kind]
	if !ok {
		return true
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[notify] failed to encode %s event: %v", kind, err)
		return false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("[notify] dropped %s event: dispatcher closed", kind)
		return false
	}
	select {
	case d.queue <- event{kind: kind, url: url, body: body}:
		return true
	default:
		log.Printf("[notify] dropped %s event: queue full", kind)
		return false
	}
}

// Close stops accepting events. Run returns once the queue is drained.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
}

// Run delivers queued events until Close drains the queue or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case ev, ok := <-d.queue:
					if !ok {
						return nil
					}
					if err := d.deliver(gCtx, ev); err != nil {
						log.Printf("[notify] %s delivery failed: %v", ev.kind, err)
					}
				case <-gCtx.Done():
					return nil
				}
			}
		})
	}
	return g.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, ev event) error {
	if err := d.limiter.waitURL(ctx, ev.url); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ev.url, bytes.NewReader(ev.body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Kind", ev.kind)

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBodyLength))
		return fmt.Errorf("HTTP status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
