package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/acmesa/branchsync/pkg/logger"
)

// ReplicaTokenHeader authenticates inter-node deliveries. The token is a
// shared out-of-band credential distinct from end-user JWTs, so a user
// token can never forge replication traffic.
const ReplicaTokenHeader = "X-Replica-Token"

const deliveryTimeout = 10 * time.Second

// QueueStatus is the introspection view of the synchronizer
type QueueStatus struct {
	Peers   []string       `json:"peers"`
	Pending map[string]int `json:"pending"`
}

// Synchronizer keeps one outbound FIFO queue per peer and flushes them on a
// fixed interval. A failed delivery stalls only that peer's queue; later
// events never overtake an earlier one that has not been acknowledged.
type Synchronizer struct {
	peers    []string
	token    string
	interval time.Duration

	mu      sync.Mutex // guards pending and client
	pending map[string][]Event
	client  *http.Client

	flushMu sync.Mutex // single flush-in-progress guard
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewSynchronizer creates a synchronizer for the configured peer set
func NewSynchronizer(peers []string, token string, interval time.Duration) *Synchronizer {
	pending := make(map[string][]Event, len(peers))
	for _, peer := range peers {
		pending[peer] = nil
	}
	return &Synchronizer{
		peers:    peers,
		token:    token,
		interval: interval,
		pending:  pending,
	}
}

// Start opens the outbound transport and launches the retry loop. Calling
// it on a running synchronizer is a no-op.
func (s *Synchronizer) Start() {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	s.client = &http.Client{
		Timeout:   deliveryTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)

	logger.Logger.Info().
		Strs("peers", s.peers).
		Dur("interval", s.interval).
		Msg("Replication synchronizer started")
}

// Stop cancels the retry loop, waits for it, and releases the transport.
// Broadcasts keep enqueueing afterwards; nothing is flushed until Start.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}

	cancel()
	s.wg.Wait()

	s.mu.Lock()
	if s.client != nil {
		s.client.CloseIdleConnections()
		s.client = nil
	}
	s.mu.Unlock()

	logger.Logger.Info().Msg("Replication synchronizer stopped")
}

// Broadcast wraps the payload in an envelope, appends it to every peer's
// queue, and runs one opportunistic flush round before returning.
func (s *Synchronizer) Broadcast(eventType string, payload interface{}) (Event, error) {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		return Event{}, err
	}

	s.mu.Lock()
	for _, peer := range s.peers {
		s.pending[peer] = append(s.pending[peer], event)
		pendingEvents.WithLabelValues(peer).Set(float64(len(s.pending[peer])))
	}
	s.mu.Unlock()

	eventsBroadcast.WithLabelValues(eventType).Inc()

	s.flushPending(context.Background())
	return event, nil
}

// Status reports the peer set and per-peer backlog
func (s *Synchronizer) Status() QueueStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make(map[string]int, len(s.peers))
	for _, peer := range s.peers {
		pending[peer] = len(s.pending[peer])
	}
	return QueueStatus{Peers: s.peers, Pending: pending}
}

func (s *Synchronizer) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.flushPending(ctx)
		}
	}
}

func (s *Synchronizer) flushPending(ctx context.Context) {
	if len(s.peers) == 0 {
		return
	}
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	for _, peer := range s.peers {
		s.flushPeer(ctx, peer)
	}
}

// flushPeer delivers from the head of one peer's queue until the queue is
// empty or a delivery fails. The head is popped only after acknowledgement.
func (s *Synchronizer) flushPeer(ctx context.Context, peer string) {
	for {
		s.mu.Lock()
		queue := s.pending[peer]
		if len(queue) == 0 {
			s.mu.Unlock()
			return
		}
		event := queue[0]
		s.mu.Unlock()

		if !s.sendEvent(ctx, peer, event) {
			deliveryFailures.WithLabelValues(peer).Inc()
			return
		}

		s.mu.Lock()
		s.pending[peer] = s.pending[peer][1:]
		pendingEvents.WithLabelValues(peer).Set(float64(len(s.pending[peer])))
		s.mu.Unlock()
		eventsDelivered.WithLabelValues(peer).Inc()
	}
}

func (s *Synchronizer) sendEvent(ctx context.Context, peer string, event Event) bool {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()
	if client == nil {
		return false
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error().
			Err(err).
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Msg("Failed to marshal replication event")
		return false
	}

	url := strings.TrimRight(peer, "/") + "/replica/event"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ReplicaTokenHeader, s.token)

	resp, err := client.Do(req)
	if err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("peer", peer).
			Str("event_id", event.ID).
			Msg("Replication delivery failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Logger.Warn().
			Str("peer", peer).
			Str("event_id", event.ID).
			Int("status", resp.StatusCode).
			Msg("Peer rejected replication event")
		return false
	}

	logger.Logger.Debug().
		Str("peer", peer).
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Msg("Replication event delivered")
	return true
}
