package replication

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// peerRecorder is a fake peer capturing delivered events
type peerRecorder struct {
	mu       sync.Mutex
	events   []Event
	tokens   []string
	failures int

	server *httptest.Server
}

func newPeerRecorder(t *testing.T) *peerRecorder {
	t.Helper()
	p := &peerRecorder{}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.failures > 0 {
			p.failures--
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var event Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		p.events = append(p.events, event)
		p.tokens = append(p.tokens, r.Header.Get(ReplicaTokenHeader))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(p.server.Close)
	return p
}

func (p *peerRecorder) failNext(n int) {
	p.mu.Lock()
	p.failures = n
	p.mu.Unlock()
}

func (p *peerRecorder) received() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

func TestSynchronizer_Broadcast_WhileStoppedQueues(t *testing.T) {
	peer := newPeerRecorder(t)
	s := NewSynchronizer([]string{peer.server.URL}, "secret", time.Minute)

	_, err := s.Broadcast(EventClientUpsert, map[string]string{"id": "c1"})
	require.NoError(t, err)
	_, err = s.Broadcast(EventClientUpsert, map[string]string{"id": "c2"})
	require.NoError(t, err)

	status := s.Status()
	assert.Equal(t, 2, status.Pending[peer.server.URL])
	assert.Empty(t, peer.received())
}

func TestSynchronizer_DeliversInOrder(t *testing.T) {
	peer := newPeerRecorder(t)
	s := NewSynchronizer([]string{peer.server.URL}, "secret", 20*time.Millisecond)
	s.Start()
	defer s.Stop()

	var ids []string
	for _, name := range []string{"c1", "c2", "c3"} {
		event, err := s.Broadcast(EventClientUpsert, map[string]string{"id": name})
		require.NoError(t, err)
		ids = append(ids, event.ID)
	}

	require.Eventually(t, func() bool {
		return len(peer.received()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	received := peer.received()
	for i, event := range received {
		assert.Equal(t, ids[i], event.ID)
		assert.Equal(t, EventClientUpsert, event.Type)
	}
	assert.Equal(t, 0, s.Status().Pending[peer.server.URL])
}

func TestSynchronizer_SendsReplicaToken(t *testing.T) {
	peer := newPeerRecorder(t)
	s := NewSynchronizer([]string{peer.server.URL}, "hush", 20*time.Millisecond)
	s.Start()
	defer s.Stop()

	_, err := s.Broadcast(EventProductUpsert, map[string]string{"id": "p1"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(peer.received()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	peer.mu.Lock()
	defer peer.mu.Unlock()
	assert.Equal(t, []string{"hush"}, peer.tokens)
}

func TestSynchronizer_RetriesHeadUntilAcknowledged(t *testing.T) {
	peer := newPeerRecorder(t)
	peer.failNext(3)

	s := NewSynchronizer([]string{peer.server.URL}, "secret", 20*time.Millisecond)
	s.Start()
	defer s.Stop()

	first, err := s.Broadcast(EventStockUpdate, map[string]string{"product_id": "p1"})
	require.NoError(t, err)
	second, err := s.Broadcast(EventStockUpdate, map[string]string{"product_id": "p2"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(peer.received()) == 2
	}, 3*time.Second, 10*time.Millisecond)

	received := peer.received()
	assert.Equal(t, first.ID, received[0].ID)
	assert.Equal(t, second.ID, received[1].ID)
}

func TestSynchronizer_PeerFailureDoesNotBlockOthers(t *testing.T) {
	healthy := newPeerRecorder(t)

	// A peer that never acknowledges
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer dead.Close()

	s := NewSynchronizer([]string{dead.URL, healthy.server.URL}, "secret", 20*time.Millisecond)
	s.Start()
	defer s.Stop()

	_, err := s.Broadcast(EventOrderCreated, map[string]string{"id": "o1"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(healthy.received()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	status := s.Status()
	assert.Equal(t, 1, status.Pending[dead.URL])
	assert.Equal(t, 0, status.Pending[healthy.server.URL])
}

func TestSynchronizer_StartAndStopAreIdempotent(t *testing.T) {
	s := NewSynchronizer(nil, "secret", time.Minute)

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()

	// Stopped again with no peers, Broadcast still succeeds
	_, err := s.Broadcast(EventClientUpsert, map[string]string{"id": "c1"})
	assert.NoError(t, err)
}

func TestSynchronizer_Status_ListsConfiguredPeers(t *testing.T) {
	s := NewSynchronizer([]string{"http://a", "http://b"}, "secret", time.Minute)

	status := s.Status()
	assert.Equal(t, []string{"http://a", "http://b"}, status.Peers)
	assert.Equal(t, map[string]int{"http://a": 0, "http://b": 0}, status.Pending)
}
