package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientdomain "github.com/acmesa/branchsync/internal/client/domain"
	clientrepository "github.com/acmesa/branchsync/internal/client/repository"
	orderrepository "github.com/acmesa/branchsync/internal/order/repository"
	productrepository "github.com/acmesa/branchsync/internal/product/repository"
	"github.com/acmesa/branchsync/internal/replication"
	stockdomain "github.com/acmesa/branchsync/internal/stock/domain"
	stockrepository "github.com/acmesa/branchsync/internal/stock/repository"
	"github.com/acmesa/branchsync/internal/testutil"
	userrepository "github.com/acmesa/branchsync/internal/user/repository"
	"github.com/acmesa/branchsync/pkg/locker"
)

func setupReplicaServer(t *testing.T) (*mux.Router, *clientrepository.GormClientRepository) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	clients := clientrepository.NewGormClientRepository(db)
	applier := replication.NewApplier(
		db,
		locker.New(),
		clients,
		productrepository.NewGormProductRepository(db),
		userrepository.NewGormUserRepository(db),
		stockrepository.NewGormStockRepository(db),
		orderrepository.NewGormOrderRepository(db),
	)

	router := mux.NewRouter()
	NewReplicaHandler(applier, "hush").RegisterRoutes(router)
	return router, clients
}

func postEvent(t *testing.T, router *mux.Router, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/replica/event", bytes.NewReader(body))
	if token != "" {
		req.Header.Set(replication.ReplicaTokenHeader, token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestReplicaHandler_ApplyEvent_Success(t *testing.T) {
	router, clients := setupReplicaServer(t)

	event, err := replication.NewEvent(replication.EventClientUpsert, replication.ClientUpsertPayload{
		Client: clientdomain.Client{ID: "c1", Name: "Acme Retail"},
	})
	require.NoError(t, err)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	recorder := postEvent(t, router, "hush", body)
	assert.Equal(t, http.StatusOK, recorder.Code)

	client, err := clients.FindByID("c1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Retail", client.Name)
}

func TestReplicaHandler_ApplyEvent_RejectsBadToken(t *testing.T) {
	router, clients := setupReplicaServer(t)

	event, err := replication.NewEvent(replication.EventClientUpsert, replication.ClientUpsertPayload{
		Client: clientdomain.Client{ID: "c1", Name: "Acme Retail"},
	})
	require.NoError(t, err)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, postEvent(t, router, "wrong", body).Code)
	assert.Equal(t, http.StatusForbidden, postEvent(t, router, "", body).Code)

	_, err = clients.FindByID("c1")
	assert.Error(t, err)
}

func TestReplicaHandler_ApplyEvent_RejectsMalformedEnvelope(t *testing.T) {
	router, _ := setupReplicaServer(t)

	recorder := postEvent(t, router, "hush", []byte(`{"id":`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestReplicaHandler_ApplyEvent_UnknownTypeIsBadRequest(t *testing.T) {
	router, _ := setupReplicaServer(t)

	body, err := json.Marshal(replication.Event{ID: "e1", Type: "vanished", Payload: json.RawMessage(`{}`)})
	require.NoError(t, err)

	recorder := postEvent(t, router, "hush", body)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestReplicaHandler_ApplyEvent_MissingEntityIsNotFound(t *testing.T) {
	router, _ := setupReplicaServer(t)

	event, err := replication.NewEvent(replication.EventStockUpdate, replication.StockUpdatePayload{
		Entry: stockdomain.StockEntry{ProductID: "ghost", Balance: 1, Version: 1, UpdatedAt: stockdomain.NowUTC(), Origin: "node-b"},
	})
	require.NoError(t, err)
	body, err := json.Marshal(event)
	require.NoError(t, err)

	recorder := postEvent(t, router, "hush", body)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
