package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acmesa/branchsync/internal/replication"
	"github.com/acmesa/branchsync/internal/testutil"
	"github.com/acmesa/branchsync/internal/user/domain"
	"github.com/acmesa/branchsync/internal/user/repository"
	"github.com/acmesa/branchsync/internal/user/usecase/command"
)

func setupUserServer(t *testing.T) (*mux.Router, *repository.GormUserRepository, *replication.Synchronizer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repo := repository.NewGormUserRepository(db)
	sync := replication.NewSynchronizer([]string{"http://peer.invalid"}, "secret", time.Minute)

	router := mux.NewRouter()
	NewUserHandler(repo, sync).RegisterRoutes(router)
	return router, repo, sync
}

func createAccount(t *testing.T, repo *repository.GormUserRepository, username, password, role string) {
	t.Helper()
	_, err := command.NewCreateUserHandler(repo).Handle(command.CreateUserCommand{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
}

func login(t *testing.T, router *mux.Router, username, password string) string {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	var response command.LoginResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	return response.AccessToken
}

func TestUserHandler_Login_BadCredentials(t *testing.T) {
	router, repo, _ := setupUserServer(t)
	createAccount(t, repo, "mara", "pass-123", domain.RoleOperator)

	body, _ := json.Marshal(map[string]string{"username": "mara", "password": "wrong!"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestUserHandler_Me_RequiresToken(t *testing.T) {
	router, _, _ := setupUserServer(t)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestUserHandler_Me_ReturnsAuthenticatedAccount(t *testing.T) {
	router, repo, _ := setupUserServer(t)
	createAccount(t, repo, "mara", "pass-123", domain.RoleAuditor)
	token := login(t, router, "mara", "pass-123")

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var user domain.User
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&user))
	assert.Equal(t, "mara", user.Username)
	assert.Equal(t, domain.RoleAuditor, user.Role)
}

func TestUserHandler_CreateUser_AdminOnly(t *testing.T) {
	router, repo, _ := setupUserServer(t)
	createAccount(t, repo, "root", "pass-123", domain.RoleAdmin)
	createAccount(t, repo, "mara", "pass-123", domain.RoleOperator)

	payload, _ := json.Marshal(map[string]string{"username": "nuevo", "password": "pass-456", "role": domain.RoleOperator})

	// Operator tokens are rejected
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+login(t, router, "mara", "pass-123"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// Admin tokens create the account
	req = httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+login(t, router, "root", "pass-123"))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusCreated, recorder.Code)

	stored, err := repo.FindByUsername("nuevo")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOperator, stored.Role)
}

func TestUserHandler_CreateUser_BroadcastsAccount(t *testing.T) {
	router, repo, sync := setupUserServer(t)
	createAccount(t, repo, "root", "pass-123", domain.RoleAdmin)
	token := login(t, router, "root", "pass-123")

	payload, _ := json.Marshal(map[string]string{"username": "nuevo", "password": "pass-456"})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusCreated, recorder.Code)

	// The synchronizer never started, so the event sits in the peer queue
	assert.Equal(t, 1, sync.Status().Pending["http://peer.invalid"])
}

func TestUserHandler_CreateUser_PasswordHashNeverSerialized(t *testing.T) {
	router, repo, _ := setupUserServer(t)
	createAccount(t, repo, "root", "pass-123", domain.RoleAdmin)
	token := login(t, router, "root", "pass-123")

	payload, _ := json.Marshal(map[string]string{"username": "nuevo", "password": "pass-456"})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, body, "PasswordHash")
}
