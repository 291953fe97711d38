package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func remoteConfig(endpoint string) *domain.RemoteConfig {
	return &domain.RemoteConfig{
		EndpointURL: endpoint,
		AnonKey:     "anon-key",
		ServiceKey:  "service-key",
	}
}

func TestHTTPPusherPushInsert(t *testing.T) {
	var captured *http.Request
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	pusher := NewHTTPPusher(5 * time.Second)
	entry := &outboxdomain.Entry{
		TableName: "customers",
		Operation: outboxdomain.OperationInsert,
		RecordID:  42,
		Payload:   `{"id":42,"name":"Acme"}`,
	}

	err := pusher.Push(context.Background(), remoteConfig(server.URL), entry)
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/rest/v1/customers", captured.URL.Path)
	assert.Empty(t, captured.URL.RawQuery)
	assert.Equal(t, "service-key", captured.Header.Get("apikey"))
	assert.Equal(t, "Bearer service-key", captured.Header.Get("Authorization"))
	assert.Equal(t, "resolution=merge-duplicates", captured.Header.Get("Prefer"))
	assert.JSONEq(t, `{"id":42,"name":"Acme"}`, string(body))
}

func TestHTTPPusherPushUpdate(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	pusher := NewHTTPPusher(5 * time.Second)
	entry := &outboxdomain.Entry{
		TableName: "orders",
		Operation: outboxdomain.OperationUpdate,
		RecordID:  7,
		Payload:   `{"status":"shipped"}`,
	}

	err := pusher.Push(context.Background(), remoteConfig(server.URL), entry)
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPatch, captured.Method)
	assert.Equal(t, "/rest/v1/orders", captured.URL.Path)
	assert.Equal(t, "id=eq.7", captured.URL.RawQuery)
	assert.Empty(t, captured.Header.Get("Prefer"))
}

func TestHTTPPusherPushDeleteIsPatch(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	pusher := NewHTTPPusher(5 * time.Second)
	entry := &outboxdomain.Entry{
		TableName: "customers",
		Operation: outboxdomain.OperationDelete,
		RecordID:  3,
		Payload:   `{"deleted_at":"2026-05-01T00:00:00Z"}`,
	}

	err := pusher.Push(context.Background(), remoteConfig(server.URL), entry)
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPatch, captured.Method, "deletes are soft and travel as patches")
	assert.Equal(t, "id=eq.3", captured.URL.RawQuery)
}

func TestHTTPPusherPushServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("db error"))
	}))
	defer server.Close()

	pusher := NewHTTPPusher(5 * time.Second)
	entry := &outboxdomain.Entry{
		TableName: "customers",
		Operation: outboxdomain.OperationInsert,
		RecordID:  1,
		Payload:   `{"id":1}`,
	}

	err := pusher.Push(context.Background(), remoteConfig(server.URL), entry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
	assert.Contains(t, err.Error(), "db error")
}

func TestHTTPPusherPushUnreachable(t *testing.T) {
	pusher := NewHTTPPusher(time.Second)
	entry := &outboxdomain.Entry{
		TableName: "customers",
		Operation: outboxdomain.OperationInsert,
		RecordID:  1,
		Payload:   `{"id":1}`,
	}

	err := pusher.Push(context.Background(), remoteConfig("http://127.0.0.1:1"), entry)
	require.ErrorIs(t, err, domain.ErrRemoteUnreachable)
}

func TestHTTPPusherPushUnknownOperation(t *testing.T) {
	pusher := NewHTTPPusher(5 * time.Second)
	entry := &outboxdomain.Entry{
		TableName: "customers",
		Operation: outboxdomain.Operation("UPSERT"),
		RecordID:  1,
		Payload:   `{"id":1}`,
	}

	err := pusher.Push(context.Background(), remoteConfig("http://localhost:1"), entry)
	require.Error(t, err)
}

func TestHTTPPusherTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"paths":{"/customers":{},"/orders":{},"/order_items":{},"/expenses":{},"/shop_settings":{},"/sync_log":{}}}`))
	}))
	defer server.Close()

	pusher := NewHTTPPusher(5 * time.Second)
	result, err := pusher.TestConnection(context.Background(), remoteConfig(server.URL))
	require.NoError(t, err)
	assert.True(t, result.Connected)
	assert.True(t, result.TablesExist)
	assert.Empty(t, result.Missing)
}

func TestHTTPPusherTestConnectionMissingTables(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"paths":{"/customers":{},"/orders":{}}}`))
	}))
	defer server.Close()

	pusher := NewHTTPPusher(5 * time.Second)
	result, err := pusher.TestConnection(context.Background(), remoteConfig(server.URL))
	require.NoError(t, err)
	assert.True(t, result.Connected)
	assert.False(t, result.TablesExist)
	assert.Contains(t, result.Missing, "expenses")
	assert.Contains(t, result.Missing, "sync_log")
}

func TestHTTPPusherTestConnectionUnreachable(t *testing.T) {
	pusher := NewHTTPPusher(time.Second)
	result, err := pusher.TestConnection(context.Background(), remoteConfig("http://127.0.0.1:1"))
	require.NoError(t, err)
	assert.False(t, result.Connected)
	assert.Contains(t, result.Message, "connection failed")
}

func TestHTTPPusherTestConnectionRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	pusher := NewHTTPPusher(5 * time.Second)
	result, err := pusher.TestConnection(context.Background(), remoteConfig(server.URL))
	require.NoError(t, err)
	assert.False(t, result.Connected)
	assert.Contains(t, result.Message, "401")
}
