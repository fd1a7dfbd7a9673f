package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"auraverse/config"
	"auraverse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistantRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"try the Neon Jacket"}`))
	}))
	defer srv.Close()

	a := NewHTTPAssistant(config.AssistantConfig{URL: srv.URL, MaxRetries: 2})

	text, err := a.Ask(context.Background(), []models.Product{{ID: "p1", Name: "Neon Jacket"}}, "what should I wear?")
	require.NoError(t, err)
	assert.Equal(t, "try the Neon Jacket", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestAssistantGivesUpAfterRetriesExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewHTTPAssistant(config.AssistantConfig{URL: srv.URL, MaxRetries: 1})

	_, err := a.Ask(context.Background(), nil, "hello")
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "initial attempt plus one retry")
}

func TestAssistantRequiresEndpoint(t *testing.T) {
	a := NewHTTPAssistant(config.AssistantConfig{})

	_, err := a.Ask(context.Background(), nil, "hello")
	assert.Error(t, err)
}

func TestAssistantHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewHTTPAssistant(config.AssistantConfig{URL: srv.URL, MaxRetries: 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Ask(ctx, nil, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}
