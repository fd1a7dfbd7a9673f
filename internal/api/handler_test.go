package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"auraverse/config"
	"auraverse/internal/broker"
	"auraverse/internal/models"
	"auraverse/internal/service"
	"auraverse/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAssistant struct{}

func (stubAssistant) Ask(ctx context.Context, products []models.Product, message string) (string, error) {
	return "stub answer", nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.NewStore("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Initialize(context.Background()))

	marketCfg := config.MarketConfig{
		TokensPerCash: 10, DesignMarkup: 1.2, DesignStock: 50,
		WelcomeCash: 5000, DailyRewardTokens: 50,
	}
	feedCfg := config.FeedConfig{PollSeconds: 3, RecentOrdersLimit: 20, GlobalCommentsLimit: 50}
	pub := broker.NoopPublisher{}

	handler := NewHandler(
		service.NewLedgerService(s, marketCfg, pub, nil),
		service.NewCommerceService(s, marketCfg, pub),
		service.NewCatalogService(s),
		service.NewMarketService(s, marketCfg, pub),
		service.NewFeedService(s, feedCfg, nil, pub),
		stubAssistant{},
	)

	router := gin.New()
	handler.SetupRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, router *gin.Engine, username string) models.User {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": username,
		"email":    username + "@test.io",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	return user
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListBrandsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/brands", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Brands []models.Brand `json:"brands"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Brands, 4)
}

func TestRegisterConflictStatus(t *testing.T) {
	router := newTestRouter(t)

	registerUser(t, router, "nova")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "other", "email": "nova@test.io", "password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginStatusCodes(t *testing.T) {
	router := newTestRouter(t)

	registerUser(t, router, "nova")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email": "nova@test.io", "password": "hunter22",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email": "nova@test.io", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email": "nova@test.io",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutEndpoint(t *testing.T) {
	router := newTestRouter(t)

	user := registerUser(t, router, "nova")

	w := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/users/%s/deposits", user.ID),
		gin.H{"amount": 1000, "currency": "TOKEN"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/users/%s/checkout", user.ID),
		gin.H{
			"items": []gin.H{{"id": "p1", "name": "Neon Jacket", "price": 150}},
			"total": 150,
		})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, int64(150), order.Total)
}

func TestCheckoutInsufficientFundsStatus(t *testing.T) {
	router := newTestRouter(t)

	user := registerUser(t, router, "nova")

	w := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/users/%s/checkout", user.ID),
		gin.H{
			"items": []gin.H{{"id": "p4", "name": "Quantum Core", "price": 1200}},
			"total": 1200,
		})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTransferStatusCodes(t *testing.T) {
	router := newTestRouter(t)

	alice := registerUser(t, router, "alice")
	registerUser(t, router, "bob")

	w := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/users/%s/transfers", alice.ID),
		gin.H{"receiverUsername": "bob", "amount": 100, "currency": "CASH"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/users/%s/transfers", alice.ID),
		gin.H{"receiverUsername": "alice", "amount": 100, "currency": "CASH"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/users/%s/transfers", alice.ID),
		gin.H{"receiverUsername": "ghost", "amount": 100, "currency": "CASH"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDesignPurchaseEndpoint(t *testing.T) {
	router := newTestRouter(t)

	creator := registerUser(t, router, "maker")

	w := doJSON(t, router, http.MethodPost, "/api/v1/designs", gin.H{
		"userId":   creator.ID,
		"username": "maker",
		"name":     "Plasma Ring",
		"price":    50,
		"config":   gin.H{"baseColor": "#ff00ff", "geometry": "torus"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		DesignID string `json:"designId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/brands/brand-alpha/designs/%s/purchase", created.DesignID), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, int64(60), product.Price)

	// Second purchase of the same design conflicts.
	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/brands/brand-beta/designs/%s/purchase", created.DesignID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAssistantEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/assistant/ask", gin.H{
		"message": "what should I wear?",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Text string `json:"text"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "stub answer", resp.Text)
}
