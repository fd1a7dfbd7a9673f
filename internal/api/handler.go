package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"auraverse/internal/models"
	"auraverse/internal/service"
	"auraverse/internal/store"
	"auraverse/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	ledger    *service.LedgerService
	commerce  *service.CommerceService
	catalog   *service.CatalogService
	market    *service.MarketService
	feed      *service.FeedService
	assistant service.Assistant
}

// NewHandler creates a new HTTP handler
func NewHandler(
	ledger *service.LedgerService,
	commerce *service.CommerceService,
	catalog *service.CatalogService,
	market *service.MarketService,
	feed *service.FeedService,
	assistant service.Assistant,
) *Handler {
	return &Handler{
		ledger:    ledger,
		commerce:  commerce,
		catalog:   catalog,
		market:    market,
		feed:      feed,
		assistant: assistant,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/brands", h.listBrands)
		v1.POST("/brands/:id/products", h.addProduct)
		v1.POST("/brands/:id/coupons", h.addCoupon)
		v1.POST("/brands/:id/campaigns", h.addCampaign)
		v1.PUT("/brands/:id/pod", h.updatePodConfig)
		v1.GET("/brands/:id/comments", h.listComments)
		v1.POST("/brands/:id/comments", h.addComment)
		v1.POST("/brands/:id/designs/:designId/purchase", h.purchaseDesign)

		v1.POST("/auth/register", h.register)
		v1.POST("/auth/login", h.login)

		v1.GET("/users/:id", h.getUser)
		v1.POST("/users/:id/verification", h.updateVerification)
		v1.PUT("/users/:id/avatar", h.updateAvatar)
		v1.POST("/users/:id/rewards", h.grantReward)
		v1.POST("/users/:id/rewards/daily", h.grantDailyReward)
		v1.POST("/users/:id/deposits", h.deposit)
		v1.POST("/users/:id/transfers", h.transfer)
		v1.POST("/users/:id/exchange", h.exchange)
		v1.POST("/users/:id/checkout", h.checkout)

		v1.GET("/designs", h.listDesigns)
		v1.POST("/designs", h.publishDesign)

		v1.GET("/feed/orders", h.recentOrders)
		v1.GET("/feed/comments", h.globalComments)
		v1.POST("/feed/comments", h.addGlobalComment)

		v1.POST("/assistant/ask", h.askAssistant)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// fail maps business failures to status codes; anything unrecognized
// is a fault and surfaces as 500.
func fail(c *gin.Context, err error) {
	var fundsErr *store.InsufficientFundsError
	var stockErr *store.InsufficientStockError

	switch {
	case errors.As(err, &fundsErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "insufficient funds",
			"currency":  fundsErr.Currency,
			"available": fundsErr.Available,
			"requested": fundsErr.Requested,
		})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "insufficient stock",
			"product_id": stockErr.ProductID,
		})
	case errors.Is(err, store.ErrEmailTaken),
		errors.Is(err, store.ErrSelfTransfer),
		errors.Is(err, store.ErrDesignNotForSale):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrReceiverNotFound),
		errors.Is(err, store.ErrBrandNotFound),
		errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrDesignNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidAmount),
		errors.Is(err, store.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
}

func (h *Handler) listBrands(c *gin.Context) {
	brands, err := h.catalog.ListBrands(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

func (h *Handler) addProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.catalog.AddProduct(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) addCoupon(c *gin.Context) {
	var cp models.Coupon
	if err := c.ShouldBindJSON(&cp); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.catalog.AddCoupon(c.Request.Context(), c.Param("id"), cp)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) addCampaign(c *gin.Context) {
	var cp models.Campaign
	if err := c.ShouldBindJSON(&cp); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.catalog.AddCampaign(c.Request.Context(), c.Param("id"), cp)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updatePodConfig(c *gin.Context) {
	var cfg models.PodConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.catalog.UpdatePodConfig(c.Request.Context(), c.Param("id"), cfg); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.ledger.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.ledger.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.ledger.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type verificationRequest struct {
	Kind string `json:"kind" binding:"required"`
}

func (h *Handler) updateVerification(c *gin.Context) {
	var req verificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.ledger.UpdateVerification(c.Request.Context(), c.Param("id"), req.Kind); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

type avatarRequest struct {
	AvatarURL string `json:"avatarUrl" binding:"required"`
}

func (h *Handler) updateAvatar(c *gin.Context) {
	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.ledger.UpdateAvatar(c.Request.Context(), c.Param("id"), req.AvatarURL); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

type rewardRequest struct {
	Amount int64 `json:"amount" binding:"required"`
}

func (h *Handler) grantReward(c *gin.Context) {
	var req rewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.ledger.GrantTokenReward(c.Request.Context(), c.Param("id"), req.Amount); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "granted"})
}

func (h *Handler) grantDailyReward(c *gin.Context) {
	issued, err := h.ledger.GrantDailyReward(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"issued": issued})
}

type depositRequest struct {
	Amount   int64           `json:"amount" binding:"required"`
	Currency models.Currency `json:"currency" binding:"required"`
}

func (h *Handler) deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.ledger.Deposit(c.Request.Context(), c.Param("id"), req.Amount, req.Currency); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deposited"})
}

type transferRequest struct {
	ReceiverUsername string          `json:"receiverUsername" binding:"required"`
	Amount           int64           `json:"amount" binding:"required"`
	Currency         models.Currency `json:"currency" binding:"required"`
}

func (h *Handler) transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.ledger.Transfer(c.Request.Context(), c.Param("id"), req.ReceiverUsername, req.Amount, req.Currency)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "transferred"})
}

type exchangeRequest struct {
	CashAmount int64 `json:"cashAmount" binding:"required"`
}

func (h *Handler) exchange(c *gin.Context) {
	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	tokens, err := h.ledger.ExchangeCashForTokens(c.Request.Context(), c.Param("id"), req.CashAmount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokensCredited": tokens})
}

func (h *Handler) checkout(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.commerce.Checkout(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) listDesigns(c *gin.Context) {
	designs, err := h.market.ListDesignsForSale(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"designs": designs})
}

func (h *Handler) publishDesign(c *gin.Context) {
	var req service.PublishDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id, err := h.market.PublishDesign(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"designId": id})
}

func (h *Handler) purchaseDesign(c *gin.Context) {
	product, err := h.market.PurchaseDesign(c.Request.Context(), c.Param("id"), c.Param("designId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) recentOrders(c *gin.Context) {
	feed, err := h.feed.RecentOrders(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": feed})
}

func (h *Handler) listComments(c *gin.Context) {
	comments, err := h.feed.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type commentRequest struct {
	UserID    string `json:"userId" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Text      string `json:"text" binding:"required"`
	AvatarURL string `json:"avatarUrl"`
}

func (h *Handler) addComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.feed.AddComment(c.Request.Context(), c.Param("id"),
		req.UserID, req.Username, req.Text, req.AvatarURL)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) globalComments(c *gin.Context) {
	comments, err := h.feed.GlobalComments(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *Handler) addGlobalComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment, err := h.feed.AddGlobalComment(c.Request.Context(),
		req.UserID, req.Username, req.Text, req.AvatarURL)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

type assistantAskRequest struct {
	Message  string           `json:"message" binding:"required"`
	Products []models.Product `json:"products"`
}

func (h *Handler) askAssistant(c *gin.Context) {
	var req assistantAskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	text, err := h.assistant.Ask(c.Request.Context(), req.Products, req.Message)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant unavailable", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
