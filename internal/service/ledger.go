package service

import (
	"context"
	"fmt"
	"time"

	"auraverse/config"
	"auraverse/internal/broker"
	"auraverse/internal/models"
	"auraverse/internal/redisclient"
	"auraverse/internal/store"
	"auraverse/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LedgerService handles identity and wallet operations.
type LedgerService struct {
	store     *store.Store
	cfg       config.MarketConfig
	publisher broker.Publisher
	redis     *redisclient.Client
	logger    *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(st *store.Store, cfg config.MarketConfig, publisher broker.Publisher, redis *redisclient.Client) *LedgerService {
	return &LedgerService{
		store:     st,
		cfg:       cfg,
		publisher: publisher,
		redis:     redis,
		logger:    util.GetLogger(),
	}
}

// RegisterRequest carries the signup payload. Tokens and Cash are the
// caller-decided starting balances; zero cash falls back to the
// configured welcome amount.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Tokens   int64  `json:"tokens"`
	Cash     int64  `json:"cash"`
}

// Register creates a user with a bcrypt password hash. A duplicate
// email fails with ErrEmailTaken and leaves the existing row untouched.
func (ls *LedgerService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if req.Tokens < 0 || req.Cash < 0 {
		return nil, store.ErrInvalidAmount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	cash := req.Cash
	if cash == 0 {
		cash = ls.cfg.WelcomeCash
	}

	row := &models.UserRow{
		ID:           store.NewUserID(),
		Username:     util.Sanitize(req.Username),
		Email:        req.Email,
		PasswordHash: string(hash),
		Tokens:       req.Tokens,
		Cash:         cash,
	}

	if err := ls.store.CreateUser(ctx, row); err != nil {
		return nil, err
	}

	ls.logger.Info("User registered", zap.String("user_id", row.ID))
	return ls.store.GetUser(ctx, row.ID)
}

// Login verifies credentials and returns the assembled user.
func (ls *LedgerService) Login(ctx context.Context, email, password string) (*models.User, error) {
	row, err := ls.store.GetUserRowByEmail(ctx, email)
	if err != nil {
		// Not-found collapses into invalid-credentials so login does
		// not leak which emails exist.
		return nil, store.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return nil, store.ErrInvalidCredentials
	}

	return ls.store.GetUser(ctx, row.ID)
}

// GetUser returns the user read model.
func (ls *LedgerService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return ls.store.GetUser(ctx, userID)
}

// UpdateVerification sets one of the three verification flags.
func (ls *LedgerService) UpdateVerification(ctx context.Context, userID, kind string) error {
	return ls.store.UpdateVerification(ctx, userID, kind)
}

// UpdateAvatar replaces the user's avatar URL after sanitization.
func (ls *LedgerService) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	return ls.store.UpdateAvatar(ctx, userID, util.Sanitize(avatarURL))
}

// GrantTokenReward credits an engagement reward.
func (ls *LedgerService) GrantTokenReward(ctx context.Context, userID string, amount int64) error {
	if err := ls.store.GrantTokenReward(ctx, userID, amount); err != nil {
		return err
	}
	util.RewardsIssuedTotal.Inc()
	return nil
}

// GrantDailyReward issues the configured daily reward at most once per
// UTC day per user, guarded by a Redis SetNX key. Returns whether the
// reward was issued; with no Redis configured the claim is refused
// outright rather than becoming an unlimited faucet.
func (ls *LedgerService) GrantDailyReward(ctx context.Context, userID string) (bool, error) {
	claimed, err := ls.redis.ClaimDailyReward(ctx, userID, time.Now())
	if err != nil {
		return false, fmt.Errorf("failed to claim daily reward: %w", err)
	}
	if !claimed {
		return false, nil
	}

	if err := ls.GrantTokenReward(ctx, userID, ls.cfg.DailyRewardTokens); err != nil {
		return false, err
	}
	return true, nil
}

// Deposit credits the chosen balance after validation.
func (ls *LedgerService) Deposit(ctx context.Context, userID string, amount int64, currency models.Currency) error {
	if err := ls.store.Deposit(ctx, userID, amount, currency); err != nil {
		return err
	}

	util.DepositsTotal.WithLabelValues(string(currency)).Inc()
	ls.logger.Info("Deposit completed",
		zap.String("user_id", userID),
		zap.Int64("amount", amount),
		zap.String("currency", string(currency)))

	event := &models.FundsDepositedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeFundsDeposited,
			Timestamp: time.Now(),
		},
		UserID:   userID,
		Amount:   amount,
		Currency: currency,
	}
	if err := ls.publisher.PublishFundsDeposited(ctx, event); err != nil {
		ls.logger.Error("Failed to publish FundsDeposited event", zap.Error(err))
	}
	return nil
}

// Transfer moves funds to the user holding receiverUsername.
func (ls *LedgerService) Transfer(ctx context.Context, senderID, receiverUsername string, amount int64, currency models.Currency) error {
	ctx, span := util.StartSpan(ctx, "LedgerService.Transfer")
	defer span.End()

	receiverUsername = util.Sanitize(receiverUsername)

	if err := ls.store.TransferFunds(ctx, senderID, receiverUsername, amount, currency); err != nil {
		util.TransfersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return err
	}

	util.TransfersTotal.Inc()
	ls.logger.Info("Transfer completed",
		zap.String("sender_id", senderID),
		zap.String("receiver", receiverUsername),
		zap.Int64("amount", amount),
		zap.String("currency", string(currency)))

	event := &models.FundsTransferredEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeFundsTransferred,
			Timestamp: time.Now(),
		},
		SenderID: senderID,
		Receiver: receiverUsername,
		Amount:   amount,
		Currency: currency,
	}
	if err := ls.publisher.PublishFundsTransferred(ctx, event); err != nil {
		ls.logger.Error("Failed to publish FundsTransferred event", zap.Error(err))
	}

	return nil
}

// ExchangeCashForTokens converts cash to tokens at the configured rate
// and returns the tokens credited.
func (ls *LedgerService) ExchangeCashForTokens(ctx context.Context, userID string, cashAmount int64) (int64, error) {
	ctx, span := util.StartSpan(ctx, "LedgerService.ExchangeCashForTokens")
	defer span.End()

	tokens, err := ls.store.ExchangeCashForTokens(ctx, userID, cashAmount, ls.cfg.TokensPerCash)
	if err != nil {
		return 0, err
	}

	util.ExchangesTotal.Inc()
	ls.logger.Info("Exchange completed",
		zap.String("user_id", userID),
		zap.Int64("cash", cashAmount),
		zap.Int64("tokens", tokens))
	return tokens, nil
}
