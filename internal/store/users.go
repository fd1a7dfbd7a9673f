package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auraverse/internal/models"
)

// CreateUser inserts a new user row. Email uniqueness is checked by
// exact match before the insert; both balances come from the caller.
func (s *Store) CreateUser(ctx context.Context, u *models.UserRow) error {
	var existing string
	err := s.db.GetContext(ctx, &existing, s.rebind("SELECT id FROM users WHERE email = ?"), u.Email)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO users
		(id, username, email, password_hash, tokens, cash, ver_email, ver_phone, ver_id, avatar_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		u.ID, u.Username, u.Email, u.PasswordHash, u.Tokens, u.Cash,
		u.VerEmail, u.VerPhone, u.VerID, u.AvatarURL)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserRowByEmail retrieves the raw user row for credential checks.
func (s *Store) GetUserRowByEmail(ctx context.Context, email string) (*models.UserRow, error) {
	var row models.UserRow
	err := s.db.GetContext(ctx, &row, s.rebind("SELECT * FROM users WHERE email = ?"), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetUserRowByID retrieves the raw user row.
func (s *Store) GetUserRowByID(ctx context.Context, id string) (*models.UserRow, error) {
	var row models.UserRow
	err := s.db.GetContext(ctx, &row, s.rebind("SELECT * FROM users WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetUser assembles the user read model: row plus order history, items
// decoded from their snapshot column. Cart is always empty here; it is
// UI session state and never persisted.
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	row, err := s.GetUserRowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.GetOrdersByUserID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:        row.ID,
		Username:  row.Username,
		Email:     row.Email,
		Tokens:    row.Tokens,
		Cash:      row.Cash,
		Cart:      []models.Product{},
		AvatarURL: row.AvatarURL,
		Verification: models.VerificationStatus{
			EmailVerified: row.VerEmail,
			PhoneVerified: row.VerPhone,
			IDVerified:    row.VerID,
		},
		Orders: orders,
	}, nil
}

// UpdateVerification sets one verification flag true. Setting an
// already-true flag is a no-op; flags never revert.
func (s *Store) UpdateVerification(ctx context.Context, userID, kind string) error {
	var column string
	switch kind {
	case models.VerificationEmail:
		column = "ver_email"
	case models.VerificationPhone:
		column = "ver_phone"
	case models.VerificationID:
		column = "ver_id"
	default:
		return fmt.Errorf("%w: unknown verification kind %q", ErrInvalidInput, kind)
	}

	res, err := s.db.ExecContext(ctx,
		s.rebind(fmt.Sprintf("UPDATE users SET %s = ? WHERE id = ?", column)), true, userID)
	if err != nil {
		return fmt.Errorf("failed to update verification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateAvatar replaces the user's avatar URL.
func (s *Store) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	res, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE users SET avatar_url = ? WHERE id = ?"), avatarURL, userID)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GrantTokenReward unconditionally credits tokens to a user.
func (s *Store) GrantTokenReward(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	res, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE users SET tokens = tokens + ? WHERE id = ?"), amount, userID)
	if err != nil {
		return fmt.Errorf("failed to grant reward: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Deposit credits the chosen balance. There is no payment gateway
// behind this: once the amount validates, the deposit succeeds.
func (s *Store) Deposit(ctx context.Context, userID string, amount int64, currency models.Currency) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	column, err := balanceColumn(currency)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		s.rebind(fmt.Sprintf("UPDATE users SET %s = %s + ? WHERE id = ?", column, column)),
		amount, userID)
	if err != nil {
		return fmt.Errorf("failed to deposit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TransferFunds moves amount in the chosen currency from sender to the
// user holding receiverUsername. Debit and credit run inside one
// transaction and the debit carries the balance floor in its WHERE
// clause, so a failure at any step leaves both balances untouched and
// the sender can never go negative.
func (s *Store) TransferFunds(ctx context.Context, senderID, receiverUsername string, amount int64, currency models.Currency) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	column, err := balanceColumn(currency)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transfer transaction: %w", err)
	}
	defer tx.Rollback()

	var sender models.UserRow
	err = tx.GetContext(ctx, &sender, s.rebind("SELECT * FROM users WHERE id = ?"), senderID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load sender: %w", err)
	}

	var receiver models.UserRow
	err = tx.GetContext(ctx, &receiver, s.rebind("SELECT * FROM users WHERE username = ?"), receiverUsername)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrReceiverNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load receiver: %w", err)
	}

	if receiver.ID == sender.ID {
		return ErrSelfTransfer
	}

	available := sender.Tokens
	if currency == models.CurrencyCash {
		available = sender.Cash
	}

	// The balance check lives inside the debit itself: a concurrent
	// transaction that spent the same funds between our read and write
	// makes the guarded UPDATE match zero rows instead of going negative.
	debit := s.rebind(fmt.Sprintf(
		"UPDATE users SET %s = %s - ? WHERE id = ? AND %s >= ?", column, column, column))
	credit := s.rebind(fmt.Sprintf("UPDATE users SET %s = %s + ? WHERE id = ?", column, column))

	res, err := tx.ExecContext(ctx, debit, amount, sender.ID, amount)
	if err != nil {
		return fmt.Errorf("failed to debit sender: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &InsufficientFundsError{
			UserID:    sender.ID,
			Currency:  currency,
			Available: available,
			Requested: amount,
		}
	}
	if _, err := tx.ExecContext(ctx, credit, amount, receiver.ID); err != nil {
		return fmt.Errorf("failed to credit receiver: %w", err)
	}

	return tx.Commit()
}

// ExchangeCashForTokens debits cash and credits cash*rate tokens in one
// transaction.
func (s *Store) ExchangeCashForTokens(ctx context.Context, userID string, cashAmount, rate int64) (int64, error) {
	if cashAmount <= 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin exchange transaction: %w", err)
	}
	defer tx.Rollback()

	var user models.UserRow
	err = tx.GetContext(ctx, &user, s.rebind("SELECT * FROM users WHERE id = ?"), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load user: %w", err)
	}

	tokenAmount := cashAmount * rate

	// Guarded like transfers: the cash floor is enforced by the UPDATE,
	// not by the read above.
	res, err := tx.ExecContext(ctx,
		s.rebind("UPDATE users SET cash = cash - ?, tokens = tokens + ? WHERE id = ? AND cash >= ?"),
		cashAmount, tokenAmount, userID, cashAmount)
	if err != nil {
		return 0, fmt.Errorf("failed to exchange: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, &InsufficientFundsError{
			UserID:    userID,
			Currency:  models.CurrencyCash,
			Available: user.Cash,
			Requested: cashAmount,
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return tokenAmount, nil
}

func balanceColumn(currency models.Currency) (string, error) {
	switch currency {
	case models.CurrencyCash:
		return "cash", nil
	case models.CurrencyToken:
		return "tokens", nil
	default:
		return "", fmt.Errorf("%w: unknown currency %q", ErrInvalidInput, currency)
	}
}
