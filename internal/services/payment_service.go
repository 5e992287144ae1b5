// internal/services/payment_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/flavorsnap/ip-backend/internal/config"
	"github.com/flavorsnap/ip-backend/internal/models"
	"github.com/flavorsnap/ip-backend/internal/storage"
	"github.com/flavorsnap/ip-backend/internal/utils"
)

// PaymentExecutor moves value between two principal accounts under a
// designated token. It must run against the caller's open transaction and
// fail closed, leaving no partial movement behind.
type PaymentExecutor interface {
	Transfer(ctx context.Context, tx storage.Store, txnType models.TransactionType,
		assetID *uint64, token string, from, to uuid.UUID, amount int64) error
}

type PaymentService struct {
	store  storage.Store
	config *config.Config
}

type CreateDepositRequest struct {
	Amount int64  `json:"amount" validate:"required,min=1"`
	Token  string `json:"token,omitempty"`
}

type DepositIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type ConfirmDepositRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func NewPaymentService(store storage.Store, config *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		store:  store,
		config: config,
	}
}

// Transfer debits `from` and credits `to` inside the given transaction, and
// records the movement. Balance mutation and the transaction record commit
// or roll back together with the caller's state changes.
func (s *PaymentService) Transfer(ctx context.Context, tx storage.Store, txnType models.TransactionType,
	assetID *uint64, token string, from, to uuid.UUID, amount int64) error {
	if amount < 0 {
		return ErrInvariantViolated
	}

	fromBalance, err := tx.Balances().Get(ctx, from, token)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return ErrInsufficientFunds
	}
	if err := tx.Balances().Set(ctx, from, token, fromBalance-amount); err != nil {
		return err
	}

	toBalance, err := tx.Balances().Get(ctx, to, token)
	if err != nil {
		return err
	}
	if err := tx.Balances().Set(ctx, to, token, toBalance+amount); err != nil {
		return err
	}

	fromID := from
	return tx.Transactions().Append(ctx, &models.Transaction{
		TransactionType: txnType,
		AssetID:         assetID,
		FromID:          &fromID,
		ToID:            to,
		Token:           token,
		Amount:          amount,
	})
}

// CreateDepositIntent opens a Stripe PaymentIntent that funds the caller's
// token balance once confirmed.
func (s *PaymentService) CreateDepositIntent(ctx context.Context, principal uuid.UUID, req *CreateDepositRequest) (*DepositIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	token := req.Token
	if token == "" {
		token = s.config.Payment.DefaultToken
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String("usd"),
	}
	params.AddMetadata("principal_id", principal.String())
	params.AddMetadata("token", token)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &DepositIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmDeposit checks the PaymentIntent with Stripe and, if it succeeded,
// credits the caller's balance and records the deposit in one atomic step.
// Confirming the same PaymentIntent again does not credit twice.
func (s *PaymentService) ConfirmDeposit(ctx context.Context, principal uuid.UUID, req *ConfirmDepositRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return fmt.Errorf("failed to get payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("payment intent %s is not settled (status %s)", pi.ID, pi.Status)
	}

	token := pi.Metadata["token"]
	if token == "" {
		token = s.config.Payment.DefaultToken
	}

	return s.creditDeposit(ctx, principal, token, pi.Amount, pi.ID)
}

// creditDeposit credits a settled external payment exactly once, keyed by
// its payment reference. A replayed confirmation is a no-op, never a second
// credit.
func (s *PaymentService) creditDeposit(ctx context.Context, principal uuid.UUID, token string, amount int64, reference string) error {
	return s.store.Atomically(ctx, func(tx storage.Store) error {
		seen, err := tx.Transactions().HasReference(ctx, reference)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}

		balance, err := tx.Balances().Get(ctx, principal, token)
		if err != nil {
			return err
		}
		if err := tx.Balances().Set(ctx, principal, token, balance+amount); err != nil {
			return err
		}
		return tx.Transactions().Append(ctx, &models.Transaction{
			TransactionType:  models.TransactionTypeDeposit,
			ToID:             principal,
			Token:            token,
			Amount:           amount,
			PaymentReference: reference,
		})
	})
}

func (s *PaymentService) GetBalances(ctx context.Context, principal uuid.UUID) ([]models.TokenBalance, error) {
	return s.store.Balances().ListByPrincipal(ctx, principal)
}

func (s *PaymentService) GetPaymentHistory(ctx context.Context, principal uuid.UUID, params utils.PaginationParams) ([]models.Transaction, int64, error) {
	return s.store.Transactions().ListByPrincipal(ctx, principal, params)
}
