package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"partshop/internal/logging"
	"partshop/internal/payments"
)

// PaymentProvider создаёт платёжные намерения у эквайера
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, req payments.IntentRequest) (payments.Intent, error)
}

// PaymentIntentInput amount в минимальных единицах валюты
type PaymentIntentInput struct {
	Amount   int64  `json:"amount" validate:"gt=0"`
	Currency string `json:"currency" validate:"omitempty,len=3,alpha"`
}

// PaymentService без провайдера отвечает ErrUnavailable
type PaymentService struct {
	provider        PaymentProvider
	defaultCurrency string
	logger          *zap.Logger
}

func NewPaymentService(provider PaymentProvider, defaultCurrency string, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	currency := strings.ToLower(strings.TrimSpace(defaultCurrency))
	if currency == "" {
		currency = "aed"
	}
	return &PaymentService{provider: provider, defaultCurrency: currency, logger: logger.Named("payments")}
}

// CreatePaymentIntent возвращает client secret для подтверждения оплаты картой
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, in PaymentIntentInput) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("%w: payments are not configured", ErrUnavailable)
	}
	if err := validateInput(in); err != nil {
		return "", err
	}
	currency := strings.ToLower(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}
	intent, err := s.provider.CreatePaymentIntent(ctx, payments.IntentRequest{Amount: in.Amount, Currency: currency})
	if err != nil {
		logging.FromContext(ctx, s.logger).Error("payment intent failed",
			zap.Int64("amount", in.Amount), zap.String("currency", currency), zap.Error(err))
		return "", err
	}
	return intent.ClientSecret, nil
}
