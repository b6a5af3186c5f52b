// Package payment tạo link thanh toán UPI (upi://pay) để frontend hiển thị thành QR code.
package payment

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/thep200/gitgrade/cfg"
)

const (
	DefaultMessage  = "Great tool!"
	DefaultCurrency = "INR"
	defaultPayee    = "GitGrade Support"
)

var ErrInvalidAmount = errors.New("amount must be greater than zero")

type Request struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Message  string  `json:"message"`
}

type Link struct {
	PaymentURL    string `json:"payment_url"`
	TransactionID string `json:"transaction_id"`
}

type Generator struct {
	upiID     string
	payeeName string
	newID     func() string
}

func NewGenerator(config *cfg.Config) (*Generator, error) {
	if strings.TrimSpace(config.Payment.UpiID) == "" {
		return nil, errors.New("payment UPI id is not configured")
	}
	payee := config.Payment.PayeeName
	if payee == "" {
		payee = defaultPayee
	}
	return &Generator{
		upiID:     config.Payment.UpiID,
		payeeName: payee,
		newID:     func() string { return uuid.New().String() },
	}, nil
}

// Generate builds the link; query keys are encoded in sorted order (am, cu, pa, pn, tn)
func (g *Generator) Generate(req Request) (*Link, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	message := req.Message
	if strings.TrimSpace(message) == "" {
		message = DefaultMessage
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	params := url.Values{}
	params.Set("pa", g.upiID)
	params.Set("pn", g.payeeName)
	params.Set("tn", message)
	params.Set("am", strconv.FormatFloat(req.Amount, 'f', 2, 64))
	params.Set("cu", currency)

	return &Link{
		PaymentURL:    "upi://pay?" + params.Encode(),
		TransactionID: g.newID(),
	}, nil
}
