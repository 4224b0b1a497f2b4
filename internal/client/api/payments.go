package api

import (
	"context"
	"net/http"
)

// Payment is the masked payment detail returned by the server.
type Payment struct {
	ID             string `json:"id,omitempty"`
	UserID         string `json:"userId"`
	CardNumber     string `json:"cardNumber,omitempty"`
	CVC            string `json:"cvc,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
}

type CreatePaymentRequest struct {
	UserID         string `json:"userId"`
	CardNumber     string `json:"cardNumber"`
	CVC            string `json:"cvc"`
	ExpirationDate string `json:"expirationDate"`
}

// UpdatePaymentRequest sends only the non-nil fields.
type UpdatePaymentRequest struct {
	UserID         string  `json:"userId"`
	CardNumber     *string `json:"cardNumber,omitempty"`
	CVC            *string `json:"cvc,omitempty"`
	ExpirationDate *string `json:"expirationDate,omitempty"`
}

func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodPost, "/auth/payment", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPayment(ctx context.Context, userID string) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodGet, "/auth/payment/"+escape(userID), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePayment(ctx context.Context, req UpdatePaymentRequest) (*Payment, error) {
	var out Payment
	if err := c.do(ctx, http.MethodPatch, "/auth/payment", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePayment(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/auth/payment/"+escape(userID), "", nil, &messageResponse{})
}
