package models

import "time"

// PaymentDetail holds one user's card. All three card fields are ciphertext.
type PaymentDetail struct {
	ID             string
	UserID         string
	CardNumber     string
	CVC            string
	ExpirationDate string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
