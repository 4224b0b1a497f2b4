package models

import "time"

// TokenRecord is a Token Ledger entry: the (UserID, JTI) pair of an issued
// token that is still allowed. Absence means the token is not valid.
type TokenRecord struct {
	ID        string
	UserID    string
	JTI       string
	CreatedAt time.Time
}
