package domain

import "time"

// User is a locally stored account.
type User struct {
	ID             string
	Username       string
	Email          string
	HashedPassword string
	WalletAddress  *string
	IsActive       bool
	IsLandlord     bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// HasWallet reports whether a wallet address is linked.
func (u *User) HasWallet() bool {
	return u.WalletAddress != nil && *u.WalletAddress != ""
}
