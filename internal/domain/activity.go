package domain

import "time"

// ActivityKind identifies the type of journaled activity.
type ActivityKind string

const (
	ActivityQuote          ActivityKind = "QUOTE"
	ActivityListingSubmit  ActivityKind = "LISTING_SUBMITTED"
	ActivityListingMined   ActivityKind = "LISTING_MINED"
	ActivityListingFailed  ActivityKind = "LISTING_FAILED"
	ActivityWalletLinked   ActivityKind = "WALLET_LINKED"
	ActivityUserRegistered ActivityKind = "USER_REGISTERED"
)

// ActivityEvent is one append-only journal entry.
type ActivityEvent struct {
	Kind       ActivityKind
	Subject    string // username or wallet address
	PropertyID uint64
	TxHash     string
	Amount     string // decimal string, ether
	Detail     string
	OccurredAt time.Time
}
