package domain

import "context"

// Tx is the view of the entity store inside one multi-group transaction.
// Writes are buffered until the surrounding RunInTx commits.
type Tx interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetConference(ctx context.Context, key string) (*Conference, error)
	// SaveProfile inserts a profile with Version 0, otherwise updates it if its
	// version is unchanged since it was read.
	SaveProfile(ctx context.Context, p *Profile) error
	// SaveConference updates the conference if its version is unchanged since it was read.
	SaveConference(ctx context.Context, c *Conference) error
}

// Transactor runs fn atomically. A lost optimistic race is reported as
// ErrConcurrentModification; a store deadline as ErrStoreTimeout. Any error
// returned by fn rolls the transaction back.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// InventoryService toggles a user's registration for a conference while
// keeping the conference's seat counter consistent.
type InventoryService interface {
	// Register returns true on success, ErrAlreadyRegistered, ErrNoSeatsAvailable
	// or ErrNotFound on business failures and ErrTransactionConflict when
	// retries are exhausted.
	Register(ctx context.Context, identity Identity, conferenceKey string) (bool, error)
	// Unregister returns false when the user was not registered.
	Unregister(ctx context.Context, identity Identity, conferenceKey string) (bool, error)
}
