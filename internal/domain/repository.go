package domain

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// Upsert creates an account or updates the existing row with the same username
	Upsert(account *Account) error

	// FindAll returns all saved accounts ordered by group, then most recently fetched
	FindAll() ([]*Account, error)

	// FindByID finds an account by ID
	FindByID(id int64) (*Account, error)

	// FindByUsername finds an account by username
	FindByUsername(username string) (*Account, error)

	// Delete deletes an account by ID
	Delete(id int64) error

	// DeleteAll removes every saved account
	DeleteAll() error

	// UpdateGroup sets the group name and color for an account
	UpdateGroup(id int64, name, color string) error

	// Groups returns all distinct non-empty groups
	Groups() ([]AccountGroup, error)

	// Count returns the total number of saved accounts
	Count() (int64, error)
}
