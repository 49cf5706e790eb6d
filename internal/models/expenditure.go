package models

// Payer is an optional reference to the member who paid an expenditure.
// The zero value means "no payer"; read it with Get so the missing case
// is always handled.
type Payer struct {
	id  string
	set bool
}

// PaidBy returns a Payer set to memberID. An empty ID yields NoPayer.
func PaidBy(memberID string) Payer {
	if memberID == "" {
		return NoPayer()
	}
	return Payer{id: memberID, set: true}
}

// NoPayer returns an unset Payer.
func NoPayer() Payer {
	return Payer{}
}

// Get returns the payer's member ID and whether a payer is set.
func (p Payer) Get() (string, bool) {
	return p.id, p.set
}

// IsSet reports whether a payer is present.
func (p Payer) IsSet() bool {
	return p.set
}

// String returns the payer ID, or "" when unset. Meant for logs and storage.
func (p Payer) String() string {
	return p.id
}

// Expenditure is a single payment made by one member on behalf of a set
// of contributors who share its cost equally.
type Expenditure struct {
	// ID is the unique identifier for the expenditure (UUID format).
	ID string `diff:"-"`

	// GroupID is the group this expenditure belongs to.
	GroupID string `diff:"-"`

	// Title describes the expenditure (e.g., "Groceries").
	Title string `diff:"title"`

	// Amount is the total paid. Never negative.
	Amount float64 `diff:"amount"`

	// Payer is who paid. Expenditures without a payer are kept but
	// excluded from balance computation.
	Payer Payer `diff:"payer"`

	// Contributors are the distinct member IDs sharing the cost.
	// The payer may or may not be one of them.
	Contributors []string `diff:"contributors"`

	// CreatedAt is the Unix timestamp when the expenditure was recorded.
	CreatedAt int64 `diff:"-"`
}
