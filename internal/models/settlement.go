package models

// Debt is a computed instruction: From must pay To exactly Amount.
// Debts are produced by the resolver and never persisted.
type Debt struct {
	From   string
	To     string
	Amount float64
}

// Warning classifies input the calculator could not use as-is.
// Warnings never abort a calculation.
type Warning string

const (
	// WarningMissingPayer marks expenditures without a payer; they are excluded.
	WarningMissingPayer Warning = "missing_payer"
	// WarningEmptyContributors marks expenditures with a payer but no
	// contributors; they are rejected to avoid dividing by zero.
	WarningEmptyContributors Warning = "empty_contributor_set"
	// WarningUnbalancedInput marks balances that do not sum to zero.
	WarningUnbalancedInput Warning = "unbalanced_input"
)

// SettlementStatus is the outcome category shown next to a result.
type SettlementStatus int

const (
	StatusNothingToSettle SettlementStatus = iota
	StatusSettled
	StatusExcluded
	StatusRejected
)

func (s SettlementStatus) String() string {
	switch s {
	case StatusSettled:
		return "settled"
	case StatusExcluded:
		return "excluded"
	case StatusRejected:
		return "rejected"
	default:
		return "nothing_to_settle"
	}
}

// SettlementResult is the full answer for one group snapshot.
// It is built fresh on every request and must not be mutated afterwards.
type SettlementResult struct {
	// GroupID is the group the result was computed for.
	GroupID string

	// TotalAmount is the sum of every expenditure amount in the group,
	// including expenditures excluded from the calculation.
	TotalAmount float64

	// Balances maps member ID to net balance.
	// Positive = owed money, negative = owes money.
	Balances map[string]float64

	// Debts are the settling payments in emission order.
	Debts []Debt

	// MissingPayer counts expenditures excluded for lacking a payer.
	MissingPayer int

	// EmptyContributors counts expenditures rejected for having no contributors.
	EmptyContributors int

	// Imbalance is the sum of all balances; ~0 for well-formed input.
	Imbalance float64

	// Warnings lists the warning kinds present, in a fixed order.
	Warnings []Warning

	// Status is the outcome category.
	Status SettlementStatus

	// Message is the human-readable status line.
	Message string
}

// HasWarning reports whether w is among the result's warnings.
func (r *SettlementResult) HasWarning(w Warning) bool {
	for _, got := range r.Warnings {
		if got == w {
			return true
		}
	}
	return false
}
