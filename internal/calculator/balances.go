package calculator

import (
	"sort"

	"github.com/mmynk/wildpay/internal/models"
)

// BalanceReport is the result of reducing a group's expenditures.
type BalanceReport struct {
	// Balances maps member ID to net balance.
	// Positive = owed money, Negative = owes money.
	Balances map[string]float64

	// Order is the stable working order of Balances keys: group members in
	// join order, then any non-member IDs (e.g. a payer who has since left
	// the group) sorted ascending.
	Order []string

	// MissingPayer counts expenditures skipped because no payer is set.
	MissingPayer int

	// EmptyContributors counts expenditures skipped because they have a
	// payer but nobody to split the cost with.
	EmptyContributors int
}

// ComputeBalances reduces expenditures to a net balance per member.
//
// Algorithm:
//   - Every member starts at 0, even without any activity
//   - For each expenditure with a payer and contributors:
//     payer += amount, each contributor -= amount / len(contributors)
//   - Expenditures without a payer or without contributors are skipped
//     and counted so the caller can warn about them
//
// A payer or contributor who is no longer a member still gets a balance
// entry, which keeps the total at zero.
func ComputeBalances(members []models.Member, expenditures []models.Expenditure) BalanceReport {
	report := BalanceReport{
		Balances: make(map[string]float64, len(members)),
	}

	for _, m := range members {
		if _, exists := report.Balances[m.ID]; exists {
			continue
		}
		report.Balances[m.ID] = 0
		report.Order = append(report.Order, m.ID)
	}

	var outsiders []string
	touch := func(id string) {
		if _, exists := report.Balances[id]; !exists {
			report.Balances[id] = 0
			outsiders = append(outsiders, id)
		}
	}

	for _, exp := range expenditures {
		payerID, ok := exp.Payer.Get()
		if !ok {
			report.MissingPayer++
			continue
		}
		contributors := distinct(exp.Contributors)
		if len(contributors) == 0 {
			report.EmptyContributors++
			continue
		}

		share := exp.Amount / float64(len(contributors))

		touch(payerID)
		report.Balances[payerID] += exp.Amount

		for _, c := range contributors {
			touch(c)
			report.Balances[c] -= share
		}
	}

	sort.Strings(outsiders)
	report.Order = append(report.Order, outsiders...)

	return report
}

// Sum returns the total of all balances; ~0 for well-formed input.
func (r BalanceReport) Sum() float64 {
	var total float64
	for _, id := range r.Order {
		total += r.Balances[id]
	}
	return total
}

// distinct drops empty and repeated IDs, keeping first occurrence order.
func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
