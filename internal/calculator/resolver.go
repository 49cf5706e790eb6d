package calculator

import (
	"math"
	"sort"

	"github.com/mmynk/wildpay/internal/models"
)

// Epsilon is the currency rounding tolerance: balances within Epsilon of
// zero count as settled.
const Epsilon = 0.01

// account is a creditor or debtor with the balance still to settle.
type account struct {
	id        string
	remaining float64
}

// ResolveDebts turns net balances into a list of payments that settles them.
//
// Greedy matching: on every round the largest creditor is paid by the
// largest debtor, for the smaller of the two amounts. One side of each
// matched pair reaches exactly zero, so the loop runs at most
// len(creditors)+len(debtors)-1 times. Ties go to the account that comes
// first in member order (then ID order for non-members), which makes the
// result deterministic.
//
// The result is not always the absolute minimum number of payments, but
// it is the pairing order callers rely on.
//
// Balances that do not sum to zero still terminate; whatever cannot be
// matched stays unsettled and must be reported by the caller.
func ResolveDebts(balances map[string]float64, members []models.Member) []models.Debt {
	var creditors, debtors []*account
	for _, id := range BalanceOrder(balances, members) {
		switch b := balances[id]; {
		case b > 0:
			creditors = append(creditors, &account{id: id, remaining: b})
		case b < 0:
			debtors = append(debtors, &account{id: id, remaining: b})
		}
	}

	debts := make([]models.Debt, 0)
	maxRounds := len(creditors) + len(debtors)
	for round := 0; round < maxRounds; round++ {
		creditor := largestCredit(creditors)
		debtor := largestDebt(debtors)
		if creditor == nil || debtor == nil {
			break
		}

		amount := math.Min(creditor.remaining, -debtor.remaining)
		debts = append(debts, models.Debt{
			From:   debtor.id,
			To:     creditor.id,
			Amount: amount,
		})

		creditor.remaining -= amount
		debtor.remaining += amount
	}

	return debts
}

// largestCredit returns the first creditor holding the largest remaining
// balance above Epsilon, or nil.
func largestCredit(creditors []*account) *account {
	var best *account
	for _, a := range creditors {
		if a.remaining <= Epsilon {
			continue
		}
		if best == nil || a.remaining > best.remaining {
			best = a
		}
	}
	return best
}

// largestDebt returns the first debtor holding the most negative remaining
// balance below -Epsilon, or nil.
func largestDebt(debtors []*account) *account {
	var best *account
	for _, a := range debtors {
		if a.remaining >= -Epsilon {
			continue
		}
		if best == nil || a.remaining < best.remaining {
			best = a
		}
	}
	return best
}

// BalanceOrder lists members in join order followed by any extra balance
// keys sorted by ID.
func BalanceOrder(balances map[string]float64, members []models.Member) []string {
	order := make([]string, 0, len(balances))
	seen := make(map[string]bool, len(balances))
	for _, m := range members {
		if _, ok := balances[m.ID]; !ok || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		order = append(order, m.ID)
	}

	var extra []string
	for id := range balances {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)

	return append(order, extra...)
}
