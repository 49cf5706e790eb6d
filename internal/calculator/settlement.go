package calculator

import (
	"math"

	"github.com/mmynk/wildpay/internal/models"
)

// UnbalancedTolerance is how far the balance total may drift from zero
// before the input is flagged as unbalanced.
const UnbalancedTolerance = 4 * Epsilon

// Status messages shown next to a settlement.
const (
	MessageExcluded        = "Expenditures without a payer were not included in the calculation. Add a payer to include them."
	MessageRejected        = "Expenditures without contributors were not included in the calculation."
	MessageSettled         = "Balances calculated successfully."
	MessageNothingToSettle = "No settlement needed."
)

// Settle computes balances and settling debts for a fully loaded group.
// It never fails: malformed expenditures are skipped and reported as
// warnings on the result.
func Settle(group *models.Group) *models.SettlementResult {
	report := ComputeBalances(group.Members, group.Expenditures)
	debts := ResolveDebts(report.Balances, group.Members)

	result := &models.SettlementResult{
		GroupID:           group.ID,
		TotalAmount:       TotalAmount(group.Expenditures),
		Balances:          report.Balances,
		Debts:             debts,
		MissingPayer:      report.MissingPayer,
		EmptyContributors: report.EmptyContributors,
		Imbalance:         report.Sum(),
	}

	if result.MissingPayer > 0 {
		result.Warnings = append(result.Warnings, models.WarningMissingPayer)
	}
	if result.EmptyContributors > 0 {
		result.Warnings = append(result.Warnings, models.WarningEmptyContributors)
	}
	if math.Abs(result.Imbalance) > UnbalancedTolerance {
		result.Warnings = append(result.Warnings, models.WarningUnbalancedInput)
	}

	result.Status, result.Message = status(result)
	return result
}

// TotalAmount sums every expenditure, including ones excluded from the
// balance calculation.
func TotalAmount(expenditures []models.Expenditure) float64 {
	var total float64
	for _, e := range expenditures {
		total += e.Amount
	}
	return total
}

// status applies the message policy: missing payers win over rejected
// expenditures, which win over the debt outcome.
func status(r *models.SettlementResult) (models.SettlementStatus, string) {
	switch {
	case r.MissingPayer > 0:
		return models.StatusExcluded, MessageExcluded
	case r.EmptyContributors > 0:
		return models.StatusRejected, MessageRejected
	case len(r.Debts) > 0:
		return models.StatusSettled, MessageSettled
	default:
		return models.StatusNothingToSettle, MessageNothingToSettle
	}
}
