package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/wildpay/internal/models"
)

func TestExpenditureChanges(t *testing.T) {
	base := models.Expenditure{
		ID:           "e1",
		GroupID:      "g1",
		Title:        "Dinner",
		Amount:       60,
		Payer:        models.PaidBy("a"),
		Contributors: []string{"a", "b"},
	}

	tests := []struct {
		name   string
		mutate func(*models.Expenditure)
		want   []string
	}{
		{"unchanged", func(*models.Expenditure) {}, nil},
		{"amount", func(e *models.Expenditure) { e.Amount = 75 }, []string{"amount"}},
		{"payer cleared", func(e *models.Expenditure) { e.Payer = models.NoPayer() }, []string{"payer"}},
		{"contributor order only", func(e *models.Expenditure) { e.Contributors = []string{"b", "a"} }, nil},
		{"contributor added", func(e *models.Expenditure) { e.Contributors = []string{"a", "b", "c"} }, []string{"contributors"}},
		{"ignored fields", func(e *models.Expenditure) { e.CreatedAt = 99; e.ID = "other" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			after := base
			after.Contributors = append([]string(nil), base.Contributors...)
			tt.mutate(&after)

			got, err := expenditureChanges(&base, &after)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
