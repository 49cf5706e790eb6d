package calculator

import "github.com/mmynk/wildpay/internal/models"

func members(ids ...string) []models.Member {
	out := make([]models.Member, len(ids))
	for i, id := range ids {
		out[i] = models.Member{ID: id, DisplayName: id}
	}
	return out
}

func expenditure(amount float64, payer string, contributors ...string) models.Expenditure {
	return models.Expenditure{
		Title:        "test",
		Amount:       amount,
		Payer:        models.PaidBy(payer),
		Contributors: contributors,
	}
}
