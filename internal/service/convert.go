package service

import (
	"github.com/mmynk/wildpay/internal/calculator"
	"github.com/mmynk/wildpay/internal/models"
	"github.com/mmynk/wildpay/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := make([]api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = api.Member{ID: m.ID, DisplayName: m.DisplayName}
	}
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Image:     g.Image,
		Members:   members,
		CreatedAt: g.CreatedAt,
	}
}

func toAPIExpenditure(e *models.Expenditure) *api.Expenditure {
	contributors := e.Contributors
	if contributors == nil {
		contributors = []string{}
	}
	return &api.Expenditure{
		ID:             e.ID,
		GroupID:        e.GroupID,
		Title:          e.Title,
		Amount:         e.Amount,
		AmountDisplay:  calculator.FormatAmount(e.Amount),
		PayerID:        e.Payer.String(),
		ContributorIDs: contributors,
		CreatedAt:      e.CreatedAt,
	}
}
