package service

import (
	"context"
	"strings"

	"github.com/mmynk/wesplit/internal/middleware"
	"github.com/mmynk/wesplit/internal/models"
	"github.com/mmynk/wesplit/internal/storage"
)

// memberGroup loads a group the caller belongs to.
func memberGroup(ctx context.Context, store storage.Store, groupID string) (*models.Group, error) {
	if strings.TrimSpace(groupID) == "" {
		return nil, invalidf("group_id required")
	}
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasUser(middleware.GetUserID(ctx)) {
		return nil, errNotMember
	}
	return group, nil
}

// caller describes the authenticated user.
func caller(ctx context.Context) models.User {
	return models.User{
		ID:    middleware.GetUserID(ctx),
		Name:  middleware.GetName(ctx),
		Email: middleware.GetEmail(ctx),
	}
}

// markMe flags the caller's participant.
func markMe(p models.Participant, userID string) models.Participant {
	p.IsMe = userID != "" && p.UserID == userID
	return p
}

func expenseWithMe(e models.Expense, userID string) models.Expense {
	e = e.Clone()
	e.PayedBy = markMe(e.PayedBy, userID)
	for i := range e.Shares {
		e.Shares[i].Participant = markMe(e.Shares[i].Participant, userID)
	}
	return e
}

func balanceWithMe(b models.Balance, userID string) models.Balance {
	out := b
	out.ParticipantsBalance = make([]models.ParticipantBalance, len(b.ParticipantsBalance))
	for i, pb := range b.ParticipantsBalance {
		pb.Participant = markMe(pb.Participant, userID)
		out.ParticipantsBalance[i] = pb
	}
	return out
}

func suggestionsWithMe(suggestions []models.SettleSuggestion, userID string) []models.SettleSuggestion {
	out := make([]models.SettleSuggestion, len(suggestions))
	for i, s := range suggestions {
		if s.Payer != nil {
			payer := markMe(*s.Payer, userID)
			s.Payer = &payer
		}
		s.Recipient = markMe(s.Recipient, userID)
		out[i] = s
	}
	return out
}
