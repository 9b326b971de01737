package services

import (
	"context"

	"mm-tickets/models"
)

type WaitlistStore interface {
	InsertWaitlist(ctx context.Context, entry *models.WaitlistEntry) error
	OnWaitlist(ctx context.Context, email string) (bool, error)
	AllWaitlist(ctx context.Context) ([]*models.WaitlistEntry, error)
}

type WaitlistService struct {
	store WaitlistStore
}

func NewWaitlistService(store WaitlistStore) *WaitlistService {
	return &WaitlistService{store: store}
}

// Join adds an email to the waitlist. Duplicate signups surface as
// status.ErrDuplicateEmail from the store's unique index.
func (s *WaitlistService) Join(ctx context.Context, name, email, phone, referral string) (*models.WaitlistEntry, error) {
	entry := &models.WaitlistEntry{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Referral: referral,
	}
	if err := s.store.InsertWaitlist(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *WaitlistService) IsWaitlisted(ctx context.Context, email string) (bool, error) {
	return s.store.OnWaitlist(ctx, email)
}

func (s *WaitlistService) All(ctx context.Context) ([]*models.WaitlistEntry, error) {
	return s.store.AllWaitlist(ctx)
}
