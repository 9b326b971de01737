package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"mm-tickets/internal/status"
	"mm-tickets/models"
)

func (s *Store) InsertWaitlist(ctx context.Context, entry *models.WaitlistEntry) error {
	collection, err := s.app.FindCollectionByNameOrId("waitlist")
	if err != nil {
		return fmt.Errorf("finding waitlist collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("email", entry.Email)
	record.Set("name", entry.Name)
	record.Set("phone", entry.Phone)
	record.Set("referral", entry.Referral)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		if isUniqueViolation(err, "waitlist.email") {
			return status.ErrDuplicateEmail
		}
		return fmt.Errorf("saving waitlist entry: %w", err)
	}

	entry.ID = record.Id
	entry.CreatedAt = record.GetDateTime("created").Time()
	return nil
}

// OnWaitlist reports whether an email is registered on the waitlist.
func (s *Store) OnWaitlist(_ context.Context, email string) (bool, error) {
	_, err := s.app.FindFirstRecordByFilter("waitlist", "email = {:email}", dbx.Params{"email": email})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("checking waitlist: %w", err)
	}
	return true, nil
}

func (s *Store) AllWaitlist(_ context.Context) ([]*models.WaitlistEntry, error) {
	records, err := s.app.FindRecordsByFilter("waitlist", "id != ''", "-created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("listing waitlist: %w", err)
	}

	entries := make([]*models.WaitlistEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, &models.WaitlistEntry{
			ID:        r.Id,
			Email:     r.GetString("email"),
			Name:      r.GetString("name"),
			Phone:     r.GetString("phone"),
			Referral:  r.GetString("referral"),
			CreatedAt: r.GetDateTime("created").Time(),
		})
	}
	return entries, nil
}
