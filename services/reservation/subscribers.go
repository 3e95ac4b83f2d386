package reservation

import (
	"context"
	"strings"

	"travelagency/models"
	"travelagency/utils"
)

func (s *Store) GetSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	return s.subscribers.list(ctx)
}

// Subscribe adds an email to the newsletter. An address already subscribed is
// returned unchanged.
func (s *Store) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !utils.ValidEmail(email) {
		return nil, utils.NewValidationError("email", "is not a valid address")
	}
	existing, err := s.subscribers.list(ctx)
	if err != nil {
		return nil, err
	}
	for _, sub := range existing {
		if equalFold(sub.Email, email) {
			return &sub, nil
		}
	}
	sub := models.Subscriber{
		ID:        s.newID("SUB-"),
		Email:     email,
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.subscribers.save(ctx, sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) DeleteSubscriber(ctx context.Context, id string) ([]models.Subscriber, error) {
	return s.subscribers.hardDelete(ctx, id)
}

// SubscriberEmails returns the addresses of all live subscribers.
func (s *Store) SubscriberEmails(ctx context.Context) ([]string, error) {
	subs, err := s.subscribers.list(ctx)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(subs))
	for _, sub := range subs {
		emails = append(emails, sub.Email)
	}
	return emails, nil
}
