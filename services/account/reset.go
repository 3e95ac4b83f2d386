package account

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"travelagency/models"
	"travelagency/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CodeStore holds short-lived password reset codes.
type CodeStore interface {
	Put(ctx context.Context, key, code string, ttl time.Duration) error
	Take(ctx context.Context, key string) (string, bool, error)
}

type RedisCodeStore struct {
	client *redis.Client
}

func NewRedisCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func (s *RedisCodeStore) Put(ctx context.Context, key, code string, ttl time.Duration) error {
	return s.client.Set(ctx, key, code, ttl).Err()
}

// Take reads and deletes a code so it can only be used once.
func (s *RedisCodeStore) Take(ctx context.Context, key string) (string, bool, error) {
	code, err := s.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return code, true, nil
}

type MemoryCodeStore struct {
	mu    sync.Mutex
	codes map[string]memoryCode
	now   func() time.Time
}

type memoryCode struct {
	code    string
	expires time.Time
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{codes: map[string]memoryCode{}, now: time.Now}
}

func (s *MemoryCodeStore) Put(_ context.Context, key, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[key] = memoryCode{code: code, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryCodeStore) Take(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[key]
	delete(s.codes, key)
	if !ok || s.now().After(c.expires) {
		return "", false, nil
	}
	return c.code, true, nil
}

func resetKey(email string) string {
	return "reset:" + strings.ToLower(strings.TrimSpace(email))
}

// RequestPasswordReset emails a one-time code. Unknown emails get the same
// result as known ones, and the code only ever leaves through the mail provider.
func (s *DefaultAccountService) RequestPasswordReset(ctx context.Context, email string) error {
	if !utils.ValidEmail(email) {
		return utils.NewValidationError("email", "a valid email is required")
	}
	u, err := s.Store.FindProfileByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}

	code, err := utils.GenerateSecureCode(6)
	if err != nil {
		return err
	}
	if err := s.Codes.Put(ctx, resetKey(u.Email), code, utils.ResetCodeTTL); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}

	res, err := s.Mailer.Send(ctx, models.Email{
		To:      []string{u.Email},
		Subject: "Your password reset code",
		HTML: fmt.Sprintf("<p>Hello %s,</p><p>Your reset code is <strong>%s</strong>. It expires in %d minutes.</p>",
			u.Name, code, int(utils.ResetCodeTTL.Minutes())),
	})
	if err != nil {
		return err
	}
	if !res.Sent {
		utils.GetLogger().Warn("Password reset code not delivered, no mail provider configured", zap.String("user", u.ID))
		return nil
	}
	utils.GetLogger().Info("Password reset requested", zap.String("user", u.ID))
	return nil
}

// ResetPassword consumes the code and stores the new password.
func (s *DefaultAccountService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return utils.NewValidationError("password", "a new password is required")
	}
	stored, ok, err := s.Codes.Take(ctx, resetKey(email))
	if err != nil {
		return fmt.Errorf("failed to read reset code: %w", err)
	}
	if !ok || !strings.EqualFold(stored, strings.TrimSpace(code)) {
		return ErrInvalidResetCode
	}

	u, err := s.Store.FindProfileByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrInvalidResetCode
	}
	pw, err := s.encodePassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to process new password: %w", err)
	}
	u.Password = pw
	if _, err := s.Store.SaveProfile(ctx, *u); err != nil {
		return err
	}
	utils.GetLogger().Info("Password reset completed", zap.String("user", u.ID))
	return nil
}
