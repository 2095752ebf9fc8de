package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"todoweb/internal/model"
	"todoweb/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// EventPublisher enqueues activity events for asynchronous persistence.
// Publishing is best-effort on the request path.
type EventPublisher interface {
	Publish(ctx context.Context, event model.ActivityEvent) error
}

type AccountService struct {
	userRepo *repository.UserRepository
	events   EventPublisher
}

func NewAccountService(userRepo *repository.UserRepository, events EventPublisher) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		events:   events,
	}
}

// Register hashes the password and inserts the user. Input is taken verbatim
// from the form; the only validation is the column limits and the unique
// index on username. Racing registrations of the same name are resolved by
// that index, never by a lookup-then-insert check.
func (s *AccountService) Register(ctx context.Context, username, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.publish(ctx, model.ActivityEvent{
		UserID: user.ID,
		Kind:   model.EventUserRegistered,
		Detail: user.Username,
	})
	return user, nil
}

// Login resolves the username and verifies the password. An unknown username
// and a wrong password both return ErrInvalidCredentials so the caller
// cannot tell them apart.
func (s *AccountService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.publish(ctx, model.ActivityEvent{
		UserID: user.ID,
		Kind:   model.EventUserLoggedIn,
		Detail: user.Username,
	})
	return user, nil
}

// GetUserByID resolves a session's bound id to a user. (nil, nil) means the
// id no longer resolves and the caller treats the request as unauthenticated.
func (s *AccountService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, nil
	}
	return s.userRepo.GetByID(id)
}

func (s *AccountService) publish(ctx context.Context, event model.ActivityEvent) {
	if s.events == nil {
		return
	}
	event.CreatedAt = time.Now()
	_ = s.events.Publish(ctx, event)
}
