package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"todoweb/internal/model"
	"todoweb/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Task{}, &model.ActivityEvent{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newAccountService(t *testing.T) (*AccountService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewAccountService(repository.NewUserRepository(db), nil), db
}

func TestRegisterTwoUsersBothCanLogIn(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob"} {
		if _, err := svc.Register(ctx, name, "secret-"+name); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}
	for _, name := range []string{"alice", "bob"} {
		user, err := svc.Login(ctx, name, "secret-"+name)
		if err != nil {
			t.Fatalf("login %s: %v", name, err)
		}
		if user.Username != name {
			t.Errorf("login %s returned user %q", name, user.Username)
		}
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, db := newAccountService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "alice", "pw2")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("second register: got %v, want ErrUsernameTaken", err)
	}

	var count int64
	if err := db.Model(&model.User{}).Where("username = ?", "alice").Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d alice rows, want exactly 1", count)
	}
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	svc, _ := newAccountService(t)

	user, err := svc.Register(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.PasswordHash == "pw1" || user.PasswordHash == "" {
		t.Errorf("password stored without hashing: %q", user.PasswordHash)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "nobody", "pw1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterLoginScenario(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1"); err != nil {
		t.Fatalf(`register("alice","pw1"): %v`, err)
	}
	if _, err := svc.Register(ctx, "alice", "pw2"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf(`register("alice","pw2"): got %v, want ErrUsernameTaken`, err)
	}
	if _, err := svc.Login(ctx, "alice", "pw1"); err != nil {
		t.Fatalf(`login("alice","pw1"): %v`, err)
	}
	if _, err := svc.Login(ctx, "alice", "pw2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf(`login("alice","pw2"): got %v, want ErrInvalidCredentials`, err)
	}
}

func TestGetUserByIDUnknownIsAnonymous(t *testing.T) {
	svc, _ := newAccountService(t)

	user, err := svc.GetUserByID(999)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if user != nil {
		t.Errorf("got user %+v for unknown id, want nil", user)
	}
}
