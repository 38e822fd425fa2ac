package app_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"lion_estate/internal/app"
	"lion_estate/internal/auth"
	"lion_estate/internal/domain"
)

func newAuth(t *testing.T) (*app.AuthService, *auth.TokenIssuer, *memAdmins) {
	t.Helper()
	iss, err := auth.NewTokenIssuer([]byte("test-secret"))
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	admins := &memAdmins{}
	svc, err := app.NewAuthService(admins, iss, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return svc, iss, admins
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, iss, _ := newAuth(t)
	ctx := context.Background()

	created, err := svc.CreateAdmin(ctx, " Admin@PropertyIcon.com ", "admin123", "Admin User")
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if created.Email != "admin@propertyicon.com" || created.PasswordHash == "admin123" {
		t.Fatalf("unexpected admin: %+v", created)
	}

	a, tok, err := svc.Login(ctx, app.LoginInput{Email: "admin@propertyicon.com", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	c, ok := iss.Verify(tok)
	if !ok {
		t.Fatalf("issued token does not verify")
	}
	if c.AdminID != created.ID || a.ID != created.ID {
		t.Fatalf("token names %s, want %s", c.AdminID, created.ID)
	}

	me, err := svc.Me(ctx, c)
	if err != nil || me.Email != created.Email || me.Name == nil || *me.Name != "Admin User" {
		t.Fatalf("Me: %+v %v", me, err)
	}
}

func TestLogin_GenericFailure(t *testing.T) {
	svc, _, _ := newAuth(t)
	ctx := context.Background()
	if _, err := svc.CreateAdmin(ctx, "admin@lion.test", "right-password", ""); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	_, _, errUnknown := svc.Login(ctx, app.LoginInput{Email: "nobody@lion.test", Password: "right-password"})
	_, _, errWrong := svc.Login(ctx, app.LoginInput{Email: "admin@lion.test", Password: "wrong-password"})
	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) || !errors.Is(errWrong, domain.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials for both, got %v / %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("failure messages differ: %q vs %q", errUnknown, errWrong)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _, _ := newAuth(t)
	_, _, err := svc.Login(context.Background(), app.LoginInput{Email: "a@b.c"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want validation error, got %v", err)
	}
	if _, ok := ve.Fields["password"]; !ok {
		t.Fatalf("password should be flagged: %v", ve.Fields)
	}
}

func TestCreateAdmin_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuth(t)
	ctx := context.Background()
	if _, err := svc.CreateAdmin(ctx, "a@lion.test", "pw", ""); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if _, err := svc.CreateAdmin(ctx, "A@lion.test", "pw2", ""); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestMe_DeletedAdmin(t *testing.T) {
	svc, _, admins := newAuth(t)
	ctx := context.Background()
	a, err := svc.CreateAdmin(ctx, "gone@lion.test", "pw", "")
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	delete(admins.byID, a.ID)
	if _, err := svc.Me(ctx, auth.AdminClaims{AdminID: a.ID}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
