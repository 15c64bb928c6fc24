package actions_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"bitbucket.org/mmdatafocus/dashboard_backend/actions"
	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
)

type fakeVerifier struct {
	email    string
	password string
	info     *models.LoginInfo
	err      error
	panics   bool
}

func (f *fakeVerifier) SignIn(ctx context.Context, email string, password string) (*models.LoginInfo, error) {
	if f.panics {
		panic("verifier blew up")
	}
	f.email = email
	f.password = password
	return f.info, f.err
}

func credentialsForm(email, password string) url.Values {
	v := url.Values{}
	v.Set("email", email)
	v.Set("password", password)
	return v
}

func TestAuthenticateSuccess(t *testing.T) {
	verifier := &fakeVerifier{info: &models.LoginInfo{Token: "tok", Name: "A", Email: "a@b.com"}}
	a := actions.NewAuthActions(verifier, config.GetLogger())

	info, message := a.Authenticate(context.Background(), "", credentialsForm("a@b.com", "secret"))
	if message != "" {
		t.Fatalf("expected empty message; got %q", message)
	}
	if info == nil || info.Token != "tok" {
		t.Fatalf("expected session info; got %+v", info)
	}
	if verifier.email != "a@b.com" || verifier.password != "secret" {
		t.Fatalf("credentials not forwarded: %q %q", verifier.email, verifier.password)
	}
}

func TestAuthenticateRejectedCredentials(t *testing.T) {
	verifier := &fakeVerifier{err: models.ErrCredentialsSignin}
	a := actions.NewAuthActions(verifier, config.GetLogger())

	info, message := a.Authenticate(context.Background(), "", credentialsForm("a@b.com", "wrong"))
	if message != actions.MsgInvalidCredentials {
		t.Fatalf("expected %q; got %q", actions.MsgInvalidCredentials, message)
	}
	if info != nil {
		t.Fatalf("expected nil info; got %+v", info)
	}
}

func TestAuthenticateOperationalFailure(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("redis timeout")}
	a := actions.NewAuthActions(verifier, config.GetLogger())

	_, message := a.Authenticate(context.Background(), "", credentialsForm("a@b.com", "secret"))
	if message != actions.MsgSomethingWentWrong {
		t.Fatalf("expected %q; got %q", actions.MsgSomethingWentWrong, message)
	}
}

func TestAuthenticateNeverPanics(t *testing.T) {
	verifier := &fakeVerifier{panics: true}
	a := actions.NewAuthActions(verifier, config.GetLogger())

	info, message := a.Authenticate(context.Background(), "", credentialsForm("a@b.com", "secret"))
	if message != actions.MsgSomethingWentWrong {
		t.Fatalf("expected %q; got %q", actions.MsgSomethingWentWrong, message)
	}
	if info != nil {
		t.Fatalf("expected nil info after recovery; got %+v", info)
	}
}
