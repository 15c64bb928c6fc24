package actions

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"github.com/sirupsen/logrus"
)

const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgSomethingWentWrong = "Something went wrong."
)

// CredentialVerifier is the opaque sign-in capability. A credential mismatch
// is reported as models.ErrCredentialsSignin; any other error is operational.
type CredentialVerifier interface {
	SignIn(ctx context.Context, email string, password string) (*models.LoginInfo, error)
}

type AuthActions struct {
	verifier CredentialVerifier
	logger   *logrus.Logger
}

func NewAuthActions(verifier CredentialVerifier, logger *logrus.Logger) *AuthActions {
	return &AuthActions{verifier: verifier, logger: logger}
}

// Authenticate maps the verifier's outcome to exactly three results: an
// empty message with session info on success, MsgInvalidCredentials on a
// credential mismatch, MsgSomethingWentWrong on anything else. It never
// panics past its own boundary.
func (a *AuthActions) Authenticate(ctx context.Context, prev string, form url.Values) (info *models.LoginInfo, message string) {
	defer func() {
		if r := recover(); r != nil {
			config.LogError(a.logger, "auth.go", "Authenticate", "recovered", nil, fmt.Errorf("%v", r))
			info, message = nil, MsgSomethingWentWrong
		}
	}()

	info, err := a.verifier.SignIn(ctx, form.Get("email"), form.Get("password"))
	if err == nil {
		return info, ""
	}
	if errors.Is(err, models.ErrCredentialsSignin) {
		return nil, MsgInvalidCredentials
	}
	config.LogError(a.logger, "auth.go", "Authenticate", "SignIn", nil, err)
	return nil, MsgSomethingWentWrong
}
