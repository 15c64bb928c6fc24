package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/dashboard_backend/actions"
	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"github.com/gin-gonic/gin"
)

type stubVerifier struct {
	err error
}

func (v *stubVerifier) SignIn(ctx context.Context, email string, password string) (*models.LoginInfo, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &models.LoginInfo{Token: "token", Name: "Dashboard Admin", Email: email}, nil
}

func postLogin(t *testing.T, verifier actions.CredentialVerifier) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", loginHandler(actions.NewAuthActions(verifier, config.GetLogger())))

	form := url.Values{}
	form.Set("email", "admin@dashboard.local")
	form.Set("password", "secret123")
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// A credential rejection and an operational fault must not share a status
// code: clients retry a 500, they do not retry a 401.
func TestLoginHandlerStatusCodes(t *testing.T) {
	if w := postLogin(t, &stubVerifier{}); w.Code != http.StatusOK {
		t.Fatalf("expected 200 on success; got %d (%s)", w.Code, w.Body.String())
	}
	if w := postLogin(t, &stubVerifier{err: models.ErrCredentialsSignin}); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for rejected credentials; got %d (%s)", w.Code, w.Body.String())
	}
	if w := postLogin(t, &stubVerifier{err: errors.New("redis connection refused")}); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for an operational fault; got %d (%s)", w.Code, w.Body.String())
	}
}
