package v1_test

import (
	"net/http"
	"testing"
	"time"

	v1 "github.com/fincontrol/backend/internal/controllers/v1"
	"github.com/fincontrol/backend/internal/session"
	"github.com/fincontrol/backend/test"
)

func (suite *TestSuiteStandard) TestSignUp() {
	r := suite.request("", http.MethodPost, "http://example.com/v1/auth/sign-up", v1.Credentials{
		Email:    " Ana@Example.com ",
		Password: "correct horse",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusCreated)

	var s v1.SessionResponse
	test.DecodeResponse(suite.T(), &r, &s)
	suite.Assert().Equal("ana@example.com", s.Data.Email)
	suite.Assert().NotEmpty(s.Data.Token)
	suite.Assert().True(s.Data.ExpiresAt.After(time.Now().Add(23 * time.Hour)))

	cookies := r.Result().Cookies()
	suite.Require().Len(cookies, 1)
	suite.Assert().Equal(session.CookieName, cookies[0].Name)
	suite.Assert().Equal(s.Data.Token, cookies[0].Value)
	suite.Assert().True(cookies[0].HttpOnly)
}

func (suite *TestSuiteStandard) TestSignUpFails() {
	suite.signUp("ana@example.com")

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Taken", v1.Credentials{Email: "ANA@example.com", Password: "correct horse"}, http.StatusConflict},
		{"Invalid email", v1.Credentials{Email: "ana", Password: "correct horse"}, http.StatusBadRequest},
		{"Short password", v1.Credentials{Email: "bia@example.com", Password: "short"}, http.StatusBadRequest},
		{"Broken body", `{"email": "bia@example.com"`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, suite.controller, http.MethodPost, "http://example.com/v1/auth/sign-up", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestSignIn() {
	first := suite.signUp("ana@example.com")

	r := suite.request("", http.MethodPost, "http://example.com/v1/auth/sign-in", v1.Credentials{
		Email:    "ana@example.com",
		Password: "correct horse",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var s v1.SessionResponse
	test.DecodeResponse(suite.T(), &r, &s)
	suite.Assert().NotEqual(first, s.Data.Token)

	// The earlier session has ended
	r = suite.request(first, http.MethodGet, "http://example.com/v1/auth/session", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)

	r = suite.request(s.Data.Token, http.MethodGet, "http://example.com/v1/auth/session", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var i v1.IdentityResponse
	test.DecodeResponse(suite.T(), &r, &i)
	suite.Assert().Equal("ana@example.com", i.Data.Email)
}

func (suite *TestSuiteStandard) TestSignInWrongPassword() {
	suite.signUp("ana@example.com")

	r := suite.request("", http.MethodPost, "http://example.com/v1/auth/sign-in", v1.Credentials{
		Email:    "ana@example.com",
		Password: "wrong horse",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)

	var s v1.SessionResponse
	test.DecodeResponse(suite.T(), &r, &s)
	suite.Assert().Equal(session.ErrInvalidCredentials.Error(), *s.Error)
}

func (suite *TestSuiteStandard) TestSignOut() {
	token := suite.signUp("ana@example.com")

	r := suite.request(token, http.MethodPost, "http://example.com/v1/auth/sign-out", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	cookies := r.Result().Cookies()
	suite.Require().Len(cookies, 1)
	suite.Assert().Equal("", cookies[0].Value)
	suite.Assert().Less(cookies[0].MaxAge, 0)

	r = suite.request(token, http.MethodGet, "http://example.com/v1/transactions", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
}

func (suite *TestSuiteStandard) TestSessionCookie() {
	token := suite.signUp("ana@example.com")

	r := test.Request(suite.T(), suite.controller, http.MethodGet, "http://example.com/v1/auth/session", "", map[string]string{
		"Cookie": session.CookieName + "=" + token,
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	// The cookie is refreshed on every request
	cookies := r.Result().Cookies()
	suite.Require().Len(cookies, 1)
	suite.Assert().Equal(token, cookies[0].Value)
}

func (suite *TestSuiteStandard) TestRequireSession() {
	paths := []string{
		"http://example.com/v1/transactions",
		"http://example.com/v1/categories",
		"http://example.com/v1/settings/salary",
		"http://example.com/v1/months/2024-02",
		"http://example.com/v1/assistant/chat",
		"http://example.com/v1/auth/session",
	}

	for _, path := range paths {
		r := suite.request("", http.MethodGet, path, "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)

		r = suite.request("not-a-token", http.MethodGet, path, "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusUnauthorized)
	}
}
