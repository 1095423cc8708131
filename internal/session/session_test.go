package session_test

import (
	"context"
	"strings"
	"time"

	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/session"
)

func (suite *TestSuiteStandard) TestSignUp() {
	token, err := suite.gate.SignUp(context.Background(), "  Ana@Example.com ", "correct horse")
	suite.Require().Nil(err)

	suite.Assert().NotEmpty(token.Value)
	suite.Assert().Equal("ana@example.com", token.Identity.Email)
	suite.Assert().WithinDuration(time.Now().Add(session.DefaultTTL), token.ExpiresAt, time.Minute)

	var user models.User
	suite.Require().Nil(models.DB.First(&user, "id = ?", token.Identity.UserID).Error)
	suite.Assert().NotEqual("correct horse", user.PasswordHash)

	// Only the hash of the token is stored
	var stored models.Session
	suite.Require().Nil(models.DB.First(&stored, "user_id = ?", user.ID).Error)
	suite.Assert().NotEqual(token.Value, stored.TokenHash)
	suite.Assert().Len(stored.TokenHash, 64)
}

func (suite *TestSuiteStandard) TestSignUpValidation() {
	tests := []struct {
		email    string
		password string
		err      error
	}{
		{"", "correct horse", session.ErrInvalidEmail},
		{"not-an-email", "correct horse", session.ErrInvalidEmail},
		{"Ana <ana@example.com>", "correct horse", session.ErrInvalidEmail},
		{"ana@example.com", "short", session.ErrPasswordTooShort},
		{"ana@example.com", strings.Repeat("a", 73), session.ErrPasswordTooLong},
	}

	for _, tt := range tests {
		_, err := suite.gate.SignUp(context.Background(), tt.email, tt.password)
		suite.Assert().ErrorIs(err, tt.err, "email %q", tt.email)
	}
}

func (suite *TestSuiteStandard) TestSignUpDuplicate() {
	_, err := suite.gate.SignUp(context.Background(), "ana@example.com", "correct horse")
	suite.Require().Nil(err)

	_, err = suite.gate.SignUp(context.Background(), "ANA@example.com", "another password")
	suite.Assert().ErrorIs(err, models.ErrEmailTaken)
}

func (suite *TestSuiteStandard) TestSignIn() {
	first, err := suite.gate.SignUp(context.Background(), "ana@example.com", "correct horse")
	suite.Require().Nil(err)

	second, err := suite.gate.SignIn(context.Background(), "Ana@Example.com", "correct horse")
	suite.Require().Nil(err)
	suite.Assert().Equal(first.Identity, second.Identity)
	suite.Assert().NotEqual(first.Value, second.Value)

	// Signing in ends the earlier session
	_, _, err = suite.gate.Authenticate(context.Background(), first.Value)
	suite.Assert().ErrorIs(err, session.ErrUnauthorized)

	identity, _, err := suite.gate.Authenticate(context.Background(), second.Value)
	suite.Require().Nil(err)
	suite.Assert().Equal(first.Identity, identity)
}

func (suite *TestSuiteStandard) TestSignInInvalid() {
	_, err := suite.gate.SignUp(context.Background(), "ana@example.com", "correct horse")
	suite.Require().Nil(err)

	for _, creds := range [][2]string{
		{"ana@example.com", "wrong password"},
		{"bob@example.com", "correct horse"},
		{"garbage", "correct horse"},
	} {
		_, err := suite.gate.SignIn(context.Background(), creds[0], creds[1])
		suite.Assert().ErrorIs(err, session.ErrInvalidCredentials, "%v", creds)
	}
}

func (suite *TestSuiteStandard) TestSignOut() {
	token, err := suite.gate.SignUp(context.Background(), "ana@example.com", "correct horse")
	suite.Require().Nil(err)

	suite.Require().Nil(suite.gate.SignOut(context.Background(), token.Value))

	_, _, err = suite.gate.Authenticate(context.Background(), token.Value)
	suite.Assert().ErrorIs(err, session.ErrUnauthorized)

	// Signing out twice is fine
	suite.Assert().Nil(suite.gate.SignOut(context.Background(), token.Value))
}

func (suite *TestSuiteStandard) TestAuthenticateUnknown() {
	for _, token := range []string{"", "does-not-exist"} {
		_, _, err := suite.gate.Authenticate(context.Background(), token)
		suite.Assert().ErrorIs(err, session.ErrUnauthorized)
	}
}

func (suite *TestSuiteStandard) TestAuthenticateExpiry() {
	start := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	now := start
	suite.gate.Now = func() time.Time { return now }

	token, err := suite.gate.SignUp(context.Background(), "ana@example.com", "correct horse")
	suite.Require().Nil(err)

	// Two thirds of the lifetime remain, nothing changes
	now = start.Add(6 * time.Hour)
	_, expires, err := suite.gate.Authenticate(context.Background(), token.Value)
	suite.Require().Nil(err)
	suite.Assert().Equal(start.Add(session.DefaultTTL), expires)

	// Less than a third remains, the session slides forward
	now = start.Add(20 * time.Hour)
	_, expires, err = suite.gate.Authenticate(context.Background(), token.Value)
	suite.Require().Nil(err)
	suite.Assert().Equal(now.Add(session.DefaultTTL), expires)

	// Past the extended expiry the session is gone
	now = expires.Add(time.Second)
	_, _, err = suite.gate.Authenticate(context.Background(), token.Value)
	suite.Assert().ErrorIs(err, session.ErrUnauthorized)

	var count int64
	suite.Require().Nil(models.DB.Model(&models.Session{}).Count(&count).Error)
	suite.Assert().Equal(int64(0), count)
}

func (suite *TestSuiteStandard) TestAuthenticateDatabaseClosed() {
	suite.CloseDB()

	_, _, err := suite.gate.Authenticate(context.Background(), "token")
	suite.Assert().ErrorIs(err, models.ErrGeneral)
}
