package v1

import (
	"net/http"
	"time"

	"github.com/fincontrol/backend/internal/httperror"
	"github.com/fincontrol/backend/internal/httputil"
	"github.com/fincontrol/backend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Credentials struct {
	Email    string `json:"email" example:"ana@example.com"`  // Email address of the account
	Password string `json:"password" example:"correct horse"` // Password, at least 8 characters
}

type Session struct {
	session.Identity
	Token     string    `json:"token" example:"q0T3JmRUVgbjvc3oK6DNl4Ik0Q8PqW0MTqM9yqNTrSg"` // Session token, also set as cookie
	ExpiresAt time.Time `json:"expiresAt" example:"2024-02-11T09:00:00Z"`                    // When the session expires unless it is used
}

type SessionResponse struct {
	Data  *Session `json:"data"`                                                         // The session
	Error *string  `json:"error" example:"the email address or password is not correct"` // The error, if any occurred
}

type IdentityResponse struct {
	Data  *session.Identity `json:"data"`                                                        // The signed-in owner
	Error *string           `json:"error" example:"you need to sign in to access this resource"` // The error, if any occurred
}

// RegisterAuthRoutes registers the routes for authentication with
// the RouterGroup that is passed.
func (co Controller) RegisterAuthRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/sign-up", OptionsAuth)
		r.POST("/sign-up", co.SignUp)
		r.OPTIONS("/sign-in", OptionsAuth)
		r.POST("/sign-in", co.SignIn)
	}

	// These need a session
	{
		r.OPTIONS("/sign-out", OptionsAuth)
		r.POST("/sign-out", co.RequireSession(), co.SignOut)
		r.OPTIONS("/session", OptionsSession)
		r.GET("/session", co.RequireSession(), co.GetSession)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auth
// @Success		204
// @Router			/v1/auth/sign-in [options]
func OptionsAuth(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Auth
// @Success		204
// @Router			/v1/auth/session [options]
func OptionsSession(c *gin.Context) {
	httputil.OptionsGet(c)
}

func respondSession(c *gin.Context, status int, token session.Token) {
	setSessionCookie(c, token.Value, token.ExpiresAt)

	c.JSON(status, SessionResponse{Data: &Session{
		Identity:  token.Identity,
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	}})
}

// @Summary		Sign up
// @Description	Creates an account and signs it in
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201			{object}	SessionResponse
// @Failure		400			{object}	SessionResponse
// @Failure		409			{object}	SessionResponse
// @Failure		500			{object}	SessionResponse
// @Param			credentials	body		Credentials	true	"Credentials"
// @Router			/v1/auth/sign-up [post]
func (co Controller) SignUp(c *gin.Context) {
	var credentials Credentials
	if err := httputil.BindData(c, &credentials); err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SessionResponse{Error: &e})
		return
	}

	token, err := co.Gate.SignUp(c.Request.Context(), credentials.Email, credentials.Password)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SessionResponse{Error: &e})
		return
	}

	respondSession(c, http.StatusCreated, token)
}

// @Summary		Sign in
// @Description	Starts a new session and loads the owner's data. Other sessions of the account are ended.
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200			{object}	SessionResponse
// @Failure		400			{object}	SessionResponse
// @Failure		401			{object}	SessionResponse
// @Failure		500			{object}	SessionResponse
// @Param			credentials	body		Credentials	true	"Credentials"
// @Router			/v1/auth/sign-in [post]
func (co Controller) SignIn(c *gin.Context) {
	var credentials Credentials
	if err := httputil.BindData(c, &credentials); err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SessionResponse{Error: &e})
		return
	}

	token, err := co.Gate.SignIn(c.Request.Context(), credentials.Email, credentials.Password)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SessionResponse{Error: &e})
		return
	}

	// Drop state loaded by an earlier session
	co.Ledgers.Close(token.Identity.UserID)
	if _, err := co.Ledgers.Open(c.Request.Context(), token.Identity.UserID); err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), SessionResponse{Error: &e})
		return
	}

	respondSession(c, http.StatusOK, token)
}

// @Summary		Sign out
// @Description	Ends the current session and unloads the owner's data
// @Tags			Auth
// @Success		204
// @Failure		401	{object}	httpError
// @Failure		500	{object}	httpError
// @Router			/v1/auth/sign-out [post]
func (co Controller) SignOut(c *gin.Context) {
	err := co.Gate.SignOut(c.Request.Context(), c.GetString(tokenKey))
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	owner := identity(c).UserID
	co.Ledgers.Close(owner)
	setSessionCookie(c, "", time.Time{})
	log.Debug().Str("owner", owner.String()).Msg("signed out")

	c.Status(http.StatusNoContent)
}

// @Summary		Get session
// @Description	Returns the signed-in owner
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	IdentityResponse
// @Failure		401	{object}	httpError
// @Router			/v1/auth/session [get]
func (co Controller) GetSession(c *gin.Context) {
	i := identity(c)
	c.JSON(http.StatusOK, IdentityResponse{Data: &i})
}
