package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todoweb/internal/app"
	"todoweb/internal/flash"
	"todoweb/internal/pkg/jwtutil"
	"todoweb/internal/transport/http/middleware"
)

type AccountHandler struct {
	accounts      *app.AccountService
	flashes       flash.Store
	sessionSecret string
	sessionTTL    time.Duration
}

func NewAccountHandler(accounts *app.AccountService, flashes flash.Store, sessionSecret string, sessionTTL time.Duration) *AccountHandler {
	return &AccountHandler{
		accounts:      accounts,
		flashes:       flashes,
		sessionSecret: sessionSecret,
		sessionTTL:    sessionTTL,
	}
}

func (h *AccountHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Flashes":  middleware.TakeFlashes(c, h.flashes),
		"Username": "",
	})
}

// Register attempts to create the account. A taken username or a storage
// failure re-renders the form with a notice; success redirects to the login
// page. The form values are passed through verbatim.
func (h *AccountHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	_, err := h.accounts.Register(c.Request.Context(), username, password)
	if err != nil {
		notice := "Registration failed, please try again"
		if errors.Is(err, app.ErrUsernameTaken) {
			notice = "That username is already taken"
		}
		flashes := middleware.TakeFlashes(c, h.flashes)
		flashes = append(flashes, flash.Message{Category: flash.CategoryError, Text: notice})
		c.HTML(http.StatusOK, "register.html", gin.H{
			"Flashes":  flashes,
			"Username": username,
		})
		return
	}

	middleware.AddFlash(c, h.flashes, flash.CategorySuccess, "Account created, please log in")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AccountHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flashes": middleware.TakeFlashes(c, h.flashes),
	})
}

// Login verifies the credentials and binds a session cookie to the user.
// Unknown usernames and wrong passwords get the same generic notice.
func (h *AccountHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.accounts.Login(c.Request.Context(), username, password)
	if err != nil {
		middleware.AddFlash(c, h.flashes, flash.CategoryError, "Invalid username or password")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	token, err := jwtutil.GenerateToken(h.sessionSecret, h.sessionTTL, user.ID, user.Username)
	if err != nil {
		middleware.AddFlash(c, h.flashes, flash.CategoryError, "Login failed, please try again")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", false, true)
	middleware.AddFlash(c, h.flashes, flash.CategorySuccess, "Logged in successfully")
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session cookie. The task list route then bounces the
// now-anonymous browser back to the login page.
func (h *AccountHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
