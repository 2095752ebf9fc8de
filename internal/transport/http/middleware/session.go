package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"todoweb/internal/app"
	"todoweb/internal/flash"
	"todoweb/internal/model"
	"todoweb/internal/pkg/jwtutil"
)

const (
	SessionCookie = "todo_session"
	FlashCookie   = "todo_flash_id"

	ContextUserKey = "current_user"

	// Shown when a guarded route is hit without a valid session.
	LoginRequiredNotice = "Error, log in to continue"
)

// BrowserID returns the per-browser flash identifier, issuing a new one when
// the cookie is missing.
func BrowserID(c *gin.Context) string {
	if id, err := c.Cookie(FlashCookie); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	c.SetCookie(FlashCookie, id, 0, "/", "", false, true)
	return id
}

// AddFlash queues a one-shot notice for the browser's next rendered page.
// Flash delivery is best-effort.
func AddFlash(c *gin.Context, store flash.Store, category, text string) {
	if store == nil {
		return
	}
	_ = store.Push(c.Request.Context(), BrowserID(c), flash.Message{Category: category, Text: text})
}

// TakeFlashes drains the browser's queued notices for rendering.
func TakeFlashes(c *gin.Context, store flash.Store) []flash.Message {
	if store == nil {
		return nil
	}
	messages, err := store.Pop(c.Request.Context(), BrowserID(c))
	if err != nil {
		return nil
	}
	return messages
}

// RequireSession resolves the session cookie to a user and stores it in the
// request context. Anything short of a valid token bound to an existing user
// redirects to the login page with a fixed notice.
func RequireSession(secret string, accounts *app.AccountService, flashes flash.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			redirectToLogin(c, flashes)
			return
		}

		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			redirectToLogin(c, flashes)
			return
		}

		user, err := accounts.GetUserByID(claims.UserID)
		if err != nil || user == nil {
			redirectToLogin(c, flashes)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by RequireSession.
func CurrentUser(c *gin.Context) *model.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}

func redirectToLogin(c *gin.Context, flashes flash.Store) {
	AddFlash(c, flashes, flash.CategoryInfo, LoginRequiredNotice)
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}
