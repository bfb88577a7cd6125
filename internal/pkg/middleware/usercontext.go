package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/internal/pkg/security"
	"github.com/planhaus/planhaus/internal/pkg/session"
	"github.com/planhaus/planhaus/internal/pkg/usercontext"
)

// UserContextMiddleware sets up the complete user context for every request.
// It also guarantees each visitor a session-scoped shuffle token so the
// catalog ordering stays stable while they browse.
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals("USER_CONTEXT", usercontext.UserContext{IsLoggedIn: false, IsAdmin: false})
		c.Locals(usercontext.KeyFromProtected, false)
		c.Locals(usercontext.KeyIsAdmin, false)
		return c.Next()
	}

	shuffleToken, _ := sess.Get(usercontext.KeyShuffleToken).(string)
	if shuffleToken == "" {
		shuffleToken, err = security.GenerateSessionToken()
		if err != nil {
			log.Errorf("[Session] failed to generate shuffle token: %v", err)
		} else {
			sess.Set(usercontext.KeyShuffleToken, shuffleToken)
			if err := sess.Save(); err != nil {
				log.Errorf("[Session] failed to save session: %v", err)
			}
		}
	}

	userID := sess.Get(usercontext.KeyUserID)
	if userID == nil {
		c.Locals("USER_CONTEXT", usercontext.UserContext{
			IsLoggedIn:   false,
			IsAdmin:      false,
			ShuffleToken: shuffleToken,
		})
		c.Locals(usercontext.KeyFromProtected, false)
		c.Locals(usercontext.KeyIsAdmin, false)
		return c.Next()
	}

	username, _ := sess.Get(usercontext.KeyUsername).(string)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)

	userCtx := usercontext.UserContext{
		UserID:       userID.(uint),
		Username:     username,
		IsLoggedIn:   true,
		IsAdmin:      isAdmin,
		ShuffleToken: shuffleToken,
	}
	c.Locals("USER_CONTEXT", userCtx)
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUserID, userCtx.UserID)
	c.Locals(usercontext.KeyUsername, username)
	c.Locals(usercontext.KeyIsAdmin, isAdmin)

	return c.Next()
}
