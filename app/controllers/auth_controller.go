package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/planhaus/planhaus/app/models"
	"github.com/planhaus/planhaus/internal/pkg/session"
	"github.com/planhaus/planhaus/internal/pkg/usercontext"
)

// HandleLoginGet renders the admin login form.
func HandleLoginGet(c *fiber.Ctx) error {
	if usercontext.IsLoggedIn(c) {
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}
	return c.Render("login", viewData(c, "Login", nil), "layouts/main")
}

// HandleLoginPost verifies the credentials and opens the admin session.
func HandleLoginPost(c *fiber.Ctx) error {
	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	password := c.FormValue("password")

	user, err := repos.User.GetByEmail(email)
	if err != nil || !models.CheckPasswordHash(password, user.Password) {
		return flashError(c, "Invalid email or password.", "/login")
	}
	if user.Status != models.STATUS_ACTIVE {
		return flashError(c, "This account is disabled.", "/login")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		log.Errorf("[Auth] failed to get session: %v", err)
		return flashError(c, "Login failed, please try again.", "/login")
	}
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyIsAdmin, user.IsAdmin())
	if err := sess.Save(); err != nil {
		log.Errorf("[Auth] failed to save session: %v", err)
		return flashError(c, "Login failed, please try again.", "/login")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := db.Model(user).Update("last_login_at", now).Error; err != nil {
		log.Warnf("[Auth] failed to record last login: %v", err)
	}

	if user.IsAdmin() {
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleLogout destroys the session.
func HandleLogout(c *fiber.Ctx) error {
	if err := session.DestroySession(c); err != nil {
		log.Errorf("[Auth] failed to destroy session: %v", err)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}
