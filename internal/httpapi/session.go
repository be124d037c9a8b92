package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"myfilms/internal/lists"
	"myfilms/internal/logging"
	"myfilms/internal/services"
	"myfilms/internal/session"
)

const (
	cookieName = "myfilms"
	userKey    = "user"
	managerKey = "lists"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionUser reads the signed-in username from the cookie. A cookie that
// fails to decode counts as signed out.
func (s *Server) sessionUser(r *http.Request) (string, bool) {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil {
		return "", false
	}
	user, ok := sess.Values[userKey].(string)
	return user, ok && user != ""
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := s.app.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		s.fail(c, err)
		return
	}

	// A stale or foreign cookie yields an error alongside a fresh session.
	sess, _ := s.cookies.Get(c.Request, cookieName)
	sess.Values[userKey] = user
	if err := sess.Save(c.Request, c.Writer); err != nil {
		s.fail(c, services.Wrap(services.ErrAuth, "httpapi", "save session", "cookie could not be written", err))
		return
	}
	s.logger.Info("signed in", logging.String(logging.FieldUser, user))
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) handleLogout(c *gin.Context) {
	sess, _ := s.cookies.Get(c.Request, cookieName)
	user, _ := sess.Values[userKey].(string)
	delete(sess.Values, userKey)
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request, c.Writer); err != nil {
		s.fail(c, services.Wrap(services.ErrAuth, "httpapi", "clear session", "cookie could not be cleared", err))
		return
	}
	if user != "" {
		s.logger.Info("signed out", logging.String(logging.FieldUser, user))
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSession(c *gin.Context) {
	user, ok := s.sessionUser(c.Request)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// requireUser rejects requests without a session and loads the caller's lists.
func (s *Server) requireUser(c *gin.Context) {
	user, ok := s.sessionUser(c.Request)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}
	ctx := services.WithUser(c.Request.Context(), user)
	manager, err := s.app.ListsFor(ctx, user)
	if err != nil {
		s.fail(c, err)
		c.Abort()
		return
	}
	c.Request = c.Request.WithContext(ctx)
	c.Set(userKey, user)
	c.Set(managerKey, manager)
	c.Next()
}

func managerFrom(c *gin.Context) *lists.Manager {
	return c.MustGet(managerKey).(*lists.Manager)
}
