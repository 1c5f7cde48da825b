package session

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recruitment-intake/internal/common/errors"
)

const contextKey = "session"

// Middleware parses the Authorization header into the request context. An
// absent header passes through unauthenticated; an invalid token is
// rejected outright.
func Middleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := svc.FromAuthorization(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(errors.HTTPStatus(err), errors.Body(err))
			return
		}
		if sess != nil {
			c.Set(contextKey, sess)
		}
		c.Next()
	}
}

// RequireCorporate rejects requests without an authenticated corporate
// session. Run after Middleware.
func RequireCorporate() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := FromContext(c)
		if sess == nil {
			err := errors.NewSessionRequiredError()
			c.AbortWithStatusJSON(http.StatusUnauthorized, errors.Body(err))
			return
		}
		if !sess.Corporate() {
			err := errors.NewForbiddenError(RoleCorporate)
			c.AbortWithStatusJSON(http.StatusForbidden, errors.Body(err))
			return
		}
		c.Next()
	}
}

// FromContext returns the request's session, nil when unauthenticated.
func FromContext(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*Session)
	return sess
}
