package console

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"github.com/libradesk/libradesk/internal/outcome"
	"github.com/libradesk/libradesk/internal/session"
)

// CSRFTokenHeader is the header carrying the CSRF token on AJAX requests.
const CSRFTokenHeader = "X-CSRF-Token"

// RequireSignIn gates routes behind a completed browser sign-in backed by
// a live operator identity. A browser cookie without a stored identity
// (the slots were purged out of band) is treated as signed out.
func RequireSignIn(sm *SessionManager, sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sm.SignedIn(c.Request) || !sess.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: "authentication required",
				Code:  string(outcome.ReasonUnauthenticated),
			})
			return
		}
		c.Next()
	}
}

// AdminOnly rejects non-admin operators before the handler runs. This is a
// convenience check; the remote store re-validates the role on every
// request it receives.
func AdminOnly(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := sess.CurrentPrincipal()
		if p == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error: "authentication required",
				Code:  string(outcome.ReasonUnauthenticated),
			})
			return
		}
		if !p.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Error: "administrator access required",
				Code:  string(outcome.ReasonDenied),
			})
			return
		}
		c.Next()
	}
}

// CSRFMiddleware creates a Gin middleware for CSRF protection on the
// cookie-authenticated console routes. Safe methods pass through inside
// gorilla/csrf itself.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Set("csrf_token", csrf.Token(r))
			c.Request = r
			c.Next()
		}))
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}

// GetCSRFToken retrieves the CSRF token stored by CSRFMiddleware.
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get("csrf_token"); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}

// queryFlag reports whether a boolean-ish query parameter is set.
func queryFlag(c *gin.Context, name string) bool {
	v := strings.ToLower(c.Query(name))
	return v == "1" || v == "true" || v == "yes"
}
