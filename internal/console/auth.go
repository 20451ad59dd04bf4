package console

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/entities"
	"github.com/libradesk/libradesk/internal/session"
)

// AuthController handles operator sign-in and sign-out. Credentials are
// exchanged with the remote store; the console never verifies passwords
// itself and never persists them.
type AuthController struct {
	client *api.Client
	sess   *session.Session
	sm     *SessionManager
}

func NewAuthController(client *api.Client, sess *session.Session, sm *SessionManager) *AuthController {
	return &AuthController{client: client, sess: sess, sm: sm}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	ID            uint   `json:"id,omitempty"`
	Username      string `json:"username,omitempty"`
	Role          string `json:"role,omitempty"`
	CSRFToken     string `json:"csrfToken,omitempty"`
}

// Login exchanges credentials for an identity and opens a browser session.
func (controller *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	principal, err := controller.sess.Login(c.Request.Context(), controller.client, api.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondOutcome(c, err, "Login failed")
		return
	}

	if err := controller.sm.MarkSignedIn(c.Request, principal.Username); err != nil {
		respondOutcome(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		ID:            principal.ID,
		Username:      principal.Username,
		Role:          string(principal.Role),
	})
}

// Register creates a new staff account through the public signup endpoint.
// The account is created but not signed in; the new operator logs in with
// the credentials they chose. A username already taken surfaces as a 409.
func (controller *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	switch {
	case req.Username == "" || req.Password == "":
		respondBadRequest(c, "username and password are required")
		return
	case req.Email == "":
		respondBadRequest(c, "email is required")
		return
	case !entities.Role(req.Role).Valid():
		respondBadRequest(c, "role must be admin or librarian")
		return
	}

	user, err := controller.client.Signup(c.Request.Context(), api.SignupRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondOutcome(c, api.WrapOutcome("auth.signup", err), "Registration failed")
		return
	}
	respondCreated(c, user)
}

// Logout purges the stored identity and destroys the browser session.
func (controller *AuthController) Logout(c *gin.Context) {
	if err := controller.sess.Logout(); err != nil {
		respondOutcome(c, err, "Logout failed")
		return
	}
	_ = controller.sm.SignOut(c.Request)
	respondSuccess(c, "logged out")
}

// Session reports the current identity so the UI can restore its state
// after a page reload. Includes the CSRF token for subsequent mutations.
func (controller *AuthController) Session(c *gin.Context) {
	p := controller.sess.CurrentPrincipal()
	if p == nil || !controller.sm.SignedIn(c.Request) {
		c.JSON(http.StatusOK, sessionResponse{Authenticated: false, CSRFToken: GetCSRFToken(c)})
		return
	}
	c.JSON(http.StatusOK, sessionResponse{
		Authenticated: true,
		ID:            p.ID,
		Username:      p.Username,
		Role:          string(p.Role),
		CSRFToken:     GetCSRFToken(c),
	})
}
