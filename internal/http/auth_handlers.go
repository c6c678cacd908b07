package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleReq struct {
	Credential string `json:"credential"`
	Type       string `json:"type"` // id_token (default) | access_token | code
}

var (
	opRegister = op{"Registration failed", "Could not create the account"}
	opLogin    = op{"Login failed", "Could not sign in"}
	opGoogle   = op{"Authentication failed", "Google sign-in failed"}
	opMe       = op{"Failed to load profile", "Could not load the current user"}
)

func badJSON(c *gin.Context) {
	fail(c, http.StatusBadRequest, "Invalid request", "Request body must be valid JSON")
}

// Register godoc
// @Summary Register with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerReq true "register"
// @Success 201 {object} envelope{data=service.Session}
// @Failure 400 {object} errorBody
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	s, err := h.Auth.Register(c.Request.Context(), in.Name, in.Email, in.Password, requestID(c))
	if err != nil {
		h.respondError(c, err, opRegister)
		return
	}
	ok(c, http.StatusCreated, s)
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginReq true "login"
// @Success 200 {object} envelope{data=service.Session}
// @Failure 400 {object} errorBody
// @Failure 401 {object} errorBody
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	s, err := h.Auth.Login(c.Request.Context(), in.Email, in.Password, requestID(c))
	if err != nil {
		h.respondError(c, err, opLogin)
		return
	}
	ok(c, http.StatusOK, s)
}

// GoogleLogin godoc
// @Summary Login with a Google credential
// @Description type=access_token fetches userinfo, type=code exchanges an auth code, type=id_token or empty verifies an ID token; other types are rejected with 400. Existing accounts are linked only when Google reports the email as verified.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body googleReq true "google credential"
// @Success 200 {object} envelope{data=service.Session}
// @Failure 400 {object} errorBody
// @Failure 401 {object} errorBody
// @Router /api/auth/google [post]
func (h *Handler) GoogleLogin(c *gin.Context) {
	var in googleReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	s, err := h.Auth.Google(c.Request.Context(), in.Credential, in.Type, requestID(c))
	if err != nil {
		h.respondError(c, err, opGoogle)
		return
	}
	ok(c, http.StatusOK, s)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} envelope{data=domain.PublicUser}
// @Failure 401 {object} errorBody
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	u, err := h.Auth.Me(c.Request.Context(), c.GetString(ctxUID))
	if err != nil {
		h.respondError(c, err, opMe)
		return
	}
	ok(c, http.StatusOK, u)
}
