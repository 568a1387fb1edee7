package auth

import (
	"net/http"
	"time"

	autherrors "platoon-pulse/internal/auth/errors"
	"platoon-pulse/internal/shared/apperror"
	"platoon-pulse/internal/shared/identity"
	platform "platoon-pulse/internal/shared/request"
	"platoon-pulse/internal/shared/response"
	"platoon-pulse/internal/shared/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Handler struct {
	service Service
	cookies CookieOptions
	logger  *zap.Logger
}

func NewHandler(s Service, cookies CookieOptions, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, cookies: cookies, logger: l}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func writeBindError(c *gin.Context, err error) {
	mapped := apperror.MapValidationError(err)
	response.Error(c, mapped.HTTPStatus, mapped.Code, mapped.Message, nil)
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) writeTokens(c *gin.Context, pair token.Pair, userResp AuthResponse) {
	clientType := platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))
	if platform.IsWebClient(clientType) {
		h.setCookie(c, "access_token", pair.AccessToken, int(h.cookies.AccessTTL.Seconds()))
		h.setCookie(c, "refresh_token", pair.RefreshToken, int(h.cookies.RefreshTTL.Seconds()))
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":          userResp,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, nil)
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	res, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res, nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	pair, userResp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.logger.Info("login success", zap.String("user_id", userResp.ID), zap.String("role", userResp.Role))
	h.writeTokens(c, pair, userResp)
}

// RefreshToken reads the refresh token from the cookie for web clients and
// from the body for everything else.
func (h *Handler) RefreshToken(c *gin.Context) {
	clientType := platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))

	var refreshToken string
	if platform.IsWebClient(clientType) {
		var err error
		refreshToken, err = c.Cookie("refresh_token")
		if err != nil {
			writeServiceError(c, autherrors.ErrTokenNotFound)
			return
		}
	} else {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
		refreshToken = req.RefreshToken
	}

	pair, userResp, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	h.writeTokens(c, pair, userResp)
}

func (h *Handler) Me(c *gin.Context) {
	actor := identity.FromGin(c)
	if actor.UserID == "" {
		writeServiceError(c, autherrors.ErrTokenNotFound)
		return
	}

	userResp, err := h.service.GetMe(c.Request.Context(), actor.UserID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, userResp, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, "access_token", "", -1)
	h.setCookie(c, "refresh_token", "", -1)

	response.Success(c, http.StatusOK, "Logout success.", nil)
}
