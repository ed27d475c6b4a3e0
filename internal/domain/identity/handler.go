package identity

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/booleanbros/clinic/internal/platform/apperr"
	"github.com/booleanbros/clinic/internal/platform/auth"
)

type Handler struct {
	service    *Service
	signingKey []byte
	sessionTTL time.Duration
}

func NewHandler(service *Service, signingKey []byte, sessionTTL time.Duration) *Handler {
	return &Handler{service: service, signingKey: signingKey, sessionTTL: sessionTTL}
}

// RegisterRoutes wires the public login endpoint and the authenticated
// user-listing endpoint onto their respective groups.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.POST("/login", h.Login)
	api.GET("/users", h.ListByRole)
}

type loginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	u, err := h.service.Authenticate(c.Request().Context(), req.Mobile, req.Password)
	if err != nil {
		return apperr.ToHTTP(err)
	}

	token, err := auth.IssueToken(h.signingKey, u.ID, u.Name, u.Role, h.sessionTTL)
	if err != nil {
		return apperr.ToHTTP(err)
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: u})
}

func (h *Handler) ListByRole(c echo.Context) error {
	role := c.QueryParam("role")
	users, err := h.service.ListByRole(c.Request().Context(), role)
	if err != nil {
		return apperr.ToHTTP(err)
	}
	if users == nil {
		users = []UserSummary{}
	}
	return c.JSON(http.StatusOK, users)
}
