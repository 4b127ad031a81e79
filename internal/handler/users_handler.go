package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/points-api/internal/model"
	"github.com/shinyyama/points-api/internal/service"
)

type UsersHandler struct {
	svc          service.UserService
	exposeErrors bool
}

func NewUsersHandler(svc service.UserService, exposeErrors bool) *UsersHandler {
	return &UsersHandler{svc: svc, exposeErrors: exposeErrors}
}

type UserResponse struct {
	ID        int64  `json:"id"`
	GroupName string `json:"group_name"`
	Points    int64  `json:"points"`
	UpdatedAt string `json:"updated_at"`
}

type pointsRequest struct {
	Points *int64 `json:"points" validate:"required,gte=0"`
}

type pointsUpdateFunc func(ctx context.Context, id int64, points int64) (*model.User, error)

// Handle dispatches /users on method plus the id and action query params.
func (h *UsersHandler) Handle(c echo.Context) error {
	id := c.QueryParam("id")
	action := c.QueryParam("action")
	method := c.Request().Method

	switch {
	case method == http.MethodGet && id == "":
		return h.list(c)
	case method == http.MethodGet:
		return h.get(c, id)
	case method == http.MethodPut && id != "" && action == "points":
		return h.updatePoints(c, id, h.svc.AddPoints)
	case method == http.MethodPut && id != "" && action == "set-points":
		return h.updatePoints(c, id, h.svc.SetPoints)
	case method == http.MethodPost && action == "reset":
		return h.reset(c)
	}
	return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "Not found"))
}

func (h *UsersHandler) list(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context())
	if err != nil {
		return h.internalError(c, err, "failed to fetch users")
	}
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *UsersHandler) get(c echo.Context, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "Invalid id"))
	}
	u, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.userError(c, err, "failed to fetch user")
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

func (h *UsersHandler) updatePoints(c echo.Context, rawID string, update pointsUpdateFunc) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "Invalid id"))
	}
	var req pointsRequest
	if err := decodePoints(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "Invalid points value"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "Invalid points value"))
	}
	u, err := update(c.Request().Context(), id, *req.Points)
	if err != nil {
		return h.userError(c, err, "failed to update points")
	}
	return c.JSON(http.StatusOK, toUserResponse(u))
}

// decodePoints reads the body as JSON whatever the Content-Type says;
// browsers posting a plain string send text/plain. An empty body is {}.
func decodePoints(c echo.Context, req *pointsRequest) error {
	err := c.Echo().JSONSerializer.Deserialize(c, req)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *UsersHandler) reset(c echo.Context) error {
	if err := h.svc.ResetAll(c.Request().Context()); err != nil {
		return h.internalError(c, err, "failed to reset points")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "All points reset to zero",
		"success": true,
	})
}

func (h *UsersHandler) userError(c echo.Context, err error, msg string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "User not found"))
	case errors.Is(err, service.ErrInvalidPoints):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "Invalid points value"))
	}
	return h.internalError(c, err, msg)
}

// internalError hides store details unless EXPOSE_STORE_ERRORS is set.
func (h *UsersHandler) internalError(c echo.Context, err error, msg string) error {
	if h.exposeErrors {
		msg = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", msg))
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		GroupName: u.GroupName,
		Points:    u.Points,
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
