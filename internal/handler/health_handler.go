package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/points-api/internal/service"
)

const (
	healthOK    = "OK"
	healthError = "ERROR"
)

type HealthHandler struct {
	svc service.HealthService
	now func() time.Time
}

func NewHealthHandler(svc service.HealthService) *HealthHandler {
	return &HealthHandler{svc: svc, now: time.Now}
}

type DatabaseHealth struct {
	Connected bool    `json:"connected"`
	Error     *string `json:"error"`
}

type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Database  DatabaseHealth `json:"database"`
}

type healthFailureResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Get always answers; a panic inside the check becomes a 500 ERROR body.
func (h *HealthHandler) Get(c echo.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = c.JSON(http.StatusInternalServerError, healthFailureResponse{
				Status:    healthError,
				Error:     fmt.Sprint(r),
				Timestamp: h.timestamp(),
			})
		}
	}()

	resp := HealthResponse{
		Status:   healthOK,
		Database: DatabaseHealth{Connected: true},
	}
	if checkErr := h.svc.Check(c.Request().Context()); checkErr != nil {
		msg := checkErr.Error()
		resp.Status = healthError
		resp.Database = DatabaseHealth{Connected: false, Error: &msg}
	}
	resp.Timestamp = h.timestamp()
	return c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) timestamp() string {
	return h.now().UTC().Format(isoMillis)
}
