package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/points-api/internal/service"
)

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type GroupsSummaryHandler struct {
	svc          service.SummaryService
	exposeErrors bool
}

func NewGroupsSummaryHandler(svc service.SummaryService, exposeErrors bool) *GroupsSummaryHandler {
	return &GroupsSummaryHandler{svc: svc, exposeErrors: exposeErrors}
}

type GroupsSummaryResponse struct {
	Group1Total   int64            `json:"group1Total"`
	Group2Total   int64            `json:"group2Total"`
	Group3Total   int64            `json:"group3Total"`
	TotalPoints   int64            `json:"totalPoints"`
	TotalUsers    int              `json:"totalUsers"`
	AveragePoints string           `json:"averagePoints"`
	GroupTotals   map[string]int64 `json:"groupTotals"`
	LastUpdate    string           `json:"lastUpdate"`
}

func (h *GroupsSummaryHandler) Get(c echo.Context) error {
	sum, err := h.svc.Compute(c.Request().Context())
	if err != nil {
		msg := "failed to compute summary"
		if h.exposeErrors {
			msg = err.Error()
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", msg))
	}
	return c.JSON(http.StatusOK, GroupsSummaryResponse{
		Group1Total:   sum.GroupTotals["group1"],
		Group2Total:   sum.GroupTotals["group2"],
		Group3Total:   sum.GroupTotals["group3"],
		TotalPoints:   sum.TotalPoints,
		TotalUsers:    sum.TotalUsers,
		AveragePoints: sum.AveragePoints.StringFixed(2),
		GroupTotals:   sum.GroupTotals,
		LastUpdate:    sum.ComputedAt.Format(isoMillis),
	})
}
