package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rollmark/attendance-api/internal/dto"
	"github.com/rollmark/attendance-api/internal/models"
	"github.com/rollmark/attendance-api/internal/notify"
	appErrors "github.com/rollmark/attendance-api/pkg/errors"
	"github.com/rollmark/attendance-api/pkg/response"
)

type attendanceService interface {
	Submit(ctx context.Context, req dto.SubmitAttendanceRequest) (*models.MarkResult, error)
}

// AttendanceHandler exposes the student-facing endpoints: submission and the
// change-signal long poll.
type AttendanceHandler struct {
	service         attendanceService
	marker          *notify.Marker
	pollInterval    time.Duration
	longPollTimeout time.Duration
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service attendanceService, marker *notify.Marker, pollInterval, longPollTimeout time.Duration) *AttendanceHandler {
	return &AttendanceHandler{
		service:         service,
		marker:          marker,
		pollInterval:    pollInterval,
		longPollTimeout: longPollTimeout,
	}
}

// Submit godoc
// @Summary Self-report attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.SubmitAttendanceRequest true "Submission"
// @Success 201 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Submit(c *gin.Context) {
	var req dto.SubmitAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid submission payload"))
		return
	}

	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Updates godoc
// @Summary Long-poll the settings change signal
// @Tags Attendance
// @Produce json
// @Param since query string false "Last observed signal value"
// @Param timeout query string false "Max wait, e.g. 10s"
// @Success 200 {object} response.Envelope
// @Router /portal/updates [get]
func (h *AttendanceHandler) Updates(c *gin.Context) {
	lastSeen := c.Query("since")

	timeout := h.longPollTimeout
	if raw := c.Query("timeout"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 && parsed < timeout {
			timeout = parsed
		}
	}

	signal, changed, err := h.marker.Watch(c.Request.Context(), lastSeen, timeout, h.pollInterval)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.Status(http.StatusNoContent)
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read change signal"))
		return
	}
	response.JSON(c, http.StatusOK, dto.PortalUpdate{Signal: signal, Changed: changed})
}
