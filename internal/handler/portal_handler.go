package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rollmark/attendance-api/internal/dto"
	"github.com/rollmark/attendance-api/internal/models"
	appErrors "github.com/rollmark/attendance-api/pkg/errors"
	"github.com/rollmark/attendance-api/pkg/response"
)

type portalService interface {
	Settings(ctx context.Context, classroom string) (*models.ClassroomSettings, error)
	SetOpen(ctx context.Context, classroom string, open bool, actor *models.JWTClaims, ip string) error
	SetToken(ctx context.Context, classroom, token string, actor *models.JWTClaims, ip string) error
	SetLimit(ctx context.Context, classroom string, limit int, actor *models.JWTClaims, ip string) error
}

// PortalHandler exposes attendance gating controls.
type PortalHandler struct {
	service portalService
}

// NewPortalHandler constructs the handler.
func NewPortalHandler(service portalService) *PortalHandler {
	return &PortalHandler{service: service}
}

// Settings godoc
// @Summary Current gating settings for a classroom
// @Tags Portal
// @Produce json
// @Param name path string true "Classroom name"
// @Success 200 {object} response.Envelope
// @Router /admin/classrooms/{name}/settings [get]
func (h *PortalHandler) Settings(c *gin.Context) {
	entry, err := h.service.Settings(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry)
}

// UpdateGate godoc
// @Summary Open or close the attendance portal
// @Tags Portal
// @Accept json
// @Produce json
// @Param name path string true "Classroom name"
// @Param payload body dto.UpdateGateRequest true "Gate state"
// @Success 200 {object} response.Envelope
// @Router /admin/classrooms/{name}/gate [put]
func (h *PortalHandler) UpdateGate(c *gin.Context) {
	var req dto.UpdateGateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid gate payload"))
		return
	}
	name := c.Param("name")
	if err := h.service.SetOpen(c.Request.Context(), name, req.Open, claimsFromContext(c), c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"classroom": name, "open": req.Open})
}

// UpdateToken godoc
// @Summary Replace the attendance token
// @Tags Portal
// @Accept json
// @Produce json
// @Param name path string true "Classroom name"
// @Param payload body dto.UpdateTokenRequest true "Token"
// @Success 200 {object} response.Envelope
// @Router /admin/classrooms/{name}/token [put]
func (h *PortalHandler) UpdateToken(c *gin.Context) {
	var req dto.UpdateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid token payload"))
		return
	}
	name := c.Param("name")
	if err := h.service.SetToken(c.Request.Context(), name, req.Token, claimsFromContext(c), c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"classroom": name})
}

// UpdateLimit godoc
// @Summary Replace the daily capacity limit
// @Tags Portal
// @Accept json
// @Produce json
// @Param name path string true "Classroom name"
// @Param payload body dto.UpdateLimitRequest true "Limit"
// @Success 200 {object} response.Envelope
// @Router /admin/classrooms/{name}/limit [put]
func (h *PortalHandler) UpdateLimit(c *gin.Context) {
	var req dto.UpdateLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid limit payload"))
		return
	}
	name := c.Param("name")
	if err := h.service.SetLimit(c.Request.Context(), name, req.Limit, claimsFromContext(c), c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"classroom": name, "limit": req.Limit})
}
