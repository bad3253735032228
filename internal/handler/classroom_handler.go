package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rollmark/attendance-api/internal/dto"
	"github.com/rollmark/attendance-api/internal/models"
	"github.com/rollmark/attendance-api/internal/service"
	appErrors "github.com/rollmark/attendance-api/pkg/errors"
	"github.com/rollmark/attendance-api/pkg/response"
)

type classroomService interface {
	Create(ctx context.Context, req dto.CreateClassroomRequest, actor *models.JWTClaims, ip string) error
	Delete(ctx context.Context, name string, actor *models.JWTClaims, ip string) error
	List(ctx context.Context) ([]string, error)
	Ledger(ctx context.Context, name string) (*dto.LedgerView, error)
	Export(ctx context.Context, name string, format service.ExportFormat) (*service.ExportFile, error)
}

// ClassroomHandler exposes classroom lifecycle and ledger inspection.
type ClassroomHandler struct {
	service classroomService
}

// NewClassroomHandler constructs the handler.
func NewClassroomHandler(service classroomService) *ClassroomHandler {
	return &ClassroomHandler{service: service}
}

// List godoc
// @Summary List classrooms
// @Tags Classrooms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classrooms [get]
func (h *ClassroomHandler) List(c *gin.Context) {
	names, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, names)
}

// Create godoc
// @Summary Create a classroom
// @Tags Classrooms
// @Accept json
// @Produce json
// @Param payload body dto.CreateClassroomRequest true "Classroom name"
// @Success 201 {object} response.Envelope
// @Router /admin/classrooms [post]
func (h *ClassroomHandler) Create(c *gin.Context) {
	var req dto.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid classroom payload"))
		return
	}

	if err := h.service.Create(c.Request.Context(), req, claimsFromContext(c), c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"name": req.Name})
}

// Delete godoc
// @Summary Delete a classroom
// @Tags Classrooms
// @Param name path string true "Classroom name"
// @Success 204
// @Router /admin/classrooms/{name} [delete]
func (h *ClassroomHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.service.Delete(c.Request.Context(), name, claimsFromContext(c), c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Ledger godoc
// @Summary Inspect a classroom ledger
// @Tags Classrooms
// @Produce json
// @Param name path string true "Classroom name"
// @Success 200 {object} response.Envelope
// @Router /admin/classrooms/{name}/ledger [get]
func (h *ClassroomHandler) Ledger(c *gin.Context) {
	view, err := h.service.Ledger(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Export godoc
// @Summary Download a classroom ledger
// @Tags Classrooms
// @Produce octet-stream
// @Param name path string true "Classroom name"
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Success 200 {file} binary
// @Router /admin/classrooms/{name}/export [get]
func (h *ClassroomHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	file, err := h.service.Export(c.Request.Context(), c.Param("name"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
