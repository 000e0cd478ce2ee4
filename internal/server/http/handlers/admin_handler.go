package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bernardito-luis/eurodelivery/internal/domain/model"
	"github.com/bernardito-luis/eurodelivery/internal/server/http/dto"
)

// AdminHandler exposes superuser order management.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// ChangeStatus handles PUT /api/admin/orders/:id/status.
func (h *AdminHandler) ChangeStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req dto.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	status := model.Status(req.Status)
	if req.Name != "" {
		parsed, ok := model.ParseStatus(req.Name)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown status " + req.Name})
			return
		}
		status = parsed
	}

	if err := h.facade.ChangeStatus(c.Request.Context(), CurrentActor(c), id, status); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateComment handles PUT /api/admin/orders/:id/comment.
func (h *AdminHandler) UpdateComment(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req dto.AdminCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.facade.UpdateAdminComment(c.Request.Context(), CurrentActor(c), id, req.AdminComment); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
