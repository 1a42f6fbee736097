package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tourbook/backend/internal/application/media"
)

// MediaHandler hands out image upload URLs
type MediaHandler struct {
	BaseHandler
	mediaService *media.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService *media.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
	}
}

// Presign godoc
// @Summary      Presign image upload
// @Description  Return a presigned PUT URL for a JPEG, PNG or WebP image and the public URL it will be served from
// @Tags         admin-media
// @Accept       json
// @Produce      json
// @Param        request body media.PresignUploadRequest true "Upload"
// @Success      200 {object} dto.Response{data=media.PresignUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/media/presign [post]
func (h *MediaHandler) Presign(c *gin.Context) {
	var req media.PresignUploadRequest
	if !h.BindJSON(c, &req) {
		return
	}

	upload, err := h.mediaService.PresignUpload(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, upload)
}

// Delete godoc
// @Summary      Delete uploaded image
// @Tags         admin-media
// @Param        key query string true "Object key"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/media [delete]
func (h *MediaHandler) Delete(c *gin.Context) {
	var req media.DeleteRequest
	if !h.BindQuery(c, &req) {
		return
	}

	if err := h.mediaService.Delete(c.Request.Context(), req.Key); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
