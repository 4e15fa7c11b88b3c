package http

import (
	"errors"
	"net/http"

	"github.com/GoSim-25-26J-441/go-shop-backend/internal/uploads/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc *service.UploadService
	log *zap.Logger
}

func New(svc *service.UploadService, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	// multipart overhead on top of the image itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.svc.MaxBytes()+64<<10)

	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	if fh.Size > h.svc.MaxBytes() {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrFileTooLarge.Error()})
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.log.Error("open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	defer f.Close()

	url, err := h.svc.SaveImage(c.Request.Context(), f)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"image": url})
	case errors.Is(err, service.ErrEmptyFile),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrUnsupportedType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("store upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
