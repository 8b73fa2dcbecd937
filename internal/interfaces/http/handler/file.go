package handler

import (
	"github.com/gin-gonic/gin"
	appdocument "github.com/outvoice/backend/internal/application/document"
)

// FileHandler serves the client document store
type FileHandler struct {
	BaseHandler
	fileService *appdocument.FileService
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(fileService *appdocument.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// RegisterRoutes mounts the file routes
func (h *FileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	files := rg.Group("/files")
	files.GET("", h.ListFiles)
	files.POST("", h.Upload)
	files.GET("/:id", h.GetByID)
	files.GET("/:id/download", h.Download)
	files.GET("/:id/link", h.DownloadLink)
}

// ListFiles godoc
// @Summary      List stored files
// @Tags         files
// @Produce      json
// @Param        client_id query string false "Client ID"
// @Success      200 {object} dto.Response
// @Router       /files [get]
func (h *FileHandler) ListFiles(c *gin.Context) {
	files, err := h.fileService.List(c.Request.Context(), c.Query("client_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, files, len(files))
}

// Upload godoc
// @Summary      Upload a client file
// @Description  A KYC tag moves the client's KYC review to Submitted.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "File"
// @Param        client_id formData string true "Client ID"
// @Param        tag formData string false "General (default), Contract or KYC"
// @Success      201 {object} dto.Response
// @Router       /files [post]
func (h *FileHandler) Upload(c *gin.Context) {
	file, err := readUpload(c, "file")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp, err := h.fileService.Upload(c.Request.Context(), appdocument.UploadFileRequest{
		ClientID:    c.PostForm("client_id"),
		Tag:         c.PostForm("tag"),
		FileName:    file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @Summary      Get file metadata
// @Tags         files
// @Produce      json
// @Param        id path string true "File ID"
// @Success      200 {object} dto.Response
// @Router       /files/{id} [get]
func (h *FileHandler) GetByID(c *gin.Context) {
	file, err := h.fileService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, file)
}

// Download godoc
// @Summary      Download a file
// @Tags         files
// @Produce      octet-stream
// @Param        id path string true "File ID"
// @Success      200 {file} file
// @Router       /files/{id}/download [get]
func (h *FileHandler) Download(c *gin.Context) {
	content, err := h.fileService.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Attachment(c, content.Name, content.ContentType, content.Data, false)
}

// DownloadLink godoc
// @Summary      Get a short-lived direct download link
// @Tags         files
// @Produce      json
// @Param        id path string true "File ID"
// @Success      200 {object} dto.Response
// @Failure      501 {object} dto.Response
// @Router       /files/{id}/link [get]
func (h *FileHandler) DownloadLink(c *gin.Context) {
	link, err := h.fileService.DownloadLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}
