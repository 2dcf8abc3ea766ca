package handlers

import (
	"net/http"

	"github.com/emsteam/ems-api/internal/dto"
	"github.com/emsteam/ems-api/internal/services"
	"github.com/emsteam/ems-api/internal/utils"
	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(fileService *services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// ListFiles returns every uploaded file, newest first. page and limit are
// optional.
func (h *FileHandler) ListFiles(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	files, total, err := h.fileService.List(p, params)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.FileDTO, len(files))
	for i, f := range files {
		items[i] = dto.ToFileDTO(f, h.fileService.URL(f.StoredName))
	}

	resp := gin.H{
		"message": "Files fetched successfully",
		"count":   len(items),
		"files":   items,
	}
	if params != nil {
		resp["pagination"] = params.Response(total)
	}

	c.JSON(http.StatusOK, resp)
}

// GetFile returns one file to an admin or its uploader
func (h *FileHandler) GetFile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	fileID, ok := parseIDParam(c, "id", "Invalid file ID")
	if !ok {
		return
	}

	file, err := h.fileService.Get(p, fileID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File fetched successfully",
		"file":    dto.ToFileDTO(*file, h.fileService.URL(file.StoredName)),
	})
}
