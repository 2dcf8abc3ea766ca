package handlers

import (
	"net/http"

	"github.com/emsteam/ems-api/internal/dto"
	"github.com/emsteam/ems-api/internal/services"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListEmployees returns every employee account
func (h *UserHandler) ListEmployees(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	employees, err := h.userService.ListEmployees(p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(employees))
}

// DismissEmployee deletes an employee account
func (h *UserHandler) DismissEmployee(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c, "id", "Invalid employee ID")
	if !ok {
		return
	}

	if err := h.userService.Dismiss(p, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Employee dismissed successfully",
		"id":      id,
	})
}
