package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashetian/sdc-web-sub003/internal/app/models/dto"
	"github.com/ashetian/sdc-web-sub003/internal/app/services"
	"github.com/ashetian/sdc-web-sub003/internal/middleware"
)

// AdminController handles staff authentication
type AdminController struct {
	authService *services.AuthService
}

// NewAdminController creates a new AdminController
func NewAdminController(authService *services.AuthService) *AdminController {
	return &AdminController{
		authService: authService,
	}
}

// Login issues a staff session token
// @Summary Staff login
// @Description Checks the staff password and returns a session token for the admin endpoints
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Staff credential"
// @Success 200 {object} dto.APIResponse{data=dto.AdminTokenResponse} "Session token issued"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/login [post]
func (c *AdminController) Login(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid login request")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	token, expiresIn, err := c.authService.Login(req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.AdminTokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
	})
}
