package controller

import (
	"ctchen222/pokedex/internal/api/models"
	"ctchen222/pokedex/internal/api/response"
	"ctchen222/pokedex/internal/api/service"
	"ctchen222/pokedex/internal/apperr"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserController handles registration and login.
type UserController struct {
	userService service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// Register creates an account and answers 201 with its public view.
func (uc *UserController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	user, err := uc.userService.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.CreatedResponse(c, models.NewUserResponse(user))
}

// Login exchanges credentials for an access token.
func (uc *UserController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	token, err := uc.userService.Login(c.Request.Context(), &req)
	if err != nil {
		// A credential mismatch is a bad request here, not a forbidden one.
		if errors.Is(err, apperr.ErrAuth) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err)
			return
		}
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, token)
}
