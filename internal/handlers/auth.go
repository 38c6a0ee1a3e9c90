package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/fornetto/internal/config"
	"github.com/example/fornetto/internal/middleware"
	"github.com/example/fornetto/internal/models"
	"github.com/example/fornetto/internal/utils"
)

// AuthHandler manages operator accounts and login.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates an operator account. The first registered operator
// becomes an admin; after that registration requires an admin token and
// the requested role is honored.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username and password are required")
	}

	var count int64
	if err := h.db.Model(&models.Operator{}).Count(&count).Error; err != nil {
		return err
	}

	role := req.Role
	if role != models.RoleAdmin && role != models.RoleAttendant {
		role = models.RoleAttendant
	}
	if count == 0 {
		role = models.RoleAdmin
	} else if h.callerRole(c) != models.RoleAdmin {
		return fiber.NewError(fiber.StatusForbidden, "admin role required")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	operator := models.Operator{
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := h.db.Create(&operator).Error; err != nil {
		return fiber.NewError(fiber.StatusConflict, "username already taken")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": operator})
}

// callerRole resolves the requester's role. Register sits outside the
// authenticated group so the first operator can bootstrap, which means
// the token has to be checked here.
func (h *AuthHandler) callerRole(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	_, role, err := utils.ParseToken(h.cfg.JWTSecret, parts[1])
	if err != nil {
		return ""
	}
	return role
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an operator and issues a JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var operator models.Operator
	if err := h.db.First(&operator, "username = ?", req.Username).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if !operator.Active {
		return fiber.NewError(fiber.StatusUnauthorized, "account disabled")
	}
	if !utils.CheckPassword(operator.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, operator.ID, operator.Role, h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"token":    token,
			"operator": operator,
		},
	})
}

// Me returns the operator bound to the current token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, ok := middleware.GetCurrentOperatorID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}

	var operator models.Operator
	if err := h.db.First(&operator, "id = ?", id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "operator not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": operator})
}
