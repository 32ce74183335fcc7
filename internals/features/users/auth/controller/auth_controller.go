package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"simpus_backend/internals/features/users/auth/service"
	helper "simpus_backend/internals/helpers"
)

type AuthController struct {
	Svc *service.AuthService
	Log *zap.Logger
}

func NewAuthController(svc *service.AuthService, log *zap.Logger) *AuthController {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthController{Svc: svc, Log: log}
}

func (ac *AuthController) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidGoogleToken),
		errors.Is(err, service.ErrWrongPassword):
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccountInactive):
		return helper.JsonError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrUsernameTaken):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrWeakPassword):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	default:
		ac.Log.Error("[AUTH] error tak terduga", zap.String("path", c.Path()), zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server")
	}
}

func setAccessCookie(c *fiber.Ctx, tok service.TokenResponse) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    tok.AccessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  tok.ExpiresAt,
	})
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var in service.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	in.Normalize()
	if err := helper.Validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}
	user, err := ac.Svc.Register(c.UserContext(), in)
	if err != nil {
		return ac.writeError(c, err)
	}
	return helper.JsonCreated(c, "Registrasi berhasil", service.ToUserView(*user))
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var in struct {
		Identifier string `json:"identifier" validate:"required"`
		Password   string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	in.Identifier = strings.TrimSpace(in.Identifier)
	if err := helper.Validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}
	tok, err := ac.Svc.Login(c.UserContext(), in.Identifier, in.Password)
	if err != nil {
		return ac.writeError(c, err)
	}
	setAccessCookie(c, tok)
	return helper.JsonOK(c, "Login berhasil", tok)
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var in struct {
		IDToken string `json:"id_token" validate:"required"`
	}
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := helper.Validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}
	tok, err := ac.Svc.LoginGoogle(c.UserContext(), in.IDToken)
	if err != nil {
		return ac.writeError(c, err)
	}
	setAccessCookie(c, tok)
	return helper.JsonOK(c, "Login berhasil", tok)
}

// POST /api/auth/logout (butuh token)
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	var userID *string
	if id, ok := c.Locals(helper.LocUserID).(string); ok && id != "" {
		userID = &id
	}
	if err := ac.Svc.Logout(c.UserContext(), helper.GetRawAccessToken(c), userID); err != nil {
		ac.Log.Warn("[AUTH] gagal blacklist token", zap.Error(err))
	}
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
	})
	return helper.JsonOK(c, "Logout berhasil", nil)
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var in struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}
	if err := c.BodyParser(&in); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	if err := helper.Validate.Struct(in); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := ac.Svc.ChangePassword(c.UserContext(), userID, in.CurrentPassword, in.NewPassword); err != nil {
		return ac.writeError(c, err)
	}
	return helper.JsonUpdated(c, "Password berhasil diubah", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	me, err := ac.Svc.Me(c.UserContext(), userID)
	if err != nil {
		return ac.writeError(c, err)
	}
	return helper.JsonOK(c, "ok", me)
}
