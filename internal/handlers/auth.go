package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/foodorder/food-order-api/internal/apperr"
	mwauth "github.com/foodorder/food-order-api/internal/middleware/auth"
	"github.com/foodorder/food-order-api/internal/response"
	"github.com/foodorder/food-order-api/internal/service"
)

type AuthHandler struct {
	Auth *service.AuthService
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func tokenData(res *service.AuthResult) echo.Map {
	return echo.Map{
		"user":          res.User,
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}

	res, err := h.Auth.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		return err
	}
	return response.Created(c, "Registration successful", tokenData(res))
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.KindValidation, "Invalid request body")
	}

	res, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return response.Success(c, "Login successful", tokenData(res))
}

// Refresh accepts the refresh token in the body and, optionally, the
// access token it replaces as the bearer header.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return service.ErrInvalidRefreshToken
	}

	res, err := h.Auth.Refresh(c.Request().Context(), req.RefreshToken, mwauth.BearerToken(c))
	if err != nil {
		return err
	}
	return response.Success(c, "Tokens refreshed", tokenData(res))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	_ = c.Bind(&req)

	raw, _ := c.Get(mwauth.ContextAccessToken).(string)
	if err := h.Auth.Logout(c.Request().Context(), raw, req.RefreshToken); err != nil {
		return err
	}
	return response.Success(c, "Logged out", nil)
}

func (h *AuthHandler) LogoutAll(c echo.Context) error {
	var req refreshRequest
	_ = c.Bind(&req)

	userID, ok := mwauth.SubjectID(c)
	if !ok {
		return apperr.Unauthorized("Invalid token")
	}

	raw, _ := c.Get(mwauth.ContextAccessToken).(string)
	if err := h.Auth.LogoutAll(c.Request().Context(), raw, req.RefreshToken, userID); err != nil {
		return err
	}
	return response.Success(c, "All sessions revoked", nil)
}

func (h *AuthHandler) Profile(c echo.Context) error {
	userID, ok := mwauth.SubjectID(c)
	if !ok {
		return apperr.Unauthorized("Invalid token")
	}

	user, err := h.Auth.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return response.Success(c, "Profile", user)
}

// ForgotPassword always answers success so the endpoint cannot be used
// to probe which emails are registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return apperr.Validation("Validation failed", map[string]string{
			"email": "email is required",
		})
	}

	if err := h.Auth.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return response.Success(c, "If the email exists, a reset link has been sent", nil)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return apperr.New(apperr.KindValidation, "Invalid or expired reset token")
	}

	if err := h.Auth.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		return err
	}
	return response.Success(c, "Password reset successful", nil)
}
