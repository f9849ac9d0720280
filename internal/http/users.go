package http

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/task-manager/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type authResp struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary Create an account
// @Tags users
// @Accept json
// @Produce json
// @Param payload body domain.Registration true "name, email, password, age"
// @Success 201 {object} authResp
// @Failure 400 {object} APIError
// @Failure 429 {object} APIError
// @Router /users [post]
func (h *Handler) Register(c *gin.Context) {
	var in domain.Registration
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, domain.NewValidationError("body", "invalid json"))
		return
	}
	u, tok, err := h.Accounts.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResp{User: u, Token: tok})
}

// Login godoc
// @Summary Log in
// @Tags users
// @Accept json
// @Produce json
// @Param payload body loginReq true "email, password"
// @Success 200 {object} authResp
// @Failure 400 {object} APIError
// @Failure 429 {object} APIError
// @Router /users/login [post]
func (h *Handler) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, domain.ErrAuthentication)
		return
	}
	u, tok, err := h.Accounts.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, authResp{User: u, Token: tok})
}

// Logout godoc
// @Summary Revoke the presented token
// @Tags users
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} APIError
// @Router /users/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Tokens.Revoke(c.Request.Context(), CurrentUser(c).ID, CurrentToken(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LogoutAll godoc
// @Summary Revoke every token of the current user
// @Tags users
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} APIError
// @Router /users/logoutAll [post]
func (h *Handler) LogoutAll(c *gin.Context) {
	if err := h.Tokens.RevokeAll(c.Request.Context(), CurrentUser(c).ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Current user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} APIError
// @Router /users/me [get]
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, CurrentUser(c))
}

// UpdateMe godoc
// @Summary Update profile
// @Description Only name, email, password and age may be sent; any other key rejects the request.
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body domain.UserPatch true "fields to change"
// @Success 200 {object} domain.User
// @Failure 400 {object} APIError
// @Failure 401 {object} APIError
// @Router /users/me [patch]
func (h *Handler) UpdateMe(c *gin.Context) {
	var p domain.UserPatch
	if err := domain.DecodeStrict(c.Request.Body, &p); err != nil {
		fail(c, err)
		return
	}
	u, err := h.Accounts.Update(c.Request.Context(), CurrentUser(c).ID, p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteMe godoc
// @Summary Delete account and all owned tasks
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} APIError
// @Router /users/me [delete]
func (h *Handler) DeleteMe(c *gin.Context) {
	u := CurrentUser(c)
	if err := h.Accounts.Remove(c.Request.Context(), u); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

var avatarExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// UploadAvatar godoc
// @Summary Upload avatar
// @Tags avatar
// @Security BearerAuth
// @Accept multipart/form-data
// @Param avatar formData file true "jpg, jpeg or png, up to 1MB"
// @Success 204
// @Failure 400 {object} APIError
// @Failure 401 {object} APIError
// @Router /users/me/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	// multipart framing on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.AvatarMaxBytes+64<<10)

	fh, err := c.FormFile("avatar")
	if err != nil {
		fail(c, domain.ErrUnsupportedImage)
		return
	}
	if !avatarExts[strings.ToLower(filepath.Ext(fh.Filename))] || fh.Size > h.AvatarMaxBytes {
		fail(c, domain.ErrUnsupportedImage)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, h.AvatarMaxBytes+1))
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.Accounts.SetAvatar(c.Request.Context(), CurrentUser(c).ID, raw); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAvatar godoc
// @Summary Remove avatar
// @Tags avatar
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} APIError
// @Router /users/me/avatar [delete]
func (h *Handler) DeleteAvatar(c *gin.Context) {
	if err := h.Accounts.DeleteAvatar(c.Request.Context(), CurrentUser(c).ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAvatar godoc
// @Summary Avatar of any user
// @Tags avatar
// @Produce png
// @Param id path string true "user id"
// @Success 200 {file} binary
// @Failure 404 {object} APIError
// @Router /users/{id}/avatar [get]
func (h *Handler) GetAvatar(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, domain.ErrNotFound)
		return
	}
	img, err := h.Accounts.Avatar(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}
