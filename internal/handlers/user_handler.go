package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/httpresp"
	"github.com/careclinic/clinic-scheduler/internal/middleware"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var user models.User
	if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	httpresp.OK(c, user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid password payload.")
		return
	}

	var user models.User
	if err := h.db.Where("id = ?", userID).First(&user).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		httperr.Unauthorized(c, "invalid_old_password", "Old password is incorrect.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not update password.")
		return
	}

	user.PasswordHash = string(hashed)
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_password", "Could not update password.")
		return
	}

	httpresp.OK(c, gin.H{"message": "password changed successfully"})
}

// SetActive flips a user's active flag; admin only.
func (h *UserHandler) SetActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			httperr.BadRequest(c, "invalid_id", "Invalid user id.")
			return
		}

		var user models.User
		if err := h.db.Where("id = ?", targetID).First(&user).Error; err != nil {
			httperr.NotFound(c, "user_not_found", "User not found.")
			return
		}

		user.IsActive = active
		if err := h.db.Save(&user).Error; err != nil {
			httperr.Internal(c, "failed_to_update_user", "Could not update user.")
			return
		}

		httpresp.OK(c, user)
	}
}
