package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/httpresp"
	"github.com/careclinic/clinic-scheduler/internal/middleware"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type ReviewHandler struct {
	db *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

// --------- Requests ---------

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Comment   string    `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty"`
}

// --------- Handlers ---------

func (h *ReviewHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid review payload.")
		return
	}

	var count int64
	h.db.Model(&models.Product{}).Where("id = ?", req.ProductID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "product_not_found", "Product not found.")
		return
	}

	h.db.Model(&models.Review{}).
		Where("user_id = ? AND product_id = ?", userID, req.ProductID).
		Count(&count)
	if count > 0 {
		httperr.Conflict(c, "review_already_exists", "You can only review a product once.")
		return
	}

	review := models.Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := h.db.Create(&review).Error; err != nil {
		httperr.Internal(c, "failed_to_create_review", "Could not create review.")
		return
	}

	httpresp.Created(c, review)
}

func (h *ReviewHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c)

	q := h.db.Model(&models.Review{})

	if productID, err := uuid.Parse(c.Query("product_id")); err == nil {
		q = q.Where("product_id = ?", productID)
	}
	if userID, err := uuid.Parse(c.Query("user_id")); err == nil {
		q = q.Where("user_id = ?", userID)
	}
	if minRating, err := strconv.Atoi(c.Query("min_rating")); err == nil {
		q = q.Where("rating >= ?", minRating)
	}
	if maxRating, err := strconv.Atoi(c.Query("max_rating")); err == nil {
		q = q.Where("rating <= ?", maxRating)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Could not list reviews.")
		return
	}

	var reviews []models.Review
	if err := q.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Could not list reviews.")
		return
	}

	httpresp.List(c, reviews, total, page, limit)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid review id.")
		return
	}

	var review models.Review
	if err := h.db.
		Preload("Product").
		Where("id = ?", reviewID).
		First(&review).Error; err != nil {
		httperr.NotFound(c, "review_not_found", "Review not found.")
		return
	}

	httpresp.OK(c, review)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid review id.")
		return
	}

	var review models.Review
	if err := h.db.Where("id = ?", reviewID).First(&review).Error; err != nil {
		httperr.NotFound(c, "review_not_found", "Review not found.")
		return
	}

	if review.UserID != userID {
		httperr.Forbidden(c, "not_your_review", "You can only update your own reviews.")
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid review payload.")
		return
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := h.db.Save(&review).Error; err != nil {
		httperr.Internal(c, "failed_to_update_review", "Could not update review.")
		return
	}

	httpresp.OK(c, review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(string)

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid review id.")
		return
	}

	var review models.Review
	if err := h.db.Where("id = ?", reviewID).First(&review).Error; err != nil {
		httperr.NotFound(c, "review_not_found", "Review not found.")
		return
	}

	if role != models.RoleAdmin && review.UserID != userID {
		httperr.Forbidden(c, "not_your_review", "You can only delete your own reviews.")
		return
	}

	if err := h.db.Delete(&review).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_review", "Could not delete review.")
		return
	}

	httpresp.OK(c, gin.H{"message": "review deleted successfully"})
}
