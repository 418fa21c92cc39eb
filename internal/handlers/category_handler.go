package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/httpresp"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type CategoryHandler struct {
	db *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid category payload.")
		return
	}

	name := strings.TrimSpace(req.Name)

	var count int64
	h.db.Model(&models.Category{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "category_already_exists", "Category already exists.")
		return
	}

	category := models.Category{Name: name}
	if err := h.db.Create(&category).Error; err != nil {
		httperr.Internal(c, "failed_to_create_category", "Could not create category.")
		return
	}

	httpresp.Created(c, category)
}

func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("name ASC").Find(&categories).Error; err != nil {
		httperr.Internal(c, "failed_to_list_categories", "Could not list categories.")
		return
	}

	httpresp.OK(c, categories)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid category id.")
		return
	}

	var category models.Category
	if err := h.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		httperr.NotFound(c, "category_not_found", "Category not found.")
		return
	}

	httpresp.OK(c, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid category id.")
		return
	}

	var category models.Category
	if err := h.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		httperr.NotFound(c, "category_not_found", "Category not found.")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid category payload.")
		return
	}

	category.Name = strings.TrimSpace(req.Name)
	if err := h.db.Save(&category).Error; err != nil {
		httperr.Internal(c, "failed_to_update_category", "Could not update category.")
		return
	}

	httpresp.OK(c, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid category id.")
		return
	}

	var category models.Category
	if err := h.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		httperr.NotFound(c, "category_not_found", "Category not found.")
		return
	}

	if err := h.db.Delete(&category).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_category", "Could not delete category.")
		return
	}

	httpresp.OK(c, gin.H{"message": "category deleted successfully"})
}
