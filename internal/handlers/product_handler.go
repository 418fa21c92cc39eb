package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/httpresp"
	"github.com/careclinic/clinic-scheduler/internal/middleware"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type ProductHandler struct {
	db *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// --------- Requests ---------

type CreateProductRequest struct {
	CategoryID  uuid.UUID `json:"category_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Price       float64   `json:"price" binding:"required"`
	Stock       int       `json:"stock"`
}

type UpdateProductRequest struct {
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Stock       *int       `json:"stock,omitempty"`
}

// --------- Handlers ---------

func (h *ProductHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid product payload.")
		return
	}

	var count int64
	h.db.Model(&models.Category{}).Where("id = ?", req.CategoryID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "category_not_found", "Category not found.")
		return
	}

	product := models.Product{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	if err := h.db.Create(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_create_product", "Could not create product.")
		return
	}

	httpresp.Created(c, product)
}

func (h *ProductHandler) List(c *gin.Context) {
	page, limit, offset := pageParams(c)

	q := h.db.Model(&models.Product{})

	if categoryID, err := uuid.Parse(c.Query("category_id")); err == nil {
		q = q.Where("category_id = ?", categoryID)
	}
	if minPrice, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		q = q.Where("price >= ?", minPrice)
	}
	if maxPrice, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		q = q.Where("price <= ?", maxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_products", "Could not list products.")
		return
	}

	var products []models.Product
	if err := q.
		Preload("Category").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		httperr.Internal(c, "failed_to_list_products", "Could not list products.")
		return
	}

	httpresp.List(c, products, total, page, limit)
}

func (h *ProductHandler) Search(c *gin.Context) {
	page, limit, offset := pageParams(c)

	query := strings.TrimSpace(c.Query("q"))
	like := "%" + query + "%"

	q := h.db.Model(&models.Product{}).
		Where("name ILIKE ? OR description ILIKE ?", like, like)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_search_products", "Could not search products.")
		return
	}

	var products []models.Product
	if err := q.
		Preload("Category").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		httperr.Internal(c, "failed_to_search_products", "Could not search products.")
		return
	}

	httpresp.List(c, products, total, page, limit)
}

func (h *ProductHandler) Get(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid product id.")
		return
	}

	var product models.Product
	if err := h.db.
		Preload("Category").
		Preload("Reviews").
		Where("id = ?", productID).
		First(&product).Error; err != nil {
		httperr.NotFound(c, "product_not_found", "Product not found.")
		return
	}

	avgRating := 0.0
	if len(product.Reviews) > 0 {
		sum := 0
		for _, r := range product.Reviews {
			sum += r.Rating
		}
		avgRating = float64(sum) / float64(len(product.Reviews))
	}

	httpresp.OK(c, gin.H{
		"product":        product,
		"average_rating": avgRating,
		"total_reviews":  len(product.Reviews),
	})
}

func (h *ProductHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(string)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid product id.")
		return
	}

	var product models.Product
	if err := h.db.Where("id = ?", productID).First(&product).Error; err != nil {
		httperr.NotFound(c, "product_not_found", "Product not found.")
		return
	}

	if role != models.RoleAdmin && product.UserID != userID {
		httperr.Forbidden(c, "not_your_product", "You can only update your own products.")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid product payload.")
		return
	}

	if req.CategoryID != nil {
		var count int64
		h.db.Model(&models.Category{}).Where("id = ?", *req.CategoryID).Count(&count)
		if count == 0 {
			httperr.NotFound(c, "category_not_found", "Category not found.")
			return
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := h.db.Save(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_update_product", "Could not update product.")
		return
	}

	httpresp.OK(c, product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(string)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid product id.")
		return
	}

	var product models.Product
	if err := h.db.Where("id = ?", productID).First(&product).Error; err != nil {
		httperr.NotFound(c, "product_not_found", "Product not found.")
		return
	}

	if role != models.RoleAdmin && product.UserID != userID {
		httperr.Forbidden(c, "not_your_product", "You can only delete your own products.")
		return
	}

	if err := h.db.Delete(&product).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_product", "Could not delete product.")
		return
	}

	httpresp.OK(c, gin.H{"message": "product deleted successfully"})
}
