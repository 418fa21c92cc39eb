package handlers

import (
	"math"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/httpresp"
	"github.com/careclinic/clinic-scheduler/internal/middleware"
	"github.com/careclinic/clinic-scheduler/internal/models"
)

type CartHandler struct {
	db *gorm.DB
}

func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{db: db}
}

// --------- Requests ---------

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// --------- Helpers ---------

// getOrCreateCart returns the caller's cart, creating one if signup predates
// the cart bootstrap.
func (h *CartHandler) getOrCreateCart(c *gin.Context, userID uuid.UUID) (*models.Cart, bool) {
	var cart models.Cart
	err := h.db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, true
	}

	if err != gorm.ErrRecordNotFound {
		httperr.Internal(c, "failed_to_load_cart", "Could not load cart.")
		return nil, false
	}

	cart = models.Cart{UserID: userID}
	if err := h.db.Create(&cart).Error; err != nil {
		httperr.Internal(c, "failed_to_create_cart", "Could not create cart.")
		return nil, false
	}
	return &cart, true
}

type cartView struct {
	ID         uuid.UUID         `json:"id"`
	UserID     uuid.UUID         `json:"user_id"`
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
}

func (h *CartHandler) renderCart(c *gin.Context, cart *models.Cart) {
	var items []models.CartItem
	if err := h.db.
		Preload("Product").
		Where("cart_id = ?", cart.ID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		httperr.Internal(c, "failed_to_load_cart", "Could not load cart items.")
		return
	}

	totalItems := 0
	totalPrice := 0.0
	for _, item := range items {
		totalItems += item.Quantity
		totalPrice += item.Product.Price * float64(item.Quantity)
	}

	httpresp.OK(c, cartView{
		ID:         cart.ID,
		UserID:     cart.UserID,
		Items:      items,
		TotalItems: totalItems,
		TotalPrice: math.Round(totalPrice*100) / 100,
	})
}

// --------- Handlers ---------

func (h *CartHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	cart, ok := h.getOrCreateCart(c, userID)
	if !ok {
		return
	}
	h.renderCart(c, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid cart payload.")
		return
	}

	var count int64
	h.db.Model(&models.Product{}).Where("id = ?", req.ProductID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "product_not_found", "Product not found.")
		return
	}

	cart, ok := h.getOrCreateCart(c, userID)
	if !ok {
		return
	}

	var item models.CartItem
	err := h.db.
		Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).
		First(&item).Error

	if err == gorm.ErrRecordNotFound {
		item = models.CartItem{
			CartID:    cart.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		err = h.db.Create(&item).Error
	} else if err == nil {
		item.Quantity += req.Quantity
		err = h.db.Save(&item).Error
	}

	if err != nil {
		httperr.Internal(c, "failed_to_add_to_cart", "Could not add item to cart.")
		return
	}

	h.renderCart(c, cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid cart item id.")
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid cart payload.")
		return
	}

	cart, ok := h.getOrCreateCart(c, userID)
	if !ok {
		return
	}

	var item models.CartItem
	if err := h.db.
		Where("id = ? AND cart_id = ?", itemID, cart.ID).
		First(&item).Error; err != nil {
		httperr.NotFound(c, "cart_item_not_found", "Cart item is not in your cart.")
		return
	}

	item.Quantity = req.Quantity
	if err := h.db.Save(&item).Error; err != nil {
		httperr.Internal(c, "failed_to_update_cart", "Could not update cart item.")
		return
	}

	h.renderCart(c, cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid cart item id.")
		return
	}

	cart, ok := h.getOrCreateCart(c, userID)
	if !ok {
		return
	}

	var item models.CartItem
	if err := h.db.
		Where("id = ? AND cart_id = ?", itemID, cart.ID).
		First(&item).Error; err != nil {
		httperr.NotFound(c, "cart_item_not_found", "Cart item is not in your cart.")
		return
	}

	if err := h.db.Delete(&item).Error; err != nil {
		httperr.Internal(c, "failed_to_remove_from_cart", "Could not remove cart item.")
		return
	}

	h.renderCart(c, cart)
}
