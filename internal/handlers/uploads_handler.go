package handlers

import (
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
	"github.com/careclinic/clinic-scheduler/internal/httpresp"
	"github.com/careclinic/clinic-scheduler/internal/middleware"
	"github.com/careclinic/clinic-scheduler/internal/models"
	"github.com/careclinic/clinic-scheduler/internal/storage"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type UploadsHandler struct {
	db    *gorm.DB
	store *storage.S3Store
}

func NewUploadsHandler(db *gorm.DB, store *storage.S3Store) *UploadsHandler {
	return &UploadsHandler{db: db, store: store}
}

// loadOwnedProduct resolves the product and checks the caller owns it.
func (h *UploadsHandler) loadOwnedProduct(c *gin.Context) (*models.Product, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(string)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid product id.")
		return nil, false
	}

	var product models.Product
	if err := h.db.Where("id = ?", productID).First(&product).Error; err != nil {
		httperr.NotFound(c, "product_not_found", "Product not found.")
		return nil, false
	}

	if role != models.RoleAdmin && product.UserID != userID {
		httperr.Forbidden(c, "not_your_product", "You can only manage images for your own products.")
		return nil, false
	}

	return &product, true
}

func (h *UploadsHandler) UploadProductImage(c *gin.Context) {
	product, ok := h.loadOwnedProduct(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "no_image_uploaded", "No image uploaded.")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		httperr.BadRequest(c, "image_too_large", "Image exceeds the 10 MiB limit.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_image", "Could not read the uploaded image.")
		return
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "The uploaded file is not a supported image.")
		return
	}

	key, err := h.store.UploadProductImage(c.Request.Context(), product.ID, img)
	if err != nil {
		httperr.Internal(c, "failed_to_store_image", "Could not store the image.")
		return
	}

	product.ImageURL = key
	if err := h.db.Save(product).Error; err != nil {
		httperr.Internal(c, "failed_to_update_product", "Could not attach the image to the product.")
		return
	}

	httpresp.OK(c, product)
}

func (h *UploadsHandler) GetProductImage(c *gin.Context) {
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

	if product.ImageURL == "" {
		httperr.NotFound(c, "image_not_found", "No image for this product.")
		return
	}

	httpresp.OK(c, gin.H{"image_url": product.ImageURL})
}

func (h *UploadsHandler) DeleteProductImage(c *gin.Context) {
	product, ok := h.loadOwnedProduct(c)
	if !ok {
		return
	}

	if product.ImageURL == "" {
		httperr.NotFound(c, "image_not_found", "No image for this product.")
		return
	}

	if err := h.store.Delete(c.Request.Context(), product.ImageURL); err != nil {
		httperr.Internal(c, "failed_to_delete_image", "Could not delete the stored image.")
		return
	}

	product.ImageURL = ""
	if err := h.db.Save(product).Error; err != nil {
		httperr.Internal(c, "failed_to_update_product", "Could not detach the image from the product.")
		return
	}

	httpresp.OK(c, gin.H{"message": "product image deleted successfully"})
}
