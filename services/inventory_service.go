package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/muhijericho/capstone-topstyle-sub000/config"
	"github.com/muhijericho/capstone-topstyle-sub000/models"
)

// AdjustStock applies a signed quantity delta to a product and records it as
// an adjustment ledger entry. The resulting quantity may never go negative.
func AdjustStock(productID uint, delta int, notes string, actorID *uint) (*models.Product, error) {
	if delta == 0 {
		return nil, fmt.Errorf("%w: adjustment quantity must be non-zero", ErrValidation)
	}

	db := config.GetDB()
	var product models.Product

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", ErrNotFound, productID)
			}
			return err
		}

		newQuantity := product.Quantity + delta
		if newQuantity < 0 {
			return fmt.Errorf("%w: adjustment would leave %q at %d", ErrValidation, product.Name, newQuantity)
		}

		if err := tx.Model(&product).UpdateColumn("quantity", newQuantity).Error; err != nil {
			return err
		}
		product.Quantity = newQuantity

		entry := models.InventoryTransaction{
			ProductID:       product.ID,
			TransactionType: models.TransactionAdjustment,
			Quantity:        delta,
			Notes:           notes,
			CreatedByID:     actorID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	logActivity(models.ActivityLog{
		ActivityType: models.ActivityInventoryTx,
		Description:  fmt.Sprintf("Stock of %q adjusted by %+d", product.Name, delta),
		UserID:       actorID,
		ProductID:    &product.ID,
		Metadata: metadataJSON(map[string]interface{}{
			"product_name": product.Name,
			"quantity":     delta,
			"notes":        notes,
		}),
	})

	return &product, nil
}

// ArchiveProduct retires a product from the catalog. Rented products must be
// returned first; ledger entries and order history stay intact.
func ArchiveProduct(productID uint, actorID *uint) (*models.Product, error) {
	db := config.GetDB()

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}

	if product.RentalStatus == models.RentalStatusRented {
		return nil, fmt.Errorf("%w: %q is currently rented out", ErrProductUnavailable, product.Name)
	}
	if product.IsArchived {
		return &product, nil
	}

	updates := map[string]interface{}{
		"is_archived": true,
		"is_active":   false,
	}
	if err := db.Model(&product).Updates(updates).Error; err != nil {
		return nil, err
	}
	product.IsArchived = true
	product.IsActive = false

	LogProductActivity(&product, models.ActivityProductArchived, actorID)

	return &product, nil
}

// LowStockProducts returns active material products at or below their
// minimum quantity threshold.
func LowStockProducts() ([]models.Product, error) {
	db := config.GetDB()
	var products []models.Product
	err := db.Preload("Category").
		Where("product_type = ?", models.ProductTypeMaterial).
		Where("is_archived = ?", false).
		Where("quantity <= min_quantity").
		Order("quantity asc").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
