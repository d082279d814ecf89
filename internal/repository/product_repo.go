package repository

import (
	"go-jalin-ops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	Create(tx *gorm.DB, product *model.Product) error
	Save(tx *gorm.DB, product *model.Product) error
	Delete(tx *gorm.DB, id uuid.UUID) (int64, error)
	ReplaceChecklist(tx *gorm.DB, productID uuid.UUID, items []model.ChecklistItem) error
	ReplaceImages(tx *gorm.DB, productID uuid.UUID, urls []string) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Checklist", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Materials.Material").
		First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	return &product, err
}

// FindByIDForUpdate locks the product row so a concurrent update
// cannot interleave between the read and the save.
func (r *productRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", id).Error
	return &product, err
}

// Create menerima tx agar insert product ikut transaksi reconciliation
func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	return tx.Create(product).Error
}

func (r *productRepo) Save(tx *gorm.DB, product *model.Product) error {
	return tx.Save(product).Error
}

// Delete removes owned rows first, then the product itself. Returns
// the number of product rows removed so the caller can 404.
func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) (int64, error) {
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("product_id = ?", id).Delete(&model.ChecklistItem{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("product_id = ?", id).Delete(&model.ProductMaterial{}).Error; err != nil {
		return 0, err
	}
	res := tx.Delete(&model.Product{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// ReplaceChecklist: delete-all-then-reinsert, only called when the
// client explicitly sent a checklist array
func (r *productRepo) ReplaceChecklist(tx *gorm.DB, productID uuid.UUID, items []model.ChecklistItem) error {
	if err := tx.Where("product_id = ?", productID).Delete(&model.ChecklistItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ProductID = productID
	}
	if len(items) == 0 {
		return nil
	}
	return tx.Create(&items).Error
}

func (r *productRepo) ReplaceImages(tx *gorm.DB, productID uuid.UUID, urls []string) error {
	if err := tx.Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error; err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}
	images := make([]model.ProductImage, len(urls))
	for i, url := range urls {
		images[i] = model.ProductImage{ProductID: productID, URL: url, Position: i}
	}
	return tx.Create(&images).Error
}
