package repository

import (
	"go-jalin-ops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialRepository interface {
	FindAll() ([]model.RawMaterial, error)
	FindByID(id uuid.UUID) (*model.RawMaterial, error)
	FindByName(name string) (*model.RawMaterial, error)
	FindByNameForUpdate(tx *gorm.DB, name string) (*model.RawMaterial, error)
	Create(tx *gorm.DB, material *model.RawMaterial) error
	Save(material *model.RawMaterial) error
	Delete(id uuid.UUID) (int64, error)
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error

	// Product material links live here: the link rows are the
	// reservation ledger the stock reconciliation works against.
	LinksForProduct(tx *gorm.DB, productID uuid.UUID) ([]model.ProductMaterial, error)
	DeleteLinksForProduct(tx *gorm.DB, productID uuid.UUID) error
	CreateLink(tx *gorm.DB, link *model.ProductMaterial) error
	CountLinksForMaterial(id uuid.UUID) (int64, error)
}

type materialRepo struct {
	db *gorm.DB
}

func NewMaterialRepo(db *gorm.DB) MaterialRepository {
	return &materialRepo{db}
}

func (r *materialRepo) FindAll() ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	err := r.db.Order("created_at DESC").Find(&materials).Error
	return materials, err
}

func (r *materialRepo) FindByID(id uuid.UUID) (*model.RawMaterial, error) {
	var material model.RawMaterial
	err := r.db.First(&material, "id = ?", id).Error
	return &material, err
}

// FindByName matches case-insensitively, same policy as the
// reconciliation lookup
func (r *materialRepo) FindByName(name string) (*model.RawMaterial, error) {
	var material model.RawMaterial
	err := r.db.First(&material, "LOWER(name) = LOWER(?)", name).Error
	return &material, err
}

// FindByNameForUpdate locks the material row for the duration of the
// surrounding transaction so two reconciliations cannot both pass the
// sufficiency check on the same stock
func (r *materialRepo) FindByNameForUpdate(tx *gorm.DB, name string) (*model.RawMaterial, error) {
	var material model.RawMaterial
	err := tx.Set("gorm:query_option", "FOR UPDATE").
		First(&material, "LOWER(name) = LOWER(?)", name).Error
	return &material, err
}

func (r *materialRepo) Create(tx *gorm.DB, material *model.RawMaterial) error {
	return tx.Create(material).Error
}

func (r *materialRepo) Save(material *model.RawMaterial) error {
	return r.db.Save(material).Error
}

func (r *materialRepo) Delete(id uuid.UUID) (int64, error) {
	res := r.db.Delete(&model.RawMaterial{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *materialRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.RawMaterial{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta)).Error
}

func (r *materialRepo) LinksForProduct(tx *gorm.DB, productID uuid.UUID) ([]model.ProductMaterial, error) {
	var links []model.ProductMaterial
	err := tx.Where("product_id = ?", productID).Find(&links).Error
	return links, err
}

func (r *materialRepo) DeleteLinksForProduct(tx *gorm.DB, productID uuid.UUID) error {
	return tx.Where("product_id = ?", productID).Delete(&model.ProductMaterial{}).Error
}

func (r *materialRepo) CreateLink(tx *gorm.DB, link *model.ProductMaterial) error {
	return tx.Create(link).Error
}

func (r *materialRepo) CountLinksForMaterial(id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.ProductMaterial{}).Where("material_id = ?", id).Count(&count).Error
	return count, err
}
