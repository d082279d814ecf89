package service

import (
	"errors"
	"fmt"

	"go-jalin-ops/internal/apperr"
	"go-jalin-ops/internal/model"
	"go-jalin-ops/internal/repository"
	"go-jalin-ops/internal/ws"
	"go-jalin-ops/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialRequest struct {
	Name          string `json:"name" validate:"required"`
	StockQuantity int    `json:"stock_quantity" validate:"gte=0"`
}

type MaterialService interface {
	GetAllMaterials() ([]model.RawMaterial, error)
	CreateMaterial(req *MaterialRequest) (*model.RawMaterial, error)
	UpdateMaterial(id uuid.UUID, req *MaterialRequest) (*model.RawMaterial, error)
	DeleteMaterial(id uuid.UUID) error
}

type materialService struct {
	materialRepo repository.MaterialRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewMaterialService(mRepo repository.MaterialRepository, db *gorm.DB, hub *ws.Hub) MaterialService {
	return &materialService{
		materialRepo: mRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *materialService) GetAllMaterials() ([]model.RawMaterial, error) {
	return s.materialRepo.FindAll()
}

func (s *materialService) CreateMaterial(req *MaterialRequest) (*model.RawMaterial, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validationf("field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	// Duplicate names are rejected case-insensitively, same policy as
	// the reconciliation lookup
	existing, err := s.materialRepo.FindByName(req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != uuid.Nil {
		return nil, fmt.Errorf("%w: raw material '%s' already exists", apperr.ErrDuplicate, req.Name)
	}

	material := model.RawMaterial{
		Name:          req.Name,
		StockQuantity: req.StockQuantity,
	}
	if err := s.materialRepo.Create(s.db, &material); err != nil {
		return nil, err
	}
	return &material, nil
}

// UpdateMaterial overwrites both fields unconditionally, matching the
// inventory screen's edit form
func (s *materialService) UpdateMaterial(id uuid.UUID, req *MaterialRequest) (*model.RawMaterial, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validationf("field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	material, err := s.materialRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: raw material not found", apperr.ErrNotFound)
		}
		return nil, err
	}

	other, err := s.materialRepo.FindByName(req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if other != nil && other.ID != uuid.Nil && other.ID != material.ID {
		return nil, fmt.Errorf("%w: raw material '%s' already exists", apperr.ErrDuplicate, req.Name)
	}

	material.Name = req.Name
	material.StockQuantity = req.StockQuantity
	if err := s.materialRepo.Save(material); err != nil {
		return nil, err
	}

	s.wsHub.BroadcastEvent("material_updated", map[string]interface{}{
		"id":             material.ID,
		"name":           material.Name,
		"stock_quantity": material.StockQuantity,
	})
	return material, nil
}

func (s *materialService) DeleteMaterial(id uuid.UUID) error {
	// Refuse while product links still reference the material,
	// otherwise the links would orphan and the reserved stock would
	// become untraceable
	count, err := s.materialRepo.CountLinksForMaterial(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.ErrMaterialInUse
	}

	rows, err := s.materialRepo.Delete(id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: raw material not found", apperr.ErrNotFound)
	}
	return nil
}
