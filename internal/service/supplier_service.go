package service

import (
	"errors"
	"fmt"

	"go-jalin-ops/internal/apperr"
	"go-jalin-ops/internal/model"
	"go-jalin-ops/internal/repository"
	"go-jalin-ops/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRequest struct {
	Name        string `json:"name" validate:"required"`
	ContactInfo string `json:"contact_info_text"`
	Description string `json:"supplier_description"`
}

type SupplierService interface {
	GetAllSuppliers() ([]model.Supplier, error)
	CreateSupplier(req *SupplierRequest) (*model.Supplier, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: repo}
}

func (s *supplierService) GetAllSuppliers() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}

func (s *supplierService) CreateSupplier(req *SupplierRequest) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validationf("field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	existing, err := s.supplierRepo.FindByName(req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != uuid.Nil {
		return nil, fmt.Errorf("%w: supplier '%s' already exists", apperr.ErrDuplicate, req.Name)
	}

	supplier := model.Supplier{
		Name:        req.Name,
		ContactInfo: req.ContactInfo,
		Description: req.Description,
	}
	if err := s.supplierRepo.Create(&supplier); err != nil {
		return nil, err
	}
	return &supplier, nil
}
