package service

import (
	"errors"
	"fmt"
	"time"

	"go-jalin-ops/internal/apperr"
	"go-jalin-ops/internal/model"
	"go-jalin-ops/internal/repository"
	"go-jalin-ops/internal/ws"
	"go-jalin-ops/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// MaterialRequirement is one entry of a product's requiredMaterials
// list. Materials are matched by name, case-insensitively.
type MaterialRequirement struct {
	MaterialName   string `json:"material_name" validate:"required"`
	QuantityNeeded int    `json:"quantity_needed" validate:"gt=0"`
}

type ChecklistEntry struct {
	Task        string `json:"task" validate:"required"`
	IsCompleted bool   `json:"is_completed"`
}

type CreateProductRequest struct {
	Name              string                `json:"name" validate:"required"`
	SKU               string                `json:"sku" validate:"required"`
	Category          string                `json:"category"`
	Description       string                `json:"description"`
	StartDate         string                `json:"startDate"` // YYYY-MM-DD
	Deadline          string                `json:"deadline"`  // YYYY-MM-DD
	Images            []string              `json:"images"`
	RequiredMaterials []MaterialRequirement `json:"requiredMaterials"`
}

// UpdateProductRequest uses pointers so a field the client did not
// send keeps its stored value. Checklist, images and requiredMaterials
// are wholesale-replaced, but only when explicitly present.
type UpdateProductRequest struct {
	Name              *string                `json:"name"`
	SKU               *string                `json:"sku"`
	Category          *string                `json:"category"`
	Description       *string                `json:"description"`
	StartDate         *string                `json:"startDate"`
	Deadline          *string                `json:"deadline"`
	Images            *[]string              `json:"images"`
	Checklist         *[]ChecklistEntry      `json:"checklist"`
	RequiredMaterials *[]MaterialRequirement `json:"requiredMaterials"`
}

type ProductSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	StartDate   string    `json:"startDate,omitempty"`
	Deadline    string    `json:"deadline,omitempty"`
	Images      []string  `json:"images"`
}

type ChecklistItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Task        string    `json:"task"`
	IsCompleted bool      `json:"is_completed"`
}

// RequiredMaterialResponse joins a link row with the material's live
// stock so the frontend can show availability next to the requirement
type RequiredMaterialResponse struct {
	MaterialID     uuid.UUID `json:"material_id"`
	MaterialName   string    `json:"material_name"`
	QuantityNeeded int       `json:"quantity_needed"`
	StockQuantity  int       `json:"stock_quantity"`
}

type ProductDetail struct {
	ProductSummary
	Checklist         []ChecklistItemResponse    `json:"checklist"`
	RequiredMaterials []RequiredMaterialResponse `json:"requiredMaterials"`
}

type ProductService interface {
	GetAllProducts() ([]ProductSummary, error)
	GetProduct(id uuid.UUID) (*ProductDetail, error)
	CreateProduct(req *CreateProductRequest) (uuid.UUID, error)
	UpdateProduct(id uuid.UUID, req *UpdateProductRequest) error
	DeleteProduct(id uuid.UUID) error
}

type productService struct {
	productRepo  repository.ProductRepository
	materialRepo repository.MaterialRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewProductService(pRepo repository.ProductRepository, mRepo repository.MaterialRepository, db *gorm.DB, hub *ws.Hub) ProductService {
	return &productService{
		productRepo:  pRepo,
		materialRepo: mRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *productService) GetAllProducts() ([]ProductSummary, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}
	summaries := make([]ProductSummary, len(products))
	for i := range products {
		summaries[i] = toSummary(&products[i])
	}
	return summaries, nil
}

func (s *productService) GetProduct(id uuid.UUID) (*ProductDetail, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product not found", apperr.ErrNotFound)
		}
		return nil, err
	}

	detail := &ProductDetail{
		ProductSummary:    toSummary(product),
		Checklist:         make([]ChecklistItemResponse, len(product.Checklist)),
		RequiredMaterials: make([]RequiredMaterialResponse, len(product.Materials)),
	}
	for i, item := range product.Checklist {
		detail.Checklist[i] = ChecklistItemResponse{ID: item.ID, Task: item.Task, IsCompleted: item.IsCompleted}
	}
	for i, link := range product.Materials {
		resp := RequiredMaterialResponse{
			MaterialID:     link.MaterialID,
			QuantityNeeded: link.QuantityNeeded,
		}
		if link.Material != nil {
			resp.MaterialName = link.Material.Name
			resp.StockQuantity = link.Material.StockQuantity
		}
		detail.RequiredMaterials[i] = resp
	}
	return detail, nil
}

func (s *productService) CreateProduct(req *CreateProductRequest) (uuid.UUID, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return uuid.Nil, apperr.Validationf("field '%s' failed on tag '%s'", first.FailedField, first.Tag)
	}

	// Cek duplikasi SKU sebelum masuk transaksi. The unique index is
	// the backstop for races; this check exists for the clearer message.
	existing, err := s.productRepo.FindBySKU(req.SKU)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, err
	}
	if existing != nil && existing.ID != uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: SKU '%s' already exists", apperr.ErrDuplicate, req.SKU)
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, err
	}
	deadline, err := parseDate(req.Deadline)
	if err != nil {
		return uuid.Nil, err
	}

	product := model.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Category:    req.Category,
		Description: req.Description,
		StartDate:   startDate,
		Deadline:    deadline,
	}
	for i, url := range req.Images {
		product.Images = append(product.Images, model.ProductImage{URL: url, Position: i})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, &product); err != nil {
			return err
		}
		return s.consumeMaterials(tx, product.ID, req.RequiredMaterials)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.wsHub.BroadcastEvent("product_created", map[string]interface{}{
		"id":   product.ID,
		"sku":  product.SKU,
		"name": product.Name,
	})
	return product.ID, nil
}

func (s *productService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.updateInTx(tx, id, req)
	})
	if err != nil {
		return err
	}

	s.wsHub.BroadcastEvent("product_updated", map[string]interface{}{"id": id})
	return nil
}

// updateInTx runs inside the caller's transaction; any error rolls the
// whole update back, including partially applied stock adjustments.
func (s *productService) updateInTx(tx *gorm.DB, id uuid.UUID, req *UpdateProductRequest) error {
	// Lock the product row so the merge and the write see the
	// same record
	existing, err := s.productRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product not found", apperr.ErrNotFound)
		}
		return err
	}

	// Fetch-then-merge: omitted fields keep their stored value
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.SKU != nil && *req.SKU != existing.SKU {
		other, err := s.productRepo.FindBySKU(*req.SKU)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if other != nil && other.ID != uuid.Nil && other.ID != existing.ID {
			return fmt.Errorf("%w: SKU '%s' already exists", apperr.ErrDuplicate, *req.SKU)
		}
		existing.SKU = *req.SKU
	}
	if req.Category != nil {
		existing.Category = *req.Category
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.StartDate != nil {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			return err
		}
		existing.StartDate = parsed
	}
	if req.Deadline != nil {
		parsed, err := parseDate(*req.Deadline)
		if err != nil {
			return err
		}
		existing.Deadline = parsed
	}
	if existing.Name == "" || existing.SKU == "" {
		return apperr.Validationf("name and sku cannot be blank")
	}

	if err := s.productRepo.Save(tx, existing); err != nil {
		return err
	}

	if req.Images != nil {
		if err := s.productRepo.ReplaceImages(tx, id, *req.Images); err != nil {
			return err
		}
	}

	if req.Checklist != nil {
		items := make([]model.ChecklistItem, len(*req.Checklist))
		for i, entry := range *req.Checklist {
			if entry.Task == "" {
				return apperr.Validationf("checklist task cannot be blank")
			}
			items[i] = model.ChecklistItem{Task: entry.Task, IsCompleted: entry.IsCompleted}
		}
		if err := s.productRepo.ReplaceChecklist(tx, id, items); err != nil {
			return err
		}
	}

	if req.RequiredMaterials != nil {
		// Restore first, then relink: the old reservation flows back
		// into stock before the new list is charged against it
		if err := s.restoreMaterials(tx, id); err != nil {
			return err
		}
		if err := s.materialRepo.DeleteLinksForProduct(tx, id); err != nil {
			return err
		}
		if err := s.consumeMaterials(tx, id, *req.RequiredMaterials); err != nil {
			return err
		}
	}
	return nil
}

func (s *productService) DeleteProduct(id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.deleteInTx(tx, id)
	})
	if err != nil {
		return err
	}

	s.wsHub.BroadcastEvent("product_deleted", map[string]interface{}{"id": id})
	return nil
}

func (s *productService) deleteInTx(tx *gorm.DB, id uuid.UUID) error {
	// Give reserved stock back before the links disappear
	if err := s.restoreMaterials(tx, id); err != nil {
		return err
	}
	rows, err := s.productRepo.Delete(tx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: product not found", apperr.ErrNotFound)
	}
	return nil
}

// restoreMaterials adds every link's reserved quantity back onto its
// material. Caller is responsible for deleting the links afterwards.
func (s *productService) restoreMaterials(tx *gorm.DB, productID uuid.UUID) error {
	links, err := s.materialRepo.LinksForProduct(tx, productID)
	if err != nil {
		return err
	}
	for _, link := range links {
		if err := s.materialRepo.AdjustStock(tx, link.MaterialID, link.QuantityNeeded); err != nil {
			return err
		}
	}
	return nil
}

// consumeMaterials resolves each requirement by name (creating unknown
// materials with zero stock), verifies sufficiency under a row lock,
// then decrements stock and inserts the link. Any shortfall aborts the
// surrounding transaction so no partial decrement is ever visible.
func (s *productService) consumeMaterials(tx *gorm.DB, productID uuid.UUID, entries []MaterialRequirement) error {
	for _, entry := range entries {
		if errs := validator.ValidateStruct(&entry); len(errs) > 0 {
			first := errs[0]
			return apperr.Validationf("requiredMaterials: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
		}

		material, err := s.materialRepo.FindByNameForUpdate(tx, entry.MaterialName)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			material = &model.RawMaterial{Name: entry.MaterialName, StockQuantity: 0}
			if err := s.materialRepo.Create(tx, material); err != nil {
				return err
			}
		}

		if material.StockQuantity < entry.QuantityNeeded {
			return &apperr.InsufficientStockError{
				Material:  entry.MaterialName,
				Needed:    entry.QuantityNeeded,
				Available: material.StockQuantity,
			}
		}

		if err := s.materialRepo.AdjustStock(tx, material.ID, -entry.QuantityNeeded); err != nil {
			return err
		}
		if err := s.materialRepo.CreateLink(tx, &model.ProductMaterial{
			ProductID:      productID,
			MaterialID:     material.ID,
			QuantityNeeded: entry.QuantityNeeded,
		}); err != nil {
			return err
		}
	}
	return nil
}

func toSummary(p *model.Product) ProductSummary {
	summary := ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Category:    p.Category,
		Description: p.Description,
		Images:      make([]string, len(p.Images)),
	}
	if p.StartDate != nil {
		summary.StartDate = p.StartDate.Format(dateLayout)
	}
	if p.Deadline != nil {
		summary.Deadline = p.Deadline.Format(dateLayout)
	}
	for i, img := range p.Images {
		summary.Images[i] = img.URL
	}
	return summary
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperr.Validationf("invalid date '%s', use YYYY-MM-DD", value)
	}
	return &parsed, nil
}
