package service

import (
	"fmt"
	"strings"
	"testing"

	"go-jalin-ops/internal/apperr"
	"go-jalin-ops/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// --- Mock Repositories ---

// MockMaterialRepo keeps materials, link rows and an operation log in
// memory so stock movements and their ordering can be asserted.
type MockMaterialRepo struct {
	Materials []*model.RawMaterial
	Links     []model.ProductMaterial
	Ops       []string
}

func (m *MockMaterialRepo) findLower(name string) *model.RawMaterial {
	for _, mat := range m.Materials {
		if strings.EqualFold(mat.Name, name) {
			return mat
		}
	}
	return nil
}

func (m *MockMaterialRepo) nameOf(id uuid.UUID) string {
	for _, mat := range m.Materials {
		if mat.ID == id {
			return mat.Name
		}
	}
	return id.String()
}

func (m *MockMaterialRepo) FindAll() ([]model.RawMaterial, error) { return nil, nil }

func (m *MockMaterialRepo) FindByID(id uuid.UUID) (*model.RawMaterial, error) {
	for _, mat := range m.Materials {
		if mat.ID == id {
			return mat, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMaterialRepo) FindByName(name string) (*model.RawMaterial, error) {
	if mat := m.findLower(name); mat != nil {
		return mat, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockMaterialRepo) FindByNameForUpdate(tx *gorm.DB, name string) (*model.RawMaterial, error) {
	return m.FindByName(name)
}

func (m *MockMaterialRepo) Create(tx *gorm.DB, material *model.RawMaterial) error {
	if material.ID == uuid.Nil {
		material.ID = uuid.New()
	}
	m.Materials = append(m.Materials, material)
	return nil
}

func (m *MockMaterialRepo) Save(material *model.RawMaterial) error { return nil }

func (m *MockMaterialRepo) Delete(id uuid.UUID) (int64, error) { return 0, nil }

func (m *MockMaterialRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error {
	for _, mat := range m.Materials {
		if mat.ID == id {
			mat.StockQuantity += delta
			m.Ops = append(m.Ops, fmt.Sprintf("adjust:%s:%+d", mat.Name, delta))
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *MockMaterialRepo) LinksForProduct(tx *gorm.DB, productID uuid.UUID) ([]model.ProductMaterial, error) {
	var links []model.ProductMaterial
	for _, link := range m.Links {
		if link.ProductID == productID {
			links = append(links, link)
		}
	}
	return links, nil
}

func (m *MockMaterialRepo) DeleteLinksForProduct(tx *gorm.DB, productID uuid.UUID) error {
	kept := m.Links[:0]
	for _, link := range m.Links {
		if link.ProductID != productID {
			kept = append(kept, link)
		}
	}
	m.Links = kept
	m.Ops = append(m.Ops, "unlink")
	return nil
}

func (m *MockMaterialRepo) CreateLink(tx *gorm.DB, link *model.ProductMaterial) error {
	m.Links = append(m.Links, *link)
	m.Ops = append(m.Ops, fmt.Sprintf("link:%s:%d", m.nameOf(link.MaterialID), link.QuantityNeeded))
	return nil
}

func (m *MockMaterialRepo) CountLinksForMaterial(id uuid.UUID) (int64, error) {
	var count int64
	for _, link := range m.Links {
		if link.MaterialID == id {
			count++
		}
	}
	return count, nil
}

type MockProductRepo struct {
	Products          map[uuid.UUID]*model.Product
	ReplacedChecklist *[]model.ChecklistItem
	ReplacedImages    *[]string
}

func (m *MockProductRepo) FindAll() ([]model.Product, error) { return nil, nil }

func (m *MockProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	if p, ok := m.Products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockProductRepo) FindBySKU(sku string) (*model.Product, error) {
	for _, p := range m.Products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockProductRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	if p, ok := m.Products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockProductRepo) Create(tx *gorm.DB, product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	m.Products[product.ID] = product
	return nil
}

func (m *MockProductRepo) Save(tx *gorm.DB, product *model.Product) error {
	m.Products[product.ID] = product
	return nil
}

func (m *MockProductRepo) Delete(tx *gorm.DB, id uuid.UUID) (int64, error) {
	if _, ok := m.Products[id]; !ok {
		return 0, nil
	}
	delete(m.Products, id)
	return 1, nil
}

func (m *MockProductRepo) ReplaceChecklist(tx *gorm.DB, productID uuid.UUID, items []model.ChecklistItem) error {
	m.ReplacedChecklist = &items
	return nil
}

func (m *MockProductRepo) ReplaceImages(tx *gorm.DB, productID uuid.UUID, urls []string) error {
	m.ReplacedImages = &urls
	return nil
}

// --- Fixtures ---

func newMaterial(name string, stock int) *model.RawMaterial {
	mat := &model.RawMaterial{Name: name, StockQuantity: stock}
	mat.ID = uuid.New()
	return mat
}

func newStockService(pRepo *MockProductRepo, mRepo *MockMaterialRepo) *productService {
	return &productService{productRepo: pRepo, materialRepo: mRepo}
}

// --- Tests: consuming materials ---

func TestConsumeMaterials(t *testing.T) {
	t.Run("Decrements stock and records the link", func(t *testing.T) {
		cotton := newMaterial("Cotton", 10)
		mRepo := &MockMaterialRepo{Materials: []*model.RawMaterial{cotton}}
		svc := newStockService(&MockProductRepo{}, mRepo)
		productID := uuid.New()

		err := svc.consumeMaterials(nil, productID, []MaterialRequirement{
			{MaterialName: "Cotton", QuantityNeeded: 10},
		})
		assert.NoError(t, err)
		assert.Equal(t, 0, cotton.StockQuantity)
		assert.Len(t, mRepo.Links, 1)
		assert.Equal(t, cotton.ID, mRepo.Links[0].MaterialID)
		assert.Equal(t, 10, mRepo.Links[0].QuantityNeeded)
	})

	t.Run("Shortfall reports exact numbers and changes nothing", func(t *testing.T) {
		cotton := newMaterial("Cotton", 10)
		mRepo := &MockMaterialRepo{Materials: []*model.RawMaterial{cotton}}
		svc := newStockService(&MockProductRepo{}, mRepo)

		err := svc.consumeMaterials(nil, uuid.New(), []MaterialRequirement{
			{MaterialName: "Cotton", QuantityNeeded: 11},
		})

		var stockErr *apperr.InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Cotton", stockErr.Material)
		assert.Equal(t, 11, stockErr.Needed)
		assert.Equal(t, 10, stockErr.Available)

		// The sufficiency check runs before any decrement or link insert
		assert.Equal(t, 10, cotton.StockQuantity)
		assert.Empty(t, mRepo.Links)
	})

	t.Run("Unknown material is created with zero stock", func(t *testing.T) {
		mRepo := &MockMaterialRepo{}
		svc := newStockService(&MockProductRepo{}, mRepo)

		err := svc.consumeMaterials(nil, uuid.New(), []MaterialRequirement{
			{MaterialName: "Linen", QuantityNeeded: 3},
		})

		// A fresh material has nothing on hand, so the requirement
		// immediately fails with available 0
		var stockErr *apperr.InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "Linen", stockErr.Material)
		assert.Equal(t, 0, stockErr.Available)

		created := mRepo.findLower("Linen")
		assert.NotNil(t, created)
		assert.Equal(t, 0, created.StockQuantity)
	})

	t.Run("Name match is case-insensitive", func(t *testing.T) {
		cotton := newMaterial("Cotton", 10)
		mRepo := &MockMaterialRepo{Materials: []*model.RawMaterial{cotton}}
		svc := newStockService(&MockProductRepo{}, mRepo)

		err := svc.consumeMaterials(nil, uuid.New(), []MaterialRequirement{
			{MaterialName: "cotton", QuantityNeeded: 2},
		})
		assert.NoError(t, err)
		assert.Equal(t, 8, cotton.StockQuantity)
		assert.Len(t, mRepo.Materials, 1, "no duplicate material may appear for a case variant")
	})

	t.Run("Rejects non-positive quantity", func(t *testing.T) {
		mRepo := &MockMaterialRepo{Materials: []*model.RawMaterial{newMaterial("Cotton", 10)}}
		svc := newStockService(&MockProductRepo{}, mRepo)

		err := svc.consumeMaterials(nil, uuid.New(), []MaterialRequirement{
			{MaterialName: "Cotton", QuantityNeeded: 0},
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Empty(t, mRepo.Links)
	})
}

// --- Tests: replacing a product's material list ---

func stockedProduct(t *testing.T, pRepo *MockProductRepo, mRepo *MockMaterialRepo, mat *model.RawMaterial, reserved int) *model.Product {
	t.Helper()
	product := &model.Product{Name: "Tas Rotan", SKU: "TR-001"}
	product.ID = uuid.New()
	pRepo.Products[product.ID] = product
	mRepo.Links = append(mRepo.Links, model.ProductMaterial{
		ProductID:      product.ID,
		MaterialID:     mat.ID,
		QuantityNeeded: reserved,
	})
	return product
}

func TestUpdateReplacesMaterialList(t *testing.T) {
	t.Run("Old reservation flows back before the new list is charged", func(t *testing.T) {
		// 5 on hand, 5 reserved by the product's current list
		rotan := newMaterial("Rotan", 5)
		mRepo := &MockMaterialRepo{Materials: []*model.RawMaterial{rotan}}
		pRepo := &MockProductRepo{Products: map[uuid.UUID]*model.Product{}}
		product := stockedProduct(t, pRepo, mRepo, rotan, 5)
		svc := newStockService(pRepo, mRepo)

		newList := []MaterialRequirement{{MaterialName: "Rotan", QuantityNeeded: 2}}
		err := svc.updateInTx(nil, product.ID, &UpdateProductRequest{RequiredMaterials: &newList})
		assert.NoError(t, err)

		// Net effect of going from 5 reserved to 2 reserved is +3
		assert.Equal(t, 8, rotan.StockQuantity)
		assert.Len(t, mRepo.Links, 1)
		assert.Equal(t, 2, mRepo.Links[0].QuantityNeeded)

		// Restore, then drop the old links, then consume the new list
		assert.Equal(t, []string{"adjust:Rotan:+5", "unlink", "adjust:Rotan:-2", "link:Rotan:2"}, mRepo.Ops)
	})

	t.Run("Restored stock counts toward the new requirement", func(t *testing.T) {
		rotan := newMaterial("Rotan", 5)
		mRepo := &MockMaterialRepo{Materials: []*model.RawMaterial{rotan}}
		pRepo := &MockProductRepo{Products: map[uuid.UUID]*model.Product{}}
		product := stockedProduct(t, pRepo, mRepo, rotan, 5)
		svc := newStockService(pRepo, mRepo)

		newList := []MaterialRequirement{{MaterialName: "Rotan", QuantityNeeded: 20}}
		err := svc.updateInTx(nil, product.ID, &UpdateProductRequest{RequiredMaterials: &newList})

		var stockErr *apperr.InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 20, stockErr.Needed)
		assert.Equal(t, 10, stockErr.Available, "the 5 previously reserved plus the 5 on hand")
	})

	t.Run("Nil material list leaves links untouched", func(t *testing.T) {
		rotan := newMaterial("Rotan", 5)
		mRepo := &MockMaterialRepo{Materials: []*model.RawMaterial{rotan}}
		pRepo := &MockProductRepo{Products: map[uuid.UUID]*model.Product{}}
		product := stockedProduct(t, pRepo, mRepo, rotan, 5)
		svc := newStockService(pRepo, mRepo)

		name := "Renamed"
		err := svc.updateInTx(nil, product.ID, &UpdateProductRequest{Name: &name})
		assert.NoError(t, err)
		assert.Equal(t, 5, rotan.StockQuantity)
		assert.Len(t, mRepo.Links, 1)
		assert.Empty(t, mRepo.Ops)
		assert.Nil(t, pRepo.ReplacedChecklist, "absent checklist must not be replaced")
	})

	t.Run("Not found", func(t *testing.T) {
		svc := newStockService(&MockProductRepo{Products: map[uuid.UUID]*model.Product{}}, &MockMaterialRepo{})

		name := "x"
		err := svc.updateInTx(nil, uuid.New(), &UpdateProductRequest{Name: &name})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

// --- Tests: deleting a product ---

func TestDeleteReturnsReservedStock(t *testing.T) {
	t.Run("Reserved quantities flow back on delete", func(t *testing.T) {
		rotan := newMaterial("Rotan", 0)
		mRepo := &MockMaterialRepo{Materials: []*model.RawMaterial{rotan}}
		pRepo := &MockProductRepo{Products: map[uuid.UUID]*model.Product{}}
		product := stockedProduct(t, pRepo, mRepo, rotan, 5)
		svc := newStockService(pRepo, mRepo)

		err := svc.deleteInTx(nil, product.ID)
		assert.NoError(t, err)
		assert.Equal(t, 5, rotan.StockQuantity)
		assert.NotContains(t, pRepo.Products, product.ID)
	})

	t.Run("Not found", func(t *testing.T) {
		svc := newStockService(&MockProductRepo{Products: map[uuid.UUID]*model.Product{}}, &MockMaterialRepo{})

		err := svc.deleteInTx(nil, uuid.New())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
