// Package catalogrepo reads the product catalog that settlement grouping resolves items
// against.
package catalogrepo

import (
	"context"
	"errors"
	"strings"

	"market/internal/core/domain/model/kernel"
	"market/internal/core/ports"
	"market/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductDTO struct {
	ID             string          `gorm:"type:varchar(64);primaryKey"`
	Name           string          `gorm:"type:text;not null"`
	PavilionNumber string          `gorm:"type:varchar(32);not null;index"`
	SellerID       string          `gorm:"type:varchar(64)"`
	Price          decimal.Decimal `gorm:"type:numeric;not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

// GormProductCatalog implements ports.ProductCatalog on the products table.
type GormProductCatalog struct {
	db *gorm.DB
}

func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: db}
}

// ResolveProduct returns the product or *errs.ObjectNotFoundError.
func (c *GormProductCatalog) ResolveProduct(ctx context.Context, productID string) (ports.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return ports.Product{}, errs.NewValueIsRequiredError("product id")
	}

	var dto ProductDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Product{}, errs.NewObjectNotFoundError("product", productID)
		}
		return ports.Product{}, err
	}

	return ports.Product{
		ID:             dto.ID,
		PavilionNumber: dto.PavilionNumber,
		SellerID:       kernel.UserID(dto.SellerID),
	}, nil
}

// Upsert inserts products or overwrites the stored ones with the same id.
func (c *GormProductCatalog) Upsert(ctx context.Context, products ...ProductDTO) error {
	if len(products) == 0 {
		return nil
	}
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&products).Error
}
