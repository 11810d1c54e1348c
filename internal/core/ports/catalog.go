package ports

import (
	"context"

	"market/internal/core/domain/model/kernel"
)

// Product is what the catalog knows about a product for settlement purposes.
type Product struct {
	ID             string
	PavilionNumber string
	SellerID       kernel.UserID
}

// ProductCatalog resolves products that order items reference.
type ProductCatalog interface {
	// ResolveProduct returns *errs.ObjectNotFoundError when the product does not exist.
	// Any other error means the catalog itself is unavailable.
	ResolveProduct(ctx context.Context, productID string) (Product, error)
}

// UserDirectory answers who should hear about an order.
type UserDirectory interface {
	// ManagerIDs lists every active manager.
	ManagerIDs(ctx context.Context) ([]kernel.UserID, error)

	// SellerForPavilion returns the seller working the pavilion, if any.
	SellerForPavilion(ctx context.Context, pavilionNumber string) (kernel.UserID, bool, error)
}
