package product

import (
	"context"
	"errors"
	"fmt"

	"megaMart/domain"
	"megaMart/pkg/logger"
)

// at most this many results from a catalog search
const searchResultCap = 10

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	SearchByName(ctx context.Context, query string, limit int) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint64) error
}

// UpdateProductInput carries a partial admin edit; nil fields are left
// untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Image       *string
	Category    *string
	Brand       *string
	Discount    *float64
	Stock       *int
}

type productService struct {
	productRepo ProductRepository
}

func NewProductService(productRepo ProductRepository) *productService {
	return &productService{
		productRepo: productRepo,
	}
}

func (s *productService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	if query == "" {
		return []domain.Product{}, nil
	}

	products, err := s.productRepo.SearchByName(ctx, query, searchResultCap)
	if err != nil {
		logger.Error("Failed to search products", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	if id == 0 {
		logger.Error("invalid product id")
		return nil, errors.New("invalid product id")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err)
		return nil, err
	}

	return &product, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		logger.Error("Invalid product data", err)
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	logger.Info("product created successfully", "product_id", product.ID)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uint64, input UpdateProductInput) (*domain.Product, error) {
	if id == 0 {
		logger.Error("Invalid product data: ID is required")
		return nil, errors.New("product ID is required")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", err)
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Discount != nil {
		product.Discount = *input.Discount
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}

	if err := validateProduct(&product); err != nil {
		logger.Error("Invalid product data", err)
		return nil, err
	}

	if err := s.productRepo.Update(ctx, &product); err != nil {
		logger.Error("failed to update product", err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	logger.Info("product updated success", "product_id", product.ID)

	return &product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uint64) error {
	if id == 0 {
		logger.Error("Invalid product id when deleting product")
		return errors.New("invalid product id")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete product", err)
		return err
	}

	logger.Info("product deleted success", "product_id", id)

	return nil
}

func validateProduct(product *domain.Product) error {
	if product.Name == "" {
		return errors.New("product name is required")
	}

	if product.Price < 0 {
		return errors.New("price cannot be negative")
	}

	if product.Discount < 0 || product.Discount > 100 {
		return errors.New("discount must be between 0 and 100")
	}

	if product.Stock < 0 {
		return errors.New("stock cannot be negative")
	}

	return nil
}
