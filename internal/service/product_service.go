package service

import (
	"context"

	"storefront-api/internal/model"
	"storefront-api/internal/validate"
	"storefront-api/pkg/apierror"
)

type ProductStore interface {
	Create(ctx context.Context, p model.Product) (model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	Update(ctx context.Context, p model.Product) (model.Product, error)
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, q model.ProductListQuery) (model.ProductPage, error)
}

type ProductService struct {
	products ProductStore
}

func NewProductService(products ProductStore) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) Create(ctx context.Context, req model.ProductRequest) (model.Product, error) {
	if errs := validate.Product(req); len(errs) > 0 {
		return model.Product{}, apierror.Validation(errs)
	}

	return s.products.Create(ctx, model.Product{
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
		Category:    req.Category,
	})
}

func (s *ProductService) Get(ctx context.Context, id int64) (model.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, id int64, req model.ProductRequest) (model.Product, error) {
	if errs := validate.Product(req); len(errs) > 0 {
		return model.Product{}, apierror.Validation(errs)
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return model.Product{}, err
	}

	product.Name = req.Name
	product.Price = *req.Price
	product.Description = req.Description
	product.Category = req.Category

	return s.products.Update(ctx, product)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.products.SoftDelete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, q model.ProductListQuery) (model.ProductPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}
	return s.products.List(ctx, q)
}
