package service

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"neuraslide/internal/apperr"
	"neuraslide/internal/models"
	"neuraslide/internal/repository"
	"neuraslide/internal/validation"
)

type ProductService interface {
	Create(userID int64, req validation.ProductRequest) (*models.Product, error)
	Get(id, userID int64) (*models.Product, error)
	List(userID int64, category string, page, limit int) ([]*models.Product, int64, error)
	Update(id, userID int64, req validation.ProductRequest) (*models.Product, error)
	Delete(id, userID int64) error
	// Search scores candidates with RelevanceScore, bumps each hit's
	// search_count, and returns the ranked list.
	Search(userID int64, query string, limit int) ([]*models.ScoredProduct, error)
	Categories(userID int64) ([]*models.CategoryCount, error)
	Analytics(userID int64) (*repository.ProductAnalytics, error)
	BulkImport(userID int64, rows []validation.ProductRequest) ([]*models.Product, error)
}

type productService struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewProductService(products repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{products: products, logger: logger}
}

func (s *productService) buildProduct(userID int64, req validation.ProductRequest) (*models.Product, error) {
	specs, err := json.Marshal(req.Specifications)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.Product{
		UserID:         userID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Price:          req.Price,
		Currency:       strings.ToUpper(req.Currency),
		Images:         req.Images,
		Tags:           req.Tags,
		Specifications: specs,
		Availability:   req.Availability,
	}, nil
}

func (s *productService) Create(userID int64, req validation.ProductRequest) (*models.Product, error) {
	p, err := s.buildProduct(userID, req)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(p); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return p, nil
}

func (s *productService) Get(id, userID int64) (*models.Product, error) {
	p, err := s.products.GetByIDForUser(id, userID)
	if err != nil {
		s.logger.Error("Failed to get product", zap.Int64("id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if p == nil {
		return nil, apperr.NotFound("Product")
	}
	return p, nil
}

func (s *productService) List(userID int64, category string, page, limit int) ([]*models.Product, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	products, err := s.products.List(userID, category, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, 0, apperr.Internal(err)
	}
	total, err := s.products.Count(userID, category)
	if err != nil {
		s.logger.Error("Failed to count products", zap.Error(err))
		return nil, 0, apperr.Internal(err)
	}
	return products, total, nil
}

func (s *productService) Update(id, userID int64, req validation.ProductRequest) (*models.Product, error) {
	current, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.buildProduct(userID, req)
	if err != nil {
		return nil, err
	}
	p.ID = current.ID
	p.SearchCount = current.SearchCount
	p.CreatedAt = current.CreatedAt

	ok, err := s.products.Update(p)
	if err != nil {
		s.logger.Error("Failed to update product", zap.Int64("id", id), zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.NotFound("Product")
	}
	return p, nil
}

func (s *productService) Delete(id, userID int64) error {
	ok, err := s.products.Delete(id, userID)
	if err != nil {
		s.logger.Error("Failed to delete product", zap.Int64("id", id), zap.Error(err))
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFound("Product")
	}
	return nil
}

func (s *productService) Search(userID int64, query string, limit int) ([]*models.ScoredProduct, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	candidates, err := s.products.SearchCandidates(userID, query)
	if err != nil {
		s.logger.Error("Failed to fetch search candidates", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	scored := make([]*models.ScoredProduct, 0, len(candidates))
	for _, p := range candidates {
		scored = append(scored, &models.ScoredProduct{
			Product: p,
			Score:   RelevanceScore(p, query),
		})
	}
	// Stable sort: ties keep the repository's creation-descending order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	ids := make([]int64, 0, len(scored))
	for _, sp := range scored {
		ids = append(ids, sp.Product.ID)
	}
	if err := s.products.IncrementSearchCounts(ids); err != nil {
		s.logger.Warn("Failed to increment search counts", zap.Error(err))
	}

	return scored, nil
}

func (s *productService) Categories(userID int64) ([]*models.CategoryCount, error) {
	categories, err := s.products.Categories(userID)
	if err != nil {
		s.logger.Error("Failed to list categories", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *productService) Analytics(userID int64) (*repository.ProductAnalytics, error) {
	analytics, err := s.products.Analytics(userID)
	if err != nil {
		s.logger.Error("Failed to compute product analytics", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return analytics, nil
}

func (s *productService) BulkImport(userID int64, rows []validation.ProductRequest) ([]*models.Product, error) {
	products := make([]*models.Product, 0, len(rows))
	for _, row := range rows {
		p, err := s.buildProduct(userID, row)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := s.products.BulkInsert(products); err != nil {
		s.logger.Error("Failed to bulk insert products", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	return products, nil
}

// Relevance weights, strongest field first.
const (
	scoreName          = 10
	scoreDescription   = 5
	scoreCategory      = 3
	scoreTag           = 2
	scorePopularityCap = 5
)

// RelevanceScore ranks a search candidate against a query. It is a pure
// function of its inputs: substring matches on name, description, category and
// tags are weighted 10/5/3/2, plus a popularity term log2(search_count+1)
// capped at 5.
func RelevanceScore(p *models.Product, query string) float64 {
	q := strings.ToLower(query)
	score := 0.0

	if strings.Contains(strings.ToLower(p.Name), q) {
		score += scoreName
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		score += scoreDescription
	}
	if strings.Contains(strings.ToLower(p.Category), q) {
		score += scoreCategory
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			score += scoreTag
			break
		}
	}

	score += math.Min(scorePopularityCap, math.Log2(float64(p.SearchCount)+1))
	return score
}
