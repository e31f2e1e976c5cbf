package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"neuraslide/internal/models"
)

// ProductAnalytics is the aggregate behind GET /crystal/products/analytics.
type ProductAnalytics struct {
	Total          int64             `json:"total"`
	TotalSearches  int64             `json:"total_searches"`
	ByAvailability map[string]int64  `json:"by_availability"`
	TopSearched    []*models.Product `json:"top_searched"`
}

type ProductRepository interface {
	Create(p *models.Product) error
	GetByIDForUser(id, userID int64) (*models.Product, error)
	List(userID int64, category string, limit, offset int) ([]*models.Product, error)
	Count(userID int64, category string) (int64, error)
	Update(p *models.Product) (bool, error)
	Delete(id, userID int64) (bool, error)
	// SearchCandidates returns rows where the query appears in name,
	// description, category or any tag, newest first. Scoring happens in the
	// service; this is only the candidate filter.
	SearchCandidates(userID int64, query string) ([]*models.Product, error)
	IncrementSearchCounts(ids []int64) error
	Categories(userID int64) ([]*models.CategoryCount, error)
	Analytics(userID int64) (*ProductAnalytics, error)
	BulkInsert(products []*models.Product) error
}

type productRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewProductRepository(db *sqlx.DB, logger *zap.Logger) ProductRepository {
	return &productRepository{db: db, logger: logger}
}

const productColumns = `id, user_id, name, description, category, price, currency, images, tags, specifications, availability, search_count, created_at, updated_at`

func (r *productRepository) Create(p *models.Product) error {
	query := `INSERT INTO products (user_id, name, description, category, price, currency, images, tags, specifications, availability)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id, search_count, created_at, updated_at`
	return r.db.QueryRowx(query, p.UserID, p.Name, p.Description, p.Category, p.Price,
		p.Currency, pq.Array(p.Images), pq.Array(p.Tags), p.Specifications, p.Availability).
		Scan(&p.ID, &p.SearchCount, &p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) GetByIDForUser(id, userID int64) (*models.Product, error) {
	var p models.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND user_id = $2`
	err := r.db.Get(&p, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(userID int64, category string, limit, offset int) ([]*models.Product, error) {
	products := []*models.Product{}
	query := `SELECT ` + productColumns + ` FROM products
	          WHERE user_id = $1 AND ($2 = '' OR category = $2)
	          ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	err := r.db.Select(&products, query, userID, category, limit, offset)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Count(userID int64, category string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM products WHERE user_id = $1 AND ($2 = '' OR category = $2)`
	err := r.db.Get(&count, query, userID, category)
	return count, err
}

func (r *productRepository) Update(p *models.Product) (bool, error) {
	query := `UPDATE products SET
	            name = $1, description = $2, category = $3, price = $4, currency = $5,
	            images = $6, tags = $7, specifications = $8, availability = $9, updated_at = now()
	          WHERE id = $10 AND user_id = $11`
	res, err := r.db.Exec(query, p.Name, p.Description, p.Category, p.Price, p.Currency,
		pq.Array(p.Images), pq.Array(p.Tags), p.Specifications, p.Availability, p.ID, p.UserID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *productRepository) Delete(id, userID int64) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *productRepository) SearchCandidates(userID int64, query string) ([]*models.Product, error) {
	products := []*models.Product{}
	q := `SELECT ` + productColumns + ` FROM products
	      WHERE user_id = $1
	        AND (name ILIKE '%' || $2 || '%'
	             OR description ILIKE '%' || $2 || '%'
	             OR category ILIKE '%' || $2 || '%'
	             OR EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE '%' || $2 || '%'))
	      ORDER BY created_at DESC`
	err := r.db.Select(&products, q, userID, query)
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) IncrementSearchCounts(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE products SET search_count = search_count + 1 WHERE id = ANY($1)`
	_, err := r.db.Exec(query, pq.Array(ids))
	return err
}

func (r *productRepository) Categories(userID int64) ([]*models.CategoryCount, error) {
	categories := []*models.CategoryCount{}
	query := `SELECT category, COUNT(*) AS count FROM products
	          WHERE user_id = $1 GROUP BY category ORDER BY count DESC, category ASC`
	err := r.db.Select(&categories, query, userID)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *productRepository) Analytics(userID int64) (*ProductAnalytics, error) {
	a := &ProductAnalytics{ByAvailability: map[string]int64{}}

	totals := struct {
		Total         int64 `db:"total"`
		TotalSearches int64 `db:"total_searches"`
	}{}
	query := `SELECT COUNT(*) AS total, COALESCE(SUM(search_count), 0) AS total_searches
	          FROM products WHERE user_id = $1`
	if err := r.db.Get(&totals, query, userID); err != nil {
		return nil, err
	}
	a.Total = totals.Total
	a.TotalSearches = totals.TotalSearches

	rows := []struct {
		Availability string `db:"availability"`
		Count        int64  `db:"count"`
	}{}
	byAvail := `SELECT availability, COUNT(*) AS count FROM products WHERE user_id = $1 GROUP BY availability`
	if err := r.db.Select(&rows, byAvail, userID); err != nil {
		return nil, err
	}
	for _, row := range rows {
		a.ByAvailability[row.Availability] = row.Count
	}

	top := []*models.Product{}
	topQuery := `SELECT ` + productColumns + ` FROM products
	             WHERE user_id = $1 AND search_count > 0
	             ORDER BY search_count DESC LIMIT 10`
	if err := r.db.Select(&top, topQuery, userID); err != nil {
		return nil, err
	}
	a.TopSearched = top

	return a, nil
}

// BulkInsert writes all rows in one transaction; either the whole import
// lands or none of it does.
func (r *productRepository) BulkInsert(products []*models.Product) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO products (user_id, name, description, category, price, currency, images, tags, specifications, availability)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id, search_count, created_at, updated_at`
	for _, p := range products {
		err := tx.QueryRowx(query, p.UserID, p.Name, p.Description, p.Category, p.Price,
			p.Currency, pq.Array(p.Images), pq.Array(p.Tags), p.Specifications, p.Availability).
			Scan(&p.ID, &p.SearchCount, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
