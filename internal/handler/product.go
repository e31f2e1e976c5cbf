package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"neuraslide/internal/apperr"
	"neuraslide/internal/response"
	"neuraslide/internal/service"
	"neuraslide/internal/validation"
)

type ProductHandler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Search(c *gin.Context)
	Categories(c *gin.Context)
	Analytics(c *gin.Context)
	BulkImport(c *gin.Context)
}

type productHandler struct {
	products service.ProductService
	logger   *zap.Logger
}

func NewProductHandler(products service.ProductService, logger *zap.Logger) ProductHandler {
	return &productHandler{products: products, logger: logger}
}

func (h *productHandler) Create(c *gin.Context) {
	var req validation.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateProduct(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	p, err := h.products.Create(currentUserID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusCreated, "Product created", gin.H{"product": p})
}

func (h *productHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	category := c.Query("category")

	products, total, err := h.products.List(currentUserID(c), category, page, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{
		"products":   products,
		"pagination": pagination{Page: page, Limit: limit, Total: total},
	})
}

func (h *productHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.products.Get(id, currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"product": p})
}

func (h *productHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req validation.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateProduct(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	p, err := h.products.Update(id, currentUserID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Product updated", gin.H{"product": p})
}

func (h *productHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(id, currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "Product deleted", nil)
}

// Search handles GET /crystal/products/search?query&limit
func (h *productHandler) Search(c *gin.Context) {
	req := validation.ProductSearchRequest{
		Query: c.Query("query"),
		Limit: queryInt(c, "limit", 20),
	}
	if result := validation.ValidateProductSearch(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	results, err := h.products.Search(currentUserID(c), req.Query, req.Limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"results": results})
}

func (h *productHandler) Categories(c *gin.Context) {
	categories, err := h.products.Categories(currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", gin.H{"categories": categories})
}

func (h *productHandler) Analytics(c *gin.Context) {
	analytics, err := h.products.Analytics(currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusOK, "OK", analytics)
}

func (h *productHandler) BulkImport(c *gin.Context) {
	var req validation.BulkImportRequest
	if !bindJSON(c, &req) {
		return
	}
	if result := validation.ValidateBulkImport(req); !result.IsValid {
		respondError(c, h.logger, apperr.Validation(result.Errors))
		return
	}

	products, err := h.products.BulkImport(currentUserID(c), req.Products)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, http.StatusCreated, "Products imported", gin.H{
		"imported": len(products),
		"products": products,
	})
}
