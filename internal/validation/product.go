package validation

import (
	"fmt"

	"neuraslide/internal/models"
)

type ProductRequest struct {
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	Price          float64           `json:"price"`
	Currency       string            `json:"currency"`
	Images         []string          `json:"images"`
	Tags           []string          `json:"tags"`
	Specifications map[string]string `json:"specifications"`
	Availability   string            `json:"availability"`
}

func ValidateProduct(req ProductRequest) Result {
	var errs []string
	requireString(&errs, "name", req.Name, 1, 100)
	checkLength(&errs, "description", req.Description, 0, 2000)
	requireString(&errs, "category", req.Category, 1, 100)
	if req.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	if req.Currency == "" {
		errs = append(errs, "currency is required")
	} else if len(req.Currency) != 3 {
		errs = append(errs, "currency must be a 3-letter code")
	}
	if len(req.Images) > 10 {
		errs = append(errs, "images must contain at most 10 entries")
	}
	checkTags(&errs, "tags", req.Tags)
	if req.Availability == "" {
		errs = append(errs, "availability is required")
	} else if !models.ValidAvailability(req.Availability) {
		errs = append(errs, "availability must be one of: IN_STOCK, OUT_OF_STOCK, PREORDER, DISCONTINUED")
	}
	return result(errs)
}

type ProductSearchRequest struct {
	Query string `json:"query" form:"query"`
	Limit int    `json:"limit" form:"limit"`
}

func ValidateProductSearch(req ProductSearchRequest) Result {
	var errs []string
	requireString(&errs, "query", req.Query, 1, 200)
	if req.Limit < 0 || req.Limit > 100 {
		errs = append(errs, "limit must be between 0 and 100")
	}
	return result(errs)
}

type BulkImportRequest struct {
	Products []ProductRequest `json:"products"`
}

// ValidateBulkImport validates every row and reports failures with the row
// index prefixed, so one bad row does not hide the rest.
func ValidateBulkImport(req BulkImportRequest) Result {
	var errs []string
	if len(req.Products) == 0 {
		errs = append(errs, "products is required")
		return result(errs)
	}
	if len(req.Products) > 500 {
		errs = append(errs, "products must contain at most 500 entries")
		return result(errs)
	}
	for i, p := range req.Products {
		row := ValidateProduct(p)
		for _, e := range row.Errors {
			errs = append(errs, fmt.Sprintf("products[%d]: %s", i, e))
		}
	}
	return result(errs)
}
