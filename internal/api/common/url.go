package common

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/catalog-sync/internal/listing"
)

// CategoryParam is the chi route parameter holding the category name
const CategoryParam = "category"

// GetCategoryParam extracts and decodes the category route parameter.
// Empty names and names containing whitespace are rejected with listing.ErrInvalidCategory.
func GetCategoryParam(r *http.Request) (listing.Category, error) {
	decoded, err := url.PathUnescape(chi.URLParam(r, CategoryParam))
	if err != nil {
		return "", fmt.Errorf("%w: invalid URL encoding", listing.ErrInvalidCategory)
	}

	category := listing.Category(decoded)
	if err := category.Validate(); err != nil {
		return "", err
	}
	if strings.ContainsAny(decoded, " \t\n\r") {
		return "", fmt.Errorf("%w: category cannot contain whitespace", listing.ErrInvalidCategory)
	}
	return category, nil
}
