package sources

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/stacklok/catalog-sync/internal/config"
	"github.com/stacklok/catalog-sync/internal/listing"
)

//go:generate mockgen -destination=mocks/mock_source.go -package=mocks -source=types.go RemoteSource,SourceFactory

// RemoteSource fetches the current listing of one category
type RemoteSource interface {
	// Fetch retrieves the listing. A payload without the item array is not an
	// error; it is reported through FetchResult.Present.
	Fetch(ctx context.Context) (*FetchResult, error)

	// Validate checks the source configuration without fetching
	Validate() error
}

// FetchResult contains the result of a fetch operation
type FetchResult struct {
	// Items in the order the source returned them
	Items []listing.RemoteItem

	// Present is false when the payload carried no item array
	Present bool

	// Hash is the SHA256 of the raw payload
	Hash string
}

// SourceFactory creates the source of a category
type SourceFactory interface {
	CreateSource(cfg *config.CategoryConfig) (RemoteSource, error)
}

// wireItem accepts string or numeric ids; the outer ID shadows RemoteItem.ID
type wireItem struct {
	listing.RemoteItem
	ID json.RawMessage `json:"id"`
}

// parsePayload extracts the items found at itemsPath in data
func parsePayload(data []byte, itemsPath string) (*FetchResult, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}

	result := &FetchResult{Hash: fmt.Sprintf("%x", sha256.Sum256(data))}

	found := gjson.GetBytes(data, itemsPath)
	if !found.Exists() || found.Type == gjson.Null {
		return result, nil
	}
	if !found.IsArray() {
		return nil, fmt.Errorf("value at %q is not an array", itemsPath)
	}

	elements := found.Array()
	result.Present = true
	result.Items = make([]listing.RemoteItem, 0, len(elements))

	for i, elem := range elements {
		if !elem.IsObject() {
			return nil, fmt.Errorf("item %d at %q is not an object", i, itemsPath)
		}

		var w wireItem
		if err := json.Unmarshal([]byte(elem.Raw), &w); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		id := elem.Get("id")
		if !id.Exists() || id.String() == "" {
			return nil, fmt.Errorf("item %d: id is required", i)
		}

		item := w.RemoteItem
		item.ID = id.String()
		result.Items = append(result.Items, item)
	}

	return result, nil
}
