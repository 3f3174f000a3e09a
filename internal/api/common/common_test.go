package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/catalog-sync/internal/listing"
	"github.com/stacklok/catalog-sync/internal/sync/coordinator"
)

func TestStatusForError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown category", err: fmt.Errorf("%w: nope", listing.ErrUnknownCategory), want: http.StatusNotFound},
		{name: "invalid category", err: listing.ErrInvalidCategory, want: http.StatusBadRequest},
		{name: "remote failure", err: &coordinator.Error{Kind: coordinator.KindRemoteFailure, Err: cause}, want: http.StatusBadGateway},
		{name: "empty result", err: &coordinator.Error{Kind: coordinator.KindEmptyRemoteResult, Err: listing.ErrEmptyRemoteResult}, want: http.StatusServiceUnavailable},
		{name: "store failure", err: &coordinator.Error{Kind: coordinator.KindStoreFailure, Err: cause}, want: http.StatusInternalServerError},
		{name: "anything else", err: cause, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}

func TestWriteCoordinatorError(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/categories/upcoming/items", nil)
	WriteCoordinatorError(rr, req, &coordinator.Error{
		Kind:     coordinator.KindRemoteFailure,
		Category: "upcoming",
		Err:      errors.New("connection refused"),
	})

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "remote failure", resp.Kind)
	assert.Contains(t, resp.Error, "connection refused")
}

func TestWriteErrorResponse(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteErrorResponse(rr, "bad request", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"bad request"}`, rr.Body.String())
}
