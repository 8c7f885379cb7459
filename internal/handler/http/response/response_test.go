package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		total     int64
		wantPages int
	}{
		{"empty", 1, 20, 0, 0},
		{"partial page", 1, 20, 5, 1},
		{"exact pages", 2, 20, 40, 2},
		{"remainder", 3, 20, 45, 3},
		{"zero limit", 1, 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.total, meta.TotalItems)
			assert.Equal(t, tt.wantPages, meta.TotalPages)
		})
	}
}

func TestPaginated_EmptyPageKeepsMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []string{}, 1, 20, 0)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	meta, ok := body["meta"].(map[string]interface{})
	require.True(t, ok, rec.Body.String())
	assert.Equal(t, float64(0), meta["total_items"])
	assert.Equal(t, float64(0), meta["total_pages"])
	assert.Equal(t, float64(20), meta["limit"])
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"email": "email is required"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "email is required", body.Error.Details["email"])
}
