package validation

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paygate-console/internal/model"
	"paygate-console/pkg/apierror"
)

func TestCheckValidRequest(t *testing.T) {
	v := New()

	err := v.Check(model.RefundRequest{Amount: "100.50", Reason: "customer request"})
	require.NoError(t, err)
}

func TestCheckReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Check(model.CreateMerchantRequest{BusinessName: "A", Email: "not-an-email", Country: "NGA"})
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.Code)

	fields, ok := apiErr.Details.([]FieldError)
	require.True(t, ok)

	byField := map[string]string{}
	for _, f := range fields {
		byField[f.Field] = f.Type
	}
	assert.Equal(t, "min", byField["business_name"])
	assert.Equal(t, "email", byField["email"])
	assert.Equal(t, "len", byField["country"])
}

func TestNestedFieldPath(t *testing.T) {
	v := New()

	fields, err := v.Fields(model.ExportRequest{Format: "pdf", Filters: model.TransactionFilter{Status: "LOST"}})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "format", fields[0].Field)
	assert.Equal(t, "Value must be one of: csv, excel", fields[0].Message)
	assert.Equal(t, "filters.status", fields[1].Field)
}

func TestResponseValidation(t *testing.T) {
	v := New()

	page := model.PaginatedResponse[model.Role]{
		Data:       []model.Role{{ID: "1", Name: "ADMIN"}, {ID: "", Name: "X"}},
		PageNumber: 1,
	}

	fields, err := v.Fields(page)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "data[1].id", fields[0].Field)
}

func TestNonStructInput(t *testing.T) {
	_, err := New().Fields("text")
	require.Error(t, err)
}
