package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orbita/backend/config"
	"orbita/backend/database"
	"orbita/backend/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockTaxInfoStore implements TaxInfoStore for handler tests.
type MockTaxInfoStore struct {
	GetFunc    func(ctx context.Context, userID int64) (*models.TaxInfo, error)
	CreateFunc func(ctx context.Context, t *models.TaxInfo) error
	UpdateFunc func(ctx context.Context, t *models.TaxInfo) error
}

func (m *MockTaxInfoStore) Get(ctx context.Context, userID int64) (*models.TaxInfo, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return nil, database.ErrTaxInfoNotFound
}

func (m *MockTaxInfoStore) Create(ctx context.Context, t *models.TaxInfo) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return nil
}

func (m *MockTaxInfoStore) Update(ctx context.Context, t *models.TaxInfo) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	return nil
}

func fiscalRouter(store TaxInfoStore) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", int64(42))
		c.Next()
	})
	r.GET("/api/v1/fiscal/tax-info", TaxInfoGet(store))
	r.POST("/api/v1/fiscal/tax-info", TaxInfoCreate(store))
	r.PUT("/api/v1/fiscal/tax-info", TaxInfoUpdate(store))
	r.GET("/api/v1/fiscal/brazilian-states", ListBrazilianStates())
	r.GET("/api/v1/fiscal/validate-cpf-cnpj/:value", ValidateCpfCnpj())
	r.POST("/api/v1/subscriptions/checkout", Checkout(config.Config{}, store))
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTaxInfoGetAbsentIs404(t *testing.T) {
	// 404 is the legitimate "no tax info yet" signal, not a failure.
	r := fiscalRouter(&MockTaxInfoStore{})
	w := doJSON(r, http.MethodGet, "/api/v1/fiscal/tax-info", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaxInfoGetFound(t *testing.T) {
	store := &MockTaxInfoStore{
		GetFunc: func(ctx context.Context, userID int64) (*models.TaxInfo, error) {
			assert.Equal(t, int64(42), userID)
			return &models.TaxInfo{Country: "PT", FullName: "John Doe"}, nil
		},
	}
	w := doJSON(fiscalRouter(store), http.MethodGet, "/api/v1/fiscal/tax-info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.TaxInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "PT", got.Country)
	assert.Equal(t, "John Doe", got.FullName)
}

func TestTaxInfoGetLookupErrorIs500(t *testing.T) {
	store := &MockTaxInfoStore{
		GetFunc: func(ctx context.Context, userID int64) (*models.TaxInfo, error) {
			return nil, errors.New("connection refused")
		},
	}
	w := doJSON(fiscalRouter(store), http.MethodGet, "/api/v1/fiscal/tax-info", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTaxInfoCreateBrazilianValidation(t *testing.T) {
	// BR branch without its required fields must fail with per-field errors.
	w := doJSON(fiscalRouter(&MockTaxInfoStore{}), http.MethodPost, "/api/v1/fiscal/tax-info", gin.H{
		"country":  "BR",
		"fullName": "Maria da Silva",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp struct {
		Fields []models.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	fields := map[string]bool{}
	for _, f := range resp.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"cpfCnpj", "postalCode", "state", "cityCode", "address", "number", "neighborhood"} {
		assert.True(t, fields[want], "missing field error for %s", want)
	}
}

func TestTaxInfoCreateInternational(t *testing.T) {
	// The same minimal payload that fails for BR succeeds elsewhere.
	var saved *models.TaxInfo
	store := &MockTaxInfoStore{
		CreateFunc: func(ctx context.Context, ti *models.TaxInfo) error {
			saved = ti
			return nil
		},
	}
	w := doJSON(fiscalRouter(store), http.MethodPost, "/api/v1/fiscal/tax-info", gin.H{
		"country":  "de",
		"fullName": "Hans Müller",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, saved)
	assert.Equal(t, int64(42), saved.UserID)
	assert.Equal(t, "DE", saved.Country) // normalized
}

func TestTaxInfoCreateConflict(t *testing.T) {
	store := &MockTaxInfoStore{
		CreateFunc: func(ctx context.Context, ti *models.TaxInfo) error {
			return database.ErrTaxInfoExists
		},
	}
	w := doJSON(fiscalRouter(store), http.MethodPost, "/api/v1/fiscal/tax-info", gin.H{
		"country":  "PT",
		"fullName": "John Doe",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTaxInfoUpdateMissing(t *testing.T) {
	store := &MockTaxInfoStore{
		UpdateFunc: func(ctx context.Context, ti *models.TaxInfo) error {
			return database.ErrTaxInfoNotFound
		},
	}
	w := doJSON(fiscalRouter(store), http.MethodPut, "/api/v1/fiscal/tax-info", gin.H{
		"country":  "PT",
		"fullName": "John Doe",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBrazilianStates(t *testing.T) {
	w := doJSON(fiscalRouter(&MockTaxInfoStore{}), http.MethodGet, "/api/v1/fiscal/brazilian-states", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		States []models.BrazilianState `json:"states"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.States, 27)
}

func TestValidateCpfCnpjEndpoint(t *testing.T) {
	r := fiscalRouter(&MockTaxInfoStore{})

	w := doJSON(r, http.MethodGet, "/api/v1/fiscal/validate-cpf-cnpj/52998224725", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["valid"])
	assert.Equal(t, "cpf", resp["type"])
	assert.Equal(t, "529.982.247-25", resp["formatted"])

	// Invalid documents are still a 200: the field check is advisory.
	w = doJSON(r, http.MethodGet, "/api/v1/fiscal/validate-cpf-cnpj/11111111111", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["valid"])
}

func TestCheckoutBlockedWithoutTaxInfo(t *testing.T) {
	// Absent tax info never reaches the payment provider: 412 with a code the
	// client uses to open the tax-info form.
	w := doJSON(fiscalRouter(&MockTaxInfoStore{}), http.MethodPost, "/api/v1/subscriptions/checkout", gin.H{
		"plan_code": "pro",
	})
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tax_info_required", resp["code"])
}

func TestCheckoutBlockedOnLookupFailure(t *testing.T) {
	// A failed existence check must not be treated as absence.
	store := &MockTaxInfoStore{
		GetFunc: func(ctx context.Context, userID int64) (*models.TaxInfo, error) {
			return nil, errors.New("timeout")
		},
	}
	w := doJSON(fiscalRouter(store), http.MethodPost, "/api/v1/subscriptions/checkout", gin.H{
		"plan_code": "pro",
	})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tax_info_check_failed", resp["code"])
}
