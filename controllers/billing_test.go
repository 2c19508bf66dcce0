package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"orbita/backend/config"
	"orbita/backend/models"
)

func TestBillingExportHeadersAndContent(t *testing.T) {
	nfse := "2026-000123"
	records := []models.BillingRecord{
		{
			ID:          1,
			NfseNumber:  &nfse,
			Description: "Pro plan subscription",
			AmountCents: 9900,
			Currency:    "BRL",
			Status:      "paid",
			IssuedAt:    time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:          2,
			Description: "Starter plan subscription",
			AmountCents: 2900,
			Currency:    "BRL",
			Status:      "pending",
			IssuedAt:    time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC),
		},
	}

	r := gin.New()
	r.GET("/export", func(c *gin.Context) {
		writeBillingExport(c, records)
	})
	req := httptest.NewRequest(http.MethodGet, "/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="billing-history.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	sheet := "Billing History"
	for i, want := range []string{"NFS-e", "Description", "Amount", "Currency", "Status", "Issued At"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, nfse, got)
	got, err = f.GetCellValue(sheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "Starter plan subscription", got)
	// missing NFS-e number renders blank, not "<nil>"
	got, err = f.GetCellValue(sheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestCreateCheckoutSession(t *testing.T) {
	plan := models.Plan{Code: "pro", Name: "Pro", PriceCents: 9900, Currency: "BRL", TokenPoints: 10}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"session_id":"sess_123","url":"https://pay.example/sess_123"}`))
	}))
	defer srv.Close()

	cfg := config.Config{CheckoutSessionURL: srv.URL, CheckoutReturnURL: "https://app.example/billing"}
	s, err := createCheckoutSession(context.Background(), cfg, "ref-1", plan)
	require.NoError(t, err)
	assert.Equal(t, "sess_123", s.ID)
	assert.Equal(t, "https://pay.example/sess_123", s.URL)
}

func TestCreateCheckoutSessionProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.Config{CheckoutSessionURL: srv.URL}
	_, err := createCheckoutSession(context.Background(), cfg, "ref-1", models.Plan{Code: "pro"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider status")
}
