package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"orbita/backend/config"
	"orbita/backend/database"
	"orbita/backend/models"
)

func ListPlans() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		rows, err := database.Pool.Query(ctx, `SELECT code, name, price_cents, currency, token_points FROM plans ORDER BY price_cents ASC`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer rows.Close()
		out := []models.Plan{}
		for rows.Next() {
			var p models.Plan
			if err := rows.Scan(&p.Code, &p.Name, &p.PriceCents, &p.Currency, &p.TokenPoints); err == nil {
				out = append(out, p)
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

// GetSubscription returns the caller's latest subscription, or 404 when they
// never purchased one.
func GetSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		var s models.Subscription
		var p models.Plan
		err := database.Pool.QueryRow(ctx, `
            SELECT s.id, s.plan_code, s.status, s.created_at, p.code, p.name, p.price_cents, p.currency, p.token_points
            FROM subscriptions s JOIN plans p ON p.code = s.plan_code
            WHERE s.user_id=$1 ORDER BY s.created_at DESC LIMIT 1`, uid).
			Scan(&s.ID, &s.PlanCode, &s.Status, &s.CreatedAt, &p.Code, &p.Name, &p.PriceCents, &p.Currency, &p.TokenPoints)
		if err != nil {
			if isNoRows(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no subscription"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"subscription": s, "plan": p})
	}
}

type CheckoutRequest struct {
	PlanCode string `json:"plan_code"`
}

// Checkout creates a payment-provider session for a plan. The tax-info gate
// runs first: checkout is unreachable until a fiscal record is confirmed on
// file, and a failed lookup blocks rather than waving the purchase through.
func Checkout(cfg config.Config, store TaxInfoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.PlanCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing plan_code"})
			return
		}
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		hasTaxInfo := false
		_, err := store.Get(ctx, uid)
		switch {
		case err == nil:
			hasTaxInfo = true
		case errors.Is(err, database.ErrTaxInfoNotFound):
			err = nil
		}
		if d := models.GateCheckout(hasTaxInfo, err); !d.Proceed {
			c.JSON(d.Status, gin.H{"error": d.Message, "code": d.Code})
			return
		}

		var plan models.Plan
		err = database.Pool.QueryRow(ctx, `SELECT code, name, price_cents, currency, token_points FROM plans WHERE code=$1`, req.PlanCode).
			Scan(&plan.Code, &plan.Name, &plan.PriceCents, &plan.Currency, &plan.TokenPoints)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown plan"})
			return
		}

		// Session first, row second: a provider failure must not leave a
		// pending subscription behind on every retry.
		session, err := createCheckoutSession(ctx, cfg, uuid.NewString(), plan)
		if err != nil {
			log.Printf("checkout session error: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider error"})
			return
		}

		var subID int64
		err = database.Pool.QueryRow(ctx, `INSERT INTO subscriptions(user_id, plan_code, status, provider_session_id) VALUES($1,$2,$3,$4) RETURNING id`,
			uid, plan.Code, models.SubStatusPending, session.ID).Scan(&subID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"subscription_id": subID, "checkout_url": session.URL})
	}
}

type checkoutSession struct {
	ID  string `json:"session_id"`
	URL string `json:"url"`
}

func createCheckoutSession(ctx context.Context, cfg config.Config, reference string, plan models.Plan) (*checkoutSession, error) {
	payload, _ := json.Marshal(map[string]any{
		"reference":   reference,
		"plan_code":   plan.Code,
		"amount":      plan.PriceCents,
		"currency":    plan.Currency,
		"return_url":  cfg.CheckoutReturnURL,
		"description": plan.Name + " plan",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.CheckoutSessionURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("provider status " + resp.Status + ": " + string(body))
	}
	var s checkoutSession
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

type ActivateRequest struct {
	SubscriptionID int64  `json:"subscription_id"`
	SessionID      string `json:"session_id"`
}

// ActivateSubscription is invoked when the provider reports payment. It flips
// the pending subscription active, applies the plan's token quota and writes a
// billing-history entry.
func ActivateSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		var req ActivateRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.SubscriptionID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing subscription_id"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		tx, err := database.Pool.Begin(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer tx.Rollback(ctx)

		var plan models.Plan
		err = tx.QueryRow(ctx, `
            SELECT p.code, p.name, p.price_cents, p.currency, p.token_points
            FROM subscriptions s JOIN plans p ON p.code = s.plan_code
            WHERE s.id=$1 AND s.user_id=$2 AND s.status=$3 FOR UPDATE OF s`,
			req.SubscriptionID, uid, models.SubStatusPending).
			Scan(&plan.Code, &plan.Name, &plan.PriceCents, &plan.Currency, &plan.TokenPoints)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "pending subscription not found"})
			return
		}

		if _, err := tx.Exec(ctx, `UPDATE subscriptions SET status=$1, updated_at=now() WHERE id=$2`, models.SubStatusActive, req.SubscriptionID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		quota := int64(plan.TokenPoints) * 10000
		if _, err := tx.Exec(ctx, `INSERT INTO token_quotas(user_id, token_quota, token_used, updated_at)
VALUES($1,$2,0,now())
ON CONFLICT (user_id) DO UPDATE SET token_quota=EXCLUDED.token_quota, token_used=0, updated_at=now()`, uid, quota); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if _, err := tx.Exec(ctx, `INSERT INTO billing_history(user_id, description, amount_cents, currency, status)
VALUES($1,$2,$3,$4,'paid')`, uid, plan.Name+" plan subscription", plan.PriceCents, plan.Currency); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if err := tx.Commit(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "active", "token_quota": quota})
	}
}

func fetchBillingHistory(ctx context.Context, uid int64, limit, offset int) ([]models.BillingRecord, error) {
	rows, err := database.Pool.Query(ctx, `SELECT id, nfse_number, description, amount_cents, currency, status, issued_at
FROM billing_history WHERE user_id=$1 ORDER BY issued_at DESC LIMIT $2 OFFSET $3`, uid, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []models.BillingRecord{}
	for rows.Next() {
		var r models.BillingRecord
		if err := rows.Scan(&r.ID, &r.NfseNumber, &r.Description, &r.AmountCents, &r.Currency, &r.Status, &r.IssuedAt); err == nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func BillingHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		if offset < 0 {
			offset = 0
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		items, err := fetchBillingHistory(ctx, uid, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
	}
}

// BillingHistoryExport streams the NFS-e history as an XLSX attachment.
func BillingHistoryExport() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		items, err := fetchBillingHistory(ctx, uid, 1000, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		writeBillingExport(c, items)
	}
}

func writeBillingExport(c *gin.Context, items []models.BillingRecord) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Billing History"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"NFS-e", "Description", "Amount", "Currency", "Status", "Issued At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, r := range items {
		nfse := ""
		if r.NfseNumber != nil {
			nfse = *r.NfseNumber
		}
		values := []any{nfse, r.Description, float64(r.AmountCents) / 100, r.Currency, r.Status, r.IssuedAt.Format(time.RFC3339)}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export error"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="billing-history.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
