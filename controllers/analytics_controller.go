package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"orbita/backend/config"
	"orbita/backend/database"
	"orbita/backend/utils"
)

type AnalyticsRequest struct {
	Question string `json:"question"`
}

// accountFigures is the compact numeric snapshot handed to the model. Keeping
// it small and pre-aggregated keeps the model from hallucinating raw rows.
type accountFigures struct {
	SpendTotalCents  int64  `json:"spend_total_cents"`
	SpendLast30Cents int64  `json:"spend_last_30_days_cents"`
	InvoiceCount     int    `json:"invoice_count"`
	Currency         string `json:"currency"`
	PlanCode         string `json:"plan_code,omitempty"`
	PlanStatus       string `json:"plan_status,omitempty"`
	TokenQuota       int64  `json:"token_quota"`
	TokenUsed        int64  `json:"token_used"`
	ChatCount        int    `json:"chat_count"`
	GenerationCount  int    `json:"generation_count"`
	DocumentChunks   int    `json:"document_chunks"`
}

func collectFigures(ctx context.Context, uid int64) accountFigures {
	var f accountFigures
	f.Currency = "BRL"
	_ = database.Pool.QueryRow(ctx, `
        SELECT COALESCE(SUM(amount_cents),0),
               COALESCE(SUM(amount_cents) FILTER (WHERE issued_at > now() - interval '30 days'),0),
               COUNT(*)
        FROM billing_history WHERE user_id=$1`, uid).
		Scan(&f.SpendTotalCents, &f.SpendLast30Cents, &f.InvoiceCount)
	_ = database.Pool.QueryRow(ctx, `SELECT plan_code, status FROM subscriptions WHERE user_id=$1 ORDER BY created_at DESC LIMIT 1`, uid).
		Scan(&f.PlanCode, &f.PlanStatus)
	f.TokenQuota, f.TokenUsed = quotaState(ctx, uid)
	_ = database.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM chats WHERE user_id=$1`, uid).Scan(&f.ChatCount)
	_ = database.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM generations WHERE user_id=$1`, uid).Scan(&f.GenerationCount)
	_ = database.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM ai_documents WHERE user_id=$1`, uid).Scan(&f.DocumentChunks)
	return f
}

// AnalyticsQuery answers a natural-language question about the user's own
// account activity, grounded on pre-aggregated figures.
func AnalyticsQuery(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalyticsRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body or missing question"})
			return
		}
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		if quotaExhausted(ctx, uid) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "token quota exhausted"})
			return
		}

		figures := collectFigures(ctx, uid)
		fj, _ := json.Marshal(figures)

		prompt := "You are an analytics assistant for a SaaS account. " +
			"Answer the question using ONLY the figures below. Amounts are in cents of " + figures.Currency + ". " +
			"If the figures cannot answer the question, say what is missing.\n\n" +
			"Figures: " + string(fj) + "\n\nQuestion: " + req.Question

		aiClient, err := utils.NewAIClient(ctx, utils.AIConfig{APIKey: cfg.GeminiAPIKey, GenModel: cfg.GeminiModel, EmbedModel: cfg.GeminiEmbeddingModel})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ai client error"})
			return
		}
		defer aiClient.Close()

		answer, usage, err := utils.GenerateText(ctx, aiClient, cfg.GeminiModel, genai.Text(prompt))
		if err != nil || answer == "" {
			c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
			return
		}
		debitTokens(ctx, uid, usage.Total)
		c.JSON(http.StatusOK, gin.H{"answer": answer, "figures": figures})
	}
}
