package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"orbita/backend/config"
	"orbita/backend/database"
	"orbita/backend/utils"
)

var generationKinds = map[string]string{
	"blog_post":   "a blog post",
	"social_post": "a short social media post",
	"email":       "a marketing email",
	"headline":    "five alternative headlines",
	"summary":     "a concise summary",
}

type GenerateRequest struct {
	Kind     string `json:"type"`
	Topic    string `json:"topic"`
	Tone     string `json:"tone"`
	Language string `json:"language"`
}

// Generate produces one piece of content from a prompt template and stores it
// in the user's generation history.
func Generate(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Topic) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body or missing topic"})
			return
		}
		desc, ok := generationKinds[req.Kind]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown type; use blog_post, social_post, email, headline or summary"})
			return
		}
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
		defer cancel()

		if quotaExhausted(ctx, uid) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "token quota exhausted"})
			return
		}

		var b strings.Builder
		b.WriteString("Write " + desc + " about: " + req.Topic + ".")
		if strings.TrimSpace(req.Tone) != "" {
			b.WriteString(" Tone: " + req.Tone + ".")
		}
		if strings.TrimSpace(req.Language) != "" {
			b.WriteString(" Write it in " + req.Language + ".")
		}

		aiClient, err := utils.NewAIClient(ctx, utils.AIConfig{APIKey: cfg.GeminiAPIKey, GenModel: cfg.GeminiModel, EmbedModel: cfg.GeminiEmbeddingModel})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ai client error"})
			return
		}
		defer aiClient.Close()

		content, usage, err := utils.GenerateText(ctx, aiClient, cfg.GeminiModel, genai.Text(b.String()))
		if err != nil || content == "" {
			c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
			return
		}

		var id int64
		if err := database.Pool.QueryRow(ctx, `INSERT INTO generations(user_id, kind, topic, tone, language, content)
VALUES($1,$2,$3,$4,$5,$6) RETURNING id`, uid, req.Kind, req.Topic, req.Tone, req.Language, content).Scan(&id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		debitTokens(ctx, uid, usage.Total)
		c.JSON(http.StatusOK, gin.H{"id": id, "content": content})
	}
}

func ListGenerations() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		rows, err := database.Pool.Query(ctx, `SELECT id, kind, topic, tone, language, content, created_at
FROM generations WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`, uid, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer rows.Close()
		type gen struct {
			ID        int64     `json:"id"`
			Kind      string    `json:"type"`
			Topic     string    `json:"topic"`
			Tone      *string   `json:"tone"`
			Language  *string   `json:"language"`
			Content   string    `json:"content"`
			CreatedAt time.Time `json:"created_at"`
		}
		out := []gen{}
		for rows.Next() {
			var g gen
			if err := rows.Scan(&g.ID, &g.Kind, &g.Topic, &g.Tone, &g.Language, &g.Content, &g.CreatedAt); err == nil {
				out = append(out, g)
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}
