package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"orbita/backend/config"
	"orbita/backend/database"
	"orbita/backend/utils"
)

type DocumentUploadRequest struct {
	Title    string         `json:"title"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// DocumentUpload ingests a document into the per-user knowledge base: the
// text is chunked, embedded and stored for retrieval by the document chat.
// Accepts JSON {title, text} or multipart with a .txt/.md file.
func DocumentUpload(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")

		var title, text string
		meta := map[string]any{}
		if strings.HasPrefix(strings.ToLower(c.GetHeader("Content-Type")), "multipart/form-data") {
			file, hdr, err := c.Request.FormFile("file")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing file (field 'file')"})
				return
			}
			defer file.Close()
			ext := strings.ToLower(filepath.Ext(hdr.Filename))
			if ext != ".txt" && ext != ".md" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type; use .txt or .md"})
				return
			}
			buf, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
				return
			}
			text = string(buf)
			title = hdr.Filename
			meta["file_name"] = hdr.Filename
		} else {
			var req DocumentUploadRequest
			if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body or missing text"})
				return
			}
			text = req.Text
			title = req.Title
			if req.Metadata != nil {
				meta = req.Metadata
			}
		}
		if strings.TrimSpace(title) == "" {
			title = "Untitled"
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
		defer cancel()
		if quotaExhausted(ctx, uid) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "token quota exhausted"})
			return
		}

		aiClient, err := utils.NewAIClient(ctx, utils.AIConfig{APIKey: cfg.GeminiAPIKey, GenModel: cfg.GeminiModel, EmbedModel: cfg.GeminiEmbeddingModel})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ai client error"})
			return
		}
		defer aiClient.Close()

		chunks := utils.ChunkText(text, 800)
		mb, _ := json.Marshal(meta)
		indexed := 0
		for i, ch := range chunks {
			emb, err := utils.EmbedText(ctx, aiClient, cfg.GeminiEmbeddingModel, ch)
			if err != nil || len(emb) == 0 {
				log.Printf("embed error on chunk %d: %v", i, err)
				continue
			}
			vec := utils.VectorLiteral(emb)
			_, err = database.Pool.Exec(ctx, `INSERT INTO ai_documents(user_id, title, chunk_index, content, metadata, embedding)
VALUES($1,$2,$3,$4,$5::jsonb,$6::vector)`, uid, title, i, ch, string(mb), vec)
			if err != nil {
				log.Printf("document insert error: %v", err)
				continue
			}
			indexed++
		}
		if indexed == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no chunks indexed"})
			return
		}
		debitTokens(ctx, uid, int64(len(text)/4))
		c.JSON(http.StatusOK, gin.H{"status": "ok", "title": title, "chunks_indexed": indexed})
	}
}

func DocumentList() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		rows, err := database.Pool.Query(ctx, `
            SELECT title, COUNT(*) AS chunks, MIN(created_at) AS uploaded_at
            FROM ai_documents WHERE user_id=$1
            GROUP BY title ORDER BY uploaded_at DESC`, uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer rows.Close()
		type doc struct {
			Title      string    `json:"title"`
			Chunks     int       `json:"chunks"`
			UploadedAt time.Time `json:"uploaded_at"`
		}
		out := []doc{}
		for rows.Next() {
			var d doc
			if err := rows.Scan(&d.Title, &d.Chunks, &d.UploadedAt); err == nil {
				out = append(out, d)
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

// DocumentDelete removes every chunk of a document by title.
func DocumentDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		title := c.Query("title")
		if strings.TrimSpace(title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing title"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		tag, err := database.Pool.Exec(ctx, `DELETE FROM ai_documents WHERE user_id=$1 AND title=$2`, uid, title)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted", "chunks_removed": tag.RowsAffected()})
	}
}

// retrieveChunks returns the k closest chunks to the query embedding.
func retrieveChunks(ctx context.Context, uid int64, vec string, k int) ([]string, error) {
	rows, err := database.Pool.Query(ctx, `SELECT content FROM ai_documents WHERE user_id=$1 ORDER BY embedding <-> $2::vector LIMIT $3`, uid, vec, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := []string{}
	for rows.Next() {
		var s string
		rows.Scan(&s)
		docs = append(docs, s)
	}
	return docs, nil
}
