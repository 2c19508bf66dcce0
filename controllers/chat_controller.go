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

type ChatSendRequest struct {
	ChatID  *int64 `json:"chat_id"`
	Message string `json:"message"`
}

type ChatSendResponse struct {
	ChatID        int64    `json:"chat_id"`
	Reply         string   `json:"reply"`
	RetrievedDocs []string `json:"retrieved_docs"`
	Tokens        *struct {
		Input  int64 `json:"input"`
		Output int64 `json:"output"`
		Total  int64 `json:"total"`
	} `json:"tokens,omitempty"`
}

type ChatRow struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	LastMsgAt time.Time `json:"last_message_at"`
}

type ChatTitleRequest struct {
	Title string `json:"title"`
}

func ChatCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		var req ChatTitleRequest
		_ = c.ShouldBindJSON(&req)
		if strings.TrimSpace(req.Title) == "" {
			req.Title = "New Chat"
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		var id int64
		if err := database.Pool.QueryRow(ctx, `INSERT INTO chats(user_id,title) VALUES($1,$2) RETURNING id`, uid, req.Title).Scan(&id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"chat_id": id})
	}
}

func ChatList() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		rows, err := database.Pool.Query(ctx, `
            SELECT c.id, c.title, c.created_at, COALESCE(MAX(m.created_at), c.created_at) AS last_msg
            FROM chats c
            LEFT JOIN chat_messages m ON m.chat_id = c.id
            WHERE c.user_id=$1
            GROUP BY c.id, c.title, c.created_at
            ORDER BY last_msg DESC`, uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer rows.Close()
		list := []ChatRow{}
		for rows.Next() {
			var r ChatRow
			if err := rows.Scan(&r.ID, &r.Title, &r.CreatedAt, &r.LastMsgAt); err == nil {
				list = append(list, r)
			}
		}
		c.JSON(http.StatusOK, list)
	}
}

func ChatGetMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		chatID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		var exists bool
		_ = database.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM chats WHERE id=$1 AND user_id=$2)`, chatID, uid).Scan(&exists)
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		rows, err := database.Pool.Query(ctx, `SELECT id, role, content, created_at FROM chat_messages WHERE chat_id=$1 ORDER BY id ASC`, chatID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer rows.Close()
		type Msg struct {
			ID        int64     `json:"id"`
			Role      string    `json:"role"`
			Content   string    `json:"content"`
			CreatedAt time.Time `json:"created_at"`
		}
		msgs := []Msg{}
		for rows.Next() {
			var m Msg
			rows.Scan(&m.ID, &m.Role, &m.Content, &m.CreatedAt)
			msgs = append(msgs, m)
		}
		c.JSON(http.StatusOK, msgs)
	}
}

func ChatRename() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		chatID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		var req ChatTitleRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		res, err := database.Pool.Exec(ctx, `UPDATE chats SET title=$1 WHERE id=$2 AND user_id=$3`, req.Title, chatID, uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.RowsAffected() == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func ChatDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		chatID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		res, err := database.Pool.Exec(ctx, `DELETE FROM chats WHERE id=$1 AND user_id=$2`, chatID, uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.RowsAffected() == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

// ChatSend answers a message grounded on the user's uploaded documents: the
// question is embedded, the closest chunks are retrieved and fed to the model
// as context, and both sides of the exchange are persisted.
func ChatSend(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChatSendRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body or missing message"})
			return
		}
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
		defer cancel()

		// Quota gate runs before anything is persisted, so a 429'd message
		// does not pile up as an unanswered chat entry.
		if quotaExhausted(ctx, uid) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "token quota exhausted"})
			return
		}

		// Ensure chat row
		var chatID int64
		if req.ChatID == nil {
			if err := database.Pool.QueryRow(ctx, `INSERT INTO chats(user_id,title) VALUES($1,$2) RETURNING id`, uid, chatTitle(req.Message)).Scan(&chatID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
				return
			}
		} else {
			chatID = *req.ChatID
			var exists bool
			_ = database.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM chats WHERE id=$1 AND user_id=$2)`, chatID, uid).Scan(&exists)
			if !exists {
				c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
				return
			}
		}

		if _, err := database.Pool.Exec(ctx, `INSERT INTO chat_messages(chat_id,role,content) VALUES($1,'user',$2)`, chatID, req.Message); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		aiClient, err := utils.NewAIClient(ctx, utils.AIConfig{APIKey: cfg.GeminiAPIKey, GenModel: cfg.GeminiModel, EmbedModel: cfg.GeminiEmbeddingModel})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ai client error"})
			return
		}
		defer aiClient.Close()

		retrieved := []string{}
		if emb, err := utils.EmbedText(ctx, aiClient, cfg.GeminiEmbeddingModel, req.Message); err == nil && len(emb) > 0 {
			if docs, err := retrieveChunks(ctx, uid, utils.VectorLiteral(emb), 5); err == nil {
				retrieved = docs
			}
		}

		prompt := buildChatPrompt(req.Message, retrieved)
		reply, usage, err := utils.GenerateText(ctx, aiClient, cfg.GeminiModel, genai.Text(prompt))
		if err != nil || reply == "" {
			c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed"})
			return
		}

		if _, err := database.Pool.Exec(ctx, `INSERT INTO chat_messages(chat_id,role,content) VALUES($1,'assistant',$2)`, chatID, reply); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		debitTokens(ctx, uid, usage.Total)

		resp := ChatSendResponse{ChatID: chatID, Reply: reply, RetrievedDocs: retrieved}
		if usage.Total > 0 {
			resp.Tokens = &struct {
				Input  int64 `json:"input"`
				Output int64 `json:"output"`
				Total  int64 `json:"total"`
			}{usage.Input, usage.Output, usage.Total}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// chatTitle derives a chat title from the first message. Truncation counts
// runes, not bytes: a byte slice can split a multibyte character and produce
// invalid UTF-8 that the database rejects.
func chatTitle(msg string) string {
	title := strings.TrimSpace(msg)
	if r := []rune(title); len(r) > 80 {
		title = string(r[:80])
	}
	if title == "" {
		title = "New Chat"
	}
	return title
}

func buildChatPrompt(question string, docs []string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant answering questions about the user's uploaded documents.\n")
	if len(docs) > 0 {
		b.WriteString("Context from the documents:\n")
		for i, d := range docs {
			b.WriteString("[" + strconv.Itoa(i+1) + "] " + d + "\n")
		}
		b.WriteString("\nAnswer using the context above when relevant. If the context does not cover the question, say so.\n")
	} else {
		b.WriteString("No documents matched the question; answer from general knowledge and mention that no uploaded document was found.\n")
	}
	b.WriteString("\nQuestion: " + question)
	return b.String()
}
