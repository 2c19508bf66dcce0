package controllers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"orbita/backend/config"
	"orbita/backend/database"
	"orbita/backend/models"
	"orbita/backend/utils"
)

func hash(pw string) string {
	h := sha256.Sum256([]byte(pw))
	return hex.EncodeToString(h[:])
}

func Register(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
			return
		}
		if req.Password == "" || req.Password != req.Confirm {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password mismatch"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		var id int64
		err := database.Pool.QueryRow(ctx, `INSERT INTO users(email, password_hash, name)
VALUES($1,$2,$3) RETURNING id`, req.Email, hash(req.Password), req.Name).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		token, err := utils.GenerateJWT(cfg.JWTSecret, id, req.Email, 24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

func Login(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		var id int64
		var pw string
		email := strings.ToLower(strings.TrimSpace(req.Email))
		err := database.Pool.QueryRow(ctx, `SELECT id, password_hash FROM users WHERE email=$1`, email).Scan(&id, &pw)
		if err != nil || pw != hash(req.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		token, err := utils.GenerateJWT(cfg.JWTSecret, id, email, 24*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		var u models.User
		err := database.Pool.QueryRow(ctx, `SELECT id, email, name, company, job_title, country, phone, bio, website, image_path, onboarding_step, onboarding_completed, created_at
FROM users WHERE id=$1`, uid).
			Scan(&u.ID, &u.Email, &u.Name, &u.Company, &u.JobTitle, &u.Country, &u.Phone, &u.Bio, &u.Website, &u.ImagePath, &u.OnboardingStep, &u.OnboardingCompleted, &u.CreatedAt)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
