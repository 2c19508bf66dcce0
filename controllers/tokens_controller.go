package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"orbita/backend/database"
)

const defaultTokenQuota = 50000 // 5 points

func quotaState(ctx context.Context, uid int64) (quota, used int64) {
	err := database.Pool.QueryRow(ctx, `SELECT token_quota::bigint, token_used::bigint FROM token_quotas WHERE user_id=$1`, uid).Scan(&quota, &used)
	if err != nil {
		return defaultTokenQuota, 0
	}
	if quota == 0 {
		quota = defaultTokenQuota
	}
	return quota, used
}

// quotaSpent reports whether usage has reached the quota.
func quotaSpent(quota, used int64) bool {
	return used >= quota
}

func quotaRemaining(quota, used int64) int64 {
	if used >= quota {
		return 0
	}
	return quota - used
}

// quotaExhausted gates every AI call; exhausted users get a 429 upstream.
func quotaExhausted(ctx context.Context, uid int64) bool {
	return quotaSpent(quotaState(ctx, uid))
}

func debitTokens(ctx context.Context, uid, n int64) {
	if n <= 0 {
		return
	}
	_, err := database.Pool.Exec(ctx, `INSERT INTO token_quotas(user_id, token_used, updated_at)
VALUES($1,$2,now())
ON CONFLICT (user_id) DO UPDATE SET token_used = token_quotas.token_used + EXCLUDED.token_used, updated_at=now()`, uid, n)
	if err != nil {
		log.Printf("token debit error: %v", err)
	}
}

func TokensUsage() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		quota, used := quotaState(ctx, uid)
		remaining := quotaRemaining(quota, used)
		c.JSON(http.StatusOK, gin.H{
			"points":           quota / 10000,
			"token_quota":      quota,
			"token_used":       used,
			"remaining":        remaining,
			"points_remaining": remaining / 10000,
		})
	}
}
