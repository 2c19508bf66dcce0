package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"orbita/backend/config"
	"orbita/backend/database"
	"orbita/backend/models"
	"orbita/backend/utils"
)

const inviteTTL = 7 * 24 * time.Hour

type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func CreateInvitation(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		orgID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		var req InviteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || !strings.Contains(req.Email, "@") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
			return
		}
		if req.Role == "" {
			req.Role = models.RoleMember
		}
		if !models.ValidMemberRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be admin or member"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		if !models.CanManageOrg(memberRole(ctx, orgID, uid)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		var orgName string
		if err := database.Pool.QueryRow(ctx, `SELECT name FROM organizations WHERE id=$1`, orgID).Scan(&orgName); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
			return
		}

		// Already a member?
		var exists bool
		_ = database.Pool.QueryRow(ctx, `SELECT EXISTS(
            SELECT 1 FROM organization_members m JOIN users u ON u.id = m.user_id
            WHERE m.org_id=$1 AND u.email=$2)`, orgID, req.Email).Scan(&exists)
		if exists {
			c.JSON(http.StatusConflict, gin.H{"error": "user is already a member"})
			return
		}

		token := uuid.NewString()
		expires := time.Now().Add(inviteTTL)
		var id int64
		err := database.Pool.QueryRow(ctx, `INSERT INTO invitations(org_id, email, role, token, invited_by, expires_at)
VALUES($1,$2,$3,$4,$5,$6) RETURNING id`, orgID, req.Email, req.Role, token, uid, expires).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "an invitation for this email is already pending"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		link := cfg.AppBaseURL + "/invitations/accept?token=" + token
		if err := utils.SendInviteEmail(cfg.ResendAPIKey, cfg.InviteFrom, req.Email, orgName, link); err != nil {
			// The invite row stands; delivery can be retried by revoking and re-inviting.
			log.Printf("invite email error: %v", err)
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "email": req.Email, "role": req.Role, "expires_at": expires})
	}
}

func ListInvitations() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		orgID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if !models.CanManageOrg(memberRole(ctx, orgID, uid)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		rows, err := database.Pool.Query(ctx, `SELECT id, org_id, email, role, status, invited_by, expires_at, created_at
FROM invitations WHERE org_id=$1 ORDER BY created_at DESC`, orgID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer rows.Close()
		out := []models.Invitation{}
		for rows.Next() {
			var inv models.Invitation
			if err := rows.Scan(&inv.ID, &inv.OrgID, &inv.Email, &inv.Role, &inv.Status, &inv.InvitedBy, &inv.ExpiresAt, &inv.CreatedAt); err == nil {
				out = append(out, inv)
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func RevokeInvitation() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		orgID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		invID, _ := strconv.ParseInt(c.Param("invID"), 10, 64)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if !models.CanManageOrg(memberRole(ctx, orgID, uid)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		tag, err := database.Pool.Exec(ctx, `UPDATE invitations SET status=$1 WHERE id=$2 AND org_id=$3 AND status=$4`,
			models.InviteStatusRevoked, invID, orgID, models.InviteStatusPending)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "pending invitation not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "revoked"})
	}
}

type AcceptInviteRequest struct {
	Token string `json:"token"`
}

// AcceptInvitation redeems a pending invite for the authenticated user.
// Expired, revoked or already-used invitations come back as 410.
func AcceptInvitation() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		var req AcceptInviteRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
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

		var inv models.Invitation
		err = tx.QueryRow(ctx, `SELECT id, org_id, email, role, status, expires_at FROM invitations WHERE token=$1 FOR UPDATE`, req.Token).
			Scan(&inv.ID, &inv.OrgID, &inv.Email, &inv.Role, &inv.Status, &inv.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
			return
		}
		if !models.InvitationUsable(inv.Status, inv.ExpiresAt, time.Now()) {
			c.JSON(http.StatusGone, gin.H{"error": "invitation is no longer valid"})
			return
		}

		if _, err := tx.Exec(ctx, `INSERT INTO organization_members(org_id, user_id, role) VALUES($1,$2,$3)
ON CONFLICT (org_id, user_id) DO NOTHING`, inv.OrgID, uid, inv.Role); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if _, err := tx.Exec(ctx, `UPDATE invitations SET status=$1 WHERE id=$2`, models.InviteStatusAccepted, inv.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if err := tx.Commit(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "org_id": inv.OrgID, "role": inv.Role})
	}
}
