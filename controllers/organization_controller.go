package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"orbita/backend/database"
	"orbita/backend/models"
	"orbita/backend/utils"
)

type OrgRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
}

// memberRole returns the caller's role in the org, or "" when not a member.
func memberRole(ctx context.Context, orgID, uid int64) string {
	var role string
	if err := database.Pool.QueryRow(ctx, `SELECT role FROM organization_members WHERE org_id=$1 AND user_id=$2`, orgID, uid).Scan(&role); err != nil {
		return ""
	}
	return role
}

func ListOrganizations() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		rows, err := database.Pool.Query(ctx, `
            SELECT o.id, o.name, o.slug, o.description, o.logo_path, o.owner_id, o.created_at, m.role
            FROM organizations o
            JOIN organization_members m ON m.org_id = o.id
            WHERE m.user_id=$1
            ORDER BY o.created_at ASC`, uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer rows.Close()
		type orgWithRole struct {
			models.Organization
			Role string `json:"role"`
		}
		out := []orgWithRole{}
		for rows.Next() {
			var o orgWithRole
			if err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.Description, &o.LogoPath, &o.OwnerID, &o.CreatedAt, &o.Role); err == nil {
				out = append(out, o)
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func CreateOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OrgRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "organization name is required"})
			return
		}
		slug := strings.TrimSpace(req.Slug)
		if slug == "" {
			slug = utils.Slugify(req.Name)
		}
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "organization name produces an empty slug"})
			return
		}
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		tx, err := database.Pool.Begin(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer tx.Rollback(ctx)

		var id int64
		err = tx.QueryRow(ctx, `INSERT INTO organizations(name, slug, description, owner_id)
VALUES($1,$2,$3,$4) RETURNING id`, strings.TrimSpace(req.Name), slug, req.Description, uid).Scan(&id)
		if err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Organization already exists, choose a different name"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if _, err := tx.Exec(ctx, `INSERT INTO organization_members(org_id, user_id, role) VALUES($1,$2,$3)`, id, uid, models.RoleOwner); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if err := tx.Commit(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "name": strings.TrimSpace(req.Name), "slug": slug})
	}
}

func GetOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		orgID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		role := memberRole(ctx, orgID, uid)
		if role == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
			return
		}
		var o models.Organization
		err := database.Pool.QueryRow(ctx, `SELECT id, name, slug, description, logo_path, owner_id, created_at FROM organizations WHERE id=$1`, orgID).
			Scan(&o.ID, &o.Name, &o.Slug, &o.Description, &o.LogoPath, &o.OwnerID, &o.CreatedAt)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"organization": o, "role": role})
	}
}

func UpdateOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		orgID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		var req OrgRequest
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "organization name is required"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if !models.CanManageOrg(memberRole(ctx, orgID, uid)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		_, err := database.Pool.Exec(ctx, `UPDATE organizations SET name=$1, description=COALESCE($2, description), updated_at=now() WHERE id=$3`,
			strings.TrimSpace(req.Name), req.Description, orgID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func DeleteOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		orgID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if memberRole(ctx, orgID, uid) != models.RoleOwner {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the owner can delete the organization"})
			return
		}
		if _, err := database.Pool.Exec(ctx, `DELETE FROM organizations WHERE id=$1`, orgID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

func ListMembers() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		orgID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if memberRole(ctx, orgID, uid) == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
			return
		}
		rows, err := database.Pool.Query(ctx, `
            SELECT m.user_id, u.name, u.email, m.role, m.created_at
            FROM organization_members m
            JOIN users u ON u.id = m.user_id
            WHERE m.org_id=$1
            ORDER BY m.created_at ASC`, orgID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer rows.Close()
		out := []models.Member{}
		for rows.Next() {
			var m models.Member
			if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.Role, &m.JoinedAt); err == nil {
				out = append(out, m)
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

type RoleRequest struct {
	Role string `json:"role"`
}

func UpdateMemberRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		orgID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		targetID, _ := strconv.ParseInt(c.Param("userID"), 10, 64)
		var req RoleRequest
		if err := c.ShouldBindJSON(&req); err != nil || !models.ValidMemberRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be admin or member"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if !models.CanManageOrg(memberRole(ctx, orgID, uid)) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		// The owner role is fixed; it can't be granted or taken away here.
		tag, err := database.Pool.Exec(ctx, `UPDATE organization_members SET role=$1 WHERE org_id=$2 AND user_id=$3 AND role <> $4`,
			req.Role, orgID, targetID, models.RoleOwner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found or role is owner"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func RemoveMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		orgID, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		targetID, _ := strconv.ParseInt(c.Param("userID"), 10, 64)
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		role := memberRole(ctx, orgID, uid)
		// Members may leave on their own; removing someone else needs admin.
		if targetID != uid && !models.CanManageOrg(role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		tag, err := database.Pool.Exec(ctx, `DELETE FROM organization_members WHERE org_id=$1 AND user_id=$2 AND role <> $3`,
			orgID, targetID, models.RoleOwner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found or is the owner"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "removed"})
	}
}
