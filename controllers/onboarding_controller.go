package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"orbita/backend/database"
	"orbita/backend/models"
	"orbita/backend/utils"
)

// OnboardingStatus returns where the wizard should resume.
func OnboardingStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		var step int
		var completed bool
		err := database.Pool.QueryRow(ctx, `SELECT onboarding_step, onboarding_completed FROM users WHERE id=$1`, uid).Scan(&step, &completed)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"onboarding_step":      models.ResumeStep(step),
			"onboarding_completed": completed,
		})
	}
}

// OnboardingProfile handles the step-local profile write (PATCH). It persists
// whatever fields were supplied and moves the wizard to the organization step.
func OnboardingProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.OnboardingProfile
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var cur int
		if err := database.Pool.QueryRow(ctx, `SELECT onboarding_step FROM users WHERE id=$1`, uid).Scan(&cur); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		next := models.AdvanceStep(cur, models.StepOrganization)

		_, err := database.Pool.Exec(ctx, `UPDATE users SET
name=$1,
company=COALESCE($2, company),
job_title=COALESCE($3, job_title),
country=COALESCE($4, country),
phone=COALESCE($5, phone),
bio=COALESCE($6, bio),
website=COALESCE($7, website),
onboarding_step=$8,
updated_at=now()
WHERE id=$9`,
			req.Name, req.Company, req.JobTitle, req.Country, req.Phone, req.Bio, req.Website, next, uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "onboarding_step": next})
	}
}

// OnboardingSaveAll is the combined submission issued at the end of the
// organization step: profile fields and the new organization land in a single
// transaction, so a rejected write leaves no partial onboarding state.
func OnboardingSaveAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SaveAllRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if strings.TrimSpace(req.Profile.Name) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "profile name is required"})
			return
		}
		orgName := strings.TrimSpace(req.Organization.Name)
		if orgName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "organization name is required"})
			return
		}
		slug := strings.TrimSpace(req.Organization.Slug)
		if slug == "" {
			slug = utils.Slugify(orgName)
		}
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "organization name produces an empty slug"})
			return
		}

		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		tx, err := database.Pool.Begin(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer tx.Rollback(ctx)

		var cur int
		if err := tx.QueryRow(ctx, `SELECT onboarding_step FROM users WHERE id=$1 FOR UPDATE`, uid).Scan(&cur); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		var orgID int64
		err = tx.QueryRow(ctx, `INSERT INTO organizations(name, slug, description, owner_id)
VALUES($1,$2,$3,$4) RETURNING id`, orgName, slug, req.Organization.Description, uid).Scan(&orgID)
		if err != nil {
			if isUniqueViolation(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "Organization already exists, choose a different name"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if _, err := tx.Exec(ctx, `INSERT INTO organization_members(org_id, user_id, role) VALUES($1,$2,$3)`, orgID, uid, models.RoleOwner); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		next := models.AdvanceStep(cur, models.StepComplete)
		p := req.Profile
		if _, err := tx.Exec(ctx, `UPDATE users SET
name=$1,
company=COALESCE($2, company),
job_title=COALESCE($3, job_title),
country=COALESCE($4, country),
phone=COALESCE($5, phone),
bio=COALESCE($6, bio),
website=COALESCE($7, website),
onboarding_step=$8,
updated_at=now()
WHERE id=$9`,
			p.Name, p.Company, p.JobTitle, p.Country, p.Phone, p.Bio, p.Website, next, uid); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if err := tx.Commit(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"onboarding_step": next,
			"organization": gin.H{
				"id":   orgID,
				"name": orgName,
				"slug": slug,
			},
		})
	}
}

// OnboardingComplete is the terminal wizard action. Retryable and idempotent:
// a network failure leaves the user on the last step, re-invoking succeeds.
func OnboardingComplete() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var step int
		var completed bool
		if err := database.Pool.QueryRow(ctx, `SELECT onboarding_step, onboarding_completed FROM users WHERE id=$1`, uid).Scan(&step, &completed); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if completed {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "onboarding_completed": true})
			return
		}
		if step < models.StepComplete {
			c.JSON(http.StatusBadRequest, gin.H{"error": "onboarding steps not finished"})
			return
		}
		if _, err := database.Pool.Exec(ctx, `UPDATE users SET onboarding_completed=TRUE, updated_at=now() WHERE id=$1`, uid); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "onboarding_completed": true})
	}
}
