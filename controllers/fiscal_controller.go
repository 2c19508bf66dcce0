package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"orbita/backend/config"
	"orbita/backend/database"
	"orbita/backend/models"
	"orbita/backend/utils"
)

// TaxInfoStore is the fiscal persistence surface the handlers run against.
// Absence must come back as database.ErrTaxInfoNotFound; any other error is a
// real failure and is never treated as "no record".
type TaxInfoStore interface {
	Get(ctx context.Context, userID int64) (*models.TaxInfo, error)
	Create(ctx context.Context, t *models.TaxInfo) error
	Update(ctx context.Context, t *models.TaxInfo) error
}

// TaxInfoGet returns the user's fiscal record. 404 means "no tax info yet",
// which callers treat as a legitimate state, not a failure.
func TaxInfoGet(store TaxInfoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		t, err := store.Get(ctx, uid)
		if err != nil {
			if errors.Is(err, database.ErrTaxInfoNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "tax info not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func bindTaxInfo(c *gin.Context) (*models.TaxInfo, bool) {
	var t models.TaxInfo
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return nil, false
	}
	t.UserID = c.GetInt64("user_id")
	t.Country = strings.ToUpper(strings.TrimSpace(t.Country))
	if errs := t.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": errs})
		return nil, false
	}
	return &t, true
}

func TaxInfoCreate(store TaxInfoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := bindTaxInfo(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := store.Create(ctx, t); err != nil {
			if errors.Is(err, database.ErrTaxInfoExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "tax info already exists, use PUT to update"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

func TaxInfoUpdate(store TaxInfoStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := bindTaxInfo(c)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()
		if err := store.Update(ctx, t); err != nil {
			if errors.Is(err, database.ErrTaxInfoNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "tax info not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

func ListBrazilianStates() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"states": models.BrazilianStates})
	}
}

type City struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ListBrazilianCities serves the state→city cascade of the Brazilian branch.
// Municipalities come from the IBGE localidades API and are cached per UF.
func ListBrazilianCities(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uf := strings.ToUpper(strings.TrimSpace(c.Param("stateCode")))
		if !models.ValidUF(uf) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown state code"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		var cached string
		err := database.Pool.QueryRow(ctx, `SELECT payload::text FROM brazilian_city_cache WHERE state_code=$1`, uf).Scan(&cached)
		if err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			return
		}

		cities, err := fetchIBGECities(ctx, cfg.IBGEBaseURL, uf)
		if err != nil {
			log.Printf("ibge fetch error for %s: %v", uf, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "city lookup unavailable"})
			return
		}
		body, _ := json.Marshal(gin.H{"state": uf, "cities": cities})
		if _, err := database.Pool.Exec(ctx, `INSERT INTO brazilian_city_cache(state_code, payload) VALUES($1,$2::jsonb)
ON CONFLICT (state_code) DO UPDATE SET payload=EXCLUDED.payload, fetched_at=now()`, uf, string(body)); err != nil {
			log.Printf("city cache write error: %v", err)
		}
		c.Data(http.StatusOK, "application/json", body)
	}
}

func fetchIBGECities(ctx context.Context, baseURL, uf string) ([]City, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/estados/"+uf+"/municipios", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("ibge status " + resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var raw []struct {
		ID   json.Number `json:"id"`
		Name string      `json:"nome"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	cities := make([]City, 0, len(raw))
	for _, m := range raw {
		cities = append(cities, City{Code: m.ID.String(), Name: m.Name})
	}
	return cities, nil
}

// ValidateCpfCnpj is the non-blocking field check triggered on blur: an
// invalid document is a 200 with valid=false, the authoritative check happens
// on save.
func ValidateCpfCnpj() gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.Param("value")
		ok, kind := utils.ValidCPFCNPJ(value)
		resp := gin.H{"valid": ok}
		if ok {
			resp["type"] = kind
			resp["formatted"] = utils.FormatCPFCNPJ(value)
		}
		c.JSON(http.StatusOK, resp)
	}
}
