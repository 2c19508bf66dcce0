package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"orbita/backend/models"
)

var (
	ErrTaxInfoNotFound = errors.New("tax info not found")
	ErrTaxInfoExists   = errors.New("tax info already exists")
)

// PGTaxInfoStore persists the per-user fiscal record. Absence is reported as
// ErrTaxInfoNotFound so callers can distinguish "no record" from a failed
// lookup; the purchase gate depends on that distinction.
type PGTaxInfoStore struct{}

func (PGTaxInfoStore) Get(ctx context.Context, userID int64) (*models.TaxInfo, error) {
	var t models.TaxInfo
	err := Pool.QueryRow(ctx, `SELECT user_id, country, full_name, cpf_cnpj, postal_code, state, city_code, city, address, number, complement, neighborhood, nif, updated_at
FROM user_tax_info WHERE user_id=$1`, userID).
		Scan(&t.UserID, &t.Country, &t.FullName, &t.CpfCnpj, &t.PostalCode, &t.State, &t.CityCode, &t.City, &t.Address, &t.Number, &t.Complement, &t.Neighborhood, &t.NIF, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaxInfoNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (PGTaxInfoStore) Create(ctx context.Context, t *models.TaxInfo) error {
	_, err := Pool.Exec(ctx, `INSERT INTO user_tax_info(user_id, country, full_name, cpf_cnpj, postal_code, state, city_code, city, address, number, complement, neighborhood, nif)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		t.UserID, t.Country, t.FullName, t.CpfCnpj, t.PostalCode, t.State, t.CityCode, t.City, t.Address, t.Number, t.Complement, t.Neighborhood, t.NIF)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrTaxInfoExists
	}
	return err
}

func (PGTaxInfoStore) Update(ctx context.Context, t *models.TaxInfo) error {
	tag, err := Pool.Exec(ctx, `UPDATE user_tax_info SET country=$1, full_name=$2, cpf_cnpj=$3, postal_code=$4, state=$5, city_code=$6, city=$7, address=$8, number=$9, complement=$10, neighborhood=$11, nif=$12, updated_at=now()
WHERE user_id=$13`,
		t.Country, t.FullName, t.CpfCnpj, t.PostalCode, t.State, t.CityCode, t.City, t.Address, t.Number, t.Complement, t.Neighborhood, t.NIF, t.UserID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaxInfoNotFound
	}
	return nil
}
