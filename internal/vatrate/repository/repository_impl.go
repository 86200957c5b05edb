package repository

import (
	"context"
	"strings"
	"time"

	"github.com/sielsystems/acumulus/internal/vatrate/domain"
	"github.com/sielsystems/acumulus/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

type RepositoryParam struct {
	fx.In

	DB *gorm.DB
}

func NewRepository(p RepositoryParam) domain.Repository {
	return &repository{db: p.DB}
}

func (r *repository) FindEffective(ctx context.Context, countryCode string, at time.Time) ([]domain.VatRate, error) {
	var rates []domain.VatRate
	err := r.db.WithContext(ctx).
		Where("country_code = ?", strings.ToLower(countryCode)).
		Where("effective_from <= ?", at).
		Where("effective_to IS NULL OR effective_to >= ?", at).
		Order("percentage DESC").
		Find(&rates).Error
	return rates, err
}

func (r *repository) Create(ctx context.Context, rate *domain.VatRate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	rate.CountryCode = strings.ToLower(rate.CountryCode)
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}
