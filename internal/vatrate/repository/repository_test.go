package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/sielsystems/acumulus/internal/vatrate/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (domain.Repository, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.VatRate{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	return NewRepository(RepositoryParam{DB: db}), node
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRepository_FindEffective_TemporalValidity(t *testing.T) {
	repo, node := setupRepo(t)
	ctx := context.Background()

	until := date(2018, 12, 31)
	seed := []domain.VatRate{
		{ID: node.Generate(), CountryCode: "nl", Kind: domain.KindStandard, Percentage: 21, EffectiveFrom: date(2012, 10, 1)},
		{ID: node.Generate(), CountryCode: "nl", Kind: domain.KindReduced, Percentage: 6, EffectiveFrom: date(1986, 10, 1), EffectiveTo: &until},
		{ID: node.Generate(), CountryCode: "nl", Kind: domain.KindReduced, Percentage: 9, EffectiveFrom: date(2019, 1, 1)},
		{ID: node.Generate(), CountryCode: "nl", Kind: domain.KindZero, Percentage: 0, EffectiveFrom: date(1986, 10, 1)},
		{ID: node.Generate(), CountryCode: "be", Kind: domain.KindStandard, Percentage: 21, EffectiveFrom: date(1996, 1, 1)},
	}
	for i := range seed {
		assert.NoError(t, repo.Create(ctx, &seed[i]))
	}

	// Before the 2019 change the reduced rate was 6.
	rates, err := repo.FindEffective(ctx, "nl", date(2017, 6, 1))
	assert.NoError(t, err)
	assert.Equal(t, []float64{21, 6, 0}, percentages(rates))

	// After it, 9.
	rates, err = repo.FindEffective(ctx, "NL", date(2020, 6, 1))
	assert.NoError(t, err)
	assert.Equal(t, []float64{21, 9, 0}, percentages(rates))

	// Other countries don't leak in.
	rates, err = repo.FindEffective(ctx, "be", date(2020, 6, 1))
	assert.NoError(t, err)
	assert.Equal(t, []float64{21}, percentages(rates))
}

func TestRepository_Create_Validates(t *testing.T) {
	repo, node := setupRepo(t)
	ctx := context.Background()

	err := repo.Create(ctx, &domain.VatRate{
		ID: node.Generate(), CountryCode: "", Kind: domain.KindStandard,
		Percentage: 21, EffectiveFrom: date(2012, 10, 1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCountry)

	err = repo.Create(ctx, &domain.VatRate{
		ID: node.Generate(), CountryCode: "nl", Kind: "luxury",
		Percentage: 21, EffectiveFrom: date(2012, 10, 1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	err = repo.Create(ctx, &domain.VatRate{
		ID: node.Generate(), CountryCode: "nl", Kind: domain.KindStandard,
		Percentage: 121, EffectiveFrom: date(2012, 10, 1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPercentage)
}

func percentages(rates []domain.VatRate) []float64 {
	out := make([]float64, 0, len(rates))
	for _, r := range rates {
		out = append(out, r.Percentage)
	}
	return out
}
