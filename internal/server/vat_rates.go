package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	vatratedomain "github.com/sielsystems/acumulus/internal/vatrate/domain"
)

type CreateVatRateRequest struct {
	CountryCode   string  `json:"countryCode" binding:"required"`
	Kind          string  `json:"kind" binding:"required"`
	Percentage    float64 `json:"percentage"`
	EffectiveFrom string  `json:"effectiveFrom" binding:"required"`
	EffectiveTo   string  `json:"effectiveTo"`
}

func (s *Server) ListVatRates(c *gin.Context) {
	country := strings.TrimSpace(c.Query("country"))
	if country == "" {
		AbortWithError(c, newValidationError("country", "invalid_country", "invalid country"))
		return
	}

	at := s.clk.Now()
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			AbortWithError(c, newValidationError("date", "invalid_date", "expected YYYY-MM-DD"))
			return
		}
		at = parsed
	}

	rates, err := s.vatRates.VatRates(c.Request.Context(), country, at)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rates})
}

func (s *Server) CreateVatRate(c *gin.Context) {
	var req CreateVatRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_json", err.Error()))
		return
	}

	from, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		AbortWithError(c, newValidationError("effectiveFrom", "invalid_date", "expected YYYY-MM-DD"))
		return
	}
	rate := &vatratedomain.VatRate{
		ID:            s.genID.Generate(),
		CountryCode:   req.CountryCode,
		Kind:          req.Kind,
		Percentage:    req.Percentage,
		EffectiveFrom: from,
	}
	if req.EffectiveTo != "" {
		to, err := time.Parse("2006-01-02", req.EffectiveTo)
		if err != nil {
			AbortWithError(c, newValidationError("effectiveTo", "invalid_date", "expected YYYY-MM-DD"))
			return
		}
		rate.EffectiveTo = &to
	}

	if err := s.vatRateRepo.Create(c.Request.Context(), rate); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": rate})
}
