package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/sielsystems/acumulus/internal/clock"
	"github.com/sielsystems/acumulus/internal/completion/service"
	"github.com/sielsystems/acumulus/internal/config"
	taxrepairservice "github.com/sielsystems/acumulus/internal/taxrepair/service"
	vatratedomain "github.com/sielsystems/acumulus/internal/vatrate/domain"
	vatrateservice "github.com/sielsystems/acumulus/internal/vatrate/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeVatRateRepo struct {
	created []*vatratedomain.VatRate
}

func (f *fakeVatRateRepo) FindEffective(ctx context.Context, countryCode string, at time.Time) ([]vatratedomain.VatRate, error) {
	_ = ctx
	_ = countryCode
	_ = at
	return nil, nil
}

func (f *fakeVatRateRepo) Create(ctx context.Context, rate *vatratedomain.VatRate) error {
	_ = ctx
	if err := rate.Validate(); err != nil {
		return err
	}
	f.created = append(f.created, rate)
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakeVatRateRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	holder := config.NewStaticSettingsHolder(config.DefaultSettings())
	rates := vatrateservice.NewStaticProvider(map[string][]float64{
		"nl": {21, 6, 0},
	})
	engine := taxrepairservice.NewEngine(taxrepairservice.EngineParam{
		Log:      log,
		Rates:    rates,
		Settings: holder,
	})
	pipeline := service.NewPipeline(service.PipelineParam{
		Log:      log,
		Settings: holder,
		Rates:    rates,
		Engine:   engine,
	})

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	repo := &fakeVatRateRepo{}
	srv := NewServer(ServerParams{
		Gin:           NewEngine(),
		Cfg:           config.Config{HTTPAddr: ":0"},
		Log:           log,
		Clock:         clock.NewFakeClock(time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC)),
		GenID:         node,
		CompletionSvc: pipeline,
		VatRateRepo:   repo,
		VatRates:      rates,
	})
	return srv, repo
}

func TestCompleteInvoice_HappyPath(t *testing.T) {
	srv, _ := newTestServer(t)

	price := 10.00
	vat := 2.10
	body, err := json.Marshal(CompleteInvoiceRequest{
		IssueDate:            "2017-06-01",
		ShopInvoiceReference: "INV-1042",
		Customer:             &CustomerRequest{CountryCode: "NL"},
		Lines: []LineRequest{{
			Product:   "standard rated item",
			UnitPrice: &price,
			VatAmount: &vat,
		}},
	})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/complete", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data CompleteInvoiceResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "1042", resp.Data.Number)
	assert.False(t, resp.Data.Concept)
	assert.Equal(t, "nl", resp.Data.CountryCode)
	if assert.Len(t, resp.Data.Lines, 1) {
		line := resp.Data.Lines[0]
		if assert.NotNil(t, line.VatRate) {
			assert.Equal(t, 21.0, *line.VatRate)
		}
		assert.Equal(t, "calculated", line.VatRateSource)
	}
	if assert.NotNil(t, resp.Data.Totals) {
		assert.InDelta(t, 10.00, resp.Data.Totals.AmountEx, 1e-9)
		assert.InDelta(t, 2.10, resp.Data.Totals.AmountVat, 1e-9)
	}
}

func TestCompleteInvoice_EscalatesToConcept(t *testing.T) {
	srv, _ := newTestServer(t)

	price := 12.50
	body, err := json.Marshal(CompleteInvoiceRequest{
		IssueDate: "2017-06-01",
		Lines: []LineRequest{{
			Product:   "mystery fee",
			UnitPrice: &price,
		}},
	})
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/complete", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data CompleteInvoiceResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Concept)
	assert.NotEmpty(t, resp.Data.Warnings)
}

func TestCompleteInvoice_RejectsEmptyLines(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/complete",
		bytes.NewReader([]byte(`{"lines": []}`)))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompleteInvoice_RejectsBadDate(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/complete",
		bytes.NewReader([]byte(`{"issueDate":"01-06-2017","lines":[{"product":"x"}]}`)))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateVatRate_PersistsAndValidates(t *testing.T) {
	srv, repo := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/vat-rates",
		bytes.NewReader([]byte(`{"countryCode":"nl","kind":"standard","percentage":21,"effectiveFrom":"2012-10-01"}`)))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	if assert.Len(t, repo.created, 1) {
		assert.Equal(t, "nl", repo.created[0].CountryCode)
		assert.Equal(t, 21.0, repo.created[0].Percentage)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/vat-rates",
		bytes.NewReader([]byte(`{"countryCode":"nl","kind":"negative","percentage":-1,"effectiveFrom":"2012-10-01"}`)))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListVatRates_RequiresCountry(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/vat-rates", nil)
	srv.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/vat-rates?country=nl", nil)
	srv.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
