package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	completiondomain "github.com/sielsystems/acumulus/internal/completion/domain"
	invoicedomain "github.com/sielsystems/acumulus/internal/invoice/domain"
	"github.com/sielsystems/acumulus/pkg/entity"
)

// CompleteInvoiceRequest is the raw invoice as a shop collector produced it.
// Numeric fields are pointers: absent means the shop does not know, which is
// exactly what the completors are for.
type CompleteInvoiceRequest struct {
	Customer             *CustomerRequest `json:"customer"`
	IssueDate            string           `json:"issueDate"`
	ShopInvoiceReference string           `json:"shopInvoiceReference"`
	ShopOrderReference   string           `json:"shopOrderReference"`
	ShopTaxLineTotals    []float64        `json:"shopTaxLineTotals"`
	Currency             *CurrencyRequest `json:"currency"`
	Lines                []LineRequest    `json:"lines" binding:"required,min=1"`
}

type CustomerRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	PostalCode  string `json:"postalCode"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

type CurrencyRequest struct {
	Code      string  `json:"code"`
	Rate      float64 `json:"rate"`
	DoConvert bool    `json:"doConvert"`
}

type LineRequest struct {
	ItemNumber string   `json:"itemNumber"`
	Product    string   `json:"product" binding:"required"`
	Nature     string   `json:"nature"`
	Quantity   *float64 `json:"quantity"`
	UnitPrice  *float64 `json:"unitPrice"`
	VatRate    *float64 `json:"vatRate"`
	CostPrice  *float64 `json:"costPrice"`

	UnitPriceInc *float64 `json:"unitPriceInc"`
	VatAmount    *float64 `json:"vatAmount"`

	PrecisionUnitPrice    *float64 `json:"precisionUnitPrice"`
	PrecisionUnitPriceInc *float64 `json:"precisionUnitPriceInc"`
	PrecisionVatAmount    *float64 `json:"precisionVatAmount"`
}

type CompleteInvoiceResponse struct {
	Number         string       `json:"number,omitempty"`
	Concept        bool         `json:"concept"`
	CountryCode    string       `json:"countryCode"`
	Customer       CustomerView `json:"customer"`
	Lines          []LineView   `json:"lines"`
	Totals         *TotalsView  `json:"totals,omitempty"`
	Warnings       []string     `json:"warnings,omitempty"`
	RepairStrategy string       `json:"repairStrategy,omitempty"`
}

type CustomerView struct {
	Type              int  `json:"type"`
	ContactStatus     int  `json:"contactStatus"`
	OverwriteIfExists bool `json:"overwriteIfExists"`
}

type LineView struct {
	Product       string   `json:"product"`
	Nature        string   `json:"nature,omitempty"`
	Quantity      float64  `json:"quantity"`
	UnitPrice     *float64 `json:"unitPrice,omitempty"`
	VatRate       *float64 `json:"vatRate,omitempty"`
	VatRateSource string   `json:"vatRateSource,omitempty"`
}

type TotalsView struct {
	AmountEx  float64 `json:"amountEx"`
	AmountVat float64 `json:"amountVat"`
	AmountInc float64 `json:"amountInc"`
}

func (s *Server) CompleteInvoice(c *gin.Context) {
	var req CompleteInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", "invalid_json", err.Error()))
		return
	}

	inv, err := buildInvoice(req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.completionSvc.Complete(c.Request.Context(), inv)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": buildResponse(result)})
}

func buildInvoice(req CompleteInvoiceRequest) (*invoicedomain.Invoice, error) {
	inv := invoicedomain.NewInvoice()

	if req.IssueDate != "" {
		date, err := time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			return nil, newValidationError("issueDate", "invalid_date", "expected YYYY-MM-DD")
		}
		inv.MustSet(invoicedomain.PropIssueDate, date)
	}
	if req.ShopInvoiceReference != "" {
		inv.Metadata().Set(invoicedomain.MetaShopInvoiceReference, req.ShopInvoiceReference)
	}
	if req.ShopOrderReference != "" {
		inv.Metadata().Set(invoicedomain.MetaShopOrderReference, req.ShopOrderReference)
	}
	for _, total := range req.ShopTaxLineTotals {
		inv.Metadata().Add(invoicedomain.MetaShopTaxLineTotals, total)
	}
	if req.Currency != nil {
		inv.SetCurrency(invoicedomain.Currency{
			Code:      req.Currency.Code,
			Rate:      req.Currency.Rate,
			DoConvert: req.Currency.DoConvert,
		})
	}

	if req.Customer != nil {
		if err := buildCustomer(inv.Customer, *req.Customer); err != nil {
			return nil, err
		}
	}

	for _, lr := range req.Lines {
		line, err := buildLine(lr)
		if err != nil {
			return nil, err
		}
		if err := line.Validate(); err != nil {
			return nil, newValidationError("lines", "invalid_line", err.Error())
		}
		inv.AddLine(line)
	}
	return inv, nil
}

func buildCustomer(cust *invoicedomain.Customer, req CustomerRequest) error {
	fields := []struct {
		obj   *entity.Object
		prop  string
		value string
	}{
		{cust.Object, invoicedomain.PropFullName, req.FullName},
		{cust.Object, invoicedomain.PropEmail, req.Email},
		{cust.MainAddress.Object, invoicedomain.PropCompanyName, req.CompanyName},
		{cust.MainAddress.Object, invoicedomain.PropAddress, req.Address},
		{cust.MainAddress.Object, invoicedomain.PropPostalCode, req.PostalCode},
		{cust.MainAddress.Object, invoicedomain.PropCity, req.City},
		{cust.MainAddress.Object, invoicedomain.PropCountryCode, req.CountryCode},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := f.obj.Set(f.prop, f.value); err != nil {
			return err
		}
	}
	return nil
}

func buildLine(req LineRequest) (*invoicedomain.Line, error) {
	line := invoicedomain.NewLine()
	if err := line.Set(invoicedomain.PropProduct, req.Product); err != nil {
		return nil, err
	}
	if req.ItemNumber != "" {
		if err := line.Set(invoicedomain.PropItemNumber, req.ItemNumber); err != nil {
			return nil, err
		}
	}
	if req.Nature != "" {
		if err := line.Set(invoicedomain.PropNature, req.Nature); err != nil {
			return nil, err
		}
	}
	if req.Quantity != nil {
		if err := line.Set(invoicedomain.PropQuantity, *req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil {
		if err := line.Set(invoicedomain.PropUnitPrice, *req.UnitPrice); err != nil {
			return nil, err
		}
	}
	if req.CostPrice != nil {
		if err := line.Set(invoicedomain.PropCostPrice, *req.CostPrice); err != nil {
			return nil, err
		}
	}
	if req.VatRate != nil {
		line.SetVatRate(*req.VatRate, invoicedomain.VatRateSourceExact)
	}

	meta := line.Metadata()
	if req.UnitPriceInc != nil {
		meta.Set(invoicedomain.MetaUnitPriceInc, *req.UnitPriceInc)
	}
	if req.VatAmount != nil {
		meta.Set(invoicedomain.MetaVatAmount, *req.VatAmount)
	}
	if req.PrecisionUnitPrice != nil {
		meta.Set(invoicedomain.MetaPrecisionUnitPrice, *req.PrecisionUnitPrice)
	}
	if req.PrecisionUnitPriceInc != nil {
		meta.Set(invoicedomain.MetaPrecisionUnitPriceInc, *req.PrecisionUnitPriceInc)
	}
	if req.PrecisionVatAmount != nil {
		meta.Set(invoicedomain.MetaPrecisionVatAmount, *req.PrecisionVatAmount)
	}
	return line, nil
}

func buildResponse(result *completiondomain.Result) CompleteInvoiceResponse {
	inv := result.Invoice

	resp := CompleteInvoiceResponse{
		CountryCode: inv.CountryCode(),
		Warnings:    result.Warnings,
	}
	resp.Number, _ = inv.GetString(invoicedomain.PropNumber)
	resp.Concept, _ = inv.GetBool(invoicedomain.PropConcept)
	if result.RepairRan {
		resp.RepairStrategy = result.RepairStrategy.String()
	}

	resp.Customer.Type, _ = inv.Customer.GetInt(invoicedomain.PropCustomerType)
	resp.Customer.ContactStatus, _ = inv.Customer.GetInt(invoicedomain.PropContactStatus)
	resp.Customer.OverwriteIfExists, _ = inv.Customer.GetBool(invoicedomain.PropOverwriteIfExists)

	for _, line := range inv.Lines() {
		view := LineView{Quantity: line.Quantity()}
		view.Product, _ = line.GetString(invoicedomain.PropProduct)
		view.Nature, _ = line.GetString(invoicedomain.PropNature)
		if price, ok := line.UnitPrice(); ok {
			view.UnitPrice = &price
		}
		if rate, ok := line.VatRate(); ok {
			view.VatRate = &rate
		}
		view.VatRateSource = string(line.VatRateSource())
		resp.Lines = append(resp.Lines, view)
	}

	if totals, ok := inv.Totals(); ok {
		resp.Totals = &TotalsView{
			AmountEx:  totals.AmountEx,
			AmountVat: totals.AmountVat,
			AmountInc: totals.AmountInc,
		}
	}
	return resp
}
