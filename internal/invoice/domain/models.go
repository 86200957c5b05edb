// Package domain contains the Acumulus business objects the completion
// pipeline operates on: an invoice with its customer and lines. All of them
// are schema-validated property bags; collectors fill what the shop knows,
// completors fill the rest.
package domain

import (
	"strings"
	"time"

	"github.com/sielsystems/acumulus/pkg/entity"
)

// Property names shared by the object schemas.
const (
	PropConcept   = "concept"
	PropNumber    = "number"
	PropIssueDate = "issueDate"

	PropItemNumber = "itemNumber"
	PropProduct    = "product"
	PropUnitPrice  = "unitPrice"
	PropVatRate    = "vatRate"
	PropQuantity   = "quantity"
	PropCostPrice  = "costPrice"
	PropNature     = "nature"

	PropCustomerType      = "type"
	PropContactStatus     = "contactStatus"
	PropOverwriteIfExists = "overwriteIfExists"
	PropFullName          = "fullName"
	PropEmail             = "email"

	PropCompanyName = "companyName"
	PropAddress     = "address"
	PropPostalCode  = "postalCode"
	PropCity        = "city"
	PropCountryCode = "countryCode"
)

// Nature values for invoice lines.
const (
	NatureProduct = "Product"
	NatureService = "Service"
)

var (
	invoiceSchema = entity.NewSchema(
		entity.PropertySpec{Name: PropConcept, Kind: entity.KindBool},
		entity.PropertySpec{Name: PropNumber, Kind: entity.KindString},
		entity.PropertySpec{Name: PropIssueDate, Kind: entity.KindDate},
	)

	lineSchema = entity.NewSchema(
		entity.PropertySpec{Name: PropItemNumber, Kind: entity.KindString},
		entity.PropertySpec{Name: PropProduct, Kind: entity.KindString, Required: true},
		entity.PropertySpec{Name: PropUnitPrice, Kind: entity.KindFloat},
		entity.PropertySpec{Name: PropVatRate, Kind: entity.KindFloat},
		entity.PropertySpec{Name: PropQuantity, Kind: entity.KindFloat},
		entity.PropertySpec{Name: PropCostPrice, Kind: entity.KindFloat},
		entity.PropertySpec{Name: PropNature, Kind: entity.KindString,
			Allowed: []any{NatureProduct, NatureService}},
	)

	customerSchema = entity.NewSchema(
		entity.PropertySpec{Name: PropCustomerType, Kind: entity.KindInt, Allowed: []any{1, 2, 3}},
		entity.PropertySpec{Name: PropContactStatus, Kind: entity.KindInt, Allowed: []any{0, 1}},
		entity.PropertySpec{Name: PropOverwriteIfExists, Kind: entity.KindBool},
		entity.PropertySpec{Name: PropFullName, Kind: entity.KindString},
		entity.PropertySpec{Name: PropEmail, Kind: entity.KindString},
	)

	addressSchema = entity.NewSchema(
		entity.PropertySpec{Name: PropCompanyName, Kind: entity.KindString},
		entity.PropertySpec{Name: PropAddress, Kind: entity.KindString},
		entity.PropertySpec{Name: PropPostalCode, Kind: entity.KindString},
		entity.PropertySpec{Name: PropCity, Kind: entity.KindString},
		entity.PropertySpec{Name: PropCountryCode, Kind: entity.KindString},
	)
)

// Address is a postal address of a customer.
type Address struct {
	*entity.Object
}

// NewAddress creates an empty address.
func NewAddress() *Address {
	return &Address{Object: entity.NewObject(addressSchema)}
}

// Customer is the invoice's debtor.
type Customer struct {
	*entity.Object
	MainAddress *Address
}

// NewCustomer creates an empty customer with an empty main address.
func NewCustomer() *Customer {
	return &Customer{
		Object:      entity.NewObject(customerSchema),
		MainAddress: NewAddress(),
	}
}

// Line is one invoice line: a product, shipping, a fee, a discount.
type Line struct {
	*entity.Object
}

// NewLine creates an empty line.
func NewLine() *Line {
	return &Line{Object: entity.NewObject(lineSchema)}
}

// UnitPrice returns the price excluding VAT, false when the shop did not
// supply one.
func (l *Line) UnitPrice() (float64, bool) {
	return l.GetFloat(PropUnitPrice)
}

// SetUnitPrice assigns the price excluding VAT.
func (l *Line) SetUnitPrice(v float64) {
	l.MustSet(PropUnitPrice, v)
}

// Quantity returns the line quantity, defaulting to 1 when unset.
func (l *Line) Quantity() float64 {
	if q, ok := l.GetFloat(PropQuantity); ok {
		return q
	}
	return 1
}

// VatRate returns the resolved VAT percentage, false while unresolved.
func (l *Line) VatRate() (float64, bool) {
	return l.GetFloat(PropVatRate)
}

// SetVatRate assigns the VAT percentage and records where it came from.
func (l *Line) SetVatRate(rate float64, source VatRateSource) {
	l.MustSet(PropVatRate, rate)
	l.Metadata().Set(MetaVatRateSource, string(source))
}

// VatRateSource returns the provenance tag of the line's VAT rate,
// VatRateSourceNone while nothing has touched the line.
func (l *Line) VatRateSource() VatRateSource {
	s, ok := l.Metadata().FirstString(MetaVatRateSource)
	if !ok {
		return VatRateSourceNone
	}
	return VatRateSource(s)
}

// CostPrice returns the purchase price, false when absent. A present cost
// price is what triggers margin-scheme handling.
func (l *Line) CostPrice() (float64, bool) {
	return l.GetFloat(PropCostPrice)
}

// Invoice is the root business object: one customer, ordered lines, and the
// invoice-level properties and metadata.
type Invoice struct {
	*entity.Object
	Customer *Customer

	lines []*Line
}

// NewInvoice creates an empty invoice with an empty customer.
func NewInvoice() *Invoice {
	return &Invoice{
		Object:   entity.NewObject(invoiceSchema),
		Customer: NewCustomer(),
	}
}

// AddLine appends a line; line order is billing order and never changes.
func (i *Invoice) AddLine(lines ...*Line) {
	i.lines = append(i.lines, lines...)
}

// Lines returns the lines in billing order.
func (i *Invoice) Lines() []*Line {
	return i.lines
}

// IssueDate returns the invoice date, falling back to today when the
// collector did not set one.
func (i *Invoice) IssueDate() time.Time {
	if d, ok := i.GetDate(PropIssueDate); ok {
		return d
	}
	return time.Now().UTC()
}

// CountryCode returns the customer's country in lower case, defaulting to
// the Netherlands, Acumulus' home market.
func (i *Invoice) CountryCode() string {
	if i.Customer != nil && i.Customer.MainAddress != nil {
		if cc, ok := i.Customer.MainAddress.GetString(PropCountryCode); ok && cc != "" {
			return strings.ToLower(cc)
		}
	}
	return "nl"
}
