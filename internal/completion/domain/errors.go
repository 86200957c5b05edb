package domain

import "errors"

var (
	ErrNilInvoice = errors.New("nil_invoice")
)
