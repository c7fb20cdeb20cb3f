package gateway

// LineDetail is one client-supplied invoice line
type LineDetail struct {
	Description string  `json:"description"`
	TotalPrice  float64 `json:"totalPrice"`
	Product     string  `json:"product"`
	Qty         float64 `json:"qty"`
	UnitPrice   float64 `json:"unitPrice"`
}

// InvoiceRequest is the client-facing invoice creation payload. The
// values are passed through to QuickBooks unchecked; the API is the
// authority on what is valid.
type InvoiceRequest struct {
	ClientName     string       `json:"clientName"`
	ClientEmail    string       `json:"clientEmail"`
	InvoiceTotal   float64      `json:"invoiceTotal"`
	InvoiceDetails []LineDetail `json:"invoiceDetails"`
}

// The types below mirror the QuickBooks v3 Invoice resource, limited
// to the fields this service sends. Field casing follows the API.

// ItemRef names the product or service sold on a line
type ItemRef struct {
	Name string `json:"name"`
}

// SalesItemLineDetail carries the item, quantity and unit price of a
// sales line
type SalesItemLineDetail struct {
	ItemRef   ItemRef `json:"ItemRef"`
	Qty       float64 `json:"Qty"`
	UnitPrice float64 `json:"UnitPrice"`
}

// InvoiceLine is one line of a QuickBooks invoice
type InvoiceLine struct {
	Description         string              `json:"Description"`
	Amount              float64             `json:"Amount"`
	DetailType          string              `json:"DetailType"`
	SalesItemLineDetail SalesItemLineDetail `json:"SalesItemLineDetail"`
}

// CustomerRef identifies the invoiced customer
type CustomerRef struct {
	Name  string `json:"name"`
	Email string `json:"Email"`
}

// Invoice is the payload posted to the QuickBooks invoice endpoint
type Invoice struct {
	CustomerRef CustomerRef   `json:"CustomerRef"`
	Line        []InvoiceLine `json:"Line"`
	TotalAmt    float64       `json:"TotalAmt"`
}

// Invoice maps an InvoiceRequest into the QuickBooks schema. The
// mapping is order-preserving and performs no arithmetic: Amount is
// the supplied line total and TotalAmt the supplied invoice total,
// with no cross-check between them.
func (ir InvoiceRequest) Invoice() Invoice {
	lines := make([]InvoiceLine, 0, len(ir.InvoiceDetails))
	for _, d := range ir.InvoiceDetails {
		lines = append(lines, InvoiceLine{
			Description: d.Description,
			Amount:      d.TotalPrice,
			DetailType:  "SalesItemLineDetail",
			SalesItemLineDetail: SalesItemLineDetail{
				ItemRef:   ItemRef{Name: d.Product},
				Qty:       d.Qty,
				UnitPrice: d.UnitPrice,
			},
		})
	}
	return Invoice{
		CustomerRef: CustomerRef{Name: ir.ClientName, Email: ir.ClientEmail},
		Line:        lines,
		TotalAmt:    ir.InvoiceTotal,
	}
}
