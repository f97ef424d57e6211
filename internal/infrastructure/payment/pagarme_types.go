package payment

// Pagarme transaction statuses
const (
	pagarmeStatusPaid           = "paid"
	pagarmeStatusWaitingPayment = "waiting_payment"
	pagarmeStatusRefused        = "refused"
	pagarmeStatusRefunded       = "refunded"
)

// pagarmeCustomer is the customer object attached to a transaction
type pagarmeCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// pagarmeTransactionRequest is the POST /transactions payload.
// Amount is in cents.
type pagarmeTransactionRequest struct {
	APIKey             string           `json:"api_key"`
	Amount             int64            `json:"amount"`
	PaymentMethod      string           `json:"payment_method"`
	Customer           *pagarmeCustomer `json:"customer,omitempty"`
	CardNumber         string           `json:"card_number,omitempty"`
	CardHolderName     string           `json:"card_holder_name,omitempty"`
	CardExpirationDate string           `json:"card_expiration_date,omitempty"`
	CardCVV            string           `json:"card_cvv,omitempty"`
}

// pagarmeTransactionResponse is the subset of the transaction object we
// consume
type pagarmeTransactionResponse struct {
	TID           int64  `json:"tid"`
	Status        string `json:"status"`
	RefuseReason  string `json:"refuse_reason"`
	BoletoURL     string `json:"boleto_url"`
	BoletoBarcode string `json:"boleto_barcode"`
}

// pagarmeRefundRequest is the POST /transactions/:id/refund payload
type pagarmeRefundRequest struct {
	APIKey string `json:"api_key"`
}

// pagarmeErrorResponse is Pagarme's error envelope
type pagarmeErrorResponse struct {
	Errors []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors"`
}
