package sandbox

type CardRequest struct {
	Number   string `json:"number"    validate:"required,number,min=13,max=19"`
	ExpMonth string `json:"exp_month" validate:"required,number,min=1,max=2,month"`
	ExpYear  string `json:"exp_year"  validate:"required,number,len=4,not_past_year"`
	CVC      string `json:"cvc"       validate:"required,number,min=3,max=4"`
}

// CreateTransactionRequest is the body of POST /transactions.
type CreateTransactionRequest struct {
	Amount        float64     `json:"amount"         validate:"gt=0"`
	Currency      string      `json:"currency"       validate:"required,oneof=MXN USD"`
	CustomerEmail string      `json:"customer_email" validate:"required,email"`
	CustomerName  string      `json:"customer_name"  validate:"required,max=120"`
	Card          CardRequest `json:"card"           validate:"required"`
}

// Issue is one entry of a 422 detail list.
type Issue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type ErrorResponse struct {
	Detail any `json:"detail"`
}
