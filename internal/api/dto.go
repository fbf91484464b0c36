package api

import (
	"github.com/AgentTarik/payments-dashboard/internal/checkout"
	"github.com/AgentTarik/payments-dashboard/internal/transaction"
	"github.com/AgentTarik/payments-dashboard/internal/view"
)

// Shell is the data every page passes to layout.html.
type Shell struct {
	Title string
	Nav   string // dashboard | checkout
}

type FilterLink struct {
	Value  view.Filter
	Label  string
	Active bool
}

var filterLabels = map[view.Filter]string{
	view.FilterAll:       "All",
	view.FilterCompleted: "Approved",
	view.FilterFailed:    "Failed",
	view.FilterPending:   "Pending",
}

type DashboardPage struct {
	Shell
	Phase   string
	Error   string
	Filter  view.Filter
	Filters []FilterLink
	Page    view.Page
}

// CheckoutPage re-renders the form with the submitted values. Errors maps a
// field name to its message; Notice is the submission failure banner.
type CheckoutPage struct {
	Shell
	Form       checkout.Form
	Errors     map[string]string
	Notice     string
	Currencies []transaction.Currency
}

// Err returns the message for one field, "" when it is valid.
func (p CheckoutPage) Err(field string) string { return p.Errors[field] }

type DetailPage struct {
	Shell
	Phase       string
	Error       string
	Transaction *transaction.Transaction
	Badge       transaction.Badge
}
