package view

import (
	"context"
	"strings"

	"github.com/AgentTarik/payments-dashboard/internal/transaction"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = Filter(transaction.StatusCompleted)
	FilterFailed    Filter = Filter(transaction.StatusFailed)
	FilterPending   Filter = Filter(transaction.StatusPending)
)

// Filters in the order the selector shows them.
var Filters = []Filter{FilterAll, FilterCompleted, FilterFailed, FilterPending}

// ParseFilter maps a query value to a Filter. Anything unknown is FilterAll.
func ParseFilter(s string) Filter {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Filters {
		if f == known {
			return f
		}
	}
	return FilterAll
}

// FilterByStatus keeps the rows whose status equals f, in their original order.
func FilterByStatus(txs []transaction.Transaction, f Filter) []transaction.Transaction {
	f = ParseFilter(string(f))
	if f == FilterAll {
		return txs
	}
	out := make([]transaction.Transaction, 0, len(txs))
	for _, tx := range txs {
		if Filter(tx.Status) == f {
			out = append(out, tx)
		}
	}
	return out
}

type ListFetcher func(ctx context.Context) ([]transaction.Transaction, error)

// ListView is the transaction list screen. Filtering and pagination are
// derived locally from the single fetched list.
type ListView struct {
	Phase        Phase
	Err          error
	Transactions []transaction.Transaction
	Filter       Filter
	Page         int
}

func NewListView() *ListView {
	return &ListView{Phase: PhaseLoading, Filter: FilterAll, Page: 1}
}

// Load performs the view's one fetch.
func (v *ListView) Load(ctx context.Context, fetch ListFetcher) {
	v.Phase = PhaseLoading
	txs, err := fetch(ctx)
	if err != nil {
		v.Phase = PhaseError
		v.Err = err
		v.Transactions = nil
		return
	}
	v.Transactions = txs
	v.Err = nil
	v.Phase = PhaseReady
}

// SetFilter changes the status filter and goes back to the first page.
func (v *ListView) SetFilter(f Filter) {
	v.Filter = ParseFilter(string(f))
	v.Page = 1
}

func (v *ListView) SetPage(n int) { v.Page = n }

func (v *ListView) Filtered() []transaction.Transaction {
	return FilterByStatus(v.Transactions, v.Filter)
}

func (v *ListView) Current() Page {
	return Paginate(v.Filtered(), v.Page, PageSize)
}

// Message is the text shown in the error phase.
func (v *ListView) Message() string {
	if v.Err == nil {
		return ""
	}
	return v.Err.Error()
}
