package view

import "github.com/AgentTarik/payments-dashboard/internal/transaction"

// PageSize is the number of rows on one page of the transaction list.
const PageSize = 10

type Page struct {
	Items      []transaction.Transaction
	Number     int // 1-based
	TotalPages int
	Total      int
	HasPrev    bool
	HasNext    bool
}

// Paginate slices items into pages of size and returns the requested one.
// There is always at least one page; page is clamped to [1, TotalPages].
func Paginate(items []transaction.Transaction, page, size int) Page {
	if size <= 0 {
		size = PageSize
	}
	total := len(items)
	last := (total + size - 1) / size
	if last < 1 {
		last = 1
	}
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}

	return Page{
		Items:      items[start:end],
		Number:     page,
		TotalPages: last,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    page < last,
	}
}

// Pages lists 1..TotalPages for the pager links.
func (p Page) Pages() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func (p Page) Prev() int { return p.Number - 1 }
func (p Page) Next() int { return p.Number + 1 }
