// Package view holds the per-request state of the dashboard screens. A view is
// mounted once per page request, performs a single fetch and ends in either
// PhaseReady or PhaseError.
package view

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "loading"
	}
}
