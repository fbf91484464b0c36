package transaction

type Tone string

const (
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
	ToneWarning Tone = "warning"
)

// Badge is the visual indicator rendered next to a transaction status.
type Badge struct {
	Tone  Tone
	Label string
	Icon  string // empty when the tone has no icon
}

// BadgeFor maps a status to its badge. Anything that is not completed or
// failed is shown as pending.
func BadgeFor(s Status) Badge {
	switch s {
	case StatusCompleted:
		return Badge{Tone: ToneSuccess, Label: "Approved", Icon: "check-circle"}
	case StatusFailed:
		return Badge{Tone: ToneError, Label: "Failed", Icon: "x-circle"}
	default:
		return Badge{Tone: ToneWarning, Label: "Pending"}
	}
}
