package domain

// Action is the single operation an invocation performs
type Action int

const (
	ActionNone Action = iota
	ActionInsert
	ActionByDay
	ActionByMonth
	ActionByWeek
	ActionBrowse
	ActionInit
)

// String returns the action name
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionInsert:
		return "insert"
	case ActionByDay:
		return "by-day"
	case ActionByMonth:
		return "by-month"
	case ActionByWeek:
		return "by-week"
	case ActionBrowse:
		return "browse"
	case ActionInit:
		return "init"
	default:
		return "unknown"
	}
}

