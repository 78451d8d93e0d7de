package domain

import "fmt"

// ComptageTable receives the inserted time ranges
const ComptageTable = "public.comptage"

// Report is a fixed, parameterless query rendered as a titled table
type Report struct {
	Label string
	Query string
}

var (
	ReportByDay   = Report{Label: "Jours", Query: "SELECT * FROM public.jours_v"}
	ReportByMonth = Report{Label: "Mois", Query: "SELECT * FROM public.mois"}
	ReportByWeek  = Report{Label: "Semaines", Query: "SELECT * FROM public.semaines"}
)

// Reports lists every report in display order
func Reports() []Report {
	return []Report{ReportByDay, ReportByMonth, ReportByWeek}
}

// ReportFor returns the report selected by an action
func ReportFor(a Action) (Report, bool) {
	switch a {
	case ActionByDay:
		return ReportByDay, true
	case ActionByMonth:
		return ReportByMonth, true
	case ActionByWeek:
		return ReportByWeek, true
	default:
		return Report{}, false
	}
}

// InsertStatement embeds hours verbatim in the VALUES clause.
// No quoting is applied: the caller passes SQL literals such as
// '2022-01-01 08:00', '2022-01-01 12:00'.
func InsertStatement(hours string) string {
	return fmt.Sprintf("INSERT INTO %s (deb,fin) VALUES (%s)", ComptageTable, hours)
}
