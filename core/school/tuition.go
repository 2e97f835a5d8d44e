package school

import "github.com/gestionschool/gestionecole/core/record"

const monthsPerYear = 12.0

// DeriveMonthlyAmount sets MonthlyAmount to AnnualAmount / 12 when an annual amount is given,
// overwriting whatever monthly amount the caller sent.
func DeriveMonthlyAmount(tr *TuitionRecord) {
	if tr.AnnualAmount == nil {
		return
	}
	monthly := *tr.AnnualAmount / monthsPerYear
	tr.MonthlyAmount = &monthly
}

func NewTuitionService(repo record.Repository[TuitionRecord]) *record.Service[TuitionRecord] {
	svc := record.NewService(repo, TuitionRecordSchema)
	svc.BeforeSave = DeriveMonthlyAmount
	return svc
}
