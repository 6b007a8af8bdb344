package billing

import (
	"time"

	"github.com/theirongolddev/rentroll/internal/calendar"
	"github.com/theirongolddev/rentroll/internal/model"
)

// Statuses labels each month of year for the contract: Active when the
// month overlaps the contract, RentFree when rent-free days in the month
// exceed calendar.RentFreeDisplayThreshold, Vacant otherwise. Labels are
// for display only and never change amounts.
func Statuses(c Contract, year int) [12]model.MonthStatus {
	var out [12]model.MonthStatus
	for i := range out {
		month := calendar.MonthPeriod(year, time.Month(i+1))
		switch {
		case c.Start.IsZero() || month.Overlap(c.Start, c.End) == 0:
			out[i] = model.MonthVacant
		case calendar.IsRentFreeMonth(month, c.RentFree):
			out[i] = model.MonthRentFree
		default:
			out[i] = model.MonthActive
		}
	}
	return out
}

// VacantStatuses is a year with nothing let.
func VacantStatuses() [12]model.MonthStatus {
	var out [12]model.MonthStatus
	for i := range out {
		out[i] = model.MonthVacant
	}
	return out
}

// Slots combines bill amounts and status labels into a year view.
func Slots(bills []Bill, statuses [12]model.MonthStatus, year int) [12]model.MonthSlot {
	amounts := ByMonth(bills, year)
	var out [12]model.MonthSlot
	for i := range out {
		out[i] = model.MonthSlot{Amount: amounts[i], Status: statuses[i]}
	}
	return out
}

// Timeline generates the contract's bills and lays them out over year.
func Timeline(c Contract, year int, conv Conventions) [12]model.MonthSlot {
	s := Generate(c, calendar.YearEnd(year), conv)
	return Slots(s.Bills, Statuses(c, year), year)
}
