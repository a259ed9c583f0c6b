/*
Package report combines stored records into salary results.

PURPOSE:
  Bridges schedule records and the wage engine: selects the entries a
  query covers, stamps holiday facts from a calendar and runs
  wage.Calculate with the workplace's full history so weekly-rest sizing is
  correct for partial ranges.

USAGE:
  rep, err := report.Build(ctx, report.RangeInput{
      Workplaces: workplaces,
      Entries:    allEntries,
      Range:      rng,
      Calendar:   cal,
  })

SEE ALSO:
  - wage/salary.go: The aggregator
  - holiday: Calendar and annotation
*/
package report

import (
	"context"

	"github.com/warp/njob-manager/holiday"
	"github.com/warp/njob-manager/schedule"
	"github.com/warp/njob-manager/wage"
)

// WorkplaceReport is the salary of one workplace over a query.
type WorkplaceReport struct {
	Workplace  schedule.Workplace
	ShiftCount int
	Detail     wage.SalaryDetail
}

// ForWorkplace computes the salary of w for the entries matching f. History
// is every entry of w; entries of other workplaces are ignored.
func ForWorkplace(ctx context.Context, w schedule.Workplace, history []schedule.Entry, f schedule.Filter, cal holiday.Calendar) (WorkplaceReport, error) {
	f.WorkplaceID = w.ID

	var own []schedule.Entry
	var selected []int
	for _, e := range history {
		if e.WorkplaceID != w.ID {
			continue
		}
		if f.Match(e) {
			selected = append(selected, len(own))
		}
		own = append(own, e)
	}

	all, err := holiday.Annotate(ctx, cal, schedule.Shifts(own))
	if err != nil {
		return WorkplaceReport{}, err
	}
	shifts := make([]wage.Shift, len(selected))
	for i, idx := range selected {
		shifts[i] = all[idx]
	}

	return WorkplaceReport{
		Workplace:  w,
		ShiftCount: len(shifts),
		Detail: wage.Calculate(wage.SalaryInput{
			Shifts:  shifts,
			Config:  w.Pay,
			History: all,
		}),
	}, nil
}

// =============================================================================
// RANGE REPORT
// =============================================================================

// RangeInput is a multi-workplace query.
type RangeInput struct {
	Workplaces []schedule.Workplace
	Entries    []schedule.Entry // every entry of every workplace
	Range      schedule.Range
	Calendar   holiday.Calendar // nil means no holidays
}

// Report is the income of every workplace over a range.
type Report struct {
	Range        schedule.Range
	PerWorkplace []WorkplaceReport // workplaces with at least one shift, in input order
	TotalPay     wage.Money        // sum of take-home pay
	TotalHours   int               // sum of each workplace's floored hours
	TotalDays    int               // number of shifts
}

// Build computes the range report.
func Build(ctx context.Context, in RangeInput) (Report, error) {
	rep := Report{Range: in.Range}

	byWorkplace := make(map[string][]schedule.Entry)
	for _, e := range in.Entries {
		byWorkplace[e.WorkplaceID] = append(byWorkplace[e.WorkplaceID], e)
	}

	for _, w := range in.Workplaces {
		wr, err := ForWorkplace(ctx, w, byWorkplace[w.ID], in.Range.Filter(w.ID), in.Calendar)
		if err != nil {
			return Report{}, err
		}
		if wr.ShiftCount == 0 {
			continue
		}
		rep.PerWorkplace = append(rep.PerWorkplace, wr)
		rep.TotalPay += wr.Detail.TotalAfterTax
		rep.TotalHours += wr.Detail.TotalHours
		rep.TotalDays += wr.ShiftCount
	}
	return rep, nil
}
