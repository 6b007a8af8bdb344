package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/theirongolddev/rentroll/internal/calendar"
)

// TargetType is the assumption slot. A target holds at most one assumption
// per slot. Renewal and re-lease share the Renewal slot.
type TargetType string

const (
	TargetVacancy         TargetType = "Vacancy"
	TargetRenewal         TargetType = "Renewal"
	TargetRiskTermination TargetType = "RiskTermination"
	TargetExisting        TargetType = "Existing"
)

// AssumptionKind identifies the variant behind an Assumption.
type AssumptionKind string

const (
	KindVacancy         AssumptionKind = "Vacancy"
	KindRenewal         AssumptionKind = "Renewal"
	KindReLease         AssumptionKind = "ReLease"
	KindRiskTermination AssumptionKind = "RiskTermination"
	KindExisting        AssumptionKind = "Existing"
	KindUnknown         AssumptionKind = "Unknown"
)

// Assumption is a forward-looking statement about one unit or contract.
// The concrete types are VacancyAssumption, RenewalAssumption,
// ReLeaseAssumption, RiskTerminationAssumption and ExistingAssumption;
// UnknownAssumption holds records of a target type this version does not
// read.
type Assumption interface {
	Base() AssumptionBase
	Kind() AssumptionKind
	Slot() TargetType
	isAssumption()
}

// AssumptionBase identifies the target of an assumption.
type AssumptionBase struct {
	ID         string
	TargetID   string
	TargetName string
}

// Projection describes a future contract: when it is signed, its daily
// unit price and the rent-free months at its head.
type Projection struct {
	SignDate       calendar.Date
	UnitPrice      float64
	RentFreeMonths int
}

// VacancyAssumption projects a new lease on a vacant unit.
type VacancyAssumption struct {
	AssumptionBase
	Projection
}

// RenewalAssumption projects the current tenant renewing at expiry.
type RenewalAssumption struct {
	AssumptionBase
	Projection
}

// ReLeaseAssumption projects the tenant leaving at expiry and the space
// being re-let after GapMonths.
type ReLeaseAssumption struct {
	AssumptionBase
	Projection
	GapMonths int
}

// RiskTerminationAssumption projects an at-risk tenant leaving early on
// TerminationDate and the space being re-let after GapMonths.
type RiskTerminationAssumption struct {
	AssumptionBase
	Projection
	TerminationDate calendar.Date
	GapMonths       int
}

// ExistingAssumption carries overrides for a running contract.
type ExistingAssumption struct {
	AssumptionBase
	PriceAdjustment *PriceAdjustment
	PaymentShift    *PaymentShift
}

// PriceAdjustment re-prices a contract from Start (and until End when set).
type PriceAdjustment struct {
	NewUnitPrice float64
	Start        calendar.Date
	End          calendar.Date
}

// PaymentShift moves Amount from one month's receivable to another.
type PaymentShift struct {
	Active bool
	From   calendar.YearMonth
	To     calendar.YearMonth
	Amount float64
}

// UnknownAssumption is a stored record with an unrecognised target type.
// It fills no slot the engine reads and is written back exactly as read.
type UnknownAssumption struct {
	AssumptionBase
	TargetType TargetType
	raw        json.RawMessage
}

func (a VacancyAssumption) Base() AssumptionBase         { return a.AssumptionBase }
func (a RenewalAssumption) Base() AssumptionBase         { return a.AssumptionBase }
func (a ReLeaseAssumption) Base() AssumptionBase         { return a.AssumptionBase }
func (a RiskTerminationAssumption) Base() AssumptionBase { return a.AssumptionBase }
func (a ExistingAssumption) Base() AssumptionBase        { return a.AssumptionBase }
func (a UnknownAssumption) Base() AssumptionBase         { return a.AssumptionBase }

func (VacancyAssumption) Kind() AssumptionKind         { return KindVacancy }
func (RenewalAssumption) Kind() AssumptionKind         { return KindRenewal }
func (ReLeaseAssumption) Kind() AssumptionKind         { return KindReLease }
func (RiskTerminationAssumption) Kind() AssumptionKind { return KindRiskTermination }
func (ExistingAssumption) Kind() AssumptionKind        { return KindExisting }
func (UnknownAssumption) Kind() AssumptionKind         { return KindUnknown }

func (VacancyAssumption) Slot() TargetType         { return TargetVacancy }
func (RenewalAssumption) Slot() TargetType         { return TargetRenewal }
func (ReLeaseAssumption) Slot() TargetType         { return TargetRenewal }
func (RiskTerminationAssumption) Slot() TargetType { return TargetRiskTermination }
func (ExistingAssumption) Slot() TargetType        { return TargetExisting }
func (a UnknownAssumption) Slot() TargetType       { return a.TargetType }

func (VacancyAssumption) isAssumption()         {}
func (RenewalAssumption) isAssumption()         {}
func (ReLeaseAssumption) isAssumption()         {}
func (RiskTerminationAssumption) isAssumption() {}
func (ExistingAssumption) isAssumption()        {}
func (UnknownAssumption) isAssumption()         {}

// DefaultAssumption is what an unset slot reads as: signing on January 1st
// of year at 2.5 per square metre per day, one rent-free month and a two
// month gap before re-letting.
func DefaultAssumption(slot TargetType, targetID, targetName string, year int) Assumption {
	base := AssumptionBase{
		ID:         fmt.Sprintf("budget_%s_%s", targetID, slot),
		TargetID:   targetID,
		TargetName: targetName,
	}
	proj := Projection{
		SignDate:       calendar.DateOf(calendar.YearStart(year)),
		UnitPrice:      2.5,
		RentFreeMonths: 1,
	}
	switch slot {
	case TargetVacancy:
		return VacancyAssumption{AssumptionBase: base, Projection: proj}
	case TargetRiskTermination:
		return RiskTerminationAssumption{AssumptionBase: base, Projection: proj, GapMonths: 2}
	case TargetExisting:
		return ExistingAssumption{AssumptionBase: base}
	}
	return RenewalAssumption{AssumptionBase: base, Projection: proj}
}

// AssumptionList is the ordered set of assumptions in a document or
// scenario. It is decoded from, and encoded to, the flat JSON records the
// data file stores.
type AssumptionList []Assumption

// Find returns the assumption in slot for targetID.
func (l AssumptionList) Find(targetID string, slot TargetType) (Assumption, bool) {
	for _, a := range l {
		if a.Base().TargetID == targetID && a.Slot() == slot {
			return a, true
		}
	}
	return nil, false
}

// Existing returns the running-contract overrides for targetID, if any.
func (l AssumptionList) Existing(targetID string) (ExistingAssumption, bool) {
	a, ok := l.Find(targetID, TargetExisting)
	if !ok {
		return ExistingAssumption{}, false
	}
	e, ok := a.(ExistingAssumption)
	return e, ok
}

// Upsert returns a new list where a replaces any assumption in the same
// slot for the same target. The newest write is appended last.
func (l AssumptionList) Upsert(a Assumption) AssumptionList {
	out := make(AssumptionList, 0, len(l)+1)
	for _, x := range l {
		if x.Base().TargetID == a.Base().TargetID && x.Slot() == a.Slot() {
			continue
		}
		out = append(out, x)
	}
	return append(out, a)
}

// Clone copies the list, including the price adjustment and payment shift
// an ExistingAssumption points to.
func (l AssumptionList) Clone() AssumptionList {
	out := make(AssumptionList, len(l))
	for i, a := range l {
		switch v := a.(type) {
		case ExistingAssumption:
			if v.PriceAdjustment != nil {
				pa := *v.PriceAdjustment
				v.PriceAdjustment = &pa
			}
			if v.PaymentShift != nil {
				ps := *v.PaymentShift
				v.PaymentShift = &ps
			}
			out[i] = v
		case UnknownAssumption:
			v.raw = bytes.Clone(v.raw)
			out[i] = v
		default:
			out[i] = a
		}
	}
	return out
}

// Unknown lists the records with an unrecognised target type.
func (l AssumptionList) Unknown() []UnknownAssumption {
	var out []UnknownAssumption
	for _, a := range l {
		if u, ok := a.(UnknownAssumption); ok {
			out = append(out, u)
		}
	}
	return out
}

type priceAdjustmentRecord struct {
	NewUnitPrice float64       `json:"newUnitPrice"`
	StartDate    calendar.Date `json:"startDate"`
	EndDate      calendar.Date `json:"endDate,omitempty"`
}

type paymentShiftRecord struct {
	IsActive  bool    `json:"isActive"`
	FromYear  int     `json:"fromYear"`
	FromMonth int     `json:"fromMonth"`
	ToYear    int     `json:"toYear"`
	ToMonth   int     `json:"toMonth"`
	Amount    float64 `json:"amount"`
}

// assumptionRecord is the flat on-disk shape: one record type whose
// meaningful fields depend on targetType and strategy. Months are zero-based.
type assumptionRecord struct {
	ID                       string                 `json:"id"`
	TargetType               TargetType             `json:"targetType"`
	TargetID                 string                 `json:"targetId"`
	TargetName               string                 `json:"targetName,omitempty"`
	Strategy                 string                 `json:"strategy,omitempty"`
	ProjectedSignDate        calendar.Date          `json:"projectedSignDate,omitempty"`
	ProjectedUnitPrice       float64                `json:"projectedUnitPrice,omitempty"`
	ProjectedRentFreeMonths  int                    `json:"projectedRentFreeMonths,omitempty"`
	VacancyGapMonths         int                    `json:"vacancyGapMonths,omitempty"`
	ProjectedTerminationDate calendar.Date          `json:"projectedTerminationDate,omitempty"`
	PriceAdjustment          *priceAdjustmentRecord `json:"priceAdjustment,omitempty"`
	PaymentShift             *paymentShiftRecord    `json:"paymentShift,omitempty"`
}

func (r assumptionRecord) decode(raw json.RawMessage) Assumption {
	base := AssumptionBase{ID: r.ID, TargetID: r.TargetID, TargetName: r.TargetName}
	if base.ID == "" {
		base.ID = fmt.Sprintf("budget_%s_%s", r.TargetID, r.TargetType)
	}
	proj := Projection{
		SignDate:       r.ProjectedSignDate,
		UnitPrice:      r.ProjectedUnitPrice,
		RentFreeMonths: r.ProjectedRentFreeMonths,
	}
	switch r.TargetType {
	case TargetVacancy:
		return VacancyAssumption{AssumptionBase: base, Projection: proj}
	case TargetRenewal:
		if r.Strategy == string(KindReLease) {
			return ReLeaseAssumption{AssumptionBase: base, Projection: proj, GapMonths: r.VacancyGapMonths}
		}
		return RenewalAssumption{AssumptionBase: base, Projection: proj}
	case TargetRiskTermination:
		return RiskTerminationAssumption{
			AssumptionBase:  base,
			Projection:      proj,
			TerminationDate: r.ProjectedTerminationDate,
			GapMonths:       r.VacancyGapMonths,
		}
	case TargetExisting:
		e := ExistingAssumption{AssumptionBase: base}
		if pa := r.PriceAdjustment; pa != nil {
			e.PriceAdjustment = &PriceAdjustment{NewUnitPrice: pa.NewUnitPrice, Start: pa.StartDate, End: pa.EndDate}
		}
		if ps := r.PaymentShift; ps != nil {
			e.PaymentShift = &PaymentShift{
				Active: ps.IsActive,
				From:   calendar.FromIndex(ps.FromYear, ps.FromMonth),
				To:     calendar.FromIndex(ps.ToYear, ps.ToMonth),
				Amount: ps.Amount,
			}
		}
		return e
	}
	return UnknownAssumption{AssumptionBase: base, TargetType: r.TargetType, raw: raw}
}

func encodeAssumption(a Assumption) assumptionRecord {
	b := a.Base()
	r := assumptionRecord{ID: b.ID, TargetType: a.Slot(), TargetID: b.TargetID, TargetName: b.TargetName}
	setProjection := func(p Projection) {
		r.ProjectedSignDate = p.SignDate
		r.ProjectedUnitPrice = p.UnitPrice
		r.ProjectedRentFreeMonths = p.RentFreeMonths
	}
	switch v := a.(type) {
	case VacancyAssumption:
		setProjection(v.Projection)
	case RenewalAssumption:
		setProjection(v.Projection)
		r.Strategy = string(KindRenewal)
	case ReLeaseAssumption:
		setProjection(v.Projection)
		r.Strategy = string(KindReLease)
		r.VacancyGapMonths = v.GapMonths
	case RiskTerminationAssumption:
		setProjection(v.Projection)
		r.ProjectedTerminationDate = v.TerminationDate
		r.VacancyGapMonths = v.GapMonths
	case ExistingAssumption:
		if pa := v.PriceAdjustment; pa != nil {
			r.PriceAdjustment = &priceAdjustmentRecord{NewUnitPrice: pa.NewUnitPrice, StartDate: pa.Start, EndDate: pa.End}
		}
		if ps := v.PaymentShift; ps != nil {
			r.PaymentShift = &paymentShiftRecord{
				IsActive:  ps.Active,
				FromYear:  ps.From.Year,
				FromMonth: ps.From.Index(),
				ToYear:    ps.To.Year,
				ToMonth:   ps.To.Index(),
				Amount:    ps.Amount,
			}
		}
	}
	return r
}

// MarshalJSON implements json.Marshaler.
func (l AssumptionList) MarshalJSON() ([]byte, error) {
	recs := make([]any, 0, len(l))
	for _, a := range l {
		if u, ok := a.(UnknownAssumption); ok && len(u.raw) > 0 {
			recs = append(recs, u.raw)
			continue
		}
		recs = append(recs, encodeAssumption(a))
	}
	return json.Marshal(recs)
}

// UnmarshalJSON implements json.Unmarshaler. A record with an unknown
// target type decodes to an UnknownAssumption instead of failing the list.
func (l *AssumptionList) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return err
	}
	out := make(AssumptionList, 0, len(raws))
	for i, raw := range raws {
		var r assumptionRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			return fmt.Errorf("assumption %d: %w", i, err)
		}
		out = append(out, r.decode(raw))
	}
	*l = out
	return nil
}
