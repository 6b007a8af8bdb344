package model

import (
	"encoding/json"
	"time"

	"github.com/theirongolddev/rentroll/internal/calendar"
)

// Adjustment relocates Amount of one tenant's receivable from the Original
// month to the Adjusted month.
type Adjustment struct {
	ID         string
	TenantID   string
	TenantName string
	Original   calendar.YearMonth
	Adjusted   calendar.YearMonth
	Amount     float64
	Reason     string
}

type adjustmentRecord struct {
	ID            string  `json:"id"`
	TenantID      string  `json:"tenantId"`
	TenantName    string  `json:"tenantName,omitempty"`
	OriginalYear  int     `json:"originalYear"`
	OriginalMonth int     `json:"originalMonth"`
	AdjustedYear  int     `json:"adjustedYear"`
	AdjustedMonth int     `json:"adjustedMonth"`
	Amount        float64 `json:"amount"`
	Reason        string  `json:"reason,omitempty"`
}

// MarshalJSON writes the zero-based month numbers the data file uses.
func (a Adjustment) MarshalJSON() ([]byte, error) {
	return json.Marshal(adjustmentRecord{
		ID:            a.ID,
		TenantID:      a.TenantID,
		TenantName:    a.TenantName,
		OriginalYear:  a.Original.Year,
		OriginalMonth: a.Original.Index(),
		AdjustedYear:  a.Adjusted.Year,
		AdjustedMonth: a.Adjusted.Index(),
		Amount:        a.Amount,
		Reason:        a.Reason,
	})
}

// UnmarshalJSON reads the zero-based month numbers the data file uses.
func (a *Adjustment) UnmarshalJSON(b []byte) error {
	var r adjustmentRecord
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	*a = Adjustment{
		ID:         r.ID,
		TenantID:   r.TenantID,
		TenantName: r.TenantName,
		Original:   calendar.FromIndex(r.OriginalYear, r.OriginalMonth),
		Adjusted:   calendar.FromIndex(r.AdjustedYear, r.AdjustedMonth),
		Amount:     r.Amount,
		Reason:     r.Reason,
	}
	return nil
}

// DeferReason labels adjustments created by deferring a month's bill.
const DeferReason = "Defer payment"

// BaseSnapshot freezes the leases and buildings a scenario was built on.
type BaseSnapshot struct {
	Tenants   []Tenant   `json:"tenants"`
	Buildings []Building `json:"buildings"`
}

// Scenario is a named, independently editable set of assumptions and
// adjustments, optionally pinned to a snapshot of the base data.
type Scenario struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	IsActive         bool           `json:"isActive"`
	Assumptions      AssumptionList `json:"assumptions"`
	Adjustments      []Adjustment   `json:"adjustments"`
	BaseDataSnapshot *BaseSnapshot  `json:"baseDataSnapshot,omitempty"`
}

// YearTarget is the revenue and occupancy goal for one year.
type YearTarget struct {
	Revenue   float64 `json:"revenue"`
	Occupancy float64 `json:"occupancy"`
}

// BudgetAnalysis stores the last narrative commentary per topic.
type BudgetAnalysis struct {
	Occupancy string `json:"occupancy"`
	Revenue   string `json:"revenue"`
	Execution string `json:"execution"`
}

// CloneAdjustments copies an adjustment list, never returning nil.
func CloneAdjustments(in []Adjustment) []Adjustment {
	out := make([]Adjustment, len(in))
	copy(out, in)
	return out
}
