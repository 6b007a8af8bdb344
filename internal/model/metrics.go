package model

// MonthStatus labels a month in a tenant's schedule.
type MonthStatus string

const (
	MonthActive   MonthStatus = "Active"
	MonthRentFree MonthStatus = "RentFree"
	MonthVacant   MonthStatus = "Vacant"
)

// Occupied reports whether the area counts as let in that month.
func (s MonthStatus) Occupied() bool {
	return s == MonthActive || s == MonthRentFree
}

// MonthSlot is one month of a per-year schedule.
type MonthSlot struct {
	Amount float64     `json:"amount"`
	Status MonthStatus `json:"status"`
}

// VacantYear returns twelve vacant, zero-amount slots.
func VacantYear() [12]MonthSlot {
	var y [12]MonthSlot
	for i := range y {
		y[i].Status = MonthVacant
	}
	return y
}

// MonthlyTrend holds the figures charted for one month.
type MonthlyTrend struct {
	Month            int     `json:"month"`
	Label            string  `json:"label"`
	OccupancyRate    float64 `json:"occupancyRate"`
	RevenueTarget    float64 `json:"revenueTarget"`
	RevenueCollected float64 `json:"revenueCollected"`
	AvgUnitPrice     float64 `json:"avgUnitPrice"`
}

// BillingStatus is the collection state of a month's bill.
type BillingStatus string

const (
	BillPaid    BillingStatus = "Paid"
	BillPartial BillingStatus = "Partial"
	BillUnpaid  BillingStatus = "Unpaid"
)

// BillingDetail compares one tenant's receivable and payments for a month.
type BillingDetail struct {
	TenantID   string        `json:"tenantId"`
	TenantName string        `json:"tenantName"`
	UnitIDs    []string      `json:"unitIds"`
	AmountDue  float64       `json:"amountDue"`
	AmountPaid float64       `json:"amountPaid"`
	Status     BillingStatus `json:"status"`
}

// Outstanding is what remains to collect, never negative.
func (b BillingDetail) Outstanding() float64 {
	if b.AmountPaid >= b.AmountDue {
		return 0
	}
	return b.AmountDue - b.AmountPaid
}

// ParkingDetail is one tenant's parking usage.
type ParkingDetail struct {
	TenantID      string `json:"tenantId"`
	TenantName    string `json:"tenantName"`
	ContractCount int    `json:"contractCount"`
	ActualCount   int    `json:"actualCount"`
}

// ParkingStats summarises parking across live leases.
type ParkingStats struct {
	TotalContractSpaces int             `json:"totalContractSpaces"`
	TotalActualSpaces   int             `json:"totalActualSpaces"`
	TotalRevenue        float64         `json:"totalMonthlyRevenue"`
	Details             []ParkingDetail `json:"details"`
}

// Dashboard is every figure derived from a Document for a reporting
// period. It is a cache: recompute, never edit.
type Dashboard struct {
	Year    int    `json:"year"`
	Quarter string `json:"quarter"`

	Buildings     []Building `json:"buildings"`
	TotalArea     float64    `json:"totalArea"`
	LeasedArea    float64    `json:"leasedArea"`
	OccupancyRate float64    `json:"occupancyRate"`

	AnnualRevenueTarget    float64 `json:"annualRevenueTarget"`
	AnnualOccupancyTarget  float64 `json:"annualOccupancyTarget"`
	AnnualRevenueCollected float64 `json:"annualRevenueCollected"`
	PeriodRevenueTarget    float64 `json:"monthlyRevenueTarget"`
	PeriodRevenueCollected float64 `json:"monthlyRevenueCollected"`
	CollectionRate         float64 `json:"collectionRate"`

	NewContractsCount int      `json:"newContractsCount"`
	ExpiringSoonCount int      `json:"expiringSoonCount"`
	RecentSignings    []Tenant `json:"recentSignings"`
	ExpiringSoon      []Tenant `json:"expiringSoon"`

	MonthlyTrends         []MonthlyTrend  `json:"monthlyTrends"`
	PrevYearMonthlyTrends []MonthlyTrend  `json:"prevYearMonthlyTrends"`
	BillingMonth          string          `json:"billingMonth"`
	CurrentMonthBilling   []BillingDetail `json:"currentMonthBilling"`
	ParkingStats          ParkingStats    `json:"parkingStats"`

	// Warnings lists contracts whose schedule hit the generation cap.
	Warnings []string `json:"warnings,omitempty"`
}

// BudgetCategory groups rows of the budget detail.
type BudgetCategory string

const (
	CategoryExisting BudgetCategory = "Existing"
	CategoryRenewal  BudgetCategory = "Renewal"
	CategoryReLease  BudgetCategory = "Re-lease"
	CategoryRisk     BudgetCategory = "Risk termination"
	CategoryVacancy  BudgetCategory = "Vacancy fill"
)

// BudgetRow is one tenant or vacant unit in the yearly budget detail.
type BudgetRow struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Building  string         `json:"building"`
	Units     string         `json:"units"`
	Area      float64        `json:"area"`
	UnitPrice float64        `json:"unitPrice"`
	Category  BudgetCategory `json:"category"`
	Months    [12]MonthSlot  `json:"months"`
	Vacant    bool           `json:"vacant,omitempty"`
}

// Total sums the row's twelve months.
func (r BudgetRow) Total() float64 {
	var sum float64
	for _, m := range r.Months {
		sum += m.Amount
	}
	return sum
}

// YearMetrics summarises a budget year.
type YearMetrics struct {
	Year         int     `json:"year"`
	TotalRevenue float64 `json:"totalRevenue"`
	AvgOccupancy float64 `json:"avgOccupancy"`
	AvgPrice     float64 `json:"avgPrice"`
}

// ImpactSummary splits budgeted revenue by the assumption that produced it.
type ImpactSummary struct {
	Year          int     `json:"year"`
	VacancyFill   float64 `json:"vacancyFill"`
	Renewal       float64 `json:"renewal"`
	ReLease       float64 `json:"reLease"`
	RiskReLease   float64 `json:"riskReLease"`
	ExistingTotal float64 `json:"existing"`
}

// ExecutionMonth compares budget and actual collections for one month.
type ExecutionMonth struct {
	Month  int     `json:"month"`
	Budget float64 `json:"budget"`
	Actual float64 `json:"actual"`
}

// ExecutionReport is the budget-versus-actual view for a year.
type ExecutionReport struct {
	Year           int              `json:"year"`
	Months         []ExecutionMonth `json:"months"`
	TotalBudget    float64          `json:"totalBudget"`
	TotalActual    float64          `json:"totalActual"`
	CompletionRate float64          `json:"completionRate"`
}

// AnnualComparison is one year of the multi-year target comparison.
// The year-on-year fields are nil where there is nothing to compare with.
type AnnualComparison struct {
	Year           int      `json:"year"`
	RevenueTarget  float64  `json:"revenueTarget"`
	RevenueActual  float64  `json:"revenueActual"`
	CompletionRate float64  `json:"revenueCompletionRate"`
	RevenueYoY     *float64 `json:"revenueYoY"`
	OccupancyRate  float64  `json:"occupancyRate"`
	OccupancyYoY   *float64 `json:"occupancyYoY"`
}

// DepositHolder is a tenant whose deposit is still held or still owed.
type DepositHolder struct {
	TenantID   string        `json:"tenantId"`
	TenantName string        `json:"tenantName"`
	Amount     float64       `json:"amount"`
	Status     DepositStatus `json:"status"`
}

// DepositPool summarises security deposits across all leases.
type DepositPool struct {
	Received float64 `json:"received"`
	Refunded float64 `json:"refunded"`
	Deducted float64 `json:"deducted"`
	// Balance is received less refunded and deducted.
	Balance float64 `json:"balance"`
	// Receivable is deposits agreed but not yet paid.
	Receivable float64 `json:"receivable"`
	// PendingRefund lists terminated leases whose deposit is unsettled.
	PendingRefund      []DepositHolder `json:"pendingRefund"`
	PendingRefundTotal float64         `json:"pendingRefundTotal"`
}
