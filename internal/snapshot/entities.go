package snapshot

import "time"

// ClientStatus is a client's position in the sales pipeline.
type ClientStatus string

const (
	ClientLead      ClientStatus = "Lead"
	ClientProject   ClientStatus = "Project"
	ClientCompleted ClientStatus = "Completed"
)

// EstimateStatus tracks an estimate from draft to payment.
type EstimateStatus string

const (
	EstimateDraft    EstimateStatus = "draft"
	EstimateSent     EstimateStatus = "sent"
	EstimateApproved EstimateStatus = "approved"
	EstimateRejected EstimateStatus = "rejected"
	EstimatePaid     EstimateStatus = "paid"
)

// ProjectStatus is a project's lifecycle state.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectArchived  ProjectStatus = "archived"
)

// ExpenseType is the top-level expense bucket.
type ExpenseType string

const (
	ExpenseSubcontractor ExpenseType = "Subcontractor"
	ExpenseLabor         ExpenseType = "Labor"
	ExpenseMaterial      ExpenseType = "Material"
	ExpenseOffice        ExpenseType = "Office"
	ExpenseOthers        ExpenseType = "Others"
)

// Client is a customer or prospect.
type Client struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone"`
	Address          string       `json:"address,omitempty"`
	Source           string       `json:"source"`
	Status           ClientStatus `json:"status"`
	LastContactDate  string       `json:"lastContactDate,omitempty"`
	NextFollowUpDate string       `json:"nextFollowUpDate,omitempty"`
}

// Estimate is a priced proposal owned by a client. ProjectID is set
// once the estimate has been converted.
type Estimate struct {
	ID          string         `json:"id"`
	ClientID    string         `json:"clientId"`
	ProjectID   string         `json:"projectId,omitempty"`
	Name        string         `json:"name"`
	Items       []EstimateItem `json:"items"`
	Subtotal    float64        `json:"subtotal"`
	TaxRate     float64        `json:"taxRate"`
	TaxAmount   float64        `json:"taxAmount"`
	Total       float64        `json:"total"`
	Status      EstimateStatus `json:"status"`
	CreatedDate string         `json:"createdDate"`
}

// EstimateItem is one priced line of an estimate.
type EstimateItem struct {
	ID              string  `json:"id"`
	PriceListItemID string  `json:"priceListItemId,omitempty"`
	Name            string  `json:"name"`
	Category        string  `json:"category,omitempty"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit,omitempty"`
	UnitPrice       float64 `json:"unitPrice"`
	Total           float64 `json:"total"`
	Notes           string  `json:"notes,omitempty"`
}

// Project is a job in progress. It reaches its client only through
// EstimateID.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Budget      float64       `json:"budget"`
	Expenses    float64       `json:"expenses"`
	Progress    int           `json:"progress"`
	Status      ProjectStatus `json:"status"`
	HoursWorked float64       `json:"hoursWorked"`
	StartDate   string        `json:"startDate,omitempty"`
	EndDate     string        `json:"endDate,omitempty"`
	EstimateID  string        `json:"estimateId,omitempty"`
}

// Expense is money spent against a project.
type Expense struct {
	ID         string      `json:"id"`
	ProjectID  string      `json:"projectId"`
	Type       ExpenseType `json:"type"`
	Category   string      `json:"category,omitempty"`
	Amount     float64     `json:"amount"`
	Store      string      `json:"store"`
	Date       string      `json:"date"`
	ReceiptURL string      `json:"receiptUrl,omitempty"`
}

// ClockEntry is one shift. A nil ClockOut means the employee is still
// on the clock.
type ClockEntry struct {
	ID            string       `json:"id"`
	EmployeeID    string       `json:"employeeId"`
	ProjectID     string       `json:"projectId"`
	ClockIn       time.Time    `json:"clockIn"`
	ClockOut      *time.Time   `json:"clockOut,omitempty"`
	WorkPerformed string       `json:"workPerformed,omitempty"`
	Category      string       `json:"category,omitempty"`
	LunchBreaks   []LunchBreak `json:"lunchBreaks,omitempty"`
}

// Open reports whether the entry has no clock-out yet.
func (c ClockEntry) Open() bool { return c.ClockOut == nil }

// Hours is the worked duration less completed lunch breaks. Open
// entries are measured up to now.
func (c ClockEntry) Hours(now time.Time) float64 {
	end := now
	if c.ClockOut != nil {
		end = *c.ClockOut
	}
	d := end.Sub(c.ClockIn)
	for _, b := range c.LunchBreaks {
		if b.End != nil {
			d -= b.End.Sub(b.Start)
		}
	}
	if d < 0 {
		return 0
	}
	return d.Hours()
}

// LunchBreak is an unpaid break within a shift.
type LunchBreak struct {
	Start time.Time  `json:"startTime"`
	End   *time.Time `json:"endTime,omitempty"`
}

// Payment is money received from a client.
type Payment struct {
	ID         string  `json:"id"`
	ProjectID  string  `json:"projectId,omitempty"`
	ClientID   string  `json:"clientId,omitempty"`
	ClientName string  `json:"clientName,omitempty"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Method     string  `json:"method,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// ChangeOrder is a proposed addition to a project's scope and budget.
type ChangeOrder struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"projectId"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"` // pending, approved, rejected
	Date        string  `json:"date"`
}

// Proposal is a subcontractor's bid on a project.
type Proposal struct {
	ID              string  `json:"id"`
	SubcontractorID string  `json:"subcontractorId"`
	ProjectID       string  `json:"projectId"`
	Amount          float64 `json:"amount"`
	Timeline        string  `json:"timeline,omitempty"`
	Description     string  `json:"description,omitempty"`
	Status          string  `json:"status"` // submitted, accepted, rejected, negotiating
	ProposalDate    string  `json:"proposalDate"`
}

// Subcontractor is an outside trade partner.
type Subcontractor struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	CompanyName  string  `json:"companyName,omitempty"`
	Trade        string  `json:"trade"`
	Phone        string  `json:"phone,omitempty"`
	Email        string  `json:"email,omitempty"`
	HourlyRate   float64 `json:"hourlyRate,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
	Availability string  `json:"availability,omitempty"` // available, busy, unavailable
	Approved     bool    `json:"approved"`
}

// DailyLog is a field report for one project day.
type DailyLog struct {
	ID            string `json:"id"`
	ProjectID     string `json:"projectId"`
	LogDate       string `json:"logDate"`
	WorkPerformed string `json:"workPerformed"`
	Issues        string `json:"issues,omitempty"`
	GeneralNotes  string `json:"generalNotes,omitempty"`
	CreatedBy     string `json:"createdBy,omitempty"`
}

// Task is a project to-do item.
type Task struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	Date      string `json:"date,omitempty"`
	Reminder  string `json:"reminder,omitempty"`
	Completed bool   `json:"completed"`
}

// DailyTask is a personal scheduling item for the signed-in user.
type DailyTask struct {
	ID        string `json:"id"`
	UserID    string `json:"userId,omitempty"`
	Title     string `json:"title"`
	DueDate   string `json:"dueDate"`
	DueTime   string `json:"dueTime,omitempty"`
	Reminder  bool   `json:"reminder"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// CallLog is an inbound or outbound phone call captured by the
// receptionist.
type CallLog struct {
	ID          string `json:"id"`
	ClientID    string `json:"clientId,omitempty"`
	CallerName  string `json:"callerName"`
	CallerPhone string `json:"callerPhone"`
	CallerEmail string `json:"callerEmail,omitempty"`
	CallDate    string `json:"callDate"`
	Status      string `json:"status"` // answered, missed, voicemail
	IsQualified bool   `json:"isQualified"`
	Notes       string `json:"notes,omitempty"`
	ProjectType string `json:"projectType,omitempty"`
	Budget      string `json:"budget,omitempty"`
	AddedToCRM  bool   `json:"addedToCRM"`
}

// TeamMember is an employee or account user.
type TeamMember struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	Role       string  `json:"role"` // super-admin, admin, salesperson, field-employee, employee
	HourlyRate float64 `json:"hourlyRate,omitempty"`
	IsActive   bool    `json:"isActive"`
}

// PriceListItem is a catalog entry used to build estimates.
type PriceListItem struct {
	ID           string  `json:"id"`
	Category     string  `json:"category"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Unit         string  `json:"unit"`
	UnitPrice    float64 `json:"unitPrice"`
	LaborCost    float64 `json:"laborCost,omitempty"`
	MaterialCost float64 `json:"materialCost,omitempty"`
}

// Photo is an image attached to a project.
type Photo struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Category  string `json:"category"`
	Notes     string `json:"notes,omitempty"`
	URL       string `json:"url"`
	Date      string `json:"date"`
}

// Company is the tenant business.
type Company struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	Website       string `json:"website,omitempty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
}
