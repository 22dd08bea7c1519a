package ops

import (
	"encoding/json"
	"fmt"

	"github.com/legacyprime/foreman/internal/catalog"
)

// Operation is a decoded tool call. The set of implementations is
// closed: exactly one struct per catalog entry, all in this file.
type Operation interface {
	Op() catalog.Op
	sealed()
}

type variant struct{}

func (variant) sealed() {}

// CRM

type QueryClients struct {
	variant
	ClientName string `json:"clientName"`
	Status     string `json:"status"`
}

type AddClient struct {
	variant
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Source  string `json:"source"`
}

type UpdateClient struct {
	variant
	ClientName string `json:"clientName"`
	NewName    string `json:"newName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Status     string `json:"status"`
}

type SetFollowup struct {
	variant
	ClientName   string `json:"clientName"`
	FollowUpDate string `json:"followUpDate"`
	Notes        string `json:"notes"`
}

type SendInspectionLink struct {
	variant
	ClientName string `json:"clientName"`
}

type ShareClientContact struct {
	variant
	ClientName string `json:"clientName"`
}

type QueryCallLogs struct {
	variant
	CallerName  string `json:"callerName"`
	Status      string `json:"status"`
	IsQualified *bool  `json:"isQualified"`
	Date        string `json:"date"`
}

type ConvertCallToLead struct {
	variant
	CallerName string `json:"callerName"`
}

type QueryEstimates struct {
	variant
	ClientName string `json:"clientName"`
	ProjectID  string `json:"projectId"`
	Status     string `json:"status"`
}

type GenerateEstimate struct {
	variant
	ClientName  string  `json:"clientName"`
	ProjectType string  `json:"projectType"`
	Budget      float64 `json:"budget"`
	Description string  `json:"description"`
}

type CreateTakeoffEstimate struct {
	variant
	ClientName   string `json:"clientName"`
	EstimateName string `json:"estimateName"`
}

type SendEstimate struct {
	variant
	ClientName string `json:"clientName"`
	EstimateID string `json:"estimateId"`
}

type ApproveEstimate struct {
	variant
	ClientName string `json:"clientName"`
	EstimateID string `json:"estimateId"`
}

type RejectEstimate struct {
	variant
	ClientName string `json:"clientName"`
	EstimateID string `json:"estimateId"`
	Reason     string `json:"reason"`
}

type RequestPayment struct {
	variant
	ClientName string  `json:"clientName"`
	EstimateID string  `json:"estimateId"`
	Amount     float64 `json:"amount"`
}

type QueryPriceList struct {
	variant
	SearchTerm string `json:"searchTerm"`
	Category   string `json:"category"`
}

type CreatePriceListItems struct {
	variant
	Category      string         `json:"category"`
	IsNewCategory bool           `json:"isNewCategory"`
	Items         []NewPriceItem `json:"items"`
}

// NewPriceItem is one item in a create_price_list_items call.
type NewPriceItem struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	Description string  `json:"description,omitempty"`
}

// Project lifecycle

type QueryProjects struct {
	variant
	ProjectName string `json:"projectName"`
	Status      string `json:"status"`
}

type GetProjectDetails struct {
	variant
	ProjectName string `json:"projectName"`
}

type CreateProject struct {
	variant
	Name       string  `json:"name"`
	Budget     float64 `json:"budget"`
	ClientName string  `json:"clientName"`
	StartDate  string  `json:"startDate"`
}

type UpdateProject struct {
	variant
	ProjectName string   `json:"projectName"`
	Name        string   `json:"name"`
	Budget      *float64 `json:"budget"`
	Progress    *int     `json:"progress"`
	Status      string   `json:"status"`
	EndDate     string   `json:"endDate"`
}

type ArchiveProject struct {
	variant
	ProjectName string `json:"projectName"`
}

type ConvertEstimateToProject struct {
	variant
	ClientName  string `json:"clientName"`
	EstimateID  string `json:"estimateId"`
	ProjectName string `json:"projectName"`
	StartDate   string `json:"startDate"`
	AutoApprove bool   `json:"autoApprove"`
}

type GetSummary struct {
	variant
	Type string `json:"type"`
}

// Financials

type QueryExpenses struct {
	variant
	ProjectID    string `json:"projectId"`
	ProjectName  string `json:"projectName"`
	Type         string `json:"type"`
	WithReceipts bool   `json:"withReceipts"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

type AddExpense struct {
	variant
	ProjectName    string  `json:"projectName"`
	Amount         float64 `json:"amount"`
	Store          string  `json:"store"`
	Type           string  `json:"type"`
	Category       string  `json:"category"`
	Date           string  `json:"date"`
	ReceiptURL     string  `json:"receiptUrl"`
	AllowDuplicate bool    `json:"allowDuplicate"`
}

type DeleteExpense struct {
	variant
	ExpenseID string `json:"expenseId"`
}

type AnalyzeReceipt struct {
	variant
	ProjectName string `json:"projectName"`
	Type        string `json:"type"`
}

type QueryPayments struct {
	variant
	ClientName  string `json:"clientName"`
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Date        string `json:"date"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type AddPayment struct {
	variant
	ProjectName string  `json:"projectName"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	Date        string  `json:"date"`
	Notes       string  `json:"notes"`
}

type QueryChangeOrders struct {
	variant
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Status      string `json:"status"`
}

type CreateChangeOrder struct {
	variant
	ProjectName string  `json:"projectName"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type ApproveChangeOrder struct {
	variant
	ChangeOrderID string `json:"changeOrderId"`
}

type RejectChangeOrder struct {
	variant
	ChangeOrderID string `json:"changeOrderId"`
	Reason        string `json:"reason"`
}

type QueryProposals struct {
	variant
	ProjectID         string `json:"projectId"`
	ProjectName       string `json:"projectName"`
	SubcontractorID   string `json:"subcontractorId"`
	SubcontractorName string `json:"subcontractorName"`
	Status            string `json:"status"`
}

type AcceptProposal struct {
	variant
	ProposalID string `json:"proposalId"`
}

type GenerateReport struct {
	variant
	ReportType   string     `json:"reportType"`
	ProjectID    string     `json:"projectId"`
	ProjectName  string     `json:"projectName"`
	WithReceipts bool       `json:"withReceipts"`
	DateRange    *DateRange `json:"dateRange"`
	Notes        string     `json:"notes"`
}

// DateRange bounds a report. Either end may be empty.
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Time tracking

type QueryClockEntries struct {
	variant
	EmployeeName string `json:"employeeName"`
	ProjectName  string `json:"projectName"`
	Date         string `json:"date"`
}

type ClockIn struct {
	variant
	EmployeeName  string `json:"employeeName"`
	ProjectName   string `json:"projectName"`
	WorkPerformed string `json:"workPerformed"`
	Category      string `json:"category"`
}

type ClockOut struct {
	variant
	EmployeeName  string `json:"employeeName"`
	WorkPerformed string `json:"workPerformed"`
}

type StartLunchBreak struct {
	variant
	EmployeeName string `json:"employeeName"`
}

type EndLunchBreak struct {
	variant
	EmployeeName string `json:"employeeName"`
}

type GetTimecard struct {
	variant
	EmployeeName string `json:"employeeName"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

type WhoIsClockedIn struct {
	variant
	ProjectName string `json:"projectName"`
}

// Field documentation

type QueryDailyLogs struct {
	variant
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Date        string `json:"date"`
}

type AddDailyLog struct {
	variant
	ProjectName   string `json:"projectName"`
	WorkPerformed string `json:"workPerformed"`
	Issues        string `json:"issues"`
	GeneralNotes  string `json:"generalNotes"`
	Date          string `json:"date"`
}

type DeleteDailyLog struct {
	variant
	LogID string `json:"logId"`
}

type QueryPhotos struct {
	variant
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Category    string `json:"category"`
}

type AddPhoto struct {
	variant
	ProjectName string `json:"projectName"`
	Category    string `json:"category"`
	Notes       string `json:"notes"`
}

type QueryTasks struct {
	variant
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Completed   *bool  `json:"completed"`
}

type CreateTask struct {
	variant
	ProjectName string `json:"projectName"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Reminder    string `json:"reminder"`
}

type CompleteTask struct {
	variant
	TaskName    string `json:"taskName"`
	ProjectName string `json:"projectName"`
}

type QuerySubcontractors struct {
	variant
	Trade        string `json:"trade"`
	Availability string `json:"availability"`
	Approved     *bool  `json:"approved"`
}

type AddSubcontractor struct {
	variant
	Name        string  `json:"name"`
	Trade       string  `json:"trade"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	CompanyName string  `json:"companyName"`
	HourlyRate  float64 `json:"hourlyRate"`
}

type AssignSubcontractor struct {
	variant
	SubcontractorName string `json:"subcontractorName"`
	ProjectName       string `json:"projectName"`
	Notes             string `json:"notes"`
}

type RequestProposal struct {
	variant
	SubcontractorName string `json:"subcontractorName"`
	ProjectName       string `json:"projectName"`
	Scope             string `json:"scope"`
	DueDate           string `json:"dueDate"`
}

type QueryTeamMembers struct {
	variant
	Role     string `json:"role"`
	IsActive *bool  `json:"isActive"`
}

// Communications

type SendSMS struct {
	variant
	RecipientName string `json:"recipientName"`
	PhoneNumber   string `json:"phoneNumber"`
	Message       string `json:"message"`
}

type SendBulkSMS struct {
	variant
	Message      string `json:"message"`
	ClientStatus string `json:"clientStatus"`
}

type SendEmail struct {
	variant
	RecipientName string `json:"recipientName"`
	EmailAddress  string `json:"emailAddress"`
	Subject       string `json:"subject"`
	Body          string `json:"body"`
}

type MakeCall struct {
	variant
	RecipientName string `json:"recipientName"`
	PhoneNumber   string `json:"phoneNumber"`
	Purpose       string `json:"purpose"`
}

// Personal scheduling

type QueryDailyTasks struct {
	variant
	Date      string `json:"date"`
	Completed *bool  `json:"completed"`
}

type AddDailyTask struct {
	variant
	Title    string `json:"title"`
	DueDate  string `json:"dueDate"`
	DueTime  string `json:"dueTime"`
	Reminder bool   `json:"reminder"`
	Notes    string `json:"notes"`
}

type UpdateDailyTask struct {
	variant
	TaskTitle string `json:"taskTitle"`
	NewTitle  string `json:"newTitle"`
	DueDate   string `json:"dueDate"`
	DueTime   string `json:"dueTime"`
	Reminder  *bool  `json:"reminder"`
	Notes     string `json:"notes"`
}

type CompleteDailyTask struct {
	variant
	TaskTitle string `json:"taskTitle"`
}

type DeleteDailyTask struct {
	variant
	TaskTitle string `json:"taskTitle"`
}

func (*QueryClients) Op() catalog.Op             { return catalog.OpQueryClients }
func (*AddClient) Op() catalog.Op                { return catalog.OpAddClient }
func (*UpdateClient) Op() catalog.Op             { return catalog.OpUpdateClient }
func (*SetFollowup) Op() catalog.Op              { return catalog.OpSetFollowup }
func (*SendInspectionLink) Op() catalog.Op       { return catalog.OpSendInspectionLink }
func (*ShareClientContact) Op() catalog.Op       { return catalog.OpShareClientContact }
func (*QueryCallLogs) Op() catalog.Op            { return catalog.OpQueryCallLogs }
func (*ConvertCallToLead) Op() catalog.Op        { return catalog.OpConvertCallToLead }
func (*QueryEstimates) Op() catalog.Op           { return catalog.OpQueryEstimates }
func (*GenerateEstimate) Op() catalog.Op         { return catalog.OpGenerateEstimate }
func (*CreateTakeoffEstimate) Op() catalog.Op    { return catalog.OpCreateTakeoffEstimate }
func (*SendEstimate) Op() catalog.Op             { return catalog.OpSendEstimate }
func (*ApproveEstimate) Op() catalog.Op          { return catalog.OpApproveEstimate }
func (*RejectEstimate) Op() catalog.Op           { return catalog.OpRejectEstimate }
func (*RequestPayment) Op() catalog.Op           { return catalog.OpRequestPayment }
func (*QueryPriceList) Op() catalog.Op           { return catalog.OpQueryPriceList }
func (*CreatePriceListItems) Op() catalog.Op     { return catalog.OpCreatePriceListItems }
func (*QueryProjects) Op() catalog.Op            { return catalog.OpQueryProjects }
func (*GetProjectDetails) Op() catalog.Op        { return catalog.OpGetProjectDetails }
func (*CreateProject) Op() catalog.Op            { return catalog.OpCreateProject }
func (*UpdateProject) Op() catalog.Op            { return catalog.OpUpdateProject }
func (*ArchiveProject) Op() catalog.Op           { return catalog.OpArchiveProject }
func (*ConvertEstimateToProject) Op() catalog.Op { return catalog.OpConvertEstimateToProject }
func (*GetSummary) Op() catalog.Op               { return catalog.OpGetSummary }
func (*QueryExpenses) Op() catalog.Op            { return catalog.OpQueryExpenses }
func (*AddExpense) Op() catalog.Op               { return catalog.OpAddExpense }
func (*DeleteExpense) Op() catalog.Op            { return catalog.OpDeleteExpense }
func (*AnalyzeReceipt) Op() catalog.Op           { return catalog.OpAnalyzeReceipt }
func (*QueryPayments) Op() catalog.Op            { return catalog.OpQueryPayments }
func (*AddPayment) Op() catalog.Op               { return catalog.OpAddPayment }
func (*QueryChangeOrders) Op() catalog.Op        { return catalog.OpQueryChangeOrders }
func (*CreateChangeOrder) Op() catalog.Op        { return catalog.OpCreateChangeOrder }
func (*ApproveChangeOrder) Op() catalog.Op       { return catalog.OpApproveChangeOrder }
func (*RejectChangeOrder) Op() catalog.Op        { return catalog.OpRejectChangeOrder }
func (*QueryProposals) Op() catalog.Op           { return catalog.OpQueryProposals }
func (*AcceptProposal) Op() catalog.Op           { return catalog.OpAcceptProposal }
func (*GenerateReport) Op() catalog.Op           { return catalog.OpGenerateReport }
func (*QueryClockEntries) Op() catalog.Op        { return catalog.OpQueryClockEntries }
func (*ClockIn) Op() catalog.Op                  { return catalog.OpClockIn }
func (*ClockOut) Op() catalog.Op                 { return catalog.OpClockOut }
func (*StartLunchBreak) Op() catalog.Op          { return catalog.OpStartLunchBreak }
func (*EndLunchBreak) Op() catalog.Op            { return catalog.OpEndLunchBreak }
func (*GetTimecard) Op() catalog.Op              { return catalog.OpGetTimecard }
func (*WhoIsClockedIn) Op() catalog.Op           { return catalog.OpWhoIsClockedIn }
func (*QueryDailyLogs) Op() catalog.Op           { return catalog.OpQueryDailyLogs }
func (*AddDailyLog) Op() catalog.Op              { return catalog.OpAddDailyLog }
func (*DeleteDailyLog) Op() catalog.Op           { return catalog.OpDeleteDailyLog }
func (*QueryPhotos) Op() catalog.Op              { return catalog.OpQueryPhotos }
func (*AddPhoto) Op() catalog.Op                 { return catalog.OpAddPhoto }
func (*QueryTasks) Op() catalog.Op               { return catalog.OpQueryTasks }
func (*CreateTask) Op() catalog.Op               { return catalog.OpCreateTask }
func (*CompleteTask) Op() catalog.Op             { return catalog.OpCompleteTask }
func (*QuerySubcontractors) Op() catalog.Op      { return catalog.OpQuerySubcontractors }
func (*AddSubcontractor) Op() catalog.Op         { return catalog.OpAddSubcontractor }
func (*AssignSubcontractor) Op() catalog.Op      { return catalog.OpAssignSubcontractor }
func (*RequestProposal) Op() catalog.Op          { return catalog.OpRequestProposal }
func (*QueryTeamMembers) Op() catalog.Op         { return catalog.OpQueryTeamMembers }
func (*SendSMS) Op() catalog.Op                  { return catalog.OpSendSMS }
func (*SendBulkSMS) Op() catalog.Op              { return catalog.OpSendBulkSMS }
func (*SendEmail) Op() catalog.Op                { return catalog.OpSendEmail }
func (*MakeCall) Op() catalog.Op                 { return catalog.OpMakeCall }
func (*QueryDailyTasks) Op() catalog.Op          { return catalog.OpQueryDailyTasks }
func (*AddDailyTask) Op() catalog.Op             { return catalog.OpAddDailyTask }
func (*UpdateDailyTask) Op() catalog.Op          { return catalog.OpUpdateDailyTask }
func (*CompleteDailyTask) Op() catalog.Op        { return catalog.OpCompleteDailyTask }
func (*DeleteDailyTask) Op() catalog.Op          { return catalog.OpDeleteDailyTask }

var constructors = map[catalog.Op]func() Operation{
	catalog.OpQueryClients:             func() Operation { return &QueryClients{} },
	catalog.OpAddClient:                func() Operation { return &AddClient{} },
	catalog.OpUpdateClient:             func() Operation { return &UpdateClient{} },
	catalog.OpSetFollowup:              func() Operation { return &SetFollowup{} },
	catalog.OpSendInspectionLink:       func() Operation { return &SendInspectionLink{} },
	catalog.OpShareClientContact:       func() Operation { return &ShareClientContact{} },
	catalog.OpQueryCallLogs:            func() Operation { return &QueryCallLogs{} },
	catalog.OpConvertCallToLead:        func() Operation { return &ConvertCallToLead{} },
	catalog.OpQueryEstimates:           func() Operation { return &QueryEstimates{} },
	catalog.OpGenerateEstimate:         func() Operation { return &GenerateEstimate{} },
	catalog.OpCreateTakeoffEstimate:    func() Operation { return &CreateTakeoffEstimate{} },
	catalog.OpSendEstimate:             func() Operation { return &SendEstimate{} },
	catalog.OpApproveEstimate:          func() Operation { return &ApproveEstimate{} },
	catalog.OpRejectEstimate:           func() Operation { return &RejectEstimate{} },
	catalog.OpRequestPayment:           func() Operation { return &RequestPayment{} },
	catalog.OpQueryPriceList:           func() Operation { return &QueryPriceList{} },
	catalog.OpCreatePriceListItems:     func() Operation { return &CreatePriceListItems{} },
	catalog.OpQueryProjects:            func() Operation { return &QueryProjects{} },
	catalog.OpGetProjectDetails:        func() Operation { return &GetProjectDetails{} },
	catalog.OpCreateProject:            func() Operation { return &CreateProject{} },
	catalog.OpUpdateProject:            func() Operation { return &UpdateProject{} },
	catalog.OpArchiveProject:           func() Operation { return &ArchiveProject{} },
	catalog.OpConvertEstimateToProject: func() Operation { return &ConvertEstimateToProject{} },
	catalog.OpGetSummary:               func() Operation { return &GetSummary{} },
	catalog.OpQueryExpenses:            func() Operation { return &QueryExpenses{} },
	catalog.OpAddExpense:               func() Operation { return &AddExpense{} },
	catalog.OpDeleteExpense:            func() Operation { return &DeleteExpense{} },
	catalog.OpAnalyzeReceipt:           func() Operation { return &AnalyzeReceipt{} },
	catalog.OpQueryPayments:            func() Operation { return &QueryPayments{} },
	catalog.OpAddPayment:               func() Operation { return &AddPayment{} },
	catalog.OpQueryChangeOrders:        func() Operation { return &QueryChangeOrders{} },
	catalog.OpCreateChangeOrder:        func() Operation { return &CreateChangeOrder{} },
	catalog.OpApproveChangeOrder:       func() Operation { return &ApproveChangeOrder{} },
	catalog.OpRejectChangeOrder:        func() Operation { return &RejectChangeOrder{} },
	catalog.OpQueryProposals:           func() Operation { return &QueryProposals{} },
	catalog.OpAcceptProposal:           func() Operation { return &AcceptProposal{} },
	catalog.OpGenerateReport:           func() Operation { return &GenerateReport{} },
	catalog.OpQueryClockEntries:        func() Operation { return &QueryClockEntries{} },
	catalog.OpClockIn:                  func() Operation { return &ClockIn{} },
	catalog.OpClockOut:                 func() Operation { return &ClockOut{} },
	catalog.OpStartLunchBreak:          func() Operation { return &StartLunchBreak{} },
	catalog.OpEndLunchBreak:            func() Operation { return &EndLunchBreak{} },
	catalog.OpGetTimecard:              func() Operation { return &GetTimecard{} },
	catalog.OpWhoIsClockedIn:           func() Operation { return &WhoIsClockedIn{} },
	catalog.OpQueryDailyLogs:           func() Operation { return &QueryDailyLogs{} },
	catalog.OpAddDailyLog:              func() Operation { return &AddDailyLog{} },
	catalog.OpDeleteDailyLog:           func() Operation { return &DeleteDailyLog{} },
	catalog.OpQueryPhotos:              func() Operation { return &QueryPhotos{} },
	catalog.OpAddPhoto:                 func() Operation { return &AddPhoto{} },
	catalog.OpQueryTasks:               func() Operation { return &QueryTasks{} },
	catalog.OpCreateTask:               func() Operation { return &CreateTask{} },
	catalog.OpCompleteTask:             func() Operation { return &CompleteTask{} },
	catalog.OpQuerySubcontractors:      func() Operation { return &QuerySubcontractors{} },
	catalog.OpAddSubcontractor:         func() Operation { return &AddSubcontractor{} },
	catalog.OpAssignSubcontractor:      func() Operation { return &AssignSubcontractor{} },
	catalog.OpRequestProposal:          func() Operation { return &RequestProposal{} },
	catalog.OpQueryTeamMembers:         func() Operation { return &QueryTeamMembers{} },
	catalog.OpSendSMS:                  func() Operation { return &SendSMS{} },
	catalog.OpSendBulkSMS:              func() Operation { return &SendBulkSMS{} },
	catalog.OpSendEmail:                func() Operation { return &SendEmail{} },
	catalog.OpMakeCall:                 func() Operation { return &MakeCall{} },
	catalog.OpQueryDailyTasks:          func() Operation { return &QueryDailyTasks{} },
	catalog.OpAddDailyTask:             func() Operation { return &AddDailyTask{} },
	catalog.OpUpdateDailyTask:          func() Operation { return &UpdateDailyTask{} },
	catalog.OpCompleteDailyTask:        func() Operation { return &CompleteDailyTask{} },
	catalog.OpDeleteDailyTask:          func() Operation { return &DeleteDailyTask{} },
}

// Decode builds the typed operation for name from validated
// arguments.
func Decode(name catalog.Op, args map[string]any) (Operation, error) {
	newOp, ok := constructors[name]
	if !ok {
		return nil, &UnknownOperationError{Name: string(name)}
	}
	o := newOp()
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s arguments: %w", name, err)
	}
	if err := json.Unmarshal(raw, o); err != nil {
		return nil, &catalog.ValidationError{Field: "arguments", Message: fmt.Sprintf("arguments do not fit %s: %v", name, err)}
	}
	return o, nil
}
