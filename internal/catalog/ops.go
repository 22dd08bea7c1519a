package catalog

// CRM
const (
	OpQueryClients          Op = "query_clients"
	OpAddClient             Op = "add_client"
	OpUpdateClient          Op = "update_client"
	OpSetFollowup           Op = "set_followup"
	OpSendInspectionLink    Op = "send_inspection_link"
	OpShareClientContact    Op = "share_client_contact"
	OpQueryCallLogs         Op = "query_call_logs"
	OpConvertCallToLead     Op = "convert_call_to_lead"
	OpQueryEstimates        Op = "query_estimates"
	OpGenerateEstimate      Op = "generate_estimate"
	OpCreateTakeoffEstimate Op = "create_takeoff_estimate"
	OpSendEstimate          Op = "send_estimate"
	OpApproveEstimate       Op = "approve_estimate"
	OpRejectEstimate        Op = "reject_estimate"
	OpRequestPayment        Op = "request_payment"
	OpQueryPriceList        Op = "query_price_list"
	OpCreatePriceListItems  Op = "create_price_list_items"
)

// Project lifecycle
const (
	OpQueryProjects            Op = "query_projects"
	OpGetProjectDetails        Op = "get_project_details"
	OpCreateProject            Op = "create_project"
	OpUpdateProject            Op = "update_project"
	OpArchiveProject           Op = "archive_project"
	OpConvertEstimateToProject Op = "convert_estimate_to_project"
	OpGetSummary               Op = "get_summary"
)

// Financials
const (
	OpQueryExpenses      Op = "query_expenses"
	OpAddExpense         Op = "add_expense"
	OpDeleteExpense      Op = "delete_expense"
	OpAnalyzeReceipt     Op = "analyze_receipt"
	OpQueryPayments      Op = "query_payments"
	OpAddPayment         Op = "add_payment"
	OpQueryChangeOrders  Op = "query_change_orders"
	OpCreateChangeOrder  Op = "create_change_order"
	OpApproveChangeOrder Op = "approve_change_order"
	OpRejectChangeOrder  Op = "reject_change_order"
	OpQueryProposals     Op = "query_proposals"
	OpAcceptProposal     Op = "accept_proposal"
	OpGenerateReport     Op = "generate_report"
)

// Time tracking
const (
	OpQueryClockEntries Op = "query_clock_entries"
	OpClockIn           Op = "clock_in"
	OpClockOut          Op = "clock_out"
	OpStartLunchBreak   Op = "start_lunch_break"
	OpEndLunchBreak     Op = "end_lunch_break"
	OpGetTimecard       Op = "get_timecard"
	OpWhoIsClockedIn    Op = "who_is_clocked_in"
)

// Field documentation
const (
	OpQueryDailyLogs      Op = "query_daily_logs"
	OpAddDailyLog         Op = "add_daily_log"
	OpDeleteDailyLog      Op = "delete_daily_log"
	OpQueryPhotos         Op = "query_photos"
	OpAddPhoto            Op = "add_photo"
	OpQueryTasks          Op = "query_tasks"
	OpCreateTask          Op = "create_task"
	OpCompleteTask        Op = "complete_task"
	OpQuerySubcontractors Op = "query_subcontractors"
	OpAddSubcontractor    Op = "add_subcontractor"
	OpAssignSubcontractor Op = "assign_subcontractor"
	OpRequestProposal     Op = "request_proposal"
	OpQueryTeamMembers    Op = "query_team_members"
)

// Communications
const (
	OpSendSMS     Op = "send_sms"
	OpSendBulkSMS Op = "send_bulk_sms"
	OpSendEmail   Op = "send_email"
	OpMakeCall    Op = "make_call"
)

// Personal scheduling
const (
	OpQueryDailyTasks   Op = "query_daily_tasks"
	OpAddDailyTask      Op = "add_daily_task"
	OpUpdateDailyTask   Op = "update_daily_task"
	OpCompleteDailyTask Op = "complete_daily_task"
	OpDeleteDailyTask   Op = "delete_daily_task"
)

// Enumerations shared by the schemas and the executor.
var (
	ClientSources     = []string{"Google", "Referral", "Ad", "Phone Call"}
	ClientStatuses    = []string{"Lead", "Project", "Completed"}
	EstimateStatuses  = []string{"draft", "sent", "approved", "rejected", "paid"}
	ProjectStatuses   = []string{"active", "completed", "on-hold", "archived"}
	ExpenseTypes      = []string{"Subcontractor", "Labor", "Material", "Office", "Others"}
	PaymentMethods    = []string{"cash", "check", "credit-card", "ach", "other"}
	ChangeOrderStates = []string{"pending", "approved", "rejected"}
	ProposalStates    = []string{"submitted", "accepted", "rejected", "negotiating"}
	Availabilities    = []string{"available", "busy", "unavailable"}
	CallStatuses      = []string{"answered", "missed", "voicemail"}
	TeamRoles         = []string{"super-admin", "admin", "salesperson", "field-employee", "employee"}
	SummaryTypes      = []string{"overview", "financial", "projects", "clients"}
	ReportTypes       = []string{"administrative", "expenses", "time-tracking", "daily-logs", "custom", "projects", "financial", "clients"}
	PhotoCategories   = []string{"progress", "before", "after", "issue", "inspection", "receipt", "other"}
)
