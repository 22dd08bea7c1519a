package catalog

const naturalDate = " Accepts natural phrases such as today, tomorrow, next friday, in 3 days, the 10th, or YYYY-MM-DD."

var entries = []Entry{
	// CRM

	{
		Op:          OpQueryClients,
		Domain:      DomainCRM,
		Description: "Query clients by name or status, or list all clients. Use this when the user asks about their clients or leads.",
		Params: []Param{
			str("clientName", "Filter by client name (partial match)"),
			enum("status", "Filter by client status", ClientStatuses...),
		},
	},
	{
		Op:          OpAddClient,
		Domain:      DomainCRM,
		Description: "Add a new client or lead to the CRM. Requires a name, at least one of email or phone, and how the client found us. Ask the user for anything missing before calling this.",
		Params: []Param{
			required(str("name", "Full name of the client")),
			str("email", "Email address"),
			str("phone", "Phone number"),
			str("address", "Street address"),
			required(enum("source", "How the client found us. Always ask the user.", ClientSources...)),
		},
		Action: string(OpAddClient),
	},
	{
		Op:          OpUpdateClient,
		Domain:      DomainCRM,
		Description: "Update an existing client's name, contact details, address or pipeline status.",
		Params: []Param{
			required(str("clientName", "The client to update")),
			str("newName", "Corrected full name"),
			str("email", "New email address"),
			str("phone", "New phone number"),
			str("address", "New address"),
			enum("status", "New pipeline status", ClientStatuses...),
		},
		Action: string(OpUpdateClient),
	},
	{
		Op:          OpSetFollowup,
		Domain:      DomainCRM,
		Description: "Schedule a follow-up with a client.",
		Params: []Param{
			required(str("clientName", "The name of the client")),
			required(str("followUpDate", "When to follow up."+naturalDate)),
			str("notes", "Notes about the follow-up"),
		},
		Action: string(OpSetFollowup),
	},
	{
		Op:          OpSendInspectionLink,
		Domain:      DomainCRM,
		Description: "Send a client the link to book or record a site inspection.",
		Params: []Param{
			required(str("clientName", "The name of the client")),
		},
		Action: string(OpSendInspectionLink),
	},
	{
		Op:          OpShareClientContact,
		Domain:      DomainCRM,
		Description: "Produce a contact card (vCard) for a client that can be saved to a phone's address book.",
		Params: []Param{
			required(str("clientName", "The name of the client")),
		},
	},
	{
		Op:          OpQueryCallLogs,
		Domain:      DomainCRM,
		Description: "Query calls taken by the receptionist: missed calls, voicemails, qualified leads not yet in the CRM.",
		Params: []Param{
			str("callerName", "Filter by caller name (partial match)"),
			enum("status", "Filter by call status", CallStatuses...),
			boolean("isQualified", "Only qualified (or only unqualified) calls"),
			str("date", "Only calls on this day."+naturalDate),
		},
	},
	{
		Op:          OpConvertCallToLead,
		Domain:      DomainCRM,
		Description: "Turn a logged phone call into a new client lead in the CRM.",
		Params: []Param{
			required(str("callerName", "The caller's name as it appears in the call log")),
		},
		Action: string(OpAddClient),
	},
	{
		Op:          OpQueryEstimates,
		Domain:      DomainCRM,
		Description: "Query estimates by client or status.",
		Params: []Param{
			str("clientName", "Filter by client name"),
			str("projectId", "Filter by converted project ID"),
			enum("status", "Filter by estimate status", EstimateStatuses...),
		},
	},
	{
		Op:          OpGenerateEstimate,
		Domain:      DomainCRM,
		Description: "Draft a new estimate for a client from the price list, sized to the budget.",
		Params: []Param{
			required(str("clientName", "The name of the client")),
			required(str("projectType", "Type of project, e.g. bathroom remodel, deck, pool")),
			required(num("budget", "Target budget in dollars")),
			str("description", "Additional scope notes"),
		},
		Action: string(OpGenerateEstimate),
	},
	{
		Op:          OpCreateTakeoffEstimate,
		Domain:      DomainCRM,
		Description: "Create an estimate for a client by reading quantities off the attached plan or construction document image.",
		Params: []Param{
			required(str("clientName", "The client the estimate is for")),
			str("estimateName", "Name for the new estimate"),
		},
		Action:      string(OpCreateTakeoffEstimate),
		Attachments: true,
	},
	{
		Op:          OpSendEstimate,
		Domain:      DomainCRM,
		Description: "Email an estimate to a client. If estimateId is omitted and the client has several estimates, they are listed for the user to choose.",
		Params: []Param{
			required(str("clientName", "The client to send the estimate to")),
			str("estimateId", "The specific estimate to send"),
		},
		Action: string(OpSendEstimate),
	},
	{
		Op:          OpApproveEstimate,
		Domain:      DomainCRM,
		Description: "Mark an estimate approved by the client.",
		Params: []Param{
			str("clientName", "The client whose estimate to approve"),
			str("estimateId", "The specific estimate"),
		},
		Action: string(OpApproveEstimate),
	},
	{
		Op:          OpRejectEstimate,
		Domain:      DomainCRM,
		Description: "Mark an estimate rejected by the client.",
		Params: []Param{
			str("clientName", "The client whose estimate to reject"),
			str("estimateId", "The specific estimate"),
			str("reason", "Why the client declined"),
		},
		Action: string(OpRejectEstimate),
	},
	{
		Op:          OpRequestPayment,
		Domain:      DomainCRM,
		Description: "Send a client a payment request for an approved or sent estimate.",
		Params: []Param{
			required(str("clientName", "The name of the client")),
			str("estimateId", "The estimate to request payment for"),
			num("amount", "Amount to request if less than the estimate total (a deposit)"),
		},
		Action: string(OpRequestPayment),
	},
	{
		Op:          OpQueryPriceList,
		Domain:      DomainCRM,
		Description: "Search the company price list by name or category.",
		Params: []Param{
			str("searchTerm", "Text to search in item names and descriptions"),
			str("category", "Filter by category"),
		},
	},
	{
		Op:          OpCreatePriceListItems,
		Domain:      DomainCRM,
		Description: "Add one or more items to the price list, optionally in a new category.",
		Params: []Param{
			required(str("category", "Category for the new items")),
			boolean("isNewCategory", "True if the category does not exist yet"),
			required(array("items", "Items to add", object("", "A price list item",
				required(str("name", "Item name")),
				required(str("unit", "Unit of measure, e.g. EA, SF, LF, HR")),
				required(num("unitPrice", "Price per unit in dollars")),
				str("description", "Item description"),
			))),
		},
		Action: string(OpCreatePriceListItems),
	},

	// Project lifecycle

	{
		Op:          OpQueryProjects,
		Domain:      DomainProjects,
		Description: "Query projects by name or status, or list all projects.",
		Params: []Param{
			str("projectName", "Filter by project name (partial match)"),
			enum("status", "Filter by project status", ProjectStatuses...),
		},
	},
	{
		Op:          OpGetProjectDetails,
		Domain:      DomainProjects,
		Description: "Get one project's budget, spend, remaining budget, hours, client and open items. A client's name also finds their project.",
		Params: []Param{
			required(str("projectName", "Project name, or the client's name")),
		},
	},
	{
		Op:          OpCreateProject,
		Domain:      DomainProjects,
		Description: "Create a project directly. Prefer convert_estimate_to_project when the client already has an approved estimate.",
		Params: []Param{
			required(str("name", "Project name")),
			required(num("budget", "Project budget in dollars")),
			str("clientName", "Client the project is for"),
			str("startDate", "Start date."+naturalDate),
		},
		Action: string(OpCreateProject),
	},
	{
		Op:          OpUpdateProject,
		Domain:      DomainProjects,
		Description: "Update a project's name, budget, progress percentage, status or end date.",
		Params: []Param{
			required(str("projectName", "The project to update")),
			str("name", "New project name"),
			num("budget", "New budget in dollars"),
			integer("progress", "Percent complete, 0-100"),
			enum("status", "New status", ProjectStatuses...),
			str("endDate", "Completion date."+naturalDate),
		},
		Action: string(OpUpdateProject),
	},
	{
		Op:          OpArchiveProject,
		Domain:      DomainProjects,
		Description: "Archive a finished or cancelled project.",
		Params: []Param{
			required(str("projectName", "The project to archive")),
		},
		Action: string(OpArchiveProject),
	},
	{
		Op:          OpConvertEstimateToProject,
		Domain:      DomainProjects,
		Description: "Turn a client's estimate into a project. Estimates that are not approved return needsApproval; ask the user, then call again with autoApprove true.",
		Params: []Param{
			str("clientName", "The client whose estimate to convert"),
			str("estimateId", "The specific estimate"),
			str("projectName", "Name for the project; defaults to the estimate name"),
			str("startDate", "Start date."+naturalDate),
			boolean("autoApprove", "Approve the estimate as part of the conversion. Only after the user agreed."),
		},
		Action: string(OpConvertEstimateToProject),
	},
	{
		Op:          OpGetSummary,
		Domain:      DomainProjects,
		Description: "Get a business summary of projects, clients or financials.",
		Params: []Param{
			enum("type", "Type of summary", SummaryTypes...),
		},
	},

	// Financials

	{
		Op:          OpQueryExpenses,
		Domain:      DomainFinancials,
		Description: "Query expenses, optionally by project, type, date range, or only those with receipts.",
		Params: []Param{
			str("projectId", "Filter by project ID"),
			str("projectName", "Filter by project name"),
			enum("type", "Filter by expense type", ExpenseTypes...),
			boolean("withReceipts", "Only expenses with a receipt attached"),
			str("startDate", "Earliest date."+naturalDate),
			str("endDate", "Latest date."+naturalDate),
		},
	},
	{
		Op:          OpAddExpense,
		Domain:      DomainFinancials,
		Description: "Record an expense against a project. Requires the project, a positive amount, the store or vendor, and the expense type. Subcontractor expenses also need a category.",
		Params: []Param{
			required(str("projectName", "Project name, or the client's name")),
			required(num("amount", "Amount in dollars, greater than zero")),
			required(str("store", "Store or vendor name")),
			required(enum("type", "Expense type", ExpenseTypes...)),
			str("category", "Trade category, e.g. ROOFING, PLUMBING. Required for Subcontractor."),
			str("date", "Date of purchase."+naturalDate),
			str("receiptUrl", "URL of the receipt image"),
			boolean("allowDuplicate", "Record even if an identical expense exists. Only after the user confirmed."),
		},
		Action: string(OpAddExpense),
	},
	{
		Op:          OpDeleteExpense,
		Domain:      DomainFinancials,
		Description: "Delete an expense by ID.",
		Params: []Param{
			required(str("expenseId", "The expense ID from query_expenses")),
		},
		Action: string(OpDeleteExpense),
	},
	{
		Op:          OpAnalyzeReceipt,
		Domain:      DomainFinancials,
		Description: "Read the attached receipt photo: store, total, date and category. When a project is named, prepares the expense for it.",
		Params: []Param{
			str("projectName", "Project to record the expense against"),
			enum("type", "Expense type; defaults to Material", ExpenseTypes...),
		},
		Action:      string(OpAddExpense),
		Attachments: true,
	},
	{
		Op:          OpQueryPayments,
		Domain:      DomainFinancials,
		Description: "Query payments received, by client, project, day or date range. Use date for a single day, such as sales today.",
		Params: []Param{
			str("clientName", "Filter by client name"),
			str("projectId", "Project ID, when already known from an earlier result"),
			str("projectName", "Filter by project"),
			str("date", "Only payments on this day."+naturalDate),
			str("startDate", "Earliest date."+naturalDate),
			str("endDate", "Latest date."+naturalDate),
		},
	},
	{
		Op:          OpAddPayment,
		Domain:      DomainFinancials,
		Description: "Record a payment received for a project.",
		Params: []Param{
			required(str("projectName", "Project name, or the client's name")),
			required(num("amount", "Amount received in dollars")),
			enum("method", "Payment method", PaymentMethods...),
			str("date", "Date received."+naturalDate),
			str("notes", "Check number or other notes"),
		},
		Action: string(OpAddPayment),
	},
	{
		Op:          OpQueryChangeOrders,
		Domain:      DomainFinancials,
		Description: "Query change orders by project or status.",
		Params: []Param{
			str("projectId", "Project ID, when already known from an earlier result"),
			str("projectName", "Filter by project"),
			enum("status", "Filter by status", ChangeOrderStates...),
		},
	},
	{
		Op:          OpCreateChangeOrder,
		Domain:      DomainFinancials,
		Description: "Create a pending change order adding (or crediting) scope on a project. It does not affect the budget until approved.",
		Params: []Param{
			required(str("projectName", "Project name, or the client's name")),
			required(str("description", "What is changing")),
			required(num("amount", "Dollar amount; negative for a credit")),
		},
		Action: string(OpCreateChangeOrder),
	},
	{
		Op:          OpApproveChangeOrder,
		Domain:      DomainFinancials,
		Description: "Approve a pending change order and apply it to the project budget.",
		Params: []Param{
			required(str("changeOrderId", "The change order ID")),
		},
		Action: string(OpApproveChangeOrder),
	},
	{
		Op:          OpRejectChangeOrder,
		Domain:      DomainFinancials,
		Description: "Reject a pending change order.",
		Params: []Param{
			required(str("changeOrderId", "The change order ID")),
			str("reason", "Why it was rejected"),
		},
		Action: string(OpRejectChangeOrder),
	},
	{
		Op:          OpQueryProposals,
		Domain:      DomainFinancials,
		Description: "Query subcontractor proposals (bids) by project, subcontractor or status.",
		Params: []Param{
			str("projectId", "Project ID, when already known from an earlier result"),
			str("projectName", "Filter by project"),
			str("subcontractorId", "Subcontractor ID, when already known"),
			str("subcontractorName", "Filter by subcontractor"),
			enum("status", "Filter by status", ProposalStates...),
		},
	},
	{
		Op:          OpAcceptProposal,
		Domain:      DomainFinancials,
		Description: "Accept a subcontractor's proposal.",
		Params: []Param{
			required(str("proposalId", "The proposal ID")),
		},
		Action: string(OpAcceptProposal),
	},
	{
		Op:          OpGenerateReport,
		Domain:      DomainFinancials,
		Description: "Generate and save a report: administrative (budgets and spend), expenses, time-tracking (hours with overtime per employee), daily-logs, financial, projects, clients, or custom.",
		Params: []Param{
			required(enum("reportType", "Type of report", ReportTypes...)),
			str("projectId", "Project ID, when already known from an earlier result"),
			str("projectName", "Limit to one project"),
			boolean("withReceipts", "For expense reports, only expenses with receipts"),
			object("dateRange", "Limit to a date range",
				str("startDate", "First day."+naturalDate),
				str("endDate", "Last day."+naturalDate),
			),
			str("notes", "Notes to include in the report"),
		},
		Action: "save_report",
	},

	// Time tracking

	{
		Op:          OpQueryClockEntries,
		Domain:      DomainTime,
		Description: "Query clock-in records by employee, project or day.",
		Params: []Param{
			str("employeeName", "Filter by employee"),
			str("projectName", "Filter by project"),
			str("date", "Only shifts starting on this day."+naturalDate),
		},
	},
	{
		Op:          OpClockIn,
		Domain:      DomainTime,
		Description: "Clock an employee in on a project. Defaults to the signed-in user. Fails if they are already clocked in somewhere.",
		Params: []Param{
			str("employeeName", "Employee to clock in; omit for the signed-in user"),
			required(str("projectName", "Project name, or the client's name")),
			str("workPerformed", "What they will be working on"),
			str("category", "Work category, e.g. FRAMING"),
		},
		Action: string(OpClockIn),
	},
	{
		Op:          OpClockOut,
		Domain:      DomainTime,
		Description: "Clock an employee out of their open shift. Defaults to the signed-in user.",
		Params: []Param{
			str("employeeName", "Employee to clock out; omit for the signed-in user"),
			str("workPerformed", "Summary of the work done"),
		},
		Action: string(OpClockOut),
	},
	{
		Op:          OpStartLunchBreak,
		Domain:      DomainTime,
		Description: "Start an unpaid lunch break on an employee's open shift.",
		Params: []Param{
			str("employeeName", "Employee; omit for the signed-in user"),
		},
		Action: string(OpStartLunchBreak),
	},
	{
		Op:          OpEndLunchBreak,
		Domain:      DomainTime,
		Description: "End the lunch break in progress on an employee's open shift.",
		Params: []Param{
			str("employeeName", "Employee; omit for the signed-in user"),
		},
		Action: string(OpEndLunchBreak),
	},
	{
		Op:          OpGetTimecard,
		Domain:      DomainTime,
		Description: "Hours worked per day for an employee with regular and overtime (over 8 hours a day) totals. Defaults to the signed-in user and the current week.",
		Params: []Param{
			str("employeeName", "Employee; omit for the signed-in user"),
			str("startDate", "First day."+naturalDate),
			str("endDate", "Last day."+naturalDate),
		},
	},
	{
		Op:          OpWhoIsClockedIn,
		Domain:      DomainTime,
		Description: "List who is on the clock right now, optionally on one project.",
		Params: []Param{
			str("projectName", "Limit to one project"),
		},
	},

	// Field documentation

	{
		Op:          OpQueryDailyLogs,
		Domain:      DomainField,
		Description: "Query daily field logs by project or day.",
		Params: []Param{
			str("projectId", "Project ID, when already known from an earlier result"),
			str("projectName", "Filter by project"),
			str("date", "Only logs for this day."+naturalDate),
		},
	},
	{
		Op:          OpAddDailyLog,
		Domain:      DomainField,
		Description: "Write a daily log for a project: work performed, issues and notes.",
		Params: []Param{
			required(str("projectName", "Project name, or the client's name")),
			required(str("workPerformed", "Work performed today")),
			str("issues", "Problems or delays"),
			str("generalNotes", "Anything else"),
			str("date", "Log date; defaults to today."+naturalDate),
		},
		Action: string(OpAddDailyLog),
	},
	{
		Op:          OpDeleteDailyLog,
		Domain:      DomainField,
		Description: "Delete a daily log by ID.",
		Params: []Param{
			required(str("logId", "The daily log ID")),
		},
		Action: string(OpDeleteDailyLog),
	},
	{
		Op:          OpQueryPhotos,
		Domain:      DomainField,
		Description: "Query project photos by project or category.",
		Params: []Param{
			str("projectId", "Project ID, when already known from an earlier result"),
			str("projectName", "Filter by project"),
			str("category", "Filter by photo category"),
		},
	},
	{
		Op:          OpAddPhoto,
		Domain:      DomainField,
		Description: "Save the attached photos to a project.",
		Params: []Param{
			required(str("projectName", "Project name, or the client's name")),
			enum("category", "Photo category", PhotoCategories...),
			str("notes", "Caption or notes"),
		},
		Action:      string(OpAddPhoto),
		Attachments: true,
	},
	{
		Op:          OpQueryTasks,
		Domain:      DomainField,
		Description: "Query project tasks, optionally only open or completed ones.",
		Params: []Param{
			str("projectId", "Project ID, when already known from an earlier result"),
			str("projectName", "Filter by project"),
			boolean("completed", "Filter by completion"),
		},
	},
	{
		Op:          OpCreateTask,
		Domain:      DomainField,
		Description: "Add a task to a project's schedule.",
		Params: []Param{
			required(str("projectName", "Project name, or the client's name")),
			required(str("name", "Task name")),
			str("date", "Due date."+naturalDate),
			str("reminder", "Reminder time, e.g. 8am or morning"),
		},
		Action: string(OpCreateTask),
	},
	{
		Op:          OpCompleteTask,
		Domain:      DomainField,
		Description: "Mark a project task done.",
		Params: []Param{
			required(str("taskName", "Task name (partial match)")),
			str("projectName", "Project, to narrow the search"),
		},
		Action: string(OpCompleteTask),
	},
	{
		Op:          OpQuerySubcontractors,
		Domain:      DomainField,
		Description: "Query subcontractors by trade, availability or approval.",
		Params: []Param{
			str("trade", "Filter by trade, e.g. Electrical"),
			enum("availability", "Filter by availability", Availabilities...),
			boolean("approved", "Only approved (or unapproved) subcontractors"),
		},
	},
	{
		Op:          OpAddSubcontractor,
		Domain:      DomainField,
		Description: "Add a subcontractor. Requires a name, a trade and a phone or email.",
		Params: []Param{
			required(str("name", "Contact name")),
			required(str("trade", "Trade, e.g. Plumbing")),
			str("phone", "Phone number"),
			str("email", "Email address"),
			str("companyName", "Company name"),
			num("hourlyRate", "Hourly rate in dollars"),
		},
		Action: string(OpAddSubcontractor),
	},
	{
		Op:          OpAssignSubcontractor,
		Domain:      DomainField,
		Description: "Assign a subcontractor to a project.",
		Params: []Param{
			required(str("subcontractorName", "The subcontractor")),
			required(str("projectName", "Project name, or the client's name")),
			str("notes", "Scope or instructions"),
		},
		Action: string(OpAssignSubcontractor),
	},
	{
		Op:          OpRequestProposal,
		Domain:      DomainField,
		Description: "Ask a subcontractor to bid on a project.",
		Params: []Param{
			required(str("subcontractorName", "The subcontractor")),
			required(str("projectName", "Project name, or the client's name")),
			str("scope", "Scope of work to bid"),
			str("dueDate", "When the bid is due."+naturalDate),
		},
		Action: string(OpRequestProposal),
	},
	{
		Op:          OpQueryTeamMembers,
		Domain:      DomainField,
		Description: "Query team members by role or active status.",
		Params: []Param{
			enum("role", "Filter by role", TeamRoles...),
			boolean("isActive", "Only active (or inactive) members"),
		},
	},

	// Communications

	{
		Op:          OpSendSMS,
		Domain:      DomainComms,
		Description: "Text a client, team member or subcontractor by name, or any phone number.",
		Params: []Param{
			str("recipientName", "Who to text"),
			str("phoneNumber", "Phone number, if no name"),
			required(str("message", "The text message")),
		},
		Action: string(OpSendSMS),
	},
	{
		Op:          OpSendBulkSMS,
		Domain:      DomainComms,
		Description: "Text every client, or every client with a given status.",
		Params: []Param{
			required(str("message", "The text message")),
			enum("clientStatus", "Only clients with this status", ClientStatuses...),
		},
		Action: string(OpSendBulkSMS),
	},
	{
		Op:          OpSendEmail,
		Domain:      DomainComms,
		Description: "Email a client, team member or subcontractor by name, or any address. The body may use Markdown.",
		Params: []Param{
			str("recipientName", "Who to email"),
			str("emailAddress", "Email address, if no name"),
			required(str("subject", "Subject line")),
			required(str("body", "Message body (Markdown)")),
		},
		Action: string(OpSendEmail),
	},
	{
		Op:          OpMakeCall,
		Domain:      DomainComms,
		Description: "Start a phone call to a client, team member or subcontractor, or any number.",
		Params: []Param{
			str("recipientName", "Who to call"),
			str("phoneNumber", "Phone number, if no name"),
			str("purpose", "Reason for the call"),
		},
		Action: string(OpMakeCall),
	},

	// Personal scheduling

	{
		Op:          OpQueryDailyTasks,
		Domain:      DomainScheduling,
		Description: "Query the user's personal daily tasks, by day or completion.",
		Params: []Param{
			str("date", "Only tasks due this day."+naturalDate),
			boolean("completed", "Filter by completion"),
		},
	},
	{
		Op:          OpAddDailyTask,
		Domain:      DomainScheduling,
		Description: "Add a personal task or reminder for the user.",
		Params: []Param{
			required(str("title", "What to do")),
			str("dueDate", "Due day; defaults to tomorrow."+naturalDate),
			str("dueTime", "Due time, e.g. 3pm, morning, end of day; defaults to 9am"),
			boolean("reminder", "Send a reminder notification"),
			str("notes", "Details"),
		},
		Action: string(OpAddDailyTask),
	},
	{
		Op:          OpUpdateDailyTask,
		Domain:      DomainScheduling,
		Description: "Change a personal task's title, due date or time, reminder, or notes.",
		Params: []Param{
			required(str("taskTitle", "The task (partial title match)")),
			str("newTitle", "New title"),
			str("dueDate", "New due day."+naturalDate),
			str("dueTime", "New due time"),
			boolean("reminder", "Turn the reminder on or off"),
			str("notes", "New notes"),
		},
		Action: string(OpUpdateDailyTask),
	},
	{
		Op:          OpCompleteDailyTask,
		Domain:      DomainScheduling,
		Description: "Mark a personal task done.",
		Params: []Param{
			required(str("taskTitle", "The task (partial title match)")),
		},
		Action: string(OpCompleteDailyTask),
	},
	{
		Op:          OpDeleteDailyTask,
		Domain:      DomainScheduling,
		Description: "Delete a personal task.",
		Params: []Param{
			required(str("taskTitle", "The task (partial title match)")),
		},
		Action: string(OpDeleteDailyTask),
	},
}
