// Package ops executes catalog operations against a request's
// snapshot.
//
// Every operation either reads (a result only) or describes a write (a
// result plus an action payload the caller applies). The executor
// never writes anything itself, so running the same call twice on the
// same snapshot yields the same outcome. Errors never escape Execute:
// they become an {"error": ...} result the model can explain.
package ops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/legacyprime/foreman/internal/catalog"
	"github.com/legacyprime/foreman/internal/dates"
	"github.com/legacyprime/foreman/internal/llm"
	"github.com/legacyprime/foreman/internal/resolve"
	"github.com/legacyprime/foreman/internal/snapshot"
	"github.com/legacyprime/foreman/internal/vision"
)

// Vision reads images for the operations that need it.
type Vision interface {
	AnalyzeReceipt(ctx context.Context, img llm.Image) (*vision.Receipt, error)
	Takeoff(ctx context.Context, img llm.Image, document string, categories []string) ([]vision.LineItem, error)
}

// Attachment is a file on the user's message.
type Attachment struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	URI      string `json:"uri"`
}

// IsImage reports whether the attachment can go to a vision model.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(a.MIMEType), "image/")
}

// Image converts the attachment for a model call.
func (a Attachment) Image() llm.Image {
	return llm.Image{MIMEType: a.MIMEType, URL: a.URI}
}

// Request is the per-turn context every operation runs in.
type Request struct {
	Snapshot    *snapshot.Snapshot
	Now         time.Time // in the company's timezone
	Attachments []Attachment
}

// Outcome is the result of one operation. ActionRequired and
// ActionData are set together, and only when the operation describes
// a write.
type Outcome struct {
	Result         map[string]any
	ActionRequired string
	ActionData     any
	Err            error // the failure behind an error result, for logging
}

// Executor runs operations.
type Executor struct {
	vision Vision
	logger *slog.Logger
}

// NewExecutor creates an Executor. v may be nil, in which case the
// image operations report that vision is unavailable.
func NewExecutor(v Vision, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{vision: v, logger: logger.With("component", "ops")}
}

// Execute validates args against the catalog entry for name, runs the
// operation, and reports the outcome. It never panics and never
// returns a Go error; failures are folded into the result.
func (x *Executor) Execute(ctx context.Context, req *Request, name string, args map[string]any) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			x.logger.Error("operation panicked", "op", name, "panic", r)
			out = failure(fmt.Errorf("internal error while running %s", name))
		}
	}()

	entry, ok := catalog.Lookup(name)
	if !ok {
		return failure(&UnknownOperationError{Name: name})
	}
	valid, err := catalog.Validate(entry, args)
	if err != nil {
		return failure(err)
	}
	o, err := Decode(entry.Op, valid)
	if err != nil {
		return failure(err)
	}

	snap := req.Snapshot
	if snap == nil {
		snap = snapshot.New(snapshot.Data{})
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	c := &call{ctx: ctx, x: x, snap: snap, now: now, attachments: req.Attachments}

	r, err := c.dispatch(o)
	if err != nil {
		return failure(err)
	}
	if len(c.notes) > 0 {
		r.result["note"] = strings.Join(c.notes, " ")
	}
	out = Outcome{Result: r.result}
	if r.data != nil {
		out.ActionRequired = entry.Action
		out.ActionData = r.data
	}
	return out
}

// dispatch is the single switch over every operation variant.
func (c *call) dispatch(o Operation) (*reply, error) {
	switch o := o.(type) {
	case *QueryClients:
		return c.queryClients(o)
	case *AddClient:
		return c.addClient(o)
	case *UpdateClient:
		return c.updateClient(o)
	case *SetFollowup:
		return c.setFollowup(o)
	case *SendInspectionLink:
		return c.sendInspectionLink(o)
	case *ShareClientContact:
		return c.shareClientContact(o)
	case *QueryCallLogs:
		return c.queryCallLogs(o)
	case *ConvertCallToLead:
		return c.convertCallToLead(o)
	case *QueryEstimates:
		return c.queryEstimates(o)
	case *GenerateEstimate:
		return c.generateEstimate(o)
	case *CreateTakeoffEstimate:
		return c.createTakeoffEstimate(o)
	case *SendEstimate:
		return c.sendEstimate(o)
	case *ApproveEstimate:
		return c.approveEstimate(o)
	case *RejectEstimate:
		return c.rejectEstimate(o)
	case *RequestPayment:
		return c.requestPayment(o)
	case *QueryPriceList:
		return c.queryPriceList(o)
	case *CreatePriceListItems:
		return c.createPriceListItems(o)
	case *QueryProjects:
		return c.queryProjects(o)
	case *GetProjectDetails:
		return c.getProjectDetails(o)
	case *CreateProject:
		return c.createProject(o)
	case *UpdateProject:
		return c.updateProject(o)
	case *ArchiveProject:
		return c.archiveProject(o)
	case *ConvertEstimateToProject:
		return c.convertEstimateToProject(o)
	case *GetSummary:
		return c.getSummary(o)
	case *QueryExpenses:
		return c.queryExpenses(o)
	case *AddExpense:
		return c.addExpense(o)
	case *DeleteExpense:
		return c.deleteExpense(o)
	case *AnalyzeReceipt:
		return c.analyzeReceipt(o)
	case *QueryPayments:
		return c.queryPayments(o)
	case *AddPayment:
		return c.addPayment(o)
	case *QueryChangeOrders:
		return c.queryChangeOrders(o)
	case *CreateChangeOrder:
		return c.createChangeOrder(o)
	case *ApproveChangeOrder:
		return c.approveChangeOrder(o)
	case *RejectChangeOrder:
		return c.rejectChangeOrder(o)
	case *QueryProposals:
		return c.queryProposals(o)
	case *AcceptProposal:
		return c.acceptProposal(o)
	case *GenerateReport:
		return c.generateReport(o)
	case *QueryClockEntries:
		return c.queryClockEntries(o)
	case *ClockIn:
		return c.clockIn(o)
	case *ClockOut:
		return c.clockOut(o)
	case *StartLunchBreak:
		return c.startLunchBreak(o)
	case *EndLunchBreak:
		return c.endLunchBreak(o)
	case *GetTimecard:
		return c.getTimecard(o)
	case *WhoIsClockedIn:
		return c.whoIsClockedIn(o)
	case *QueryDailyLogs:
		return c.queryDailyLogs(o)
	case *AddDailyLog:
		return c.addDailyLog(o)
	case *DeleteDailyLog:
		return c.deleteDailyLog(o)
	case *QueryPhotos:
		return c.queryPhotos(o)
	case *AddPhoto:
		return c.addPhoto(o)
	case *QueryTasks:
		return c.queryTasks(o)
	case *CreateTask:
		return c.createTask(o)
	case *CompleteTask:
		return c.completeTask(o)
	case *QuerySubcontractors:
		return c.querySubcontractors(o)
	case *AddSubcontractor:
		return c.addSubcontractor(o)
	case *AssignSubcontractor:
		return c.assignSubcontractor(o)
	case *RequestProposal:
		return c.requestProposal(o)
	case *QueryTeamMembers:
		return c.queryTeamMembers(o)
	case *SendSMS:
		return c.sendSMS(o)
	case *SendBulkSMS:
		return c.sendBulkSMS(o)
	case *SendEmail:
		return c.sendEmail(o)
	case *MakeCall:
		return c.makeCall(o)
	case *QueryDailyTasks:
		return c.queryDailyTasks(o)
	case *AddDailyTask:
		return c.addDailyTask(o)
	case *UpdateDailyTask:
		return c.updateDailyTask(o)
	case *CompleteDailyTask:
		return c.completeDailyTask(o)
	case *DeleteDailyTask:
		return c.deleteDailyTask(o)
	}
	return nil, fmt.Errorf("operation %s has no handler", o.Op())
}

// call carries one operation's inputs.
type call struct {
	ctx         context.Context
	x           *Executor
	snap        *snapshot.Snapshot
	now         time.Time
	attachments []Attachment
	notes       []string
}

type reply struct {
	result map[string]any
	data   any // action payload; nil for reads
}

func read(result map[string]any) (*reply, error) {
	return &reply{result: result}, nil
}

// pending describes a write. The result says the change is prepared,
// never that it happened.
func pending(data any, message string, fields map[string]any) (*reply, error) {
	result := map[string]any{
		"status":  "pending_confirmation",
		"message": message,
	}
	for k, v := range fields {
		result[k] = v
	}
	return &reply{result: result, data: data}, nil
}

func (c *call) notef(format string, args ...any) {
	c.notes = append(c.notes, fmt.Sprintf(format, args...))
}

// date normalizes a date phrase. An empty phrase yields fallback when
// fallback is set; otherwise the normalizer's default applies and is
// noted, as is any phrase it did not understand.
func (c *call) date(field, text, fallback string) string {
	text = strings.TrimSpace(text)
	if text == "" && fallback != "" {
		return fallback
	}
	d, ok := dates.ParseDate(text, c.now)
	if !ok {
		if text == "" {
			c.notef("No %s was given; assumed %s.", field, d)
		} else {
			c.notef("%s %q was not understood; assumed %s. Confirm the date with the user.", field, text, d)
		}
	}
	return d
}

// clock normalizes a time phrase, noting any default taken.
func (c *call) clock(field, text string) string {
	text = strings.TrimSpace(text)
	t, ok := dates.ParseTime(text)
	if !ok {
		if text == "" {
			c.notef("No %s was given; assumed %s.", field, t)
		} else {
			c.notef("%s %q was not understood; assumed %s. Confirm the time with the user.", field, text, t)
		}
	}
	return t
}

// dateFilter normalizes an optional date used to filter a query.
func (c *call) dateFilter(field, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return c.date(field, text, "")
}

func (c *call) today() string {
	return c.now.Format(dates.DateLayout)
}

func (c *call) stamp(t time.Time) string {
	return t.In(c.now.Location()).Format(time.RFC3339)
}

// inRange reports whether the YYYY-MM-DD prefix of date lies within
// [start, end]; empty bounds are open.
func inRange(date, start, end string) bool {
	if len(date) >= 10 {
		date = date[:10]
	}
	if start != "" && date < start {
		return false
	}
	if end != "" && date > end {
		return false
	}
	return true
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

func failure(err error) Outcome {
	return Outcome{Result: errorResult(err), Err: err}
}

// Refused is the outcome of an operation the caller declined to run.
func Refused(err error) Outcome { return failure(err) }

// errorResult renders err as the payload fed back to the model.
func errorResult(err error) map[string]any {
	var (
		ve  *catalog.ValidationError
		nf  *resolve.NotFoundError
		amb *resolve.AmbiguousError
		br  *BusinessRuleError
		ext *ExternalServiceError
		uo  *UnknownOperationError
	)
	switch {
	case errors.As(err, &amb):
		return map[string]any{
			"multiple": true,
			"message":  amb.Error(),
			"kind":     string(amb.Kind),
			"query":    amb.Query,
			"matches":  amb.Matches,
			"prompt":   amb.Prompt(),
		}
	case errors.As(err, &ve):
		r := map[string]any{"error": ve.Message, "kind": "validation"}
		if ve.Field != "" {
			r["field"] = ve.Field
		}
		return r
	case errors.As(err, &nf):
		r := map[string]any{"error": nf.Error(), "kind": "not_found", "query": nf.Query}
		if len(nf.Alternatives) > 0 {
			r["alternatives"] = nf.Alternatives
		}
		return r
	case errors.As(err, &br):
		return map[string]any{"error": br.Message, "kind": "business_rule", "rule": br.Rule}
	case errors.As(err, &ext):
		return map[string]any{"error": ext.Error(), "kind": "external_service"}
	case errors.As(err, &uo):
		return map[string]any{"error": uo.Error(), "kind": "unknown_operation"}
	}
	return map[string]any{"error": err.Error()}
}
