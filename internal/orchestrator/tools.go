package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/legacyprime/foreman/internal/audit"
	"github.com/legacyprime/foreman/internal/events"
	"github.com/legacyprime/foreman/internal/llm"
	"github.com/legacyprime/foreman/internal/ops"
)

// ruleOneWrite names the refusal of a second write in a turn.
const ruleOneWrite = "one_change_per_message"

// runTool executes one operation and returns the JSON fed back to the
// model.
func (o *Orchestrator) runTool(ctx context.Context, t *turn, req *ops.Request, tc llm.ToolCall) string {
	name := tc.Function.Name
	t.calls++

	o.bus.Emit(events.SourceOrchestrator, events.KindToolCall, map[string]any{
		"request_id": t.id,
		"tool":       name,
	})
	o.logger.Debug("tool call",
		"request_id", t.id,
		"tool", name,
		"args", tc.Function.Arguments,
	)

	toolCtx, cancel := withTimeout(ctx, o.cfg.ToolTimeout)
	start := time.Now()
	out := o.executor.Execute(toolCtx, req, name, tc.Function.Arguments)
	cancel()
	elapsed := time.Since(start)

	if out.ActionRequired != "" {
		if t.action == "" {
			t.action = out.ActionRequired
			t.data = out.ActionData
		} else {
			out = ops.Refused(&ops.BusinessRuleError{
				Rule: ruleOneWrite,
				Message: fmt.Sprintf("Only one change can be made per message and %s is already prepared, so %s was not. Tell the user and offer to do it next.",
					t.action, name),
			})
		}
	}

	ok := out.Err == nil
	attrs := []any{
		"request_id", t.id,
		"tool", name,
		"ok", ok,
		"elapsed", elapsed.Round(time.Millisecond),
	}
	if out.ActionRequired != "" {
		attrs = append(attrs, "action", out.ActionRequired)
	}
	if !ok {
		attrs = append(attrs, "error", out.Err)
	}
	o.logger.Info("tool done", attrs...)
	o.bus.Emit(events.SourceOrchestrator, events.KindToolDone, map[string]any{
		"request_id":  t.id,
		"tool":        name,
		"ok":          ok,
		"action":      out.ActionRequired,
		"duration_ms": elapsed.Milliseconds(),
	})

	if o.audit != nil {
		c := audit.Call{
			RequestID:      t.id,
			Operation:      name,
			Arguments:      tc.Function.Arguments,
			OK:             ok,
			ActionRequired: out.ActionRequired,
			DurationMS:     elapsed.Milliseconds(),
		}
		if !ok {
			c.Error = out.Err.Error()
		}
		if err := o.audit.Record(ctx, c); err != nil {
			o.logger.Warn("failed to audit tool call", "request_id", t.id, "tool", name, "error", err)
		}
	}

	b, err := json.Marshal(out.Result)
	if err != nil {
		o.logger.Error("failed to encode tool result", "request_id", t.id, "tool", name, "error", err)
		return fmt.Sprintf(`{"error":%q}`, "The result of "+name+" could not be encoded.")
	}
	o.logger.Log(ctx, llm.LevelTrace, "tool result", "request_id", t.id, "tool", name, "result", string(b))
	return string(b)
}
