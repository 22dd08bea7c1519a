package catalog

import (
	"errors"
	"strings"
	"testing"
)

func TestEntriesUnique(t *testing.T) {
	seen := make(map[Op]bool)
	for _, e := range Entries() {
		if seen[e.Op] {
			t.Errorf("duplicate op %q", e.Op)
		}
		seen[e.Op] = true
		if e.Description == "" {
			t.Errorf("%s: empty description", e.Op)
		}
		if e.Domain == "" {
			t.Errorf("%s: empty domain", e.Op)
		}
	}
	if len(seen) != 66 {
		t.Errorf("catalog has %d ops, want 66", len(seen))
	}
}

func TestLookup(t *testing.T) {
	e, ok := Lookup("add_expense")
	if !ok {
		t.Fatal("add_expense not found")
	}
	if !e.Writes() || e.Action != "add_expense" {
		t.Errorf("add_expense Action = %q", e.Action)
	}

	if _, ok := Lookup("drop_tables"); ok {
		t.Error("unknown op should not be found")
	}
}

func TestActionTokens(t *testing.T) {
	tests := []struct {
		op     Op
		action string
	}{
		{OpQueryClients, ""},
		{OpGetTimecard, ""},
		{OpConvertCallToLead, "add_client"},
		{OpAnalyzeReceipt, "add_expense"},
		{OpGenerateReport, "save_report"},
		{OpClockIn, "clock_in"},
		{OpConvertEstimateToProject, "convert_estimate_to_project"},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			e, ok := Lookup(string(tt.op))
			if !ok {
				t.Fatalf("%s not in catalog", tt.op)
			}
			if e.Action != tt.action {
				t.Errorf("Action = %q, want %q", e.Action, tt.action)
			}
		})
	}
}

func TestToolSpecs(t *testing.T) {
	specs := ToolSpecs()
	if len(specs) != len(Entries()) {
		t.Fatalf("got %d specs, want %d", len(specs), len(Entries()))
	}
	for _, s := range specs {
		if s["type"] != "function" {
			t.Errorf("type = %v", s["type"])
		}
		fn, ok := s["function"].(map[string]any)
		if !ok {
			t.Fatal("missing function block")
		}
		params, ok := fn["parameters"].(map[string]any)
		if !ok || params["type"] != "object" {
			t.Errorf("%v: parameters not an object schema", fn["name"])
		}
	}
}

func TestSchemaRequiredAndNested(t *testing.T) {
	e, _ := Lookup(string(OpAddClient))
	schema := e.Schema()
	req, _ := schema["required"].([]string)
	if strings.Join(req, ",") != "name,source" {
		t.Errorf("required = %v", req)
	}

	e, _ = Lookup(string(OpGenerateReport))
	props := e.Schema()["properties"].(map[string]any)
	dr, ok := props["dateRange"].(map[string]any)
	if !ok || dr["type"] != "object" {
		t.Fatalf("dateRange = %v", props["dateRange"])
	}
	if _, ok := dr["properties"].(map[string]any)["startDate"]; !ok {
		t.Error("dateRange missing startDate")
	}

	e, _ = Lookup(string(OpCreatePriceListItems))
	items := e.Schema()["properties"].(map[string]any)["items"].(map[string]any)
	if items["type"] != "array" {
		t.Errorf("items type = %v", items["type"])
	}
	if inner, ok := items["items"].(map[string]any); !ok || inner["type"] != "object" {
		t.Errorf("items element = %v", items["items"])
	}
}

func TestQueryFilterParams(t *testing.T) {
	tests := []struct {
		op   Op
		want []string
	}{
		{OpQueryPayments, []string{"date", "startDate", "endDate", "projectId", "projectName", "clientName"}},
		{OpQueryChangeOrders, []string{"status", "projectId", "projectName"}},
		{OpQueryProposals, []string{"status", "projectId", "projectName", "subcontractorId", "subcontractorName"}},
		{OpGenerateReport, []string{"reportType", "projectId", "projectName", "withReceipts", "dateRange", "notes"}},
		{OpQueryDailyLogs, []string{"date", "projectId", "projectName"}},
		{OpQueryPhotos, []string{"category", "projectId", "projectName"}},
		{OpQueryTasks, []string{"completed", "projectId", "projectName"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			e, ok := Lookup(string(tt.op))
			if !ok {
				t.Fatalf("%s not in catalog", tt.op)
			}
			props := e.Schema()["properties"].(map[string]any)
			for _, name := range tt.want {
				if _, ok := props[name]; !ok {
					t.Errorf("missing parameter %q", name)
				}
			}
		})
	}
}

func TestAttachmentOps(t *testing.T) {
	var got []string
	for _, e := range Entries() {
		if e.Attachments {
			got = append(got, string(e.Op))
		}
	}
	want := "create_takeoff_estimate,analyze_receipt,add_photo"
	if strings.Join(got, ",") != want {
		t.Errorf("attachment ops = %v, want %s", got, want)
	}
}

func TestValidate(t *testing.T) {
	addExpense, _ := Lookup(string(OpAddExpense))
	report, _ := Lookup(string(OpGenerateReport))
	priceItems, _ := Lookup(string(OpCreatePriceListItems))
	update, _ := Lookup(string(OpUpdateProject))

	tests := []struct {
		name      string
		entry     Entry
		args      map[string]any
		wantField string
		check     func(t *testing.T, out map[string]any)
	}{
		{
			name:      "missing required",
			entry:     addExpense,
			args:      map[string]any{"projectName": "Smith", "store": "Home Depot", "type": "Material"},
			wantField: "amount",
		},
		{
			name:      "blank required",
			entry:     addExpense,
			args:      map[string]any{"projectName": "  ", "amount": 10.0, "store": "HD", "type": "Material"},
			wantField: "projectName",
		},
		{
			name:  "amount from dollar string",
			entry: addExpense,
			args:  map[string]any{"projectName": "Smith", "amount": "$1,250.50", "store": "HD", "type": "material"},
			check: func(t *testing.T, out map[string]any) {
				if out["amount"] != 1250.5 {
					t.Errorf("amount = %v", out["amount"])
				}
				if out["type"] != "Material" {
					t.Errorf("type = %v, want canonical Material", out["type"])
				}
			},
		},
		{
			name:      "bad enum",
			entry:     addExpense,
			args:      map[string]any{"projectName": "Smith", "amount": 5.0, "store": "HD", "type": "Snacks"},
			wantField: "type",
		},
		{
			name:  "boolean from string",
			entry: addExpense,
			args:  map[string]any{"projectName": "Smith", "amount": 5.0, "store": "HD", "type": "Office", "allowDuplicate": "yes"},
			check: func(t *testing.T, out map[string]any) {
				if out["allowDuplicate"] != true {
					t.Errorf("allowDuplicate = %v", out["allowDuplicate"])
				}
			},
		},
		{
			name:  "enum separators ignored",
			entry: update,
			args:  map[string]any{"projectName": "Smith", "status": "On Hold"},
			check: func(t *testing.T, out map[string]any) {
				if out["status"] != "on-hold" {
					t.Errorf("status = %v", out["status"])
				}
			},
		},
		{
			name:      "integer rejects fraction",
			entry:     update,
			args:      map[string]any{"projectName": "Smith", "progress": 45.5},
			wantField: "progress",
		},
		{
			name:      "nested object field",
			entry:     report,
			args:      map[string]any{"reportType": "expenses", "dateRange": map[string]any{"startDate": 12}},
			wantField: "",
			check: func(t *testing.T, out map[string]any) {
				dr := out["dateRange"].(map[string]any)
				if dr["startDate"] != "12" {
					t.Errorf("startDate = %v", dr["startDate"])
				}
			},
		},
		{
			name:      "nested object not an object",
			entry:     report,
			args:      map[string]any{"reportType": "expenses", "dateRange": "last week"},
			wantField: "dateRange",
		},
		{
			name:  "array items",
			entry: priceItems,
			args: map[string]any{
				"category": "Decking",
				"items": []any{
					map[string]any{"name": "Trex board", "unit": "LF", "unitPrice": 9.5},
					map[string]any{"name": "Hidden fastener", "unit": "EA"},
				},
			},
			wantField: "items[1].unitPrice",
		},
		{
			name:      "raw arguments",
			entry:     addExpense,
			args:      map[string]any{RawArgumentsKey: "{not json"},
			wantField: "arguments",
		},
		{
			name:  "unknown keys pass through",
			entry: update,
			args:  map[string]any{"projectName": "Smith", "color": "blue"},
			check: func(t *testing.T, out map[string]any) {
				if out["color"] != "blue" {
					t.Errorf("color = %v", out["color"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Validate(tt.entry, tt.args)
			if tt.wantField != "" {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("err = %v, want ValidationError", err)
				}
				if ve.Field != tt.wantField {
					t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if tt.check != nil {
				tt.check(t, out)
			}
		})
	}
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	e, _ := Lookup(string(OpAddExpense))
	args := map[string]any{"projectName": "Smith", "amount": "12", "store": "HD", "type": "labor"}
	if _, err := Validate(e, args); err != nil {
		t.Fatal(err)
	}
	if args["amount"] != "12" || args["type"] != "labor" {
		t.Errorf("input mutated: %v", args)
	}
}
