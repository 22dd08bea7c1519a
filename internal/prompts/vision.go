package prompts

import (
	"fmt"
	"strings"
)

// ReceiptCategories is the construction expense taxonomy receipts are
// classified into.
var ReceiptCategories = []string{
	"PRE-CONSTRUCTION",
	"DEMOLITION",
	"CONCRETE & MASONRY",
	"FRAMING & ROUGH CARPENTRY",
	"ROOFING",
	"EXTERIOR FINISHES",
	"WINDOWS & DOORS",
	"PLUMBING",
	"ELECTRICAL",
	"HVAC",
	"INSULATION",
	"DRYWALL",
	"INTERIOR FINISHES",
	"FLOORING",
	"PAINTING",
	"CABINETRY & MILLWORK",
	"LANDSCAPING",
	"CLEANUP & FINAL",
}

// receiptTemplate asks for a receipt's key fields as JSON. The format
// verb is the bulleted category list.
const receiptTemplate = `You read receipts and invoices for construction expense tracking.

Extract from the attached image:
1. store: the store or vendor name
2. amount: the final total (look for "Total", "Grand Total", "Amount Due")
3. date: the transaction date as YYYY-MM-DD
4. category: the construction category of the main items, one of:
%s
5. items: a short description of what was bought
6. confidence: 0-100

If several totals are shown use the grand total. Classify hardware store
receipts by the main items purchased. If the image is not a receipt,
return an empty store and an amount of 0.

Respond ONLY with JSON in this form:
{"store": "Store Name", "amount": 123.45, "date": "2024-01-15", "category": "PLUMBING", "items": "PVC fittings", "confidence": 85}`

// ReceiptPrompt returns the receipt extraction prompt.
func ReceiptPrompt() string {
	var sb strings.Builder
	for _, c := range ReceiptCategories {
		sb.WriteString("   - ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}
	return fmt.Sprintf(receiptTemplate, strings.TrimRight(sb.String(), "\n"))
}

// takeoffTemplate asks for a material takeoff as a JSON array. Format
// verbs: (1) document description, (2) category guidance.
const takeoffTemplate = `You are a construction estimator. Analyze this %s and produce a detailed
material takeoff and cost estimate.

%s

For each item give:
1. name: specific, e.g. "2x4x8 Lumber" rather than "Lumber"
2. category: e.g. Framing, Electrical, Plumbing, Drywall
3. quantity: a number
4. unit: SF, LF, EA, CY and so on
5. unitPrice: USD per unit, as shown or a reasonable estimate
6. notes: specifications worth keeping

Respond ONLY with a JSON array:
[{"name": "Item name", "category": "Framing", "quantity": 100, "unit": "SF", "unitPrice": 2.5, "notes": ""}]

Start your response with [ and end with ].`

// TakeoffPrompt returns the document takeoff prompt. categories are
// the price list categories to favor; empty means any.
func TakeoffPrompt(document string, categories []string) string {
	if document == "" {
		document = "construction document"
	}
	guidance := "Include all relevant construction categories."
	if len(categories) > 0 {
		guidance = "Focus on these categories: " + strings.Join(categories, ", ")
	}
	return fmt.Sprintf(takeoffTemplate, document, guidance)
}
