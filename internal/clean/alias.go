package clean

import (
	"regexp"
	"strings"

	"github.com/warin/clinicstats/internal/model"
)

var headerSeparators = regexp.MustCompile(`[\s\-./]+`)

// normalizeHeader folds a raw header name into the comparison form used for
// alias matching: trimmed, lowercased, separators collapsed to underscores.
func normalizeHeader(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = headerSeparators.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// columnAliases lists accepted source spellings per canonical column, in
// priority order. The first alias present in the header wins; later matches
// for the same canonical column are ignored.
var columnAliases = map[string][]string{
	model.ColBranch:        {"branch", "branch_name", "store", "สาขา"},
	model.ColDate:          {"date", "posting_date", "trans_date", "transaction_date", "doc_date", "วันที่"},
	model.ColDocNo:         {"doc_no", "document_no", "doc_number", "invoice_no", "receipt_no", "เลขที่เอกสาร"},
	model.ColDescription:   {"description", "product", "product_name", "service", "service_name", "item", "item_name", "รายการ"},
	model.ColLineTotal:     {"line_total", "linetotal", "net_amount", "amount", "total", "revenue", "ยอดขาย"},
	model.ColAvgCost:       {"avg_cost", "average_cost", "unit_cost", "cost", "ต้นทุนเฉลี่ย"},
	model.ColQuantity:      {"quantity", "qty", "จำนวน"},
	model.ColAge:           {"age", "patient_age", "อายุ"},
	model.ColGender:        {"gender", "sex", "เพศ"},
	model.ColDiseaseGroup:  {"disease_group", "disease", "diagnosis_group", "กลุ่มโรค"},
	model.ColPayer:         {"payer", "payer_name", "customer", "customer_name", "insurance", "ลูกค้า"},
	model.ColPaymentMethod: {"payment_method", "payment_type", "pay_method", "payment", "วิธีชำระเงิน"},
	model.ColHospital:      {"hospital", "hospital_name", "โรงพยาบาล"},
}

// resolveColumns maps each canonical column to its index in the raw header,
// taking the first present alias. The returned ColumnSet records presence.
func resolveColumns(header []string) (map[string]int, model.ColumnSet) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		n := normalizeHeader(h)
		if _, ok := byName[n]; !ok {
			byName[n] = i
		}
	}

	idx := make(map[string]int)
	cols := make(model.ColumnSet)
	for canonical, aliases := range columnAliases {
		for _, a := range aliases {
			if i, ok := byName[a]; ok {
				idx[canonical] = i
				cols[canonical] = true
				break
			}
		}
	}
	return idx, cols
}
