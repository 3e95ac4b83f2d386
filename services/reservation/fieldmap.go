package reservation

import (
	"strings"
	"unicode"

	"travelagency/database/repository/remote"
)

// FieldMapping pairs an application field name with its durable-store column.
type FieldMapping struct {
	AppField   string
	StoreField string
}

// FieldMappings is the single translation table between the application's
// camelCase fields and the store's snake_case columns. Keys not listed here
// fall back to the mechanical camel/snake rule.
var FieldMappings = []FieldMapping{
	{"id", "id"},
	{"title", "title"},
	{"description", "description"},
	{"price", "price"},
	{"priceAdult", "price_adult"},
	{"priceChild", "price_child"},
	{"priceBaby", "price_baby"},
	{"image", "image"},
	{"type", "type"},
	{"duration", "duration"},
	{"stock", "stock"},
	{"itinerary", "itinerary"},
	{"inclusions", "inclusions"},
	{"exclusions", "exclusions"},
	{"isDeleted", "is_deleted"},
	{"createdAt", "created_at"},

	{"customerName", "customer_name"},
	{"status", "status"},
	{"date", "date"},
	{"amount", "amount"},
	{"contact", "contact"},
	{"email", "email"},
	{"phone", "phone"},
	{"address", "address"},
	{"travelers", "travelers"},
	{"packageId", "package_id"},
	{"agencyId", "agency_id"},
	{"agencyName", "agency_name"},
	{"paymentMethod", "payment_method"},
	{"paymentProof", "payment_proof"},

	{"name", "name"},
	{"role", "role"},
	{"agencyAddress", "agency_address"},
	{"agencyPhone", "agency_phone"},
	{"walletBalance", "wallet_balance"},
	{"markupPreference", "agency_markup_pct"},
	{"password", "password"},

	{"proofImage", "proof_image"},
}

var (
	appToStore = map[string]string{}
	storeToApp = map[string]string{}
)

func init() {
	for _, m := range FieldMappings {
		appToStore[m.AppField] = m.StoreField
		storeToApp[m.StoreField] = m.AppField
	}
}

// ToStore renames the top-level keys of an application-shaped record.
// Nested values are passed through unchanged.
func ToStore(app map[string]any) remote.Record {
	out := make(remote.Record, len(app))
	for k, v := range app {
		if col, ok := appToStore[k]; ok {
			out[col] = v
			continue
		}
		out[camelToSnake(k)] = v
	}
	return out
}

// FromStore is the inverse of ToStore.
func FromStore(row remote.Record) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		if field, ok := storeToApp[k]; ok {
			out[field] = v
			continue
		}
		out[snakeToCamel(k)] = v
	}
	return out
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func snakeToCamel(s string) string {
	var b strings.Builder
	upper := false
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
