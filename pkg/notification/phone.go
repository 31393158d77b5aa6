package notification

import "strings"

// DefaultRegionCode is used when SMS_DEFAULT_REGION is not configured.
const DefaultRegionCode = "+91"

var phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// NormalizePhone converts a user-entered phone string into a dialable E.164
// form. Separator characters are stripped; a "+"-prefixed number passes
// through unchanged; a bare 10-digit number gets the default region code;
// anything else gets a bare "+". Inputs with too few digits still produce a
// syntactically plausible destination — the carrier rejects those, not us.
func NormalizePhone(raw, regionCode string) string {
	if regionCode == "" {
		regionCode = DefaultRegionCode
	}
	clean := phoneStripper.Replace(raw)
	if strings.HasPrefix(clean, "+") {
		return clean
	}
	if len(clean) == 10 {
		return regionCode + clean
	}
	return "+" + clean
}
