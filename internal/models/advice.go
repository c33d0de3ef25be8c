package models

// AdviceEntry is one caregiver-facing guidance text, addressed by a
// composite key: "totaal.<LEVEL>", "<domein>.<LEVEL>" or
// "taak.<taskID>.<LEVEL>". A compiled-in default table supplies every
// key; the override store may replace individual entries.
type AdviceEntry struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Text   string `json:"text"`
	Active bool   `json:"active"`
}
