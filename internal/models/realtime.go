package models

// ChangeEvent is the wire format pushed to realtime subscribers whenever
// a complaint is created or updated.
type ChangeEvent struct {
	// Type is "insert" or "update".
	Type   string    `json:"type"`
	Record Complaint `json:"record"`
}

const (
	EventInsert = "insert"
	EventUpdate = "update"
)

// ComplaintDraft carries the caller-supplied fields of a submission
// before the intake pipeline fills in the rest.
type ComplaintDraft struct {
	IssueType    string `json:"issue_type"`
	Description  string `json:"description"`
	LocationText string `json:"location_text"`
	// Latitude/Longitude are optional; when nil the pipeline asks the
	// geolocation resolver.
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	// Priority is used only when no vision severity is available.
	Priority Priority `json:"priority"`
	// ImageURL references already-uploaded evidence; ImageData is raw
	// bytes still to be uploaded. At most one of the two is set.
	ImageURL         *string `json:"image_url"`
	ImageData        []byte  `json:"-"`
	ImageContentType string  `json:"-"`
}
