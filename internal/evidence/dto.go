package evidence

import "time"

// Response is the outward-facing representation of an evidence record.
type Response struct {
	ID          string    `json:"id"`
	MilestoneID string    `json:"milestoneId"`
	FileName    string    `json:"fileName"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	URL         string    `json:"url"`
	Note        string    `json:"note,omitempty"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

func toResponse(ev Evidence) Response {
	return Response{
		ID:          ev.ID,
		MilestoneID: ev.MilestoneID,
		FileName:    ev.OriginalName,
		MimeType:    ev.MimeType,
		SizeBytes:   ev.SizeBytes,
		URL:         ev.URL,
		Note:        ev.Note,
		UploadedAt:  ev.CreatedAt,
	}
}

func toResponses(items []Evidence) []Response {
	out := make([]Response, 0, len(items))
	for _, ev := range items {
		out = append(out, toResponse(ev))
	}
	return out
}

// ListQuery is the accepted query string for listing evidence.
type ListQuery struct {
	Page  int `json:"page" validate:"omitempty,min=1"`
	Limit int `json:"limit" validate:"omitempty,min=1,max=100"`
}
