package app

import (
	"fmt"
	"strings"

	"dmcacli/internal/batch"
	"dmcacli/internal/request"
)

type setupResponse struct {
	Configured bool   `json:"configured"`
	ConfigPath string `json:"configPath"`
}

func (r setupResponse) HumanText() string {
	return "configuration written to " + r.ConfigPath
}

type requestCheckItem struct {
	Path    string               `json:"path"`
	OK      bool                 `json:"ok"`
	Kind    string               `json:"kind,omitempty"`
	Fields  []request.FieldError `json:"fields,omitempty"`
	Message string               `json:"message,omitempty"`
}

type validateResponse struct {
	Requests []requestCheckItem `json:"requests"`
	Valid    int                `json:"valid"`
	Invalid  int                `json:"invalid"`
}

func (r validateResponse) ExitCode() int {
	if r.Invalid > 0 {
		return 1
	}
	return 0
}

func (r validateResponse) HumanText() string {
	var b strings.Builder
	for _, item := range r.Requests {
		if item.OK {
			fmt.Fprintf(&b, "[OK]      %s\n", item.Path)
			continue
		}
		fmt.Fprintf(&b, "[INVALID] %s: %s\n", item.Path, item.Message)
		for _, f := range item.Fields {
			fmt.Fprintf(&b, "          - %s: %s\n", f.Field, f.Reason)
		}
	}
	fmt.Fprintf(&b, "%d valid, %d invalid", r.Valid, r.Invalid)
	return b.String()
}

type previewItem struct {
	Path    string `json:"path"`
	OK      bool   `json:"ok"`
	Subject string `json:"subject,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

type previewResponse struct {
	Items   []previewItem `json:"items"`
	Valid   int           `json:"valid"`
	Invalid int           `json:"invalid"`

	previews []string
}

func (r previewResponse) ExitCode() int {
	if r.Invalid > 0 {
		return 1
	}
	return 0
}

func (r previewResponse) HumanText() string {
	parts := make([]string, 0, len(r.Items))
	parts = append(parts, r.previews...)
	for _, item := range r.Items {
		if !item.OK {
			parts = append(parts, fmt.Sprintf("[INVALID] %s: %s", item.Path, item.Message))
		}
	}
	return strings.Join(parts, "\n\n")
}

type sendItem struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`
}

type sendResponse struct {
	Results  []sendItem `json:"results"`
	Total    int        `json:"total"`
	Sent     int        `json:"sent"`
	Declined int        `json:"declined"`
	Failed   int        `json:"failed"`
}

func newSendResponse(sum batch.Summary) sendResponse {
	resp := sendResponse{
		Total:    sum.Total(),
		Sent:     sum.Sent,
		Declined: sum.Declined,
		Failed:   sum.Failed,
	}
	for _, o := range sum.Outcomes {
		resp.Results = append(resp.Results, sendItem{
			Path:    o.Path,
			Status:  string(o.Kind),
			Subject: o.Subject,
			Message: o.Message,
		})
	}
	return resp
}

func (r sendResponse) ExitCode() int {
	if r.Sent < r.Total {
		return 1
	}
	return 0
}

func (r sendResponse) HumanText() string {
	var b strings.Builder
	for _, item := range r.Results {
		switch batch.Kind(item.Status) {
		case batch.KindSent:
			fmt.Fprintf(&b, "[SENT]     %s\n", item.Path)
		case batch.KindUserDeclined:
			fmt.Fprintf(&b, "[DECLINED] %s\n", item.Path)
		default:
			fmt.Fprintf(&b, "[FAILED]   %s: %s\n", item.Path, item.Message)
		}
	}
	b.WriteString("========================================\n")
	b.WriteString(" DMCA Request Summary\n")
	b.WriteString("========================================\n")
	fmt.Fprintf(&b, " Total:    %d\n", r.Total)
	fmt.Fprintf(&b, " Sent:     %d\n", r.Sent)
	fmt.Fprintf(&b, " Declined: %d\n", r.Declined)
	fmt.Fprintf(&b, " Failed:   %d\n", r.Failed)
	b.WriteString("========================================")
	return b.String()
}
