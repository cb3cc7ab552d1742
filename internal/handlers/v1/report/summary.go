package report

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/auth"
	"github.com/carson-networks/ledger-server/internal/handlers/httperr"
	"github.com/carson-networks/ledger-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/ledger-server/internal/service"
)

// SummaryInput selects one month, or all time when both fields are absent.
type SummaryInput struct {
	Year  int `query:"year" minimum:"0" doc:"Year of the month to summarize"`
	Month int `query:"month" minimum:"0" maximum:"12" doc:"Month to summarize, 1-12"`
}

type SummaryOutput struct {
	Body transaction.Summary
}

type summarizer interface {
	MonthlySummary(ctx context.Context, identity auth.Identity, month service.YearMonth) (service.Summary, error)
	OverallSummary(ctx context.Context, identity auth.Identity) (service.Summary, error)
}

// SummaryHandler handles GET /v1/summary.
type SummaryHandler struct {
	ReportService summarizer
}

func NewSummaryHandler(svc summarizer) *SummaryHandler {
	return &SummaryHandler{ReportService: svc}
}

func (h *SummaryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/v1/summary",
		Summary:     "Income and expense totals",
		Description: "Totals of the caller's transactions for one month, or for all time when no month is given.",
		Tags:        []string{"Reports"},
		Security:    auth.Security,
	}, h.handle)
}

func (h *SummaryHandler) handle(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	identity, err := httperr.Identity(ctx)
	if err != nil {
		return nil, err
	}

	var summary service.Summary
	switch {
	case input.Year == 0 && input.Month == 0:
		summary, err = h.ReportService.OverallSummary(ctx, identity)
	case input.Year == 0 || input.Month == 0:
		return nil, huma.Error400BadRequest("year and month must be given together")
	default:
		month := service.YearMonth{Year: input.Year, Month: time.Month(input.Month)}
		summary, err = h.ReportService.MonthlySummary(ctx, identity, month)
	}
	if err != nil {
		return nil, httperr.FromService(err, "failed to summarize")
	}

	return &SummaryOutput{Body: transaction.NewSummary(summary)}, nil
}
