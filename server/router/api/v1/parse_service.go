package v1

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/ctparse/plugin/ctparse"
	"github.com/hrygo/ctparse/plugin/ctparse/chart"
	apierrors "github.com/hrygo/ctparse/server/internal/errors"
	"github.com/hrygo/ctparse/server/internal/observability"
	"github.com/hrygo/ctparse/server/timezone"
)

// MaxTextLength bounds the input, in runes.
const MaxTextLength = 512

// ParseRequest is the body of POST /api/v1/parse.
type ParseRequest struct {
	Text string `json:"text"`
	// Reference is RFC 3339; the server clock is used when empty.
	Reference string `json:"reference,omitempty"`
	// Timezone is an IANA name; the reference is moved into it.
	Timezone string `json:"timezone,omitempty"`
	Lang     string `json:"lang,omitempty"`
	// All returns every ranked candidate instead of the best one.
	All bool `json:"all,omitempty"`
}

// ParseResult is one ranked reading.
type ParseResult struct {
	Value string     `json:"value"`
	Kind  string     `json:"kind"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
	Span  [2]int     `json:"span"`
	Text  string     `json:"text"`
	Rules []string   `json:"rules"`
	Score float64    `json:"score"`
}

// ParseResponse is the body returned by POST /api/v1/parse.
type ParseResponse struct {
	// Code is set when there is nothing to return.
	Code      string        `json:"code,omitempty"`
	Reference time.Time     `json:"reference"`
	Partial   bool          `json:"partial,omitempty"`
	Results   []ParseResult `json:"results"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func errorJSON(c echo.Context, reqCtx *observability.RequestContext, pe *apierrors.ParseError) error {
	return c.JSON(pe.HTTPStatus(), ErrorResponse{
		Code:      string(pe.Code),
		Message:   pe.Message,
		RequestID: reqCtx.RequestID,
	})
}

// Parse extracts time expressions from text.
// POST /api/v1/parse
func (s *APIV1Service) Parse(c echo.Context) error {
	ctx := c.Request().Context()
	reqCtx := observability.FromContextOrNew(ctx, c.Path())

	var req ParseRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, reqCtx, apierrors.InvalidArgument("malformed request body"))
	}
	if strings.TrimSpace(req.Text) == "" {
		return errorJSON(c, reqCtx, apierrors.InvalidArgument("text is required"))
	}
	if utf8.RuneCountInString(req.Text) > MaxTextLength {
		return errorJSON(c, reqCtx, apierrors.InvalidArgument("text is too long"))
	}
	if req.Lang != "" && len(s.Languages) > 0 && !slices.Contains(s.Languages, req.Lang) {
		return errorJSON(c, reqCtx, apierrors.InvalidArgument("unknown language").WithContext("lang", req.Lang))
	}

	if !timezone.IsValidTimezone(req.Timezone) {
		return errorJSON(c, reqCtx, apierrors.InvalidArgument("unknown timezone").WithContext("timezone", req.Timezone))
	}
	ref, err := timezone.Reference(req.Reference, req.Timezone, s.now())
	if err != nil {
		return errorJSON(c, reqCtx, apierrors.InvalidArgument("reference must be RFC 3339"))
	}

	out, err := s.TimeService.ParseAll(ctx, req.Text, ref, req.Lang)
	if err != nil {
		pe := apierrors.FromError(err)
		if pe.Code == apierrors.ErrCodeInternal {
			reqCtx.Error("parse failed", err)
		}
		return errorJSON(c, reqCtx, pe)
	}

	results := out.Results
	if !req.All && len(results) > 1 {
		results = results[:1]
	}
	resp := ParseResponse{
		Reference: ref,
		Partial:   out.Partial,
		Results:   make([]ParseResult, 0, len(results)),
	}
	for _, r := range results {
		resp.Results = append(resp.Results, convertResult(r, ref.Location()))
	}
	if len(resp.Results) == 0 {
		resp.Code = string(apierrors.ErrCodeNoParse)
		if out.Partial {
			resp.Code = string(apierrors.ErrCodeTimeout)
		}
	}

	reqCtx.Info("parse served",
		slog.String(observability.LogFieldLang, req.Lang),
		slog.Int(observability.LogFieldTextLen, len(req.Text)),
		slog.Int(observability.LogFieldCandidates, len(out.Results)),
		slog.Bool("partial", out.Partial),
		slog.Bool("cached", out.Cached),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
	)
	return c.JSON(http.StatusOK, resp)
}

func convertResult(r chart.Result, loc *time.Location) ParseResult {
	pr := ParseResult{
		Value: r.Value.String(),
		Kind:  r.Value.Kind().String(),
		Span:  [2]int{r.Span.Start, r.Span.End},
		Text:  r.Text,
		Rules: r.Rules,
		Score: r.Score,
	}
	if tr, err := ctparse.RangeOf(r.Value, loc); err == nil {
		if !tr.OpenStart() {
			pr.Start = &tr.Start
		}
		if !tr.OpenEnd() {
			pr.End = &tr.End
		}
	}
	return pr
}

// ListLanguages returns the accepted lang values.
// GET /api/v1/languages
func (s *APIV1Service) ListLanguages(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"languages": s.Languages})
}
