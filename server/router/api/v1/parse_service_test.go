package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/ctparse/internal/profile"
	"github.com/hrygo/ctparse/plugin/ctparse"
	"github.com/hrygo/ctparse/plugin/ctparse/scorer"
)

// Thursday
var ref = time.Date(2022, 3, 10, 10, 0, 0, 0, time.UTC)

func newTestAPI(t *testing.T, ts ctparse.TimeService) *echo.Echo {
	t.Helper()
	languages := []string{"en", "de", "multi"}
	if ts == nil {
		svc, err := ctparse.NewService(ctparse.DefaultConfig(), scorer.Length{}, nil)
		require.NoError(t, err)
		ts, languages = svc, svc.Languages()
	}
	api := NewAPIV1Service(&profile.Profile{Mode: "dev"}, ts, languages)
	api.now = func() time.Time { return ref }

	e := echo.New()
	api.RegisterRoutes(e)
	return e
}

func post(t *testing.T, e *echo.Echo, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestParse_Best(t *testing.T) {
	e := newTestAPI(t, nil)
	rec := post(t, e, `{"text":"tomorrow at 5pm"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[ParseResponse](t, rec)
	assert.Empty(t, resp.Code)
	assert.True(t, resp.Reference.Equal(ref))
	require.Len(t, resp.Results, 1)

	r := resp.Results[0]
	assert.Equal(t, "2022-03-11 17:00 (X/X)", r.Value)
	assert.Equal(t, "Time", r.Kind)
	assert.Equal(t, [2]int{0, 15}, r.Span)
	assert.Equal(t, "tomorrow at 5pm", r.Text)
	assert.NotEmpty(t, r.Rules)
	require.NotNil(t, r.Start)
	require.NotNil(t, r.End)
	assert.True(t, r.Start.Equal(time.Date(2022, 3, 11, 17, 0, 0, 0, time.UTC)))
	assert.Equal(t, time.Hour, r.End.Sub(*r.Start))
}

func TestParse_AllAndReference(t *testing.T) {
	e := newTestAPI(t, nil)

	rec := post(t, e, `{"text":"5","all":true,"lang":"en"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Greater(t, len(decode[ParseResponse](t, rec).Results), 1)

	rec = post(t, e, `{"text":"next Monday","reference":"2022-03-17T10:00:00+01:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ParseResponse](t, rec)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "2022-03-21 X:X (X/X)", resp.Results[0].Value)
	_, offset := resp.Results[0].Start.Zone()
	assert.Equal(t, 3600, offset)
}

func TestParse_Timezone(t *testing.T) {
	e := newTestAPI(t, nil)

	// 10:00 UTC is already midnight of the next day at UTC+14.
	rec := post(t, e, `{"text":"tomorrow","timezone":"Pacific/Kiritimati"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ParseResponse](t, rec)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "2022-03-12 X:X (X/X)", resp.Results[0].Value)
	_, offset := resp.Results[0].Start.Zone()
	assert.Equal(t, 14*3600, offset)

	rec = post(t, e, `{"text":"tomorrow","timezone":"Mars/Olympus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decode[ErrorResponse](t, rec).Code)
}

func TestParse_NoParse(t *testing.T) {
	e := newTestAPI(t, nil)
	rec := post(t, e, `{"text":"xyzzy plugh"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)

	resp := decode[ParseResponse](t, rec)
	assert.Equal(t, "NO_PARSE", resp.Code)
}

func TestParse_InvalidArguments(t *testing.T) {
	e := newTestAPI(t, nil)
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"text":`},
		{"empty text", `{"text":"   "}`},
		{"too long", `{"text":"` + strings.Repeat("a", MaxTextLength+1) + `"}`},
		{"unknown lang", `{"text":"tomorrow","lang":"fr"}`},
		{"bad reference", `{"text":"tomorrow","reference":"10.03.2022"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, e, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "INVALID_ARGUMENT", decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestParse_ServiceFailures(t *testing.T) {
	mock := ctparse.NewMockTimeService()
	e := newTestAPI(t, mock)

	mock.Outcomes["slow"] = ctparse.Outcome{Partial: true}
	rec := post(t, e, `{"text":"slow"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ParseResponse](t, rec)
	assert.Equal(t, "TIMEOUT", resp.Code)
	assert.True(t, resp.Partial)

	mock.Err = errors.New("disk on fire")
	rec = post(t, e, `{"text":"tomorrow"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL", decode[ErrorResponse](t, rec).Code)

	mock.Err = ctparse.ErrUnknownLanguage
	rec = post(t, e, `{"text":"tomorrow"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListLanguages(t *testing.T) {
	e := newTestAPI(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/languages", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string][]string](t, rec)
	assert.ElementsMatch(t, []string{"en", "de", "multi"}, got["languages"])
}
