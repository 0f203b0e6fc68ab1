package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/persistence"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExporter records the documents it was asked to export.
type fakeExporter struct {
	mu   sync.Mutex
	docs []types.ResumeDocument
	err  error
}

func (f *fakeExporter) ExportDocument(_ context.Context, doc types.ResumeDocument, opts ...rendering.Option) (*export.File, error) {
	f.mu.Lock()
	f.docs = append(f.docs, doc)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	tree := rendering.RenderCurrent(doc, opts...)
	return &export.File{
		Name:        export.FileName(doc.Personal),
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.7 " + tree.Title),
		Page:        export.PageSize{Width: float64(tree.Width), Height: 1000},
	}, nil
}

type testServer struct {
	*Server
	kv       *persistence.MemoryKV
	exporter *fakeExporter
}


func newTestServer(t *testing.T, cfg Config) *testServer {
	t.Helper()
	logger := logging.Discard()
	kv := persistence.NewMemoryKV()
	store := document.New(context.Background(), persistence.NewAdapter(kv, persistence.WithLogger(logger)),
		document.WithLogger(logger))
	exp := &fakeExporter{}
	cfg.Logger = logger
	s := New(cfg, store, exp)
	t.Cleanup(s.Close)
	return &testServer{Server: s, kv: kv, exporter: exp}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

type mutationResponse struct {
	Document types.ResumeDocument `json:"document"`
	Changed  bool                 `json:"changed"`
	ID       string               `json:"id"`
}

func decodeMutation(t *testing.T, rec *httptest.ResponseRecorder) mutationResponse {
	t.Helper()
	var res mutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res), rec.Body.String())
	return res
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})
	rec := ts.do(t, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetDocument(t *testing.T) {
	ts := newTestServer(t, Config{})
	rec := ts.do(t, http.MethodGet, "/document", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc types.ResumeDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Empty(t, cmp.Diff(types.DefaultDocument(), doc))
}

func TestSetPersonal(t *testing.T) {
	ts := newTestServer(t, Config{})

	rec := ts.do(t, http.MethodPut, "/document/personal/email", `{"value":"ada@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeMutation(t, rec)
	assert.True(t, res.Changed)
	assert.Equal(t, "ada@example.com", res.Document.Personal.Email)

	stored, ok, err := ts.kv.Get(context.Background(), persistence.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok, "edits are written through")
	assert.Contains(t, stored, "ada@example.com")
}

func TestSetPersonal_UnknownField(t *testing.T) {
	ts := newTestServer(t, Config{})
	rec := ts.do(t, http.MethodPut, "/document/personal/nickname", `{"value":"x"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown form field")
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t, Config{})
	rec := ts.do(t, http.MethodPut, "/document/summary", `{"value":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON")
}

func TestSetTemplate(t *testing.T) {
	ts := newTestServer(t, Config{})

	res := decodeMutation(t, ts.do(t, http.MethodPut, "/document/template", `{"value":"classic"}`))
	assert.True(t, res.Changed)
	assert.Equal(t, types.TemplateClassic, res.Document.Template)

	rec := ts.do(t, http.MethodPut, "/document/template", `{"value":"bogus"}`)
	require.Equal(t, http.StatusOK, rec.Code, "invalid values are no-ops, not errors")
	res = decodeMutation(t, rec)
	assert.False(t, res.Changed)
	assert.Equal(t, types.TemplateClassic, res.Document.Template)
}

func TestSkills(t *testing.T) {
	ts := newTestServer(t, Config{})
	n := len(types.DefaultDocument().Skills)

	res := decodeMutation(t, ts.do(t, http.MethodPost, "/document/skills", `{"value":"Rust"}`))
	assert.True(t, res.Changed)
	assert.Equal(t, "Rust", res.Document.Skills[n])

	res = decodeMutation(t, ts.do(t, http.MethodPost, "/document/skills", `{"value":"   "}`))
	assert.False(t, res.Changed)
	assert.Len(t, res.Document.Skills, n+1)

	res = decodeMutation(t, ts.do(t, http.MethodDelete, "/document/skills/0", ""))
	assert.True(t, res.Changed)
	assert.Len(t, res.Document.Skills, n)

	res = decodeMutation(t, ts.do(t, http.MethodDelete, "/document/skills/42", ""))
	assert.False(t, res.Changed)

	rec := ts.do(t, http.MethodDelete, "/document/skills/first", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	res = decodeMutation(t, ts.do(t, http.MethodDelete, "/document/skills", ""))
	assert.True(t, res.Changed)
	assert.Empty(t, res.Document.Skills)
}

func TestExperienceLifecycle(t *testing.T) {
	ts := newTestServer(t, Config{})

	rec := ts.do(t, http.MethodPost, "/document/experience", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	res := decodeMutation(t, rec)
	require.NotEmpty(t, res.ID)
	require.Len(t, res.Document.Experience, 2)
	assert.Equal(t, types.ExperienceEntry{ID: res.ID}, res.Document.Experience[1])
	id := res.ID

	res = decodeMutation(t, ts.do(t, http.MethodPut, "/document/experience/"+id+"/company", `{"value":"Acme"}`))
	assert.True(t, res.Changed)
	assert.Equal(t, "Acme", res.Document.Experience[1].Company)

	rec = ts.do(t, http.MethodPut, "/document/experience/"+id+"/salary", `{"value":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	res = decodeMutation(t, ts.do(t, http.MethodDelete, "/document/experience/"+types.DefaultExperienceID, ""))
	assert.True(t, res.Changed)
	require.Len(t, res.Document.Experience, 1)
	assert.Equal(t, id, res.Document.Experience[0].ID)

	res = decodeMutation(t, ts.do(t, http.MethodPut, "/document/experience/"+types.DefaultExperienceID+"/title", `{"value":"x"}`))
	assert.False(t, res.Changed, "a removed entry cannot be edited")
}

func TestEducationLifecycle(t *testing.T) {
	ts := newTestServer(t, Config{})

	rec := ts.do(t, http.MethodPost, "/document/education", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeMutation(t, rec).ID

	res := decodeMutation(t, ts.do(t, http.MethodPut, "/document/education/"+id+"/school", `{"value":"MIT"}`))
	assert.Equal(t, "MIT", res.Document.Education[1].School)

	res = decodeMutation(t, ts.do(t, http.MethodDelete, "/document/education/"+id, ""))
	assert.True(t, res.Changed)
	assert.Len(t, res.Document.Education, 1)

	res = decodeMutation(t, ts.do(t, http.MethodDelete, "/document/education/"+id, ""))
	assert.False(t, res.Changed)
}

func TestReset(t *testing.T) {
	ts := newTestServer(t, Config{})
	ts.do(t, http.MethodPut, "/document/summary", `{"value":"changed"}`)

	rec := ts.do(t, http.MethodPost, "/document/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeMutation(t, rec)
	assert.Empty(t, cmp.Diff(types.DefaultDocument(), res.Document))

	_, ok, err := ts.kv.Get(context.Background(), persistence.DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok, "reset clears the stored draft")
}

func TestPreview(t *testing.T) {
	ts := newTestServer(t, Config{PageWidth: 800})

	rec := ts.do(t, http.MethodGet, "/preview", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	page, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	root := page.Find("#resume")
	require.Equal(t, 1, root.Length())
	assert.True(t, root.HasClass("modern"))
	style, _ := root.Attr("style")
	assert.Equal(t, "width: 800px", style)
	assert.Contains(t, root.Text(), "John Doe")
}

func TestPreview_TemplateQueryDoesNotMutate(t *testing.T) {
	ts := newTestServer(t, Config{})

	rec := ts.do(t, http.MethodGet, "/preview?template=classic", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.True(t, page.Find("#resume").HasClass("classic"))

	assert.Equal(t, types.TemplateModern, ts.store.Snapshot().Template)

	rec = ts.do(t, http.MethodGet, "/preview?template=fancy", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	ts := newTestServer(t, Config{PageWidth: 700})
	ts.do(t, http.MethodPut, "/document/personal/firstName", `{"value":"Ada"}`)
	ts.do(t, http.MethodPut, "/document/personal/lastName", `{"value":"Lovelace"}`)

	rec := ts.do(t, http.MethodPost, "/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=Ada-Lovelace.pdf", rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	require.Len(t, ts.exporter.docs, 1)
	assert.Equal(t, "Ada", ts.exporter.docs[0].Personal.FirstName)
}

func TestExport_ContentDispositionEncodesName(t *testing.T) {
	ts := newTestServer(t, Config{})
	ts.do(t, http.MethodPut, "/document/personal/firstName", `{"value":"José"}`)
	ts.do(t, http.MethodPut, "/document/personal/lastName", `{"value":"Mary Ann"}`)

	rec := ts.do(t, http.MethodPost, "/export", "")
	require.Equal(t, http.StatusOK, rec.Code)

	header := rec.Header().Get("Content-Disposition")
	assert.Equal(t, "attachment; filename*=utf-8''Jos%C3%A9-Mary%20Ann.pdf", header)

	disposition, params, err := mime.ParseMediaType(header)
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "José-Mary Ann.pdf", params["filename"])
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, `attachment; filename="Mary Ann-Doe.pdf"`, contentDisposition("Mary Ann-Doe.pdf"))
	assert.Equal(t, "attachment; filename=resume-resume.pdf", contentDisposition("resume-resume.pdf"))
}

func TestExport_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"busy", export.ErrExportInProgress, http.StatusConflict},
		{"capture", &export.ExportError{Kind: export.KindCapture, Cause: errors.New("no chrome")}, http.StatusBadGateway},
		{"encode", &export.ExportError{Kind: export.KindEncode, Cause: errors.New("bad image")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, Config{})
			ts.exporter.err = tt.err
			before := ts.store.Snapshot()

			rec := ts.do(t, http.MethodPost, "/export", "")
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
			assert.Empty(t, cmp.Diff(before, ts.store.Snapshot()), "a failed export leaves the document alone")
		})
	}
}

func TestExport_RateLimited(t *testing.T) {
	ts := newTestServer(t, Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/export", Method: http.MethodPost, Limit: 1, Window: time.Minute},
		},
	}})

	rec := ts.do(t, http.MethodPost, "/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = ts.do(t, http.MethodPost, "/export", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Len(t, ts.exporter.docs, 1)

	rec = ts.do(t, http.MethodGet, "/document", "")
	assert.Equal(t, http.StatusOK, rec.Code, "other endpoints are unaffected")
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, Config{})
	rec := ts.do(t, http.MethodOptions, "/document/summary", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t, Config{})
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/metrics", "").Code)

	ts = newTestServer(t, Config{Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "resume_builder_exports_total 0\n")
	})})
	rec := ts.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resume_builder_exports_total")
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, Config{})
	rec := ts.do(t, http.MethodDelete, "/document/summary", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// readEvent reads one SSE event and returns its name and data.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "" && event != "":
			return event, data
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestEvents_StreamsSnapshots(t *testing.T) {
	ts := newTestServer(t, Config{})
	srv := httptest.NewServer(ts.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	reader := bufio.NewReader(resp.Body)

	event, data := readEvent(t, reader)
	assert.Equal(t, EventSnapshot, event)
	var doc types.ResumeDocument
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	assert.Equal(t, "John", doc.Personal.FirstName)

	_, changed := ts.store.SetSummary(context.Background(), "streamed")
	require.True(t, changed)

	event, data = readEvent(t, reader)
	assert.Equal(t, EventSnapshot, event)
	require.NoError(t, json.Unmarshal([]byte(data), &doc))
	assert.Equal(t, "streamed", doc.Summary)
}
