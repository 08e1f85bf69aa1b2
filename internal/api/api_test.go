package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vamg1994/content-creation-vam/internal/api"
	"github.com/vamg1994/content-creation-vam/internal/content"
	"github.com/vamg1994/content-creation-vam/internal/deck"
	"github.com/vamg1994/content-creation-vam/internal/llm"
	"github.com/vamg1994/content-creation-vam/internal/logging"
	"github.com/vamg1994/content-creation-vam/internal/pptx"
	"github.com/vamg1994/content-creation-vam/internal/pptx/pptxtest"
	"github.com/vamg1994/content-creation-vam/internal/templates"
)

type stubGenerator struct {
	err error
}

func (g *stubGenerator) Carousel(ctx context.Context, req llm.CarouselRequest) ([]deck.SlideRecord, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := make([]deck.SlideRecord, req.Slides)
	for i := range out {
		out[i] = deck.SlideRecord{Title: fmt.Sprintf("%s %d", req.Topic, i), Points: []string{"p"}}
	}
	return out, nil
}

func (g *stubGenerator) Post(ctx context.Context, req llm.PostRequest) (string, error) {
	return "post: " + req.Topic, g.err
}

func (g *stubGenerator) Ideas(ctx context.Context, req llm.IdeasRequest) (string, error) {
	return "ideas: " + req.Topic, g.err
}

func (g *stubGenerator) Images(ctx context.Context, req llm.ImagesRequest) ([]llm.Image, error) {
	return []llm.Image{{URL: "https://img/1", Description: "d"}}, g.err
}

func (g *stubGenerator) Caption(ctx context.Context, description string) (string, error) {
	return "nice " + description, nil
}

type testEnv struct {
	Router   http.Handler
	Registry *templates.Registry
}

func newTestEnv(t *testing.T, gen llm.Generator) *testEnv {
	t.Helper()
	reg := templates.New(filepath.Join(t.TempDir(), "templates"), templates.WithLogger(logging.Discard()))
	svc := content.New(reg, gen, content.Options{ReservedSlides: 2, DefaultSlides: 10})
	router := api.NewRouter(api.Deps{Service: svc, Logger: logging.Discard(), MaxUploadBytes: 1 << 20})
	return &testEnv{Router: router, Registry: reg}
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code string, suggestions []string) {
	t.Helper()
	var body struct {
		Error       string   `json:"error"`
		Code        string   `json:"code"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error == "" {
		t.Error("error message is empty")
	}
	return body.Code, body.Suggestions
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, "GET", "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"generation_enabled":false`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, "GET", "/api/v1/templates", nil)

	rec := env.do(t, "GET", "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "vamcontent_templates_available") {
		t.Error("metrics output lacks vamcontent_templates_available")
	}
}

func TestTemplates_List(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, "GET", "/api/v1/templates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var resp api.TemplateListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"Linkedin_carrousel_vam", "Linkedin_carrousel_vam2"}
	if fmt.Sprint(resp.Templates) != fmt.Sprint(want) {
		t.Errorf("templates = %v, want %v", resp.Templates, want)
	}
}

func TestTemplates_Init(t *testing.T) {
	env := newTestEnv(t, nil)

	for i, want := range []string{"created", "existed"} {
		rec := env.do(t, "POST", "/api/v1/templates/init", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d: status = %d", i, rec.Code)
		}
		var resp api.TemplateInitResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp.Statuses) != 2 {
			t.Fatalf("statuses = %+v", resp.Statuses)
		}
		for _, s := range resp.Statuses {
			if s.State != want {
				t.Errorf("call %d: %s state = %q, want %q", i, s.Name, s.State, want)
			}
		}
	}
}

func uploadRequest(t *testing.T, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "custom.pptx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(data)
	mw.Close()
	req := httptest.NewRequest("POST", "/api/v1/templates/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestTemplates_UploadAndMerge(t *testing.T) {
	env := newTestEnv(t, nil)
	data := pptxtest.Package(t, pptxtest.Slide(
		pptxtest.TextShape(2, "Title", []pptxtest.Run{pptxtest.R("{{Title0}}")}),
		pptxtest.TextShape(3, "Body", []pptxtest.Run{pptxtest.R("{{Body0}}")}),
	))

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, uploadRequest(t, data))
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var up api.UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&up); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = env.do(t, "POST", "/api/v1/carousels/merge", map[string]any{
		"upload_id": up.UploadID,
		"topic":     "Custom deck",
		"slides":    []map[string]any{{"title": "Only", "points": []string{"x", "y"}}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("merge status = %d; body: %s", rec.Code, rec.Body.String())
	}
	doc, err := pptx.Parse(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("parse merged deck: %v", err)
	}
	if got := doc.Slides[0].Shapes[1].Text(); got != "• x\n• y" {
		t.Errorf("body = %q", got)
	}
}

func TestTemplates_UploadRejectsGarbage(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, uploadRequest(t, []byte("not a presentation")))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	if code, _ := decodeError(t, rec); code != "TEMPLATE_CORRUPT" {
		t.Errorf("code = %q", code)
	}

	rec = httptest.NewRecorder()
	env.Router.ServeHTTP(rec, uploadRequest(t, bytes.Repeat([]byte("x"), 2<<20)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized upload status = %d", rec.Code)
	}
}

func TestCarousel(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{})
	rec := env.do(t, "POST", "/api/v1/carousels", map[string]any{
		"topic":    "AWS vs Azure",
		"template": "Linkedin_carrousel_vam",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.presentationml.presentation" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="AWS_vs_Azure_presentation.pptx"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Header().Get("X-Deck-Id") == "" {
		t.Error("missing X-Deck-Id")
	}
	if got := rec.Header().Get("X-Unresolved-Placeholders"); got != "0" {
		t.Errorf("X-Unresolved-Placeholders = %q", got)
	}

	doc, err := pptx.Parse(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Slides[2].Shapes[0].Text(); got != "AWS vs Azure 1" {
		t.Errorf("second content title = %q", got)
	}
}

func TestCarousel_Errors(t *testing.T) {
	tests := []struct {
		name   string
		gen    llm.Generator
		body   any
		status int
		code   string
	}{
		{"disabled", nil, map[string]any{"topic": "x"}, http.StatusServiceUnavailable, "LLM_NOT_CONFIGURED"},
		{"missing topic", &stubGenerator{}, map[string]any{}, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown template", &stubGenerator{}, map[string]any{"topic": "x", "template": "Linkedin_carousel"}, http.StatusNotFound, "TEMPLATE_NOT_FOUND"},
		{"bad template name", &stubGenerator{}, map[string]any{"topic": "x", "template": "../x"}, http.StatusBadRequest, "INVALID_TEMPLATE_NAME"},
		{"rate limited", &stubGenerator{err: llm.ErrRateLimited}, map[string]any{"topic": "x"}, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"billing", &stubGenerator{err: &llm.ProviderError{Provider: "openai", StatusCode: 429, Kind: llm.ErrBilling}}, map[string]any{"topic": "x"}, http.StatusBadGateway, "PROVIDER_BILLING"},
		{"no slides", &stubGenerator{err: llm.ErrNoSlides}, map[string]any{"topic": "x"}, http.StatusBadGateway, "LLM_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.gen)
			rec := env.do(t, "POST", "/api/v1/carousels", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d; body: %s", rec.Code, tt.status, rec.Body.String())
			}
			if code, _ := decodeError(t, rec); code != tt.code {
				t.Errorf("code = %q, want %q", code, tt.code)
			}
		})
	}
}

func TestCarousel_NotFoundSuggestions(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{})
	rec := env.do(t, "POST", "/api/v1/carousels", map[string]any{"topic": "x", "template": "carrousel_vam"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	_, suggestions := decodeError(t, rec)
	if len(suggestions) == 0 {
		t.Error("expected suggestions")
	}
}

func TestCarousel_InvalidJSON(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{})
	req := httptest.NewRequest("POST", "/api/v1/carousels", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMerge_NoContent(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, "POST", "/api/v1/carousels/merge", map[string]any{"slides": []any{}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}
}

func TestPostsIdeasImages(t *testing.T) {
	env := newTestEnv(t, &stubGenerator{})

	rec := env.do(t, "POST", "/api/v1/posts", map[string]any{"topic": "Cloud costs", "language": "Spanish (Honduras)"})
	if rec.Code != http.StatusOK {
		t.Fatalf("posts status = %d; body: %s", rec.Code, rec.Body.String())
	}
	var text api.TextResponse
	if err := json.NewDecoder(rec.Body).Decode(&text); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text.Text != "post: Cloud costs" || text.Filename != "Cloud_costs_linkedin_post.txt" {
		t.Errorf("post response = %+v", text)
	}

	rec = env.do(t, "POST", "/api/v1/ideas", map[string]any{"topic": "Cloud"})
	if rec.Code != http.StatusOK {
		t.Fatalf("ideas status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Cloud_content_ideas.txt") {
		t.Errorf("ideas body = %s", rec.Body.String())
	}

	rec = env.do(t, "POST", "/api/v1/images", map[string]any{"topic": "Cloud"})
	if rec.Code != http.StatusOK {
		t.Fatalf("images status = %d", rec.Code)
	}
	var images api.ImagesResponse
	if err := json.NewDecoder(rec.Body).Decode(&images); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(images.Images) != 1 || images.Images[0].Caption != "nice d" || images.Images[0].URL != "https://img/1" {
		t.Errorf("images = %+v", images.Images)
	}
}
