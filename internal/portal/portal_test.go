package portal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const samplePDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(zap.NewNop(), Options{APIURL: server.URL, HTTPClient: server.Client(), Token: "secret"})
}

func newPDFResume(t *testing.T) *Resume {
	t.Helper()

	resume, err := NewResume("cv.pdf", strings.NewReader(samplePDF))
	if err != nil {
		t.Fatalf("creating resume: %v", err)
	}
	return resume
}

func TestGetJob(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != jobPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"job_title":"Software Engineer Intern","job_details":"Work on projects",`+
			`"requirements":"CS degree","experience":"0-1 years","skills":"JavaScript,jAVA, C++, ,Problem-solving"}`)
	})

	job, err := client.GetJob(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.JobTitle != "Software Engineer Intern" {
		t.Fatalf("unexpected title %q", job.JobTitle)
	}

	expected := []string{"JavaScript", "jAVA", "C++", "Problem-solving"}
	skills := job.Skills()
	if len(skills) != len(expected) {
		t.Fatalf("expected %d skills, got %v", len(expected), skills)
	}
	for i := range expected {
		if skills[i] != expected[i] {
			t.Fatalf("expected skill %q at %d, got %q", expected[i], i, skills[i])
		}
	}
}

func TestGetJobFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		checkAs func(error) bool
	}{
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `{"detail":"boom"}`,
			checkAs: func(err error) bool {
				var target *StatusError
				return errors.As(err, &target) && target.StatusCode == http.StatusInternalServerError
			},
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   `<html></html>`,
			checkAs: func(err error) bool {
				var target *DecodeError
				return errors.As(err, &target)
			},
		},
		{
			name:   "null fields",
			status: http.StatusOK,
			body:   `{"job_title":null,"job_details":null,"requirements":null,"experience":null,"skills":null}`,
			checkAs: func(err error) bool {
				var target *DecodeError
				return errors.As(err, &target)
			},
		},
		{
			name:   "one null field",
			status: http.StatusOK,
			body:   `{"job_title":"Intern","job_details":"d","requirements":"r","experience":"e","skills":null}`,
			checkAs: func(err error) bool {
				var target *DecodeError
				return errors.As(err, &target)
			},
		},
		{
			name:   "partial posting",
			status: http.StatusOK,
			body:   `{"job_title":"Intern"}`,
			checkAs: func(err error) bool {
				var target *DecodeError
				return errors.As(err, &target)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			job, err := client.GetJob(context.Background())
			if err == nil {
				t.Fatalf("expected error, got job %+v", job)
			}
			if !tt.checkAs(err) {
				t.Fatalf("unexpected error type: %v", err)
			}
			if job != nil {
				t.Fatalf("expected no job on failure")
			}
		})
	}
}

func TestAnalyzeSendsMultipart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != analyzePath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get(requestIDHeader); got != "attempt-1" {
			t.Errorf("unexpected request id %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue(fieldName); got != "Ann" {
			t.Errorf("unexpected name %q", got)
		}
		if got := r.FormValue(fieldEmail); got != "a@x.com" {
			t.Errorf("unexpected email %q", got)
		}

		file, header, err := r.FormFile(fieldResume)
		if err != nil {
			t.Errorf("resume part: %v", err)
		} else {
			defer file.Close()
			data, _ := io.ReadAll(file)
			if string(data) != samplePDF {
				t.Errorf("resume content was altered: %q", data)
			}
			if header.Filename != "cv.pdf" {
				t.Errorf("unexpected filename %q", header.Filename)
			}
		}

		io.WriteString(w, `{"decision":"Accepted","compatibility_score":0.87,"justification":"Strong skills match"}`)
	})

	app := &Application{Name: " Ann ", Email: "a@x.com", Resume: newPDFResume(t)}
	result, err := client.Analyze(context.Background(), "attempt-1", app)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Decision != DecisionAccepted || result.CompatibilityScore != 0.87 || result.Justification != "Strong skills match" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAnalyzeScoreAsString(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"decision":"SELECTED","compatibility_score":"85","justification":"ok"}`)
	})

	result, err := client.Analyze(context.Background(), "", &Application{Name: "Ann", Email: "a@x.com", Resume: newPDFResume(t)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Decision != DecisionAccepted || result.CompatibilityScore != 85 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAnalyzeFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantDetail string
		wantDecode bool
	}{
		{name: "detail provided", status: http.StatusBadRequest, body: `{"detail":"Invalid file"}`, wantStatus: 400, wantDetail: "Invalid file"},
		{name: "no detail", status: http.StatusUnprocessableEntity, body: `{"errors":[]}`, wantStatus: 422},
		{name: "detail is not a string", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"field required"}]}`, wantStatus: 422},
		{name: "plain text body", status: http.StatusBadGateway, body: `bad gateway`, wantStatus: 502},
		{name: "unknown decision", status: http.StatusOK, body: `{"decision":"maybe","compatibility_score":1,"justification":""}`, wantDecode: true},
		{name: "missing score", status: http.StatusOK, body: `{"decision":"accepted","justification":""}`, wantDecode: true},
		{name: "null score", status: http.StatusOK, body: `{"decision":"Accepted","compatibility_score":null,"justification":"ok"}`, wantDecode: true},
		{name: "null justification", status: http.StatusOK, body: `{"decision":"Accepted","compatibility_score":0.5,"justification":null}`, wantDecode: true},
		{name: "empty score", status: http.StatusOK, body: `{"decision":"Accepted","compatibility_score":"","justification":"ok"}`, wantDecode: true},
		{name: "score is not a number", status: http.StatusOK, body: `{"decision":"Accepted","compatibility_score":"high","justification":"ok"}`, wantDecode: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})

			_, err := client.Analyze(context.Background(), "", &Application{Name: "Ann", Email: "a@x.com", Resume: newPDFResume(t)})
			if err == nil {
				t.Fatal("expected error")
			}

			if tt.wantDecode {
				var decodeErr *DecodeError
				if !errors.As(err, &decodeErr) {
					t.Fatalf("expected decode error, got %v", err)
				}
				return
			}

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected status error, got %v", err)
			}
			if statusErr.StatusCode != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, statusErr.StatusCode)
			}
			if statusErr.Detail != tt.wantDetail {
				t.Fatalf("expected detail %q, got %q", tt.wantDetail, statusErr.Detail)
			}
		})
	}
}

func TestAnalyzeTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(zap.NewNop(), Options{APIURL: url})
	_, err := client.Analyze(context.Background(), "", &Application{Name: "Ann", Email: "a@x.com", Resume: newPDFResume(t)})

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestParseDecision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		expect  Decision
		wantErr bool
	}{
		{input: "Accepted", expect: DecisionAccepted},
		{input: "ACCEPTED", expect: DecisionAccepted},
		{input: " selected ", expect: DecisionAccepted},
		{input: "Rejected", expect: DecisionRejected},
		{input: "rejected", expect: DecisionRejected},
		{input: "", wantErr: true},
		{input: "pending", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDecision(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestApplicationValidate(t *testing.T) {
	notPDF, err := NewResume("cv.txt", strings.NewReader("just some text"))
	if err != nil {
		t.Fatalf("creating resume: %v", err)
	}

	tests := []struct {
		name        string
		app         *Application
		strictEmail bool
		wantMessage string
	}{
		{name: "valid", app: &Application{Name: "Ann", Email: "a@x.com", Resume: newPDFResume(t)}},
		{name: "presence only email", app: &Application{Name: "Ann", Email: "not-an-email", Resume: newPDFResume(t)}},
		{name: "nil application", app: nil, wantMessage: MsgMissingResume},
		{name: "missing resume", app: &Application{Name: "Ann", Email: "a@x.com"}, wantMessage: MsgMissingResume},
		{name: "missing resume reported before name", app: &Application{Email: "a@x.com"}, wantMessage: MsgMissingResume},
		{name: "blank name", app: &Application{Name: "  ", Email: "a@x.com", Resume: newPDFResume(t)}, wantMessage: MsgMissingFields},
		{name: "missing email", app: &Application{Name: "Ann", Resume: newPDFResume(t)}, wantMessage: MsgMissingFields},
		{name: "not a pdf", app: &Application{Name: "Ann", Email: "a@x.com", Resume: notPDF}, wantMessage: MsgResumeNotPDF},
		{name: "strict email", app: &Application{Name: "Ann", Email: "not-an-email", Resume: newPDFResume(t)}, strictEmail: true, wantMessage: MsgInvalidEmail},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.app.Validate(tt.strictEmail)
			if tt.wantMessage == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Message != tt.wantMessage {
				t.Fatalf("expected %q, got %q", tt.wantMessage, verr.Message)
			}
		})
	}
}

func TestResumeKeepsContentAfterSniffing(t *testing.T) {
	body := samplePDF + strings.Repeat("x", sniffLen*2)
	resume, err := NewResume("big.pdf", io.NopCloser(strings.NewReader(body)))
	if err != nil {
		t.Fatalf("creating resume: %v", err)
	}

	if !resume.IsPDF() || resume.ContentType() != pdfMIME {
		t.Fatalf("expected pdf, got %s", resume.ContentType())
	}

	data, err := io.ReadAll(resume)
	if err != nil {
		t.Fatalf("reading resume: %v", err)
	}
	if string(data) != body {
		t.Fatalf("resume content was altered")
	}
	if err := resume.Close(); err != nil {
		t.Fatalf("closing resume: %v", err)
	}
}
