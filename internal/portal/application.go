package portal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

const (
	pdfMIME = "application/pdf"
	// sniffLen matches the amount of bytes mimetype inspects by default.
	sniffLen = 3072

	fieldName   = "candidate_name"
	fieldEmail  = "candidate_email"
	fieldResume = "resume"
)

const (
	MsgMissingResume = "Please upload your resume PDF."
	MsgResumeNotPDF  = "The resume must be a PDF document."
	MsgMissingFields = "Please fill in your name and email."
	MsgInvalidEmail  = "Please enter a valid email address."
)

var validate = validator.New()

// Application is what a candidate submits. The Resume is handed over to the request on submission
// and must not be reused afterwards.
type Application struct {
	Name   string  `validate:"required"`
	Email  string  `validate:"required"`
	Resume *Resume `validate:"required"`
}

// ValidationError is a local, pre-flight error. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// Validate checks required fields and the resume type. Email format is checked only with strictEmail.
func (a *Application) Validate(strictEmail bool) error {
	if a == nil {
		return &ValidationError{Field: "Resume", Message: MsgMissingResume}
	}

	trimmed := Application{
		Name:   strings.TrimSpace(a.Name),
		Email:  strings.TrimSpace(a.Email),
		Resume: a.Resume,
	}

	if err := validate.Struct(trimmed); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return fmt.Errorf("validate application: %w", err)
		}

		// The resume is reported first, the same order a form shows it.
		for _, fe := range fieldErrors {
			if fe.Field() == "Resume" {
				return &ValidationError{Field: fe.Field(), Message: MsgMissingResume}
			}
		}
		return &ValidationError{Field: fieldErrors[0].Field(), Message: MsgMissingFields}
	}

	if !trimmed.Resume.IsPDF() {
		return &ValidationError{Field: "Resume", Message: MsgResumeNotPDF}
	}

	if strictEmail {
		if err := validate.Var(trimmed.Email, "email"); err != nil {
			return &ValidationError{Field: "Email", Message: MsgInvalidEmail}
		}
	}

	return nil
}

// Resume is a handle to a resume document. Its content can be read once.
type Resume struct {
	FileName string

	mime   *mimetype.MIME
	reader io.Reader
	closer io.Closer
}

// OpenResume opens the file at path as a resume.
func OpenResume(path string) (*Resume, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}

	resume, err := NewResume(filepath.Base(path), file)
	if err != nil {
		file.Close()
		return nil, err
	}

	return resume, nil
}

// NewResume wraps r, sniffing its content type. When r is an io.Closer the Resume closes it.
func NewResume(fileName string, r io.Reader) (*Resume, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	head = head[:n]

	resume := &Resume{
		FileName: fileName,
		mime:     mimetype.Detect(head),
		reader:   io.MultiReader(bytes.NewReader(head), r),
	}

	if closer, ok := r.(io.Closer); ok {
		resume.closer = closer
	}

	return resume, nil
}

func (r *Resume) IsPDF() bool {
	return r != nil && r.mime != nil && r.mime.Is(pdfMIME)
}

func (r *Resume) ContentType() string {
	if r == nil || r.mime == nil {
		return "application/octet-stream"
	}
	return r.mime.String()
}

func (r *Resume) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r *Resume) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (c *Client) analyze(ctx context.Context, requestID string, app *Application) (*Assessment, error) {
	data := map[string]string{
		fieldName:  strings.TrimSpace(app.Name),
		fieldEmail: strings.TrimSpace(app.Email),
	}

	file := multipartFile{
		Param:       fieldResume,
		FileName:    app.Resume.FileName,
		ContentType: app.Resume.ContentType(),
		Reader:      app.Resume,
	}

	var reply assessmentReply
	if err := c.postMultipart(ctx, c.AnalyzePath, requestID, data, file, &reply); err != nil {
		return nil, fmt.Errorf("analyze resume: %w", err)
	}

	assessment, err := reply.toAssessment()
	if err != nil {
		return nil, fmt.Errorf("analyze resume: %w", &DecodeError{Err: err})
	}

	return assessment, nil
}
