package cmd

import (
	"strings"

	"github.com/spigell/applicant/internal/portal"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"
)

// candidateForm collects the application, from prompts or from the configured values.
type candidateForm struct {
	defaults    CandidateConfig
	interactive bool
	logger      *zap.Logger
}

func (f *candidateForm) collect() (*portal.Application, error) {
	values := f.defaults

	if f.interactive {
		var err error
		if values.Name, err = ask("Full name", values.Name); err != nil {
			return nil, err
		}
		if values.Email, err = ask("Email address", values.Email); err != nil {
			return nil, err
		}
		if values.Resume, err = ask("Resume (PDF) path", values.Resume); err != nil {
			return nil, err
		}
		// remember the answers for the next application
		f.defaults = values
	}

	app := &portal.Application{
		Name:  values.Name,
		Email: values.Email,
	}

	path := strings.TrimSpace(values.Resume)
	if path == "" {
		return app, nil
	}

	// An unreadable file is reported as a missing resume by the validation.
	resume, err := portal.OpenResume(path)
	if err != nil {
		f.logger.Warn("opening the resume", zap.String("path", path), zap.Error(err))
		return app, nil
	}
	app.Resume = resume

	return app, nil
}

func ask(label, value string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   value,
		AllowEdit: true,
	}

	return prompt.Run()
}
