// Package commands provides CLI command implementations using dependency injection.
package commands

import (
	"github.com/cpscan/cpscan/internal/observability/logging"
	"github.com/cpscan/cpscan/internal/ui"
)

// Provider exposes the services shared by command handlers. The root command
// may rebuild them after parsing persistent flags, so handlers resolve them
// each time they run.
type Provider interface {
	GetLogger() logging.Logger
	GetUI() ui.UserOutput
}

type staticProvider struct {
	logger logging.Logger
	ui     ui.UserOutput
}

// StaticProvider returns a Provider that always yields logger and out.
func StaticProvider(logger logging.Logger, out ui.UserOutput) Provider {
	return staticProvider{logger: logger, ui: out}
}

func (p staticProvider) GetLogger() logging.Logger { return p.logger }
func (p staticProvider) GetUI() ui.UserOutput      { return p.ui }
