package usecase

import (
	"github.com/travishathaway/gdfm/internal/domain"

	"github.com/sirupsen/logrus"
)

// NopProgress ignores progress signals.
type NopProgress struct{}

func (NopProgress) PageDone(int, error) {}
func (NopProgress) ItemDone(int, error) {}

// LogProgress writes progress signals to a logger.
type LogProgress struct {
	logger *logrus.Logger
}

// NewLogProgress creates a reporter that logs every signal.
func NewLogProgress(logger *logrus.Logger) domain.ProgressReporter {
	return &LogProgress{logger: logger}
}

func (p *LogProgress) PageDone(page int, err error) {
	entry := p.logger.WithField("page", page)
	if err != nil {
		entry.WithError(err).Warn("Page failed")
		return
	}
	entry.Info("Page collected")
}

func (p *LogProgress) ItemDone(number int, err error) {
	entry := p.logger.WithField("number", number)
	if err != nil {
		entry.WithError(err).Warn("Pull request sub-collection failed")
		return
	}
	entry.Debug("Pull request collected")
}
