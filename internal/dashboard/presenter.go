package dashboard

import (
	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/pagination"
)

// Presenter renders dashboard state changes. Calls are made from the
// dashboard loop goroutine only.
type Presenter interface {
	PageLoaded(kind Kind, page pagination.Page, rows int, nextDisabled bool)
	RowUpdated(kind Kind, index int, row any)
	ViewRefreshed(kind Kind, content any)
	FormPopulated(kind Kind, form any)
	ConflictChanged(kind Kind, visible bool)
	Connectivity(online bool)
	Error(kind Kind, err error)
}

// LogPresenter writes every state change as a structured log line.
type LogPresenter struct {
	logger *zap.Logger
}

func NewLogPresenter(logger *zap.Logger) *LogPresenter {
	return &LogPresenter{logger: logger}
}

func (p *LogPresenter) PageLoaded(kind Kind, page pagination.Page, rows int, nextDisabled bool) {
	p.logger.Info("Page loaded",
		zap.String("kind", string(kind)),
		zap.Int("page", page.Number),
		zap.Int("size", page.Size),
		zap.Int("rows", rows),
		zap.Bool("last", nextDisabled))
}

func (p *LogPresenter) RowUpdated(kind Kind, index int, row any) {
	p.logger.Info("Row updated", zap.String("kind", string(kind)), zap.Int("index", index), zap.Any("row", row))
}

func (p *LogPresenter) ViewRefreshed(kind Kind, content any) {
	p.logger.Info("View refreshed", zap.String("kind", string(kind)), zap.Any("content", content))
}

func (p *LogPresenter) FormPopulated(kind Kind, form any) {
	p.logger.Debug("Form populated", zap.String("kind", string(kind)), zap.Any("form", form))
}

func (p *LogPresenter) ConflictChanged(kind Kind, visible bool) {
	if visible {
		p.logger.Warn("Entity changed on the server while being edited", zap.String("kind", string(kind)))
		return
	}
	p.logger.Info("Edit conflict resolved", zap.String("kind", string(kind)))
}

func (p *LogPresenter) Connectivity(online bool) {
	if online {
		p.logger.Info("Portal online")
		return
	}
	p.logger.Warn("Portal offline")
}

func (p *LogPresenter) Error(kind Kind, err error) {
	p.logger.Error("Dashboard error", zap.String("kind", string(kind)), zap.Error(err))
}
