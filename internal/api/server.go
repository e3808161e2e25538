// Package api exposes the study services over a JSON HTTP interface.
package api

import (
	"context"

	"github.com/vytor/wordflash/internal/services"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Items       services.ItemService
	Reviews     services.ReviewService
	Definitions services.DefinitionService
	Reports     services.ReportService
	DB          Pinger
	// SessionSize is the due-session length when the request gives none.
	SessionSize int
}
