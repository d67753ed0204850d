package pipeline

import (
	"time"

	"github.com/haferml/hafer/pkg/config"
	"github.com/haferml/hafer/pkg/logging"
)

// Base carries what most processors need. Embed it in a processor struct.
type Base struct {
	Config    *config.Tree
	Columns   []string
	Timestamp time.Time
}

// NewBase records the configuration and the columns a processor keeps.
func NewBase(conf *config.Tree, columns []string) Base {
	logger := logging.GetLogger("pipeline")
	b := Base{Config: conf, Columns: columns, Timestamp: time.Now().UTC()}
	ev := logger.Info().Strs("columns", columns)
	if conf != nil {
		ev = ev.Str("config", conf.Source())
	}
	ev.Msg("processor created")
	return b
}
