package staging

import (
	"go.uber.org/fx"

	"github.com/polkiloo/secondfamilies/internal/config"
)

// Module provides the attachment staging area.
var Module = fx.Provide(newFromConfig)

func newFromConfig(cfg *config.Config) (*Area, error) {
	return NewArea(cfg.StagingDir, Options{MaxDimension: cfg.ImageMaxDimension})
}
