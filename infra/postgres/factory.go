package postgres

import (
	"context"

	"github.com/kilianp07/evswap/core/factory"
	"github.com/kilianp07/evswap/core/planner"
	"github.com/kilianp07/evswap/infra/logger"
)

// init registers the postgres data source.
func init() {
	_ = planner.RegisterSource("postgres", func(conf map[string]any) (planner.Sources, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return Open(context.Background(), c, logger.New("postgres-source"))
	})
}
