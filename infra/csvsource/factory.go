package csvsource

import (
	"github.com/kilianp07/evswap/core/factory"
	"github.com/kilianp07/evswap/core/planner"
	"github.com/kilianp07/evswap/infra/logger"
)

// init registers the csv data source.
func init() {
	_ = planner.RegisterSource("csv", func(conf map[string]any) (planner.Sources, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return New(c, logger.New("csv-source"))
	})
}
