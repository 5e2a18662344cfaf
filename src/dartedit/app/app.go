package app

import (
	"context"
	"time"

	"github.com/uber-go/tally"
	"github.com/uber/dartedit/src/dartedit/controller"
	"github.com/uber/dartedit/src/dartedit/internal/core"
	"github.com/uber/dartedit/src/dartedit/internal/fs"
	"go.uber.org/fx"
)

// Module defines the dartedit application module.
var Module = fx.Options(
	controller.Module,
	fs.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "dartedit",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
)
