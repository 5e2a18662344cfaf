package controller

import (
	"github.com/uber/dartedit/src/dartedit/controller/applier"
	docsync "github.com/uber/dartedit/src/dartedit/controller/doc-sync"
	"github.com/uber/dartedit/src/dartedit/controller/refactor"
	"github.com/uber/dartedit/src/dartedit/controller/resolver"
	"go.uber.org/fx"
)

// Module provides every controller. The refactor controller additionally needs an analyzer.Gateway from the host.
var Module = fx.Options(
	fx.Provide(docsync.New),
	fx.Provide(resolver.NewFactory),
	fx.Provide(applier.New),
	fx.Provide(refactor.New),
)
