package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/motionmatching/internal/config"
	"github.com/zeusync/motionmatching/internal/core/features"
	"github.com/zeusync/motionmatching/internal/core/observability/log"
	"github.com/zeusync/motionmatching/internal/core/posedata"
	"github.com/zeusync/motionmatching/internal/core/posepool"
	"github.com/zeusync/motionmatching/internal/core/schema/registry"
)

// App bundles everything the velocity tooling needs.
type App struct {
	Config    config.Config
	Logger    log.Log
	Registry  *registry.Registry
	Pools     *posepool.Set
	Extractor *features.VelocityExtractor
}

// ProviderSet builds an App from a config.Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	posepool.NewSet,
	ProvideExtractor,
	wire.Struct(new(App), "*"),
)

// ProvideLogger creates the root logger at the configured level.
func ProvideLogger(cfg config.Config) log.Log {
	return log.New(cfg.LogLevel())
}

// ProvideRegistry creates a schema registry with the pose data kinds registered.
func ProvideRegistry() (*registry.Registry, error) {
	r := registry.New()
	if err := posedata.RegisterSchemas(r); err != nil {
		return nil, err
	}
	return r, nil
}

// ProvideExtractor creates the velocity extractor with the configured sampling and worker limit.
func ProvideExtractor(logger log.Log, pools *posepool.Set, cfg config.Config) *features.VelocityExtractor {
	return features.NewVelocityExtractor(logger, pools, cfg.PoseSampling(), cfg.Workers)
}
