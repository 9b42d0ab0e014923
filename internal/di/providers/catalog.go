package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/streamdash/streamdash-server/internal/catalog"
	"github.com/streamdash/streamdash-server/internal/config"
	"github.com/streamdash/streamdash-server/internal/genre"
	"github.com/streamdash/streamdash-server/internal/logger"
)

// ProvideTranslator provides the genre translator, from the configured
// mapping file or the embedded table.
func ProvideTranslator(i do.Injector) (*genre.Translator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return LoadTranslator(cfg, log)
}

// LoadTranslator reads the genre mapping named by cfg.
func LoadTranslator(cfg *config.Config, log *logger.Logger) (*genre.Translator, error) {
	if cfg.Data.GenreMapPath == config.Builtin {
		t := genre.Default()
		log.Info("Using builtin genre map", "labels", t.Len())
		return t, nil
	}

	t, err := genre.LoadTranslator(cfg.Data.GenreMapPath)
	if err != nil {
		return nil, err
	}
	log.Info("Genre map loaded", "path", cfg.Data.GenreMapPath, "labels", t.Len())
	return t, nil
}

// Sources returns the three configured catalog files in load order.
func Sources(cfg *config.Config) []catalog.Source {
	return []catalog.Source{
		{Platform: catalog.PlatformNetflix, Path: cfg.Data.NetflixPath},
		{Platform: catalog.PlatformDisney, Path: cfg.Data.DisneyPath},
		{Platform: catalog.PlatformAmazon, Path: cfg.Data.AmazonPath},
	}
}

// ProvideCatalog loads the unified catalog once at startup. Any source
// failure aborts startup.
func ProvideCatalog(i do.Injector) (*catalog.Catalog, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	translator := do.MustInvoke[*genre.Translator](i)

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	return catalog.Load(ctx, Sources(cfg), translator, log.Component("catalog"))
}
