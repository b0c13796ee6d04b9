package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	internalhttp "github.com/jmylchreest/widgetd/internal/http"
	"github.com/jmylchreest/widgetd/internal/http/handlers"
	"github.com/jmylchreest/widgetd/internal/i18n"
	"github.com/jmylchreest/widgetd/internal/observability"
	"github.com/jmylchreest/widgetd/internal/render"
	"github.com/jmylchreest/widgetd/internal/theme"
	"github.com/jmylchreest/widgetd/internal/urlutil"
	"github.com/jmylchreest/widgetd/internal/version"
	"github.com/jmylchreest/widgetd/internal/weather"
	"github.com/jmylchreest/widgetd/internal/widget"
	"github.com/jmylchreest/widgetd/pkg/httpclient"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the widgetd server",
	Long: `Start the widgetd HTTP server.

The server provides:
- The widget gallery at /
- Embeddable widget pages at /widget/{id}
- Live widget state as server-sent events at /widget/{id}/events
- PNG previews at /widget/{id}/preview.png
- REST API under /api/v1 with OpenAPI documentation at /docs`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("base-url", "", "Public origin used in embed URLs")

	mustBindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	mustBindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	mustBindPFlag("server.base_url", serveCmd.Flags().Lookup("base-url"))
}

// registries loads the builtin widget, theme and translation tables.
type registries struct {
	widgets *widget.Registry
	themes  *theme.Registry
	catalog *i18n.Catalog
}

func loadRegistries(defaultTheme string) (registries, error) {
	themes, err := theme.Builtin()
	if err != nil {
		return registries{}, fmt.Errorf("loading themes: %w", err)
	}
	if defaultTheme != "" && defaultTheme != themes.Default().ID {
		if themes, err = themes.WithDefault(defaultTheme); err != nil {
			return registries{}, err
		}
	}

	catalog, err := i18n.Builtin()
	if err != nil {
		return registries{}, fmt.Errorf("loading translations: %w", err)
	}

	return registries{widgets: widget.Builtin(), themes: themes, catalog: catalog}, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := slog.Default()
	observability.SetRequestLogging(cfg.Logging.RequestLogging)

	reg, err := loadRegistries(cfg.Widgets.DefaultTheme)
	if err != nil {
		return err
	}
	params, err := cfg.Widgets.Params(time.Local)
	if err != nil {
		return err
	}

	renderer, err := render.NewDefault()
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	renderer.WithLogger(logger("render"))

	weatherClient := weather.New(cfg.Weather.ClientConfig(), logger("weather"))
	clients := httpclient.NewRegistry()
	clients.Register("weather", weatherClient.HTTPClient())

	server := internalhttp.NewServer(cfg.Server, log, version.Version)
	api, router := server.API(), server.Router()

	handlers.NewHealthHandler(version.Version).
		WithClients(clients).
		WithRegistrySizes(len(reg.widgets.List()), len(reg.themes.List())).
		Register(api)
	handlers.NewWidgetHandler(reg.widgets, reg.catalog, params).Register(api)
	handlers.NewLocaleHandler().Register(api)
	handlers.NewEmbedHandler(cfg.Server.BaseURL, urlutil.NewResolver(reg.widgets, reg.themes)).Register(api)
	handlers.NewWeatherHandler(weatherClient).Register(api)

	themeHandler := handlers.NewThemeHandler(reg.themes)
	themeHandler.Register(api)
	themeHandler.RegisterChiRoutes(router)

	events := handlers.NewEventsHandler(reg.widgets, params).WithLogger(logger("events"))
	events.SetHeartbeatInterval(cfg.Stream.HeartbeatInterval)
	events.RegisterChiRoutes(router)

	handlers.NewPreviewHandler(reg.widgets, reg.themes, reg.catalog, params).
		WithLogger(logger("preview")).
		RegisterChiRoutes(router)
	handlers.NewStaticHandler().RegisterChiRoutes(router)
	handlers.NewPageHandler(renderer, reg.widgets, reg.themes, reg.catalog, params).
		WithBaseURL(cfg.Server.BaseURL).
		WithLogger(logger("pages")).
		RegisterChiRoutes(router)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting widgetd server",
		slog.String("address", cfg.Server.Address()),
		slog.String("version", version.Version),
		slog.Int("widgets", len(reg.widgets.List())),
		slog.Int("themes", len(reg.themes.List())),
	)

	return server.ListenAndServe(ctx)
}
