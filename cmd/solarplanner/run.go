package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/amritPVre/BAESS-Solar-sub008/internal/metrics"
	"github.com/amritPVre/BAESS-Solar-sub008/internal/server"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/bess"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/cable"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/config"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/design"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/geo"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/irradiance"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/layout"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/spec"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/store"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/validation"
)

type designOptions struct {
	json    bool
	offline bool
	store   bool
}

// loadAndValidate loads the spec and runs schema validation.
func loadAndValidate(projectPath string) (*spec.DesignSpec, *validation.Report, error) {
	ds, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading spec: %w", err)
	}
	spec.ApplyDefaults(ds)
	return ds, validation.ValidateSchema(ds), nil
}

// buildEngine wires the engine's collaborators from the environment. The
// returned cleanup closes the store when one was opened.
func buildEngine(ctx context.Context, cfg *config.Config, reg *metrics.Registry, withStore bool) (*design.Engine, func(), error) {
	cleanup := func() {}

	cat := cable.DefaultCatalog()
	if cfg.Catalog.CablesPath != "" {
		loaded, err := cable.LoadCatalog(cfg.Catalog.CablesPath)
		if err != nil {
			return nil, cleanup, fmt.Errorf("loading cable catalog: %w", err)
		}
		cat = loaded
	}

	engine := &design.Engine{Catalog: cat}
	if reg != nil {
		engine.Recorder = reg
	}

	var st *store.Store
	if withStore {
		if !cfg.StoreEnabled() {
			return nil, cleanup, fmt.Errorf("STORE_DSN is not set")
		}
		var err error
		st, err = store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, cleanup, fmt.Errorf("opening store: %w", err)
		}
		cleanup = func() {
			if err := st.Close(); err != nil {
				klog.ErrorS(err, "Closing store")
			}
		}
		engine.Sink = st
	}

	ic := cfg.Irradiance
	retrying := irradiance.NewRetrying(irradiance.NewPVWattsClient(ic.APIKey, ic.URL))
	retrying.Attempts = ic.MaxAttempts
	retrying.InitialBackoff = ic.InitialBackoff
	retrying.Timeout = ic.Timeout

	var provider irradiance.Provider = retrying
	if ic.CacheEnabled {
		var cache irradiance.Cache = irradiance.NewMemoryCache(store.DefaultCacheTTL)
		if st != nil {
			cache = st.IrradianceCache(store.DefaultCacheTTL)
		}
		provider = &irradiance.Caching{Provider: retrying, Cache: cache}
	}
	if reg != nil {
		retrying.Observer = reg
		if c, ok := provider.(*irradiance.Caching); ok {
			c.Observer = reg
		}
	}
	engine.Provider = provider
	return engine, cleanup, nil
}

func runValidate(projectPath string) error {
	_, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	printValidationReport(report)
	if !report.Valid {
		return fmt.Errorf("spec has validation errors")
	}
	return nil
}

func runDesign(ctx context.Context, projectPath string, opts designOptions) error {
	ds, schemaReport, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !schemaReport.Valid {
		printValidationReport(schemaReport)
		return fmt.Errorf("spec has validation errors")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	engine, cleanup, err := buildEngine(ctx, cfg, nil, opts.store)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.offline {
		if len(ds.Irradiance.Monthly) == 0 {
			return fmt.Errorf("--offline needs irradiance.monthly in the design spec")
		}
		ds.Irradiance.Source = spec.IrradianceStatic
		engine.Provider = nil
	}

	res, report, err := engine.Run(ctx, ds)
	if err != nil {
		if report != nil {
			printValidationReport(report)
		}
		return err
	}

	if opts.json {
		return printJSON(map[string]any{"result": res, "validation": report})
	}
	printDesignReport(res, ds.Project.Currency)
	fmt.Println()
	printValidationReport(report)
	return nil
}

func runCable(in cable.Input, asJSON bool) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	cat := cable.DefaultCatalog()
	if cfg.Catalog.CablesPath != "" {
		if cat, err = cable.LoadCatalog(cfg.Catalog.CablesPath); err != nil {
			return fmt.Errorf("loading cable catalog: %w", err)
		}
	}
	res, err := cable.Size(cat, in)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(res)
	}
	printCableResult(res)
	return nil
}

func runBESS(c bess.Coupling, in bess.Inputs, asJSON bool) error {
	sizing, err := bess.Size(c, in)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(sizing)
	}
	printBESSSizing(sizing)
	return nil
}

func runGeometry(raw []string, asJSON bool) error {
	vertices := make([]geo.LatLng, 0, len(raw))
	for _, r := range raw {
		v, err := parseVertex(r)
		if err != nil {
			return err
		}
		vertices = append(vertices, v)
	}
	poly, err := geo.Measure(vertices)
	if err != nil {
		return err
	}

	ds := spec.DesignSpec{Site: &spec.SiteDef{}}
	spec.ApplyDefaults(&ds)
	inst, err := layout.Potential(poly, layout.ParamsFromSite(ds.Site))
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(map[string]any{"polygon": poly, "installation": inst})
	}
	printGeometry(poly, inst)
	return nil
}

func parseVertex(s string) (geo.LatLng, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return geo.LatLng{}, fmt.Errorf("vertex %q: want lat,lng", s)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return geo.LatLng{}, fmt.Errorf("vertex %q: %w", s, err)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil {
		return geo.LatLng{}, fmt.Errorf("vertex %q: %w", s, err)
	}
	return geo.LatLng{Lat: la, Lng: lo}, nil
}

func runServe(ctx context.Context, port int) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	reg := metrics.New()
	engine, cleanup, err := buildEngine(ctx, cfg, reg, cfg.StoreEnabled())
	if err != nil {
		return err
	}
	defer cleanup()

	return server.New(engine, reg, port).Start(ctx)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
