package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/amritPVre/BAESS-Solar-sub008/pkg/bess"
	"github.com/amritPVre/BAESS-Solar-sub008/pkg/cable"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "solarplanner",
		Short:        "Solar PV and battery storage design engine",
		SilenceUsage: true,
	}

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)

	rootCmd.AddCommand(designCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(cableCmd())
	rootCmd.AddCommand(bessCmd())
	rootCmd.AddCommand(geometryCmd())
	rootCmd.AddCommand(serveCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

func designCmd() *cobra.Command {
	var opts designOptions

	cmd := &cobra.Command{
		Use:   "design [project-path]",
		Short: "Run the full design pipeline for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDesign(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "use the static irradiance in design.yaml instead of PVWatts")
	cmd.Flags().BoolVar(&opts.store, "store", false, "persist the result to STORE_DSN")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a design spec without running the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func cableCmd() *cobra.Command {
	var (
		in      cable.Input
		method  string
		mat     string
		circuit string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "cable",
		Short: "Size a single cable run",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			in.InstallMethod = cable.InstallMethod(method)
			in.Material = cable.Material(mat)
			in.Circuit = cable.Circuit(circuit)
			return runCable(in, asJSON)
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&in.DesignCurrentA, "current", "i", 0, "design current in A")
	f.Float64VarP(&in.LengthM, "length", "l", 0, "one-way run length in m")
	f.Float64Var(&in.AmbientTempC, "ambient", 30, "ambient temperature in °C")
	f.StringVar(&method, "method", string(cable.FreeAir), "installation method (free_air, direct_buried, conduit, clipped_direct)")
	f.IntVar(&in.Circuits, "circuits", 1, "number of grouped circuits")
	f.StringVar(&mat, "material", string(cable.Copper), "conductor material (copper, aluminium)")
	f.StringVar(&circuit, "circuit", string(cable.CircuitDC), "circuit type (dc, ac_single_phase, ac_three_phase)")
	f.Float64VarP(&in.RatedVoltageV, "voltage", "v", 0, "system voltage in V")
	f.Float64Var(&in.MaxVoltageDropPct, "max-drop", cable.DefaultMaxVoltageDropPct, "maximum voltage drop in percent")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("length")
	_ = cmd.MarkFlagRequired("voltage")
	return cmd
}

func bessCmd() *cobra.Command {
	var (
		in       bess.Inputs
		coupling string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "bess",
		Short: "Size a battery and its companion PV array",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBESS(bess.Coupling(coupling), in, asJSON)
		},
	}

	f := cmd.Flags()
	f.StringVar(&coupling, "coupling", string(bess.CouplingDC), "coupling (dc, ac, hybrid)")
	f.Float64Var(&in.DaytimeLoadKWh, "day-load", 0, "daytime load in kWh/day")
	f.Float64Var(&in.NighttimeLoadKWh, "night-load", 0, "nighttime load in kWh/day")
	f.Float64Var(&in.AutonomyDays, "autonomy", 1, "days of autonomy")
	f.Float64Var(&in.RoundTripEfficiency, "rte", 0.9, "battery round-trip efficiency (0, 1]")
	f.Float64Var(&in.DepthOfDischarge, "dod", 0.9, "depth of discharge (0, 1]")
	f.Float64Var(&in.CRate, "c-rate", 0.5, "discharge C-rate")
	f.Float64Var(&in.PeakLoadKW, "peak-load", 0, "peak load in kW")
	f.Float64Var(&in.NighttimePeakKW, "night-peak", 0, "peak night load in kW for the AC battery inverter; 0 uses --peak-load")
	f.Float64Var(&in.PeakSunHours, "psh", 0, "peak sun hours")
	f.Float64Var(&in.SystemDerate, "derate", bess.DefaultSystemDerate, "PV system derate")
	f.Float64Var(&in.InverterEfficiency, "inverter-eff", 0, "per-stage conversion efficiency; 0 means lossless")
	f.Float64Var(&in.DCACRatio, "dc-ac", bess.DefaultDCACRatio, "PV inverter DC/AC ratio (ac coupling)")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("psh")
	return cmd
}

func geometryCmd() *cobra.Command {
	var (
		vertices []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Measure a site polygon and its installation potential",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runGeometry(vertices, asJSON)
		},
	}

	cmd.Flags().StringArrayVar(&vertices, "vertex", nil, "polygon vertex as lat,lng (repeat, at least 3)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (default SERVER_PORT or 3000)")
	return cmd
}
