package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/barneydobson/wsi/arc"
	"github.com/barneydobson/wsi/flow"
	"github.com/barneydobson/wsi/monitoring"
	"github.com/barneydobson/wsi/network"
	"github.com/barneydobson/wsi/node"
	"github.com/barneydobson/wsi/recording"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a demonstration supply network",
	Long: `Run builds a small supply network (river source, reservoir, ` +
		`demand outlet) and steps it for a number of timesteps, recording ` +
		`every committed transfer into a SQLite database.`,
	Run: runDemo,
}

func init() {
	runCmd.Flags().Int("timesteps", 30, "number of timesteps to simulate")
	runCmd.Flags().String("output", "", "output database name")
	runCmd.Flags().Bool("monitor", false, "serve live state over HTTP")
	runCmd.Flags().Int("port", 0, "monitoring port")

	rootCmd.AddCommand(runCmd)
}

// loadEnv reads defaults from a .env file when present. Flags still win.
func loadEnv() {
	_ = godotenv.Load()
}

func runDemo(cmd *cobra.Command, _ []string) {
	loadEnv()

	timesteps, _ := cmd.Flags().GetInt("timesteps")
	output, _ := cmd.Flags().GetString("output")
	serveMonitor, _ := cmd.Flags().GetBool("monitor")
	port, _ := cmd.Flags().GetInt("port")

	if output == "" {
		output = os.Getenv("WSI_OUTPUT")
	}
	if !serveMonitor {
		serveMonitor = os.Getenv("WSI_MONITOR") == "1"
	}
	if port == 0 {
		if p, err := strconv.Atoi(os.Getenv("WSI_PORT")); err == nil {
			port = p
		}
	}

	net, river := buildDemoNetwork()

	recorder := recording.New(output)
	step := 0
	flowLog := recording.NewFlowLogger(recorder, "flows", func() int { return step })
	for _, l := range net.Arcs() {
		l.AcceptHook(flowLog)
	}

	var monitor *monitoring.Monitor
	var progress *monitoring.ProgressBar
	if serveMonitor {
		monitor = monitoring.NewMonitor().WithPortNumber(port)
		monitor.RegisterNetwork(net)
		monitor.StartServer()

		progress = monitor.CreateProgressBar("Timesteps", uint64(timesteps))
	}

	reservoir := net.Node("Reservoir").(*node.Storage)
	demand := net.Arc("Reservoir.To.City")

	for step = 0; step < timesteps; step++ {
		// River inflow arrives at the reservoir.
		inflow := river.Quality
		inflow.Volume = 8
		net.Arc("River.To.Reservoir").Push(
			inflow.ConcentrationToTotal(), flow.TagDefault, false)

		// The city pulls its daily demand.
		want := flow.Empty()
		want.Volume = 5
		demand.Pull(want, flow.TagDefault)

		// Anything above the flood line spills downstream.
		if reservoir.Tank().Storage().Volume > 80 {
			reservoir.Distribute()
		}

		net.AdvanceQueues()

		violations := net.Audit()
		if monitor != nil {
			monitor.RecordAudit(violations)
		}
		for object, v := range violations {
			for _, violation := range v {
				fmt.Fprintf(os.Stderr, "%s: %s off by %g\n",
					object, violation.Field, violation.Magnitude)
			}
		}

		net.EndTimestep()

		if progress != nil {
			progress.IncrementFinished(1)
		}
	}

	recorder.Flush()
}

// buildDemoNetwork assembles river -> reservoir -> {city, spill} with a two
// timestep travel time on the river reach.
func buildDemoNetwork() (*network.Network, *node.Supply) {
	net := network.New()

	quality := flow.Empty()
	quality.Pollutants[flow.BOD] = 0.002
	quality.Pollutants[flow.Nitrate] = 0.01
	quality.Temperature = 12

	river := node.NewSupply("River", quality)
	reservoir := node.NewStorage("Reservoir", node.NewTank(100, flow.Empty()))
	city := node.NewWaste("City")
	spill := node.NewWaste("Spill")

	net.AddNode(river)
	net.AddNode(reservoir)
	net.AddNode(city)
	net.AddNode(spill)

	net.AddArc(arc.MakeQueueBuilder().
		WithSource(river).
		WithDestination(reservoir).
		WithTravelTime(2).
		Build("River.To.Reservoir"))

	net.AddArc(arc.MakeBuilder().
		WithSource(reservoir).
		WithDestination(city).
		WithCapacity(6).
		Build("Reservoir.To.City"))

	net.AddArc(arc.MakeBuilder().
		WithSource(reservoir).
		WithDestination(spill).
		WithPreference(0.1).
		Build("Reservoir.To.Spill"))

	return net, river
}
