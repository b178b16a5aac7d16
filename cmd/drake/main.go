package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/gbledt/drake/internal/config"
	"github.com/gbledt/drake/internal/export"
	"github.com/gbledt/drake/internal/featherstone"
	"github.com/gbledt/drake/internal/geom"
	"github.com/gbledt/drake/internal/kinematics"
	"github.com/gbledt/drake/internal/plane"
	"github.com/gbledt/drake/internal/rigid"
	"github.com/gbledt/drake/internal/urdf"
	"github.com/gbledt/drake/internal/viz"
)

var (
	view       string
	configFile string
	qFlag      string
	qdFlag     string
	asJSON     bool
	keepFixed  bool
	// sweep settings
	sweepDof     int
	sweepFrom    float64
	sweepTo      float64
	sweepSamples int
	sweepBody    string
	sweepCoord   string
	svgFile      string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "drake",
		Short: "planar rigid-body kinematics from robot descriptions",
	}
	rootCmd.PersistentFlags().StringVar(&view, "view", config.DefaultView, "modeling plane: front, right or top")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scene config file (yaml)")

	infoCmd := &cobra.Command{
		Use:   "info [urdf]",
		Short: "parse a robot description and print the body tree",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInfo,
	}
	infoCmd.Flags().BoolVar(&keepFixed, "keep-fixed", false, "skip fixed-joint reduction")

	fkCmd := &cobra.Command{
		Use:   "fk [urdf]",
		Short: "print world transforms and velocities at a configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFK,
	}
	fkCmd.Flags().StringVar(&qFlag, "q", "", "comma-separated coordinates")
	fkCmd.Flags().StringVar(&qdFlag, "qd", "", "comma-separated velocities")

	feathCmd := &cobra.Command{
		Use:   "featherstone [urdf]",
		Short: "print the recursive-dynamics arrays",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFeatherstone,
	}
	feathCmd.Flags().BoolVar(&asJSON, "json", false, "machine-readable output")

	sweepCmd := &cobra.Command{
		Use:   "sweep [urdf]",
		Short: "sweep one coordinate and plot a body origin trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&sweepDof, "dof", 0, "dof number to sweep (default from config)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "sweep start")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "sweep end")
	sweepCmd.Flags().IntVar(&sweepSamples, "samples", 0, "sample count")
	sweepCmd.Flags().StringVar(&sweepBody, "body", "", "link to trace (default last body)")
	sweepCmd.Flags().StringVar(&sweepCoord, "coord", "", "traced coordinate: x or y")
	sweepCmd.Flags().StringVar(&svgFile, "svg", "", "also write the trace as SVG")

	poseCmd := &cobra.Command{
		Use:   "pose [urdf]",
		Short: "render the chain at a configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPose,
	}
	poseCmd.Flags().StringVar(&qFlag, "q", "", "comma-separated coordinates")
	poseCmd.Flags().StringVar(&svgFile, "svg", "", "also write the rendering as SVG")

	liveCmd := &cobra.Command{
		Use:   "live [urdf]",
		Short: "interactively pose the chain",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadModel(cmd, args)
			if err != nil {
				return err
			}
			return viz.RunLive(m)
		},
	}

	rootCmd.AddCommand(infoCmd, fkCmd, feathCmd, sweepCmd, poseCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadModel resolves the scene (flags over config file over defaults),
// parses the robot description, builds the planar model and reduces it.
func loadModel(cmd *cobra.Command, args []string) (*rigid.Model, *config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("view") || cfg.View == "" {
		cfg.View = view
	}
	robot := cfg.Robot
	if len(args) > 0 {
		robot = args[0]
	}
	if robot == "" {
		return nil, nil, fmt.Errorf("no robot description given (argument or config 'robot')")
	}

	pl, err := plane.ForView(cfg.View)
	if err != nil {
		return nil, nil, err
	}
	doc, err := urdf.ParseFile(robot)
	if err != nil {
		return nil, nil, err
	}
	m, err := urdf.Build(doc, pl)
	if err != nil {
		return nil, nil, err
	}
	if !keepFixed {
		m.ReduceFixedJoints()
	}
	return m, cfg, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, _, err := loadModel(cmd, args)
	if err != nil {
		return err
	}

	fmt.Printf("robot: %s\n", m.Name)
	fmt.Printf("plane: %s (%s/%s), gravity (%.2f, %.2f)\n",
		m.Plane.Name, m.Plane.XLabel, m.Plane.YLabel, m.Plane.Gravity.X(), m.Plane.Gravity.Y())
	fmt.Printf("bodies: %d, dof: %d\n\n", len(m.Bodies), m.NB)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tLINK\tJOINT\tTYPE\tDOF\tSIGN\tDAMPING\tPARENT")
	for _, b := range m.Bodies {
		parent := "-"
		if !b.IsRoot() {
			parent = m.Bodies[b.Parent].LinkName
		}
		dof := "-"
		if b.DofNum > 0 {
			dof = strconv.Itoa(b.DofNum)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%+g\t%g\t%s\n",
			b.Index, b.LinkName, b.JointName, b.Code, dof, b.Sign, b.Damping, parent)
	}
	return w.Flush()
}

func runFK(cmd *cobra.Command, args []string) error {
	m, cfg, err := loadModel(cmd, args)
	if err != nil {
		return err
	}
	q, qd, err := stateVectors(cmd, cfg, m.NB)
	if err != nil {
		return err
	}

	engine := kinematics.NewEngine(m)
	if err := engine.Update(q, qd); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "LINK\tTHETA\t%s\t%s\tOMEGA\tV%s\tV%s\n",
		strings.ToUpper(m.Plane.XLabel), strings.ToUpper(m.Plane.YLabel), m.Plane.XLabel, m.Plane.YLabel)
	for _, b := range m.Bodies {
		o := geom.Origin(b.T)
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			b.LinkName, geom.Angle(b.T), o.X(), o.Y(), b.V[0], b.V[1], b.V[2])
	}
	return w.Flush()
}

func runFeatherstone(cmd *cobra.Command, args []string) error {
	m, _, err := loadModel(cmd, args)
	if err != nil {
		return err
	}
	a, err := featherstone.Extract(m)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}

	fmt.Printf("NB: %d\n\n", a.NB)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "I\tPARENT\tJOINT\tDAMPING")
	for i := 0; i < a.NB; i++ {
		fmt.Fprintf(w, "%d\t%d\t%s\t%g\n", i+1, a.Parent[i], a.Code[i], a.Damping[i])
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	m, cfg, err := loadModel(cmd, args)
	if err != nil {
		return err
	}
	if m.NB == 0 {
		return fmt.Errorf("model has no dof to sweep")
	}

	sw := cfg.Sweep
	if cmd.Flags().Changed("dof") {
		sw.Dof = sweepDof
	}
	if cmd.Flags().Changed("from") {
		sw.From = sweepFrom
	}
	if cmd.Flags().Changed("to") {
		sw.To = sweepTo
	}
	if cmd.Flags().Changed("samples") {
		sw.Samples = sweepSamples
	}
	if cmd.Flags().Changed("body") {
		sw.Body = sweepBody
	}
	if cmd.Flags().Changed("coord") {
		sw.Coord = sweepCoord
	}
	if sw.Dof < 1 || sw.Dof > m.NB {
		return fmt.Errorf("dof %d out of range 1..%d", sw.Dof, m.NB)
	}
	if sw.Samples < 2 {
		return fmt.Errorf("need at least 2 samples, got %d", sw.Samples)
	}

	traced := m.Bodies[len(m.Bodies)-1]
	if sw.Body != "" {
		if traced = m.FindBody(sw.Body); traced == nil {
			return fmt.Errorf("unknown link %q", sw.Body)
		}
	}

	engine := kinematics.NewEngine(m)
	q := make([]float64, m.NB)
	qd := make([]float64, m.NB)
	data := make([]float64, sw.Samples)
	trace := make([]mgl64.Vec2, 0, sw.Samples)
	for i := 0; i < sw.Samples; i++ {
		q[sw.Dof-1] = sw.From + (sw.To-sw.From)*float64(i)/float64(sw.Samples-1)
		if err := engine.Update(q, qd); err != nil {
			return err
		}
		o := geom.Origin(traced.T)
		trace = append(trace, o)
		if sw.Coord == "y" {
			data[i] = o.Y()
		} else {
			data[i] = o.X()
		}
	}

	label := m.Plane.XLabel
	if sw.Coord == "y" {
		label = m.Plane.YLabel
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s %s vs q%d", traced.LinkName, label, sw.Dof)),
	)
	fmt.Println(graph)

	if svgFile != "" {
		svg := export.TrajectoryToSVG(trace, 640, 480, "#00ff00")
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
	}
	return nil
}

func runPose(cmd *cobra.Command, args []string) error {
	m, cfg, err := loadModel(cmd, args)
	if err != nil {
		return err
	}
	q, qd, err := stateVectors(cmd, cfg, m.NB)
	if err != nil {
		return err
	}

	engine := kinematics.NewEngine(m)
	if err := engine.Update(q, qd); err != nil {
		return err
	}

	canvas := viz.NewCanvas(70, 20)
	viz.DrawChain(canvas, m)
	fmt.Print(canvas.String())

	if svgFile != "" {
		svg := export.CanvasToSVG(canvas, 4)
		if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgFile)
	}
	return nil
}

// stateVectors resolves q/qd from flags or the config file, zero by
// default. Wrong-length vectors are rejected.
func stateVectors(cmd *cobra.Command, cfg *config.Config, nb int) ([]float64, []float64, error) {
	if cmd.Flags().Changed("q") {
		cfg.Q = nil
		if qFlag != "" {
			v, err := parseVector(qFlag)
			if err != nil {
				return nil, nil, fmt.Errorf("bad --q: %w", err)
			}
			cfg.Q = v
		}
	}
	if cmd.Flags().Changed("qd") {
		cfg.Qd = nil
		if qdFlag != "" {
			v, err := parseVector(qdFlag)
			if err != nil {
				return nil, nil, fmt.Errorf("bad --qd: %w", err)
			}
			cfg.Qd = v
		}
	}
	return cfg.StateVectors(nb)
}

func parseVector(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
