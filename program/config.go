package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/keilerkonzept/histfit-tui-demo/internal/distribution"
	"github.com/keilerkonzept/histfit-tui-demo/internal/histogram"
	"github.com/keilerkonzept/histfit-tui-demo/internal/session"
)

type Config struct {
	// input
	ConfigPath string
	InputPath  string
	DataDir    string
	Datasets   []DatasetEntry

	// histogram
	Intervals       int
	IntervalChoices []int
	Edges           string

	// curve
	Distribution string
	CurvePoints  int
	Mu           float64
	Sigma        float64
	Beta         float64
	Step         float64
	StepChoices  []float64
	LegacyNormal bool

	// render
	ViewSplit    int
	StatsEnabled bool
	StatsWindow  int
	AltScreen    bool

	// logging
	LogFile  string
	LogLevel string

	// export
	ExportPath   string
	ExportDir    string
	ExportWidth  float64
	ExportHeight float64
}

// DatasetEntry is one row of the Files menu.
type DatasetEntry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

var config = Config{
	DataDir: ".",
	Datasets: []DatasetEntry{
		{Name: "normal.dat", Path: "normal.dat"},
		{Name: "expo.dat", Path: "expo.dat"},
		{Name: "Data File 4", Path: "4.dat"},
		{Name: "Data File 17", Path: "17.dat"},
	},

	Intervals:       session.DefaultIntervals,
	IntervalChoices: []int{30, 40, 50},
	Edges:           histogram.HalfOpen.String(),

	Distribution: "none",
	CurvePoints:  session.DefaultCurvePoints,
	Mu:           distribution.DefaultParams.Mu,
	Sigma:        distribution.DefaultParams.Sigma,
	Beta:         distribution.DefaultParams.Beta,
	Step:         session.DefaultStep,
	StepChoices:  []float64{0.01, 0.02, 0.05},

	ViewSplit:    30,
	StatsEnabled: false,
	StatsWindow:  64,
	AltScreen:    true,

	LogLevel: "info",

	ExportDir:    ".",
	ExportWidth:  8,
	ExportHeight: 6,
}

func bindFlags(fs *flag.FlagSet) {
	fs.StringVar(&config.ConfigPath, "config", config.ConfigPath, "YAML file with datasets, menu choices and initial parameters")
	fs.StringVar(&config.InputPath, "in", config.InputPath, "Dataset to show first (\"-\" reads stdin; default: piped stdin or the first menu entry)")
	fs.StringVar(&config.DataDir, "dir", config.DataDir, "Directory the dataset menu is resolved against; every *.dat in it is listed")
	fs.IntVar(&config.Intervals, "intervals", config.Intervals, "Initial number of histogram intervals")
	fs.StringVar(&config.Edges, "edges", config.Edges, "Bin edge policy: half-open or exclusive")
	fs.StringVar(&config.Distribution, "distribution", config.Distribution, "Initial distribution: none, normal or exponential")
	fs.IntVar(&config.CurvePoints, "curve-points", config.CurvePoints, "Number of points sampled along the PDF curve")
	fs.Float64Var(&config.Mu, "mu", config.Mu, "Initial normal mean")
	fs.Float64Var(&config.Sigma, "sigma", config.Sigma, "Initial normal standard deviation")
	fs.Float64Var(&config.Beta, "beta", config.Beta, "Initial exponential scale (rate = 1/beta)")
	fs.Float64Var(&config.Step, "step", config.Step, "Initial parameter step")
	fs.BoolVar(&config.LegacyNormal, "legacy-normal", config.LegacyNormal, "Group the normal PDF exponent as exp(-((x-mu)^2/2)*sigma^2)")
	fs.IntVar(&config.ViewSplit, "view-split", config.ViewSplit, "Split the view at this % of the total screen width [20,80]")
	fs.BoolVar(&config.StatsEnabled, "stats", config.StatsEnabled, "Show recompute timings")
	fs.IntVar(&config.StatsWindow, "stats-window", config.StatsWindow, "Number of recent samples kept per timing")
	fs.BoolVar(&config.AltScreen, "alt-screen", config.AltScreen, "Use the terminal alternate screen buffer (recommended inside IDE terminals)")
	fs.StringVar(&config.LogFile, "log-file", config.LogFile, "Append logs to this file (logs are discarded when empty)")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&config.ExportPath, "export", config.ExportPath, "Write the initial plot to this file (.png, .svg, .pdf) and exit")
	fs.StringVar(&config.ExportDir, "export-dir", config.ExportDir, "Directory for plots exported from the interactive view")
	fs.Float64Var(&config.ExportWidth, "export-width", config.ExportWidth, "Exported plot width in inches")
	fs.Float64Var(&config.ExportHeight, "export-height", config.ExportHeight, "Exported plot height in inches")
}

// fileConfig is the YAML layout of -config. Absent keys leave the defaults alone.
type fileConfig struct {
	DataDir      string         `yaml:"dir"`
	Datasets     []DatasetEntry `yaml:"datasets"`
	Intervals    []int          `yaml:"intervals"`
	Steps        []float64      `yaml:"steps"`
	Edges        string         `yaml:"edges"`
	Distribution string         `yaml:"distribution"`
	CurvePoints  int            `yaml:"curve_points"`
	Parameters   *struct {
		Mu    *float64 `yaml:"mu"`
		Sigma *float64 `yaml:"sigma"`
		Beta  *float64 `yaml:"beta"`
		Step  *float64 `yaml:"step"`
	} `yaml:"parameters"`
	LegacyNormal *bool `yaml:"legacy_normal"`
}

func loadFileConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	for i, d := range fc.Datasets {
		if strings.TrimSpace(d.Path) == "" {
			return nil, fmt.Errorf("config %s: dataset %d has no path", path, i+1)
		}
		if d.Name == "" {
			fc.Datasets[i].Name = filepath.Base(d.Path)
		}
	}
	return &fc, nil
}

// applyFileConfig copies file values into config, except for flags given on
// the command line, which win.
func applyFileConfig(fc *fileConfig, explicit map[string]bool) {
	set := func(flagName string) bool { return !explicit[flagName] }
	if fc.DataDir != "" && set("dir") {
		config.DataDir = fc.DataDir
	}
	if len(fc.Datasets) > 0 {
		config.Datasets = fc.Datasets
	}
	if len(fc.Intervals) > 0 {
		config.IntervalChoices = fc.Intervals
		if set("intervals") {
			config.Intervals = fc.Intervals[0]
		}
	}
	if len(fc.Steps) > 0 {
		config.StepChoices = fc.Steps
	}
	if fc.Edges != "" && set("edges") {
		config.Edges = fc.Edges
	}
	if fc.Distribution != "" && set("distribution") {
		config.Distribution = fc.Distribution
	}
	if fc.CurvePoints != 0 && set("curve-points") {
		config.CurvePoints = fc.CurvePoints
	}
	if p := fc.Parameters; p != nil {
		if p.Mu != nil && set("mu") {
			config.Mu = *p.Mu
		}
		if p.Sigma != nil && set("sigma") {
			config.Sigma = *p.Sigma
		}
		if p.Beta != nil && set("beta") {
			config.Beta = *p.Beta
		}
		if p.Step != nil && set("step") {
			config.Step = *p.Step
		}
	}
	if fc.LegacyNormal != nil && set("legacy-normal") {
		config.LegacyNormal = *fc.LegacyNormal
	}
}

func explicitFlags(fs *flag.FlagSet) map[string]bool {
	out := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { out[f.Name] = true })
	return out
}

func validateAndNormalizeConfig() error {
	if config.Intervals < 1 {
		return fmt.Errorf("-intervals must be >= 1")
	}
	for _, n := range config.IntervalChoices {
		if n < 1 {
			return fmt.Errorf("interval choices must be >= 1 (got %d)", n)
		}
	}
	if config.CurvePoints < 2 {
		return fmt.Errorf("-curve-points must be >= 2")
	}
	if config.Step <= 0 {
		return fmt.Errorf("-step must be > 0")
	}
	for _, s := range config.StepChoices {
		if s <= 0 {
			return fmt.Errorf("step choices must be > 0 (got %g)", s)
		}
	}
	if config.Sigma <= 0 {
		return fmt.Errorf("-sigma must be > 0")
	}
	if config.Beta <= 0 {
		return fmt.Errorf("-beta must be > 0")
	}
	if _, err := histogram.ParseEdgePolicy(config.Edges); err != nil {
		return fmt.Errorf("-edges: %w", err)
	}
	if _, err := distribution.ParseKind(config.Distribution); err != nil {
		return fmt.Errorf("-distribution: %w", err)
	}
	if config.StatsWindow < 1 {
		return fmt.Errorf("-stats-window must be >= 1")
	}
	if config.ExportWidth <= 0 || config.ExportHeight <= 0 {
		return fmt.Errorf("-export-width and -export-height must be > 0")
	}

	config.ViewSplit = max(20, config.ViewSplit)
	config.ViewSplit = min(80, config.ViewSplit)
	if config.StatsWindow < 16 {
		config.StatsWindow = 16
	}
	if !slices.Contains(config.IntervalChoices, config.Intervals) {
		config.IntervalChoices = append(config.IntervalChoices, config.Intervals)
		sort.Ints(config.IntervalChoices)
	}
	if !slices.Contains(config.StepChoices, config.Step) {
		config.StepChoices = append(config.StepChoices, config.Step)
		sort.Float64s(config.StepChoices)
	}
	return nil
}

func sessionOptions() session.Options {
	kind, _ := distribution.ParseKind(config.Distribution)
	edges, _ := histogram.ParseEdgePolicy(config.Edges)
	return session.Options{
		Intervals:    config.Intervals,
		CurvePoints:  config.CurvePoints,
		Step:         config.Step,
		Params:       distribution.Params{Mu: config.Mu, Sigma: config.Sigma, Beta: config.Beta},
		Distribution: kind,
		Edges:        edges,
		LegacyNormal: config.LegacyNormal,
	}
}

// discoverDatasets resolves the configured menu entries against dir, drops
// the ones that do not exist and appends every other *.dat file in dir.
func discoverDatasets(dir string, entries []DatasetEntry) []DatasetEntry {
	var out []DatasetEntry
	seen := make(map[string]bool)
	for _, e := range entries {
		path := e.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		key := filepath.Clean(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, DatasetEntry{Name: e.Name, Path: path})
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.dat"))
	sort.Strings(matches)
	for _, path := range matches {
		key := filepath.Clean(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, DatasetEntry{Name: filepath.Base(path), Path: path})
	}
	return out
}
