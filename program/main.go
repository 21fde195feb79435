package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tui "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"

	"github.com/keilerkonzept/histfit-tui-demo/internal/dataset"
	"github.com/keilerkonzept/histfit-tui-demo/internal/export"
	"github.com/keilerkonzept/histfit-tui-demo/internal/session"
)

func main() {
	bindFlags(flag.CommandLine)
	flag.Parse()

	if config.ConfigPath != "" {
		fc, err := loadFileConfig(config.ConfigPath)
		if err != nil {
			logrus.Fatal(err)
		}
		applyFileConfig(fc, explicitFlags(flag.CommandLine))
	}
	if err := validateAndNormalizeConfig(); err != nil {
		logrus.Fatal(err)
	}

	logger, closeLog, err := newLogger(config.LogFile, config.LogLevel)
	if err != nil {
		logrus.Fatal(err)
	}
	defer closeLog()

	metrics := newRecomputeMetrics(config.StatsWindow, config.StatsEnabled)
	opts := sessionOptions()
	opts.Logger = logger
	opts.Observe = metrics.observe
	sess := session.New(opts)

	datasets := discoverDatasets(config.DataDir, config.Datasets)
	initial := initialSource(config.InputPath, datasets, term.IsTerminal(os.Stdin.Fd()))
	logger.WithFields(logrus.Fields{
		"datasets": len(datasets),
		"initial":  initial.String(),
	}).Info("starting")

	if config.ExportPath != "" {
		if err := runExport(sess, initial, config.ExportPath); err != nil {
			closeLog()
			logrus.Fatal(err)
		}
		return
	}

	m := newModel(sess, datasets, initial, metrics, logger)
	progOpts := []tui.ProgramOption{tui.WithInputTTY()}
	if config.AltScreen {
		progOpts = append(progOpts, tui.WithAltScreen())
	}
	if _, err := tui.NewProgram(m, progOpts...).Run(); err != nil {
		closeLog()
		logrus.Fatal(err)
	}
}

// newLogger discards everything unless a log file is given; the terminal
// belongs to the UI.
func newLogger(path, level string) (*logrus.Logger, func(), error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("-log-level: %w", err)
	}
	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if path == "" {
		l.SetOutput(io.Discard)
		return l, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l.SetOutput(f)
	return l, func() { _ = f.Close() }, nil
}

// initialSource picks the first dataset: -in ("-" is stdin), then piped
// stdin, then the first menu entry.
func initialSource(inputPath string, datasets []DatasetEntry, stdinIsTerminal bool) source {
	switch {
	case inputPath == "-":
		return source{stdin: true}
	case inputPath != "":
		return source{path: inputPath}
	case !stdinIsTerminal:
		return source{stdin: true}
	case len(datasets) > 0:
		return source{path: datasets[0].Path}
	}
	return source{}
}

// runExport loads the initial dataset synchronously and writes the plot.
func runExport(sess *session.Session, from source, path string) error {
	var cmd session.Command
	switch {
	case from.stdin:
		ds, err := dataset.LoadReader("stdin", os.Stdin)
		if err != nil {
			return err
		}
		cmd = session.LoadDataset{Dataset: ds}
	case from.path != "":
		cmd = session.LoadFile{Path: from.path}
	default:
		return export.ErrNothingToExport
	}
	snap, err := sess.Apply(cmd)
	if err != nil {
		return err
	}
	return export.Save(path, snap, exportOptions())
}

func exportOptions() export.Options {
	return export.Options{
		Width:  vg.Length(config.ExportWidth) * vg.Inch,
		Height: vg.Length(config.ExportHeight) * vg.Inch,
	}
}
