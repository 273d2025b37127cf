// Package cli implements the crashtrace command: inspect, print, dump and
// clear crash snapshots in a flash image, decode raw dumps and run the
// simulated platform.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/moffa90/go-crashtrace/config"
	"github.com/moffa90/go-crashtrace/crash"
	"github.com/moffa90/go-crashtrace/flash"
	"github.com/moffa90/go-crashtrace/logging"
	"github.com/moffa90/go-crashtrace/metrics"
	"github.com/moffa90/go-crashtrace/scratch"
	"github.com/moffa90/go-crashtrace/sim"
	"github.com/moffa90/go-crashtrace/trace"
)

const version = "0.1.0"

var errNoCrashData = errors.New("no crash data in image")

// rootOptions carries the global flags and what PersistentPreRunE builds
// from them.
type rootOptions struct {
	configPath string
	imagePath  string
	verbose    bool
	metrics    bool

	logger    *zap.Logger
	log       *logging.ZapLogger
	collector *metrics.Collector
	pool      *scratch.Pool
}

// Execute runs the crashtrace command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "crashtrace",
		Short: "Inspect crash snapshots in a flash image",
		Long: `crashtrace reads the crash region a firmware writes after its image
when it faults: the fault reason, the faulting stack and a verbatim RAM
snapshot. It prints reports in the exception decoder's format, dumps RAM
for offline decoding and clears the region for the next fault.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			o.logger = logging.NewConsole(o.verbose)
			o.log = logging.NewZap(o.logger)
			if o.metrics {
				o.collector = metrics.NewCollector()
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = o.logger.Sync()
			if o.collector != nil {
				return o.collector.WriteText(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "Board profile (YAML); default is the ESP8266 4M profile")
	cmd.PersistentFlags().StringVarP(&o.imagePath, "image", "i", "flash.bin", "Flash image file")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&o.metrics, "metrics", false, "Print Prometheus metrics after the command")

	cmd.AddCommand(
		newStatusCmd(o),
		newPrintCmd(o),
		newDumpCmd(o),
		newClearCmd(o),
		newDecodeCmd(o),
		newSimulateCmd(o),
	)
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate(fmt.Sprintf("crashtrace version %s\n", version))

	return cmd
}

// profile loads, completes and validates the board profile.
func (o *rootOptions) profile() (*config.Profile, error) {
	p := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	config.ApplyDefaults(p)
	if err := config.Validate(p); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	o.pool = p.ScratchPool()
	if o.collector != nil && o.pool != nil {
		o.collector.WatchScratch(o.pool)
	}

	o.log.Debug("profile loaded",
		"name", p.Name,
		"block_size", fmt.Sprintf("0x%X", p.Flash.BlockSize),
		"region_base", fmt.Sprintf("0x%08X", p.Geometry().RegionBase(p.Bounds())),
	)
	return p, nil
}

// openImage opens the flash image for p.
func (o *rootOptions) openImage(p *config.Profile) (*flash.File, error) {
	img, err := flash.OpenFile(o.imagePath, p.Flash.Size, p.Flash.BlockSize, flash.WithLogger(o.log))
	if err != nil {
		return nil, err
	}
	o.log.Debug("image opened", "path", o.imagePath)
	return img, nil
}

// closeImage closes img and surfaces any I/O failure the storage contract
// could not return.
func (o *rootOptions) closeImage(img *flash.File, err *error) {
	ioErr := img.Err()
	closeErr := img.Close()
	if *err != nil {
		return
	}
	if ioErr != nil {
		*err = ioErr
		return
	}
	*err = closeErr
}

// crashOptions returns the options shared by every writer and reporter.
func (o *rootOptions) crashOptions(p *config.Profile) []crash.Option {
	opts := append(p.Options(), crash.WithLogger(o.log))
	if o.pool != nil {
		opts = append(opts, crash.WithScratch(o.pool))
	}
	if o.collector != nil {
		opts = append(opts, crash.WithObserver(o.collector))
	}
	return opts
}

// reporter opens a reporter over img. The live reset state is a plain
// power-on unless liveReason says otherwise.
func (o *rootOptions) reporter(p *config.Profile, img crash.Storage, liveReason uint32, ring *trace.Ring) (*crash.Reporter, error) {
	opts := o.crashOptions(p)
	if ring != nil {
		opts = append(opts, crash.WithEvents(ring))
		if o.collector != nil {
			o.collector.WatchRing(ring)
		}
	}

	reset := sim.NewResetState(regionInfo(liveReason))
	return crash.NewReporter(img, p.Bounds(), p.Geometry(), reset, opts...)
}

// hostCPU is the CPU a ring restored on the host reads its clock from.
func hostCPU() trace.CPU {
	return sim.NewCPU(1, sim.NewVectorTable(0))
}
