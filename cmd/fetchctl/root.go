package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cognusion/go-fetchtripper"
)

// jobOpts collects the flags that build a Fetcher and the job list for
// a single invocation of "fetchctl get".
type jobOpts struct {
	connections     uint16
	concurrentFiles int
	timeout         time.Duration
	staging         bool
	plain           bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fetchctl",
		Short:         "Fetch one or more files, optionally in parallel byte-range segments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGetCmd())
	return root
}

func newGetCmd() *cobra.Command {
	opts := &jobOpts{concurrentFiles: 4}

	cmd := &cobra.Command{
		Use:   "get DEST=URL[,URL...] [DEST=URL...]",
		Short: "Download one or more logical files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := parseSources(args, opts.staging)
			if err != nil {
				return err
			}
			return run(sources, opts)
		},
	}

	cmd.Flags().Uint16VarP(&opts.connections, "connections", "c", 0, "Connections per file; >1 enables range-parallel segmented mode")
	cmd.Flags().IntVarP(&opts.concurrentFiles, "concurrent-files", "j", 4, "Maximum number of files downloading at once (values <= 1 keep the default of 4)")
	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", 0, "Per-request, per-chunk timeout (0 disables)")
	cmd.Flags().BoolVar(&opts.staging, "staging", false, "Write to DEST+\".part\" and rename to DEST only on success")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Plain log-line output instead of progress bars, even on a TTY")

	return cmd
}

// parseSources turns "dest=url1,url2" positional arguments into Sources.
// When staging is set, each job writes to dest+".part" first.
func parseSources(args []string, staging bool) ([]fetchtripper.Source, error) {
	sources := make([]fetchtripper.Source, 0, len(args))
	for _, arg := range args {
		dest, urlList, ok := strings.Cut(arg, "=")
		if !ok || dest == "" || urlList == "" {
			return nil, fmt.Errorf("invalid job %q, expected DEST=URL[,URL...]", arg)
		}
		urls := strings.Split(urlList, ",")

		src := fetchtripper.Source{URLs: urls, Dest: dest}
		if staging {
			src.Part = dest + ".part"
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// run builds a Fetcher from opts, dispatches sources through FromStream, and
// renders the resulting FetchEvent stream to stdout/stderr.
func run(sources []fetchtripper.Source, opts *jobOpts) error {
	sender, events := fetchtripper.NewSender(256)

	fetcher := fetchtripper.New(
		fetchtripper.WithConcurrentFiles(opts.concurrentFiles),
		fetchtripper.WithConnectionsPerFile(opts.connections),
		fetchtripper.WithTimeout(opts.timeout),
		fetchtripper.WithEvents(sender),
	)

	plain := opts.plain || !isatty.IsTerminal(os.Stdout.Fd())

	done := make(chan struct{})
	var failed bool
	go func() {
		defer close(done)
		failed = renderEvents(events, plain)
	}()

	ch := make(chan fetchtripper.Source)
	go func() {
		defer close(ch)
		for _, s := range sources {
			ch <- s
		}
	}()

	fetcher.FromStream(ch)
	sender.Close()
	<-done

	if failed {
		return fmt.Errorf("one or more fetches failed")
	}
	return nil
}
