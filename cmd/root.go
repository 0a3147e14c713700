package cmd

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"seatmap-cli/catalog"
	"seatmap-cli/config"
	"seatmap-cli/logger"
	"seatmap-cli/tui"
)

const appName = "seatmap"

// app is what every command needs once the environment is read.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	repo  catalog.Repository
	close func() error
}

func (a *app) load() error {
	a.cfg = config.Load()
	log, closeFn, err := logger.Open(a.cfg.LogFile, a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	a.log = log
	a.close = closeFn
	a.repo = catalog.NewMemory(a.cfg.Seed)
	return nil
}

func newRootCmd(version, commit string) *cobra.Command {
	a := &app{}
	var (
		eventID  string
		renderer string
		single   bool
	)

	root := &cobra.Command{
		Use:           appName,
		Short:         "Pick seats for live events from the terminal",
		Long:          `Browse events, zoom into a venue's seat map and hand the selected tickets to checkout.`,
		Version:       versionString(version, commit),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.close == nil {
				return nil
			}
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if renderer != "" {
				name := strings.ToLower(renderer)
				if name != config.RendererStage && name != config.RendererGrid {
					return fmt.Errorf("unknown renderer %q, use %s or %s", renderer, config.RendererStage, config.RendererGrid)
				}
				a.cfg.Renderer = name
			}
			if single {
				a.cfg.SingleSeat = true
			}
			a.log.Info("starting", "version", version, "renderer", a.cfg.Renderer, "event", eventID)
			model := tui.New(a.repo, tui.Options{Config: a.cfg, Logger: a.log, EventID: eventID})
			_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
			return err
		},
	}
	root.Flags().StringVarP(&eventID, "event", "e", "", "open this event's seat map directly")
	root.Flags().StringVar(&renderer, "renderer", "", "seat map renderer: stage or grid")
	root.Flags().BoolVar(&single, "single", false, "select one seat at a time")

	root.AddCommand(
		newEventsCmd(a),
		newSectionsCmd(a),
		newPickCmd(a),
		newConfirmCmd(a),
		newPurchasesCmd(a),
		newArtistCmd(a),
		newVersionCmd(version, commit),
	)
	return root
}

func newVersionCmd(version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), appName+" "+versionString(version, commit))
		},
	}
}

func versionString(version, commit string) string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("%s (%s)", version, commit)
	}
	return version
}

func Execute(version, commit string) {
	if err := newRootCmd(version, commit).Execute(); err != nil {
		os.Exit(1)
	}
}
