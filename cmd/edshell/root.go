package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"edshell/internal/config"
	"edshell/internal/log"
	"edshell/internal/tui"
	"edshell/internal/workspace"
)

var (
	cfgFile string
	cfg     *config.Config
	debug   bool
)

// NewRootCmd creates the root command. Without a subcommand it opens the
// editor on the given directory.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "edshell [directory]",
		Short:   "A terminal editor shell with a project explorer",
		Long:    `edshell opens a project folder in a file tree next to a tabbed text editor.`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				// setup replaces a broken file
				if cmd.Name() != "setup" {
					return err
				}
				cfg = config.New()
			}
			configureLogging(cmd.ErrOrStderr(), cmd.Name() == "edshell" || cmd.Name() == "edit")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(projectDir(args))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/edshell/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewEditCmd())
	rootCmd.AddCommand(NewTreeCmd())
	rootCmd.AddCommand(NewNewCmd())
	rootCmd.AddCommand(NewRenameCmd())
	rootCmd.AddCommand(NewDeleteCmd())
	rootCmd.AddCommand(NewCopyCmd())
	rootCmd.AddCommand(NewMoveCmd())
	rootCmd.AddCommand(NewSetupCmd())

	return rootCmd
}

// NewEditCmd opens the editor, like running edshell without a command
func NewEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [directory]",
		Short: "Open a project in the editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditor(projectDir(args))
		},
	}
}

func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultPath()
}

func loadConfig() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	cfg, err = config.LoadConfigFile(path)
	return err
}

// configureLogging applies the log section of the configuration. The
// editor owns the terminal, so it only logs to a file.
func configureLogging(stderr io.Writer, interactive bool) {
	var opts []log.Option
	if interactive {
		opts = append(opts, log.WithOutput(io.Discard))
	} else {
		opts = append(opts, log.WithOutput(stderr))
	}
	if cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}
	if cfg.Log.File != "" {
		opts = append(opts, log.WithFile(cfg.Log.File))
	}
	if debug || cfg.Log.Debug {
		opts = append(opts, log.WithLevel("debug"))
		log.SetDebug(true)
	} else {
		opts = append(opts, log.WithLevel("warn"))
	}
	log.Configure(opts...)
}

// projectDir picks the directory argument, the last project, or the
// working directory
func projectDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if last := cfg.Directories.LastProject; last != "" {
		if info, err := os.Stat(last); err == nil && info.IsDir() {
			return last
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// openWorkspace creates a workspace over dir for the editor. The project
// is remembered and the configuration is saved back on close.
func openWorkspace(dir string) (*workspace.Workspace, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return newWorkspace(dir, workspace.WithConfigPath(path))
}

// openOneShot creates a workspace for a single command. It lists the tree
// no deeper than depth (0 = unlimited) and leaves the configuration alone.
func openOneShot(dir string, depth int) (*workspace.Workspace, error) {
	return newWorkspace(dir, workspace.OneShot(depth))
}

func newWorkspace(dir string, opts ...workspace.Option) (*workspace.Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	ws, err := workspace.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := ws.OpenProject(abs); err != nil {
		closeWorkspace(ws)
		return nil, err
	}
	return ws, nil
}

// closeWorkspace closes ws and logs a failure to save the configuration
func closeWorkspace(ws *workspace.Workspace) {
	if err := ws.Close(); err != nil {
		log.LogWithError(err).Error("closing workspace")
	}
}

func runEditor(dir string) error {
	ws, err := openWorkspace(dir)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.New(ws), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := p.Run()
	closeErr := ws.Close()
	if runErr != nil {
		if closeErr != nil {
			log.LogWithError(closeErr).Error("closing workspace")
		}
		return fmt.Errorf("error running editor: %w", runErr)
	}
	return closeErr
}
