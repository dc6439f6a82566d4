package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"edshell/internal/explorer"
	"edshell/internal/fsops"
	"edshell/internal/workspace"
)

// NewTreeCmd prints a project the way the explorer shows it
func NewTreeCmd() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "tree [directory]",
		Short: "Print the project tree",
		Long:  `Print the project tree with hidden and ignored entries filtered as in the explorer.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openOneShot(projectDir(args), depth)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws)
			printTree(cmd, ws, depth)
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "L", 0, "Descend at most this many levels (0 = unlimited)")
	return cmd
}

func printTree(cmd *cobra.Command, ws *workspace.Workspace, depth int) {
	tree := ws.Tree()
	gw := fsops.New()
	out := cmd.OutOrStdout()

	var dirs, files int
	var total uint64
	tree.Walk(func(id explorer.NodeID, d int) bool {
		n, _ := tree.Node(id)
		if d == 0 {
			fmt.Fprintln(out, emphasisText(tree.RootPath()))
			return true
		}
		line := strings.Repeat("  ", d-1) + n.Name
		switch {
		case n.IsDir:
			dirs++
			fmt.Fprintln(out, infoText(line+"/"))
		default:
			files++
			size := ""
			if entry, err := gw.Stat(tree.ResolvePath(id)); err == nil {
				total += uint64(entry.Size)
				size = " (" + humanize.Bytes(uint64(entry.Size)) + ")"
			}
			fmt.Fprintln(out, line+size)
		}
		return depth <= 0 || d < depth
	})
	fmt.Fprintf(out, "\n%d directories, %d files, %s\n", dirs, files, humanize.Bytes(total))
}

// NewNewCmd creates an empty file or directory
func NewNewCmd() *cobra.Command {
	var isDir bool

	cmd := &cobra.Command{
		Use:   "new <parent> <name>",
		Short: "Create an empty file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openOneShot(args[0], 1)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws)
			path, err := ws.Create(args[0], args[1], isDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText("Created "+path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&isDir, "dir", "d", false, "Create a directory instead of a file")
	return cmd
}

// NewRenameCmd renames an entry in place
func NewRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename a file or directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openOneShot(filepath.Dir(args[0]), 1)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws)
			path, err := ws.Rename(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText("Renamed to "+path))
			return nil
		},
	}
}

// NewDeleteCmd removes an entry from disk
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openOneShot(filepath.Dir(args[0]), 1)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws)
			if err := ws.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successText("Deleted "+args[0]))
			return nil
		},
	}
}

// NewCopyCmd copies an entry into a directory
func NewCopyCmd() *cobra.Command {
	return transferCmd("copy", "Copy a file or directory into another directory", false)
}

// NewMoveCmd moves an entry into a directory
func NewMoveCmd() *cobra.Command {
	return transferCmd("move", "Move a file or directory into another directory", true)
}

func transferCmd(use, short string, move bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <source> <dest-dir>",
		Short: short,
		Long:  short + `. Name collisions get a numbered name such as notes_(1).txt.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openOneShot(args[1], 1)
			if err != nil {
				return err
			}
			defer closeWorkspace(ws)
			report, err := ws.Transfer(args[0], args[1], move)
			out := cmd.OutOrStdout()
			for _, path := range report.Pasted {
				fmt.Fprintln(out, successText(path))
			}
			for path, failure := range report.Failed {
				fmt.Fprintln(out, warningText(fmt.Sprintf("%s: %v", path, failure)))
			}
			return err
		},
	}
}
