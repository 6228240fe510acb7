package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/tomruk/hgignore/internal/ignorefile"
	"github.com/tomruk/hgignore/internal/utils"
)

var checkCmd = &cobra.Command{
	Use:   "check <paths...>",
	Short: "Show whether paths are listed in, or matched by the glob patterns of the ignore file",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := openRepository()
		if err != nil {
			errPrintln(err)
			exit(exitErrAny)
		}
		updater, err := newUpdater(repo.Root())
		if err != nil {
			errPrintln(err)
			exit(exitErrAny)
		}
		err = checkPaths(cmd.OutOrStdout(), updater, args)
		if err != nil {
			errPrintln(err)
			exit(exitErrAny)
		}
	},
}

func checkPaths(w io.Writer, updater *ignorefile.Updater, paths []string) error {
	f, err := ignorefile.Read(updater.Path())
	if err != nil {
		return err
	}
	m := ignorefile.NewMatcher(f)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"PATH", "LISTED", "GLOB MATCH"})
	for _, path := range paths {
		rel, isDir, err := updater.Resolve(path)
		if err != nil {
			return err
		}
		match, err := m.Match(rel, isDir)
		if err != nil {
			return fmt.Errorf("could not match %s against the glob patterns of %s: %v", rel, updater.Path(), err)
		}
		t.AppendRow(table.Row{rel, yesNo(f.Contains(rel)), yesNo(match)})
	}
	_, err = fmt.Fprintln(w, t.Render())
	return err
}

func yesNo(b bool) string {
	if b {
		return utils.HiGreen.Sprint("yes")
	}
	return utils.Faint.Sprint("no")
}
