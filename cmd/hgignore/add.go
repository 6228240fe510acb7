package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tomruk/hgignore/internal/hg"
	"github.com/tomruk/hgignore/internal/ignorefile"
)

func init() {
	f := addCmd.Flags()
	f.BoolP("dry-run", "n", false, "Report what would be ignored without writing the ignore file")
}

var addCmd = &cobra.Command{
	Use:     "add [files...]",
	Aliases: []string{"ignore"},
	Short:   "Add files to the ignore list in the .hgignore file",
	Long: `Add files to the ignore list in the .hgignore file, using glob syntax.

Files must be unknown to Mercurial (not tracked and not ignored yet).
Directories are added without that check. New entries are placed directly
below the first "syntax: glob" line; the section is created if missing.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runAdd(cmd, args)
		if err != nil {
			errPrintln(err)
			exit(exitErrAny)
		}
	},
}

func runAdd(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addExitHandler(cancel)

	repo, err := openRepository()
	if err != nil {
		return err
	}
	updater, err := newUpdater(repo.Root(), ignorefile.WithDryRun(dryRun))
	if err != nil {
		return err
	}
	return addFiles(ctx, cmd.OutOrStdout(), repo, updater, args)
}

// addFiles validates files against the unknown files of repo and adds them
// to the ignore file. Nothing is written to w unless that succeeded.
func addFiles(ctx context.Context, w io.Writer, repo hg.Repository, updater *ignorefile.Updater, files []string) error {
	unknown, err := repo.Unknown(ctx)
	if err != nil {
		return err
	}
	result, err := updater.Add(ctx, files, unknown)
	if err != nil {
		return err
	}

	for _, file := range result.AlreadyIgnored {
		fmt.Fprintf(w, "File %s is already ignored.\n", file)
	}
	fmt.Fprintln(w, "Ignored:")
	for _, file := range result.Ignored {
		fmt.Fprintln(w, file)
	}
	return nil
}
