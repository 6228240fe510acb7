package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tomruk/hgignore/internal/ignorefile"
	"github.com/tomruk/hgignore/internal/utils"
)

var doctorCmd = &cobra.Command{
	Use: "doctor",
	Run: func(cmd *cobra.Command, args []string) {
		errorFound := false
		utils.Bold.Println("Doctor:")
		if used := v.ConfigFileUsed(); used != "" {
			fmt.Printf("    Using config: %s\n", used)
		} else {
			fmt.Println("    No config file found, using defaults")
		}

		repo, err := openRepository()
		if err != nil {
			utils.Red.Print("    Error: ")
			fmt.Printf("%v\n", err)
			exit(exitErrAny)
		}
		fmt.Printf("    Repository root: %s\n", repo.Root())

		hgPath, err := repo.Executable()
		if err != nil {
			utils.Warn.Printf("    Warning: hg not found: %v\n", err)
			errorFound = true
		} else {
			fmt.Printf("    hg found at: %s\n", hgPath)
			version, err := repo.Version(context.Background())
			if err != nil {
				utils.Warn.Printf("    Warning: could not get hg version: %v\n", err)
				errorFound = true
			} else {
				fmt.Printf("    %s\n", version)
			}
		}

		updater, err := newUpdater(repo.Root())
		if err != nil {
			utils.Red.Print("    Error: ")
			fmt.Printf("%v\n", err)
			exit(exitErrAny)
		}
		ignorePath := updater.Path()
		if _, err := os.Stat(ignorePath); os.IsNotExist(err) {
			fmt.Printf("    Ignore file %s doesn't exist yet. It will be created.\n", ignorePath)
		} else {
			f, err := ignorefile.Read(ignorePath)
			if err != nil {
				utils.Red.Print("    Error reading ignore file: ")
				fmt.Printf("%v\n", err)
				errorFound = true
			} else if f.Marker() < 0 {
				fmt.Printf("    Ignore file %s has no glob section. It will be appended.\n", ignorePath)
			} else {
				fmt.Printf("    Ignore file %s has %d glob pattern(s)\n", ignorePath, len(f.GlobPatterns()))
			}
		}

		if !errorFound {
			utils.Success.Println("All good.")
		} else {
			color.Red("Error(s) occured.")
			exit(exitErrAny)
		}
	},
}
