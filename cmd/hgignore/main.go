package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	_config "github.com/tomruk/hgignore/internal/config"
	"github.com/tomruk/hgignore/internal/utils"
	"go.uber.org/zap"
)

var (
	config *_config.Config
	v      *viper.Viper

	debugLog = zap.NewNop()

	rootCmd = &cobra.Command{
		Use:   "hgignore",
		Short: "Add files to the ignore list of a Mercurial repository",
	}
)

func main() { rootCmd.Execute() }

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(doctorCmd)

	f := rootCmd.PersistentFlags()
	f.StringP("config", "c", "", "Config file")
	f.StringP("repository", "R", "", "Repository root (default: found from the working directory)")
	f.Bool("enable-log", false, "Enable debug logging to stderr")

	cobra.OnInitialize(sync.OnceFunc(func() {
		sigChan := make(chan os.Signal, 2)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			exit(exitTerm)
		}()

		err := initEverything()
		if err != nil {
			errPrintln(err)
			exit(exitErrAny)
		}
	}))
}

func initEverything() error {
	configFileArg, _ := rootCmd.PersistentFlags().GetString("config")
	var err error
	config, v, err = _config.Read(configFileArg)
	if err != nil {
		return err
	}
	config.PlaceEnvironmentVariables()
	err = config.Check()
	if err != nil {
		return err
	}
	return initLogging()
}

type exitCode int

const (
	exitSuccess exitCode = iota
	exitErrAny
	exitTerm
)

func errPrintln(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", utils.Red.Sprint("Error:"), err)
	}
}

var (
	exitHandlers   []func()
	exitHandlersMu sync.Mutex
)

func addExitHandler(f func()) {
	exitHandlersMu.Lock()
	exitHandlers = append(exitHandlers, sync.OnceFunc(f))
	exitHandlersMu.Unlock()
}

func onExit() {
	exitHandlersMu.Lock()
	defer exitHandlersMu.Unlock()
	for _, f := range exitHandlers {
		f()
	}
	debugLog.Sync()
}

func exit(code exitCode) {
	onExit()
	os.Exit(int(code))
}
