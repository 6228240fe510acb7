package main

import (
	"fmt"

	"github.com/tomruk/hgignore/internal/utils"
	"go.uber.org/zap"
)

func initLogging() (err error) {
	enable, _ := rootCmd.PersistentFlags().GetBool("enable-log")
	if enable || config.Log.Enabled {
		debugLog, err = utils.NewDebugLogger(config.Log.Level)
		if err != nil {
			return fmt.Errorf("could not create a new logger: %v", err)
		}
	} else {
		debugLog = zap.NewNop()
	}
	return
}
