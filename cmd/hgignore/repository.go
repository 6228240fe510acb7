package main

import (
	"os"
	"path/filepath"

	"github.com/tomruk/hgignore/internal/hg"
	"github.com/tomruk/hgignore/internal/ignorefile"
	"go.uber.org/zap"
)

func openRepository() (*hg.Mercurial, error) {
	root, _ := rootCmd.PersistentFlags().GetString("repository")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root, err = hg.FindRoot(wd)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		root, err = filepath.Abs(root)
		if err != nil {
			return nil, err
		}
	}
	debugLog.Debug("repository opened", zap.String("root", root))
	return hg.NewMercurial(root, config.HG.Command, debugLog), nil
}

func newUpdater(root string, opts ...ignorefile.Option) (*ignorefile.Updater, error) {
	opts = append([]ignorefile.Option{
		ignorefile.WithFilename(config.Ignore.File),
		ignorefile.WithLogger(debugLog),
	}, opts...)

	metaDir := hg.MetaDir(root)
	if st, err := os.Stat(metaDir); config.Ignore.Lock && err == nil && st.IsDir() {
		opts = append(opts, ignorefile.WithLockFile(filepath.Join(metaDir, "hgignore.lock")))
	}
	return ignorefile.New(root, opts...)
}
