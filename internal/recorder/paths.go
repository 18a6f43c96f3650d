package recorder

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	timeSeriesDir = "time_series_intraday"
	newsDir       = "news_sentiment"
)

// prepareDirs creates the per-pipeline output directories under dataPath.
func prepareDirs(dataPath string) error {
	for _, dir := range []string{timeSeriesDir, newsDir} {
		if err := os.MkdirAll(filepath.Join(dataPath, dir), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return nil
}

func symbolPath(dataPath, dir, symbol, ext string) string {
	return filepath.Join(dataPath, dir, symbol+ext)
}

// writeAtomic writes through a temp file so readers never see a partial table.
func writeAtomic(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
