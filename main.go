package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	logging "github.com/ipfs/go-log/v2"
	"github.com/milk9111/linkpage/assets"
	"github.com/milk9111/linkpage/common"
	"github.com/milk9111/linkpage/prefabs"
	"github.com/pkg/browser"
	"golang.design/x/clipboard"
)

func main() {
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	watch := flag.Bool("watch", false, "reload the page when a prefab changes on disk")
	prefabDir := flag.String("prefabs", prefabs.Dir, "directory whose prefabs shadow the embedded ones")
	assetDir := flag.String("assets", assets.Dir, "directory whose assets shadow the embedded ones")
	pageFile := flag.String("page", "page.yaml", "page prefab to load")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	lvl, err := logging.LevelFromString(*logLevel)
	if err != nil {
		log.Fatalf("bad -log-level %q: %v", *logLevel, err)
	}
	logging.SetAllLoggers(lvl)

	prefabs.Dir = *prefabDir
	assets.Dir = *assetDir

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("linkpage")

	cfg := Config{
		PageFile: *pageFile,
		Loader:   assets.NewAudioLoader(nil),
		Open:     browser.OpenURL,
		Copy:     copyToClipboard(),
	}

	if *watch {
		w, err := prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			log.Warnw("prefab watch disabled", "dir", prefabs.Dir, "err", err)
		} else {
			cfg.Watcher = w
		}
	}

	if err := run(cfg); err != nil {
		log.Errorw("game exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	if cfg.Watcher != nil {
		defer cfg.Watcher.Close()
	}
	game, err := NewGame(cfg)
	if err != nil {
		return err
	}
	defer game.Close()
	return ebiten.RunGame(game)
}

// copyToClipboard returns nil when the platform clipboard is unavailable; the
// right-click copy is then disabled.
func copyToClipboard() func(string) error {
	if err := clipboard.Init(); err != nil {
		log.Warnw("clipboard unavailable", "err", err)
		return nil
	}
	return func(text string) error {
		clipboard.Write(clipboard.FmtText, []byte(text))
		return nil
	}
}
