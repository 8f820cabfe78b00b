package main

import (
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	logging "github.com/ipfs/go-log/v2"
	"github.com/milk9111/linkpage/common"
	"github.com/milk9111/linkpage/ecs"
	"github.com/milk9111/linkpage/ecs/component"
	"github.com/milk9111/linkpage/ecs/entity"
	"github.com/milk9111/linkpage/ecs/render"
	"github.com/milk9111/linkpage/ecs/system"
	"github.com/milk9111/linkpage/prefabs"
	"github.com/milk9111/linkpage/session"
)

var log = logging.Logger("linkpage")

// Config is everything main hands to the game.
type Config struct {
	PageFile string
	Loader   component.ResourceLoader
	Watcher  *prefabs.Watcher
	Open     func(url string) error
	Copy     func(text string) error
}

// Game hosts one page load: a world, its session and the systems that drive
// it. A prefab reload throws all of it away and loads the page again.
type Game struct {
	cfg Config

	world     *ecs.World
	session   *session.Session
	scheduler *ecs.Scheduler
	music     *system.MusicSystem
	intro     *system.IntroSystem
	render    *system.RenderSystem
	page      *prefabs.PageSpec

	queue      *ebitenui.UI
	queueState queueState
}

func NewGame(cfg Config) (*Game, error) {
	if cfg.PageFile == "" {
		cfg.PageFile = "page.yaml"
	}
	g := &Game{cfg: cfg}
	if err := g.load(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) load() error {
	page, err := prefabs.LoadPageSpec(g.cfg.PageFile)
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	if _, err := entity.BuildPage(w, page, g.cfg.PageFile); err != nil {
		return err
	}
	for _, e := range ecs.Entities(w) {
		log.Debugw("entity built", "entity", e.String(), "components", ecs.Describe(w, e))
	}

	sess := session.New(nil)
	music := system.NewMusicSystem(sess, g.cfg.Loader)
	reveal := system.NewRevealSystem(sess)
	intro := system.NewIntroSystem(sess, g.mountPlayer)

	g.teardown()
	render.ResetImages()
	g.world = w
	g.session = sess
	g.page = page
	g.music = music
	g.intro = intro
	g.render = system.NewRenderSystem(system.GateText{Title: page.Gate.Title, Hint: page.Gate.Hint})
	g.scheduler = ecs.NewScheduler(
		system.NewInputSystem(),
		music,
		intro,
		reveal,
		system.NewBlinkSystem(sess),
		system.NewTransportSystem(music),
		system.NewSocialLinkSystem(g.cfg.Open, g.cfg.Copy),
	)
	g.queue = nil
	g.queueState = queueState{}

	if page.Title != "" {
		ebiten.SetWindowTitle(page.Title)
	}
	log.Infow("page loaded", "file", g.cfg.PageFile, "entities", len(ecs.Entities(w)))
	return nil
}

// mountPlayer runs when the gate is dismissed.
func (g *Game) mountPlayer(w *ecs.World) {
	if g.page == nil || g.page.Player == "" {
		return
	}
	if _, err := entity.NewMusicPlayer(w, g.page.Player); err != nil {
		log.Warnw("music player unavailable", "prefab", g.page.Player, "err", err)
	}
}

func (g *Game) teardown() {
	g.scheduler.Close()
	if g.intro != nil && g.world != nil {
		g.intro.Unmount(g.world)
	}
	if g.world != nil {
		for _, e := range ecs.Entities(g.world) {
			ecs.DestroyEntity(g.world, e)
		}
	}
}

// Close releases the audio resources of the current page.
func (g *Game) Close() {
	g.teardown()
	g.world = nil
}

func (g *Game) Update() error {
	g.pollPrefabs()

	g.world.Tick(tickStep())
	g.scheduler.Update(g.world)

	g.syncQueue()
	if g.queue != nil {
		g.queue.Update()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
	if g.queue != nil {
		g.queue.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}

// pollPrefabs reloads the page when any prefab changes on disk. A broken
// prefab keeps the running page.
func (g *Game) pollPrefabs() {
	if g.cfg.Watcher == nil {
		return
	}
	changed := ""
drain:
	for {
		select {
		case name, ok := <-g.cfg.Watcher.Events:
			if !ok {
				g.cfg.Watcher = nil
				break drain
			}
			changed = name
		case err, ok := <-g.cfg.Watcher.Errors:
			if !ok {
				g.cfg.Watcher = nil
				break drain
			}
			log.Warnw("prefab watcher", "err", err)
		default:
			break drain
		}
	}
	if changed == "" {
		return
	}
	if err := g.load(); err != nil {
		log.Errorw("reload failed", "trigger", changed, "err", err)
		return
	}
	log.Infow("page reloaded", "trigger", changed)
}

func tickStep() time.Duration {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return time.Second / time.Duration(tps)
}
