package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/stewi1014/gltutorial/config"
	"github.com/stewi1014/gltutorial/gldriver"
	"github.com/stewi1014/gltutorial/lessons"
	"github.com/stewi1014/gltutorial/logx"
	"github.com/stewi1014/gltutorial/shader"
)

const defaultLesson = "triangle"

// GL and GTK both want the thread that initialised them.
func init() {
	runtime.LockOSThread()
}

var (
	configFlag = &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    "TOML configuration file",
		Category: "CONFIGURATION",
	}
	hostFlag = &cli.StringFlag{
		Name:     "host",
		Usage:    "window host, glfw or gtk",
		Category: "WINDOW",
	}
	widthFlag = &cli.IntFlag{
		Name:     "width",
		Usage:    "window width in pixels",
		Category: "WINDOW",
	}
	heightFlag = &cli.IntFlag{
		Name:     "height",
		Usage:    "window height in pixels",
		Category: "WINDOW",
	}
	shaderDirFlag = &cli.StringFlag{
		Name:     "shader-dir",
		Usage:    "directory with <lesson>.vert and <lesson>.frag overrides",
		Category: "SHADERS",
	}
	watchFlag = &cli.BoolFlag{
		Name:     "watch",
		Usage:    "rebuild the program when override files change",
		Category: "SHADERS",
	}
	strictFlag = &cli.BoolFlag{
		Name:     "strict",
		Usage:    "treat shader compile and link failures as fatal",
		Category: "SHADERS",
	}
	screenshotsFlag = &cli.StringFlag{
		Name:     "screenshots",
		Usage:    "directory screenshots are written to",
		Category: "CAPTURE",
	}
	verboseFlag = &cli.BoolFlag{
		Name:     "verbose",
		Aliases:  []string{"v"},
		Usage:    "log debug messages",
		Category: "LOGGING",
	}
	quietFlag = &cli.BoolFlag{
		Name:     "quiet",
		Aliases:  []string{"q"},
		Usage:    "only log errors",
		Category: "LOGGING",
	}
)

func newApp() *cli.App {
	return &cli.App{
		Name:      "gltutorial",
		Usage:     "draw the OpenGL tutorial lessons",
		ArgsUsage: "[lesson]",
		Flags: []cli.Flag{
			configFlag,
			hostFlag,
			widthFlag,
			heightFlag,
			shaderDirFlag,
			watchFlag,
			strictFlag,
			screenshotsFlag,
			verboseFlag,
			quietFlag,
		},
		Before: func(c *cli.Context) error {
			logx.New(os.Stderr, logx.LevelFromFlags(c.Bool(verboseFlag.Name), c.Bool(quietFlag.Name)))
			return nil
		},
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "open a window and draw a lesson",
				ArgsUsage: "[lesson]",
				Action:    runAction,
			},
			{
				Name:   "list",
				Usage:  "print the available lessons",
				Action: listAction,
			},
			{
				Name:      "check",
				Usage:     "build lesson shaders without showing a window",
				ArgsUsage: "[lesson...]",
				Action:    checkAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp().RunContext(ctx, os.Args)
	stop()

	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flag overrides on top.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String(configFlag.Name); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet(hostFlag.Name) {
		cfg.Host = c.String(hostFlag.Name)
	}
	if c.IsSet(widthFlag.Name) {
		cfg.Window.Width = c.Int(widthFlag.Name)
	}
	if c.IsSet(heightFlag.Name) {
		cfg.Window.Height = c.Int(heightFlag.Name)
	}
	if c.IsSet(shaderDirFlag.Name) {
		cfg.Shaders.Dir = c.String(shaderDirFlag.Name)
	}
	if c.IsSet(watchFlag.Name) {
		cfg.Shaders.Watch = c.Bool(watchFlag.Name)
	}
	if c.IsSet(strictFlag.Name) {
		cfg.Shaders.Strict = c.Bool(strictFlag.Name)
	}
	if c.IsSet(screenshotsFlag.Name) {
		cfg.Capture.Dir = c.String(screenshotsFlag.Name)
	}

	return cfg, cfg.Validate()
}

// loadLesson returns the named lesson with any override files from the shader directory applied.
func loadLesson(cfg config.Config, name string) (lessons.Lesson, error) {
	l, err := lessons.Get(name)
	if err != nil {
		return l, err
	}
	if cfg.Shaders.Dir == "" {
		return l, nil
	}
	return l.Override(os.DirFS(cfg.Shaders.Dir))
}

type runOptions struct {
	cfg    config.Config
	lesson lessons.Lesson
	logger *slog.Logger
}

func (o runOptions) policy() shader.Policy {
	if o.cfg.Shaders.Strict {
		return shader.Strict
	}
	return shader.Lenient
}

// builder must be called with a current context.
func (o runOptions) builder() *shader.Builder {
	return shader.NewBuilder(gldriver.New(),
		shader.WithPolicy(o.policy()),
		shader.WithLogger(o.logger),
	)
}

// reload re-reads the lesson's override files.
func (o runOptions) reload() (lessons.Lesson, error) {
	return loadLesson(o.cfg, o.lesson.Name)
}

// watch returns a reload channel, or nil when watching is off or failed.
func (o runOptions) watch(ctx context.Context) <-chan struct{} {
	if !o.cfg.Shaders.Watch {
		return nil
	}
	if o.cfg.Shaders.Dir == "" {
		o.logger.Warn("--watch needs a shader directory")
		return nil
	}

	reload, err := lessons.Watch(ctx, o.cfg.Shaders.Dir, o.lesson.Name, o.logger)
	if err != nil {
		o.logger.Warn("not watching shaders", "err", err)
		return nil
	}
	return reload
}

func runAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return fmt.Errorf("expected at most one lesson, got %v", c.NArg())
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	name := defaultLesson
	if c.NArg() == 1 {
		name = c.Args().First()
	}

	lesson, err := loadLesson(cfg, name)
	if err != nil {
		return err
	}

	opts := runOptions{
		cfg:    cfg,
		lesson: lesson,
		logger: slog.Default().With("host", cfg.Host),
	}
	opts.logger.Info("starting", "lesson", lesson.Name, "policy", opts.policy())

	switch cfg.Host {
	case config.HostGTK:
		err = runGTK(c.Context, opts)
	default:
		err = runGLFW(c.Context, opts)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func listAction(c *cli.Context) error {
	for _, l := range lessons.All() {
		fmt.Fprintf(c.App.Writer, "%-10s %v\n", l.Name, l.Title)
	}
	return nil
}

func checkAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	names := c.Args().Slice()
	if len(names) == 0 {
		names = lessons.Names()
	}
	return checkLessons(c.Context, cfg, names, slog.Default())
}
