package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/shapereach/pkg/buildinfo"
	"github.com/matzehuels/shapereach/pkg/cache"
	"github.com/matzehuels/shapereach/pkg/config"
	"github.com/matzehuels/shapereach/pkg/derive"
	errs "github.com/matzehuels/shapereach/pkg/errors"
	"github.com/matzehuels/shapereach/pkg/store"
	"github.com/matzehuels/shapereach/pkg/table"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "shapereach"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output that is not styled status text.
	Out io.Writer

	configPath string
	overrides  struct {
		width     int
		maxHeight int
		table     string
	}

	cfg       *config.Config
	cfgSource string
}

// New creates a CLI with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Out: os.Stdout}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Shapereach decides which shapes can be built and explains how",
		Long: `Shapereach analyzes layered shapes on a cylindrical grid, enumerates every
shape reachable by pinning and stacking, and explains how a given shape is
built from a directly creatable one.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvPath+" or the user config dir)")
	pf.IntVar(&c.overrides.width, "width", 0, "quadrants per layer (overrides config)")
	pf.IntVar(&c.overrides.maxHeight, "max-height", 0, "maximum layers (overrides config)")
	pf.StringVar(&c.overrides.table, "table", "", "lookup table path (overrides config)")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.deriveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.enumerateCommand())
	root.AddCommand(c.tableCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.replCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, path, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = c.overrides.width
	}
	if flags.Changed("max-height") {
		cfg.MaxHeight = c.overrides.maxHeight
	}
	if flags.Changed("table") {
		cfg.Table = c.overrides.table
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg, c.cfgSource = cfg, path
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// conf returns the loaded config, or the defaults when no command has run
// the pre-run hook (tests).
func (c *CLI) conf() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Backends
// =============================================================================

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.conf()
	if noCache || cfg.Cache.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == config.CacheRedis {
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   appName + ":",
		})
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openStore opens the configured derivation store. A missing table file is
// not an error: derivation then relies on decomposition alone and the
// returned store is nil.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg := c.conf()
	switch cfg.Store.Backend {
	case config.StoreBadger:
		bc := store.DefaultBadgerConfig(cfg.Store.BadgerPath)
		bc.Logger = c.Logger
		return store.OpenBadger(bc)
	case config.StoreMongo:
		return store.OpenMongo(ctx, store.MongoConfig{
			URI:        cfg.Store.MongoURI,
			Database:   cfg.Store.MongoDatabase,
			Collection: cfg.Store.MongoCollection,
			Codec:      cfg.Codec(),
		})
	}
	t, err := table.Open(cfg.Table)
	if errs.Is(err, errs.ErrCodeFileNotFound) {
		c.Logger.Warn("lookup table not found, derivations use decomposition only", "path", cfg.Table)
		return nil, nil
	}
	return t, err
}

// newService opens the store and cache behind a derive.Service. The
// returned function closes both.
func (c *CLI) newService(ctx context.Context, noCache bool) (*derive.Service, func(), error) {
	cfg := c.conf()
	st, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, nil, err
	}

	var lookup derive.Store
	if st != nil {
		lookup = st
	}
	w := derive.NewWalker(lookup, cfg.Codec(), c.Logger)
	opts := cache.KeyOpts{Width: cfg.Width, MaxHeight: cfg.MaxHeight, Table: c.storeFingerprint()}
	svc := derive.NewService(w, ch, nil, opts, c.Logger)
	svc.TTL = cfg.Cache.TTL

	closeFn := func() {
		if st != nil {
			if err := st.Close(); err != nil {
				c.Logger.Warn("close store", "err", err)
			}
		}
		ch.Close()
	}
	return svc, closeFn, nil
}

// storeFingerprint identifies the store contents for cache keys, so a
// rebuilt table does not serve stale derivations.
func (c *CLI) storeFingerprint() string {
	cfg := c.conf()
	switch cfg.Store.Backend {
	case config.StoreBadger:
		return cache.Hash([]byte("badger:" + cfg.Store.BadgerPath))
	case config.StoreMongo:
		return cache.Hash([]byte("mongo:" + cfg.Store.MongoURI + "/" + cfg.Store.MongoDatabase + "/" + cfg.Store.MongoCollection))
	}
	return tableFingerprint(cfg.Table)
}

// tableFingerprint hashes a table's path, size and modification time.
func tableFingerprint(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return cache.Hash([]byte("missing:" + abs))
	}
	return cache.Hash(fmt.Appendf(nil, "%s:%d:%d", abs, info.Size(), info.ModTime().UnixNano()))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if dir := c.conf().Cache.Dir; dir != "" {
		return dir, nil
	}
	return cache.DefaultDir()
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
