package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/shapereach/pkg/config"
	errs "github.com/matzehuels/shapereach/pkg/errors"
	"github.com/matzehuels/shapereach/pkg/store"
	"github.com/matzehuels/shapereach/pkg/table"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var (
		to    string
		batch int
		drop  bool
	)

	cmd := &cobra.Command{
		Use:   "import [table]",
		Short: "Load a lookup table into badger or mongo",
		Long: `Import copies every record of a binary table into the configured store
backend, or the one named by --to. Existing entries are overwritten.`,
		Example: `  shapereach import creatable.bin --to badger
  shapereach import --to mongo --drop`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.conf()
			path := cfg.Table
			if len(args) == 1 {
				path = args[0]
			}
			if to == "" {
				to = cfg.Store.Backend
			}

			src, err := table.Open(path)
			if err != nil {
				return err
			}
			defer src.Close()

			dst, err := c.openLoader(ctx, to, drop)
			if err != nil {
				return err
			}
			defer dst.Close()

			sp := newSpinner(ctx, fmt.Sprintf("Importing %d records into %s...", src.Len(), to))
			sp.Start()
			n, err := store.Import(ctx, dst, src, batch, loggerFromContext(ctx))
			sp.Stop()
			if err != nil {
				return err
			}
			total, err := dst.Len(ctx)
			if err != nil {
				return err
			}
			printSuccess("Imported %d records into %s", n, to)
			printStats(false, fmt.Sprintf("%d stored", total))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "destination backend: badger or mongo (default from config)")
	cmd.Flags().IntVar(&batch, "batch", store.DefaultBatchSize, "records per write batch")
	cmd.Flags().BoolVar(&drop, "drop", false, "drop the mongo collection before importing")
	return cmd
}

func (c *CLI) openLoader(ctx context.Context, backend string, drop bool) (store.Loader, error) {
	cfg := c.conf()
	switch backend {
	case config.StoreBadger:
		if cfg.Store.BadgerPath == "" {
			return nil, errs.New(errs.ErrCodeInvalidConfig, "store.badger_path is not set")
		}
		bc := store.DefaultBadgerConfig(cfg.Store.BadgerPath)
		bc.Logger = c.Logger
		return store.OpenBadger(bc)
	case config.StoreMongo:
		m, err := store.OpenMongo(ctx, store.MongoConfig{
			URI:        cfg.Store.MongoURI,
			Database:   cfg.Store.MongoDatabase,
			Collection: cfg.Store.MongoCollection,
			Codec:      cfg.Codec(),
		})
		if err != nil {
			return nil, err
		}
		if drop {
			if err := m.Drop(ctx); err != nil {
				m.Close()
				return nil, err
			}
		}
		return m, nil
	}
	return nil, errs.New(errs.ErrCodeInvalidInput, "cannot import into %q; use badger or mongo", backend)
}
