package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/storesync/internal/connectors/filesystem"
	"github.com/custodia-labs/storesync/internal/core/domain"
	"github.com/custodia-labs/storesync/internal/logger"
)

var (
	catalogResource   string
	watchSkipExisting bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.jsonl>",
	Short: "Import entities from a JSON Lines file",
	Long: `Import one resource from a JSON Lines file, one entity payload per line.
Entities are keyed by id and replace any earlier import. Use "-" to read stdin.`,
	Example: `  storesync catalog import --resource products products.jsonl
  cat members.jsonl | storesync catalog import -r members -`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

var catalogWatchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Import feed files as they appear in a directory",
	Long: `Watch a drop directory for JSON Lines exports named after their resource
(products.jsonl, orders.jsonl, customers.jsonl, carts.jsonl, members.jsonl)
and import each file when it is written. Existing files are imported first.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogWatch,
}

var catalogCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show how many entities of each resource are stored",
	RunE:  runCatalogCount,
}

func init() {
	catalogImportCmd.Flags().StringVarP(&catalogResource, "resource", "r", "", "resource type of the records")
	_ = catalogImportCmd.MarkFlagRequired("resource")

	catalogWatchCmd.Flags().BoolVar(&watchSkipExisting, "skip-existing", false, "do not import files already present")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogWatchCmd)
	catalogCmd.AddCommand(catalogCountCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogImport(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	resource, err := domain.ParseResourceType(catalogResource)
	if err != nil {
		return err
	}
	storeID, err := configuredStoreID()
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, oerr := os.Open(args[0])
		if oerr != nil {
			return fmt.Errorf("open %s: %w", args[0], oerr)
		}
		defer f.Close()
		in = f
	}

	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer closePipeline(p, &err)

	n, err := filesystem.ImportJSONL(ctx, p.Catalog, storeID, resource, in)
	if err != nil {
		return err
	}
	cmd.Printf("Imported %d %s\n", n, resource)
	return nil
}

func runCatalogWatch(cmd *cobra.Command, args []string) (err error) {
	ctx := commandContext(cmd)

	storeID, err := configuredStoreID()
	if err != nil {
		return err
	}
	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer closePipeline(p, &err)

	feed := filesystem.New(args[0], storeID, p.Catalog, nil)
	if !watchSkipExisting {
		counts, ierr := feed.ImportAll(ctx)
		if ierr != nil {
			return ierr
		}
		for _, resource := range domain.AllResources() {
			if n, ok := counts[resource]; ok {
				cmd.Printf("Imported %d %s\n", n, resource)
			}
		}
	}

	cmd.Printf("Watching %s\n", args[0])
	return feed.Watch(ctx, func(resource domain.ResourceType, n int) {
		logger.Info("imported %d %s", n, resource)
		cmd.Printf("Imported %d %s\n", n, resource)
	})
}

func runCatalogCount(cmd *cobra.Command, _ []string) (err error) {
	ctx := commandContext(cmd)

	storeID, err := configuredStoreID()
	if err != nil {
		return err
	}
	p, err := openPipeline(ctx)
	if err != nil {
		return err
	}
	defer closePipeline(p, &err)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RESOURCE\tCOUNT")
	for _, resource := range domain.AllResources() {
		page, perr := p.Catalog.Page(ctx, storeID, resource, 1, 1)
		if perr != nil {
			return perr
		}
		fmt.Fprintf(w, "%s\t%d\n", resource, page.Total)
	}
	return w.Flush()
}

func configuredStoreID() (string, error) {
	settingsSvc, err := settingsService()
	if err != nil {
		return "", err
	}
	settings, err := settingsSvc.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	storeID := settings.Store.StoreID()
	if storeID == "" {
		return "", errors.New("store.site_url or store.id must be set first")
	}
	return storeID, nil
}
