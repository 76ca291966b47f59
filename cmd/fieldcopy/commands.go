package main

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/fieldcopy/fieldcopy/catalog"
	"github.com/arthur-debert/fieldcopy/fieldcopy/migration"
	"github.com/arthur-debert/fieldcopy/fieldcopy/store"
)

// loadCatalog loads the catalog named by --catalog and logs its warnings
func (cli *CLI) loadCatalog(ctx context.Context, operation string) (*catalog.Loaded, error) {
	path, err := cli.require(operation, "catalog", CommonSuggestions.CheckCatalog)
	if err != nil {
		return nil, err
	}

	loaded, err := catalog.Load(ctx, path)
	if err != nil {
		return nil, NewCatalogError(operation, path, err)
	}
	for _, warning := range loaded.Warnings {
		cli.logger.Warn("catalog warning", "catalog", path, "warning", warning)
	}
	cli.logger.Debug("catalog loaded", "catalog", path, "files", len(loaded.Files), "groups", len(loaded.ListGroups()))
	return loaded, nil
}

// openStore opens the JSON store named by --store
func (cli *CLI) openStore(operation string) (*store.JSONFile, error) {
	path, err := cli.require(operation, "store", CommonSuggestions.CheckStore)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, NewConfigError(operation, "invalid store path: "+err.Error())
	}
	return store.OpenJSONFile(absPath), nil
}

// newAPI loads the catalog and store and builds a migration API over them
func (cli *CLI) newAPI(ctx context.Context, operation string) (*migration.API, func(), error) {
	loaded, err := cli.loadCatalog(ctx, operation)
	if err != nil {
		return nil, nil, err
	}
	st, err := cli.openStore(operation)
	if err != nil {
		return nil, nil, err
	}
	api := migration.NewAPI(loaded, st, migration.WithLogger(cli.logger))
	return api, func() { _ = st.Close() }, nil
}
