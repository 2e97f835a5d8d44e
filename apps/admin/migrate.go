package main

import (
	"context"
	"fmt"

	"github.com/gestionschool/gestionecole/storage/database"
)

var migrateFunc = database.Migrate // mockable

func (cli *commandLine) migrate(ctx context.Context) error {
	if err := migrateFunc(ctx, cli.db); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s database migrated\n", cli.db.Engine)
	return nil
}
