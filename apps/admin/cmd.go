package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/gestionschool/gestionecole/core/school"
	"github.com/gestionschool/gestionecole/storage/database"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db   *database.DB
	svcs *school.Services
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate - create the tables and lookup indexes of every collection")
	fmt.Fprintln(cli.out, "  export -collection NAME -out FILE.xlsx - write every record of a collection to a spreadsheet")
	fmt.Fprintln(cli.out, "  import -collection NAME -in FILE.xlsx - save every row of a spreadsheet as a record")
	fmt.Fprintln(cli.out, "Collections: "+strings.Join(school.Collections, ", "))
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportCmd.SetOutput(cli.out)
	exportColl := exportCmd.String("collection", "", "The collection to export.")
	exportOut := exportCmd.String("out", "", "The spreadsheet to write.")

	importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
	importCmd.SetOutput(cli.out)
	importColl := importCmd.String("collection", "", "The collection to import into.")
	importIn := importCmd.String("in", "", "The spreadsheet to read.")

	switch args[1] {
	case "migrate":
		return cli.migrate(ctx)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportColl == "" || *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(ctx, *exportColl, *exportOut)
	case "import":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importColl == "" || *importIn == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importSheet(ctx, *importColl, *importIn)
	default:
		cli.printUsage()
		return errHelp
	}
}
