package sheetimport_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nao1215/sheetimport"
)

func ExampleImport() {
	dir, err := os.MkdirTemp("", "sheetimport-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	source := filepath.Join(dir, "sales.csv")
	content := "Region,Units Sold,Unit Price\nNorth,10,2.5\nSouth,7,3\n"
	if err := os.WriteFile(source, []byte(content), 0o600); err != nil {
		log.Fatal(err)
	}

	// The destination database must already exist; an empty file will do.
	destination := filepath.Join(dir, "sales.db")
	if err := os.WriteFile(destination, nil, 0o600); err != nil {
		log.Fatal(err)
	}

	report, err := sheetimport.Import(context.Background(), source, destination)
	if err != nil {
		log.Fatal(err)
	}

	for _, s := range report.Sheets {
		fmt.Printf("%s -> %s (%d rows)\n", s.SheetName, s.TableName, s.Rows)
		for _, c := range s.Columns {
			fmt.Printf("  %-12s %-10s %s\n", c.Name, c.Type.SQL(), c.Original)
		}
	}

	// Output:
	// sales -> sales (2 rows)
	//   Region       VARCHAR(255) Region
	//   Units_Sold   INTEGER    Units Sold
	//   Unit_Price   REAL       Unit Price
}

func ExampleNewBuilder() {
	dir, err := os.MkdirTemp("", "sheetimport-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	source := filepath.Join(dir, "inventory.tsv")
	if err := os.WriteFile(source, []byte("sku\tqty\nA-1\t5\n"), 0o600); err != nil {
		log.Fatal(err)
	}
	destination := filepath.Join(dir, "inventory.db")
	if err := os.WriteFile(destination, nil, 0o600); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	builder, err := sheetimport.NewBuilder().
		SetSource(source).
		SetDestination(destination).
		WithOptions(
			sheetimport.WithNamingMode(sheetimport.NamingModeLetters),
			sheetimport.WithBulkInsert(true),
		).
		Build(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer builder.Cleanup()

	report, err := builder.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, pair := range report.Sheets[0].Mapping() {
		fmt.Printf("%s <- %s\n", pair.Short, pair.Original)
	}

	// Output:
	// A <- sku
	// B <- qty
}
