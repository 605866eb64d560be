// Command bookexport exports the result of a SQL or Hive query into CSV,
// XLSX, JSON, XML or HTML books, zipping them when the export spans several.
//
// Usage:
//
//	# Export a SQLite query as spreadsheets of at most 100k rows each
//	bookexport export --db data.db --query "SELECT * FROM orders" --name orders --format xlsx --max-rows-per-book 100000
//
//	# Export from Hive
//	bookexport export --hive hive.internal:10000 --query "SELECT * FROM logs" --name logs
//
//	# Show how many books an export would produce
//	bookexport plan --rows 2500000
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
