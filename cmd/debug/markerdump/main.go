// markerdump prints the inline reference markers of a rich text value for
// troubleshooting marker grammar issues.
//
// Input is either an HTML file (use "-" for stdin) or, with -db, a value
// loaded straight from a store database by its owner, site and field ids.
// Marker spans are byte offsets into the value as stored.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"rte/markup"
)

func main() {
	db := flag.String("db", "", "load the value from this store database instead of a file")
	owner := flag.Int64("owner", 0, "owner entry id (with -db)")
	site := flag.Int64("site", 1, "site id (with -db)")
	fieldID := flag.Int64("field", 0, "field id (with -db)")
	attrs := flag.Bool("attrs", false, "print marker attributes")
	order := flag.Bool("order", false, "print first use order of referenced ids")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: markerdump [-attrs] [-order] <file.html|->\n")
		fmt.Fprintf(os.Stderr, "       markerdump [-attrs] [-order] -db <store.db> -owner <ID> [-site <ID>] -field <ID>\n\n")
		fmt.Fprintf(os.Stderr, "Prints the inline reference markers of a rich text value.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if len(*db) == 0 && flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if len(*db) > 0 && (flag.NArg() != 0 || *owner == 0 || *fieldID == 0) {
		flag.Usage()
		os.Exit(2)
	}

	defer func(startedAt time.Time) {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", time.Since(startedAt))
	}(time.Now())

	var (
		value string
		err   error
	)
	if len(*db) > 0 {
		value, err = loadStoredValue(*db, *owner, *site, *fieldID)
	} else {
		value, err = loadFileValue(flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	markers := markup.DecodeAll(value)
	if len(markers) == 0 {
		fmt.Println("no markers found")
	}
	for i, m := range markers {
		fmt.Printf("#%3d [%6d..%6d) id=%d\n", i+1, m.Start, m.End, m.ID)
		if *attrs {
			for _, a := range m.Attrs {
				fmt.Printf("      %s=%q\n", a.Key, a.Val)
			}
		}
	}

	if *order {
		fmt.Printf("\nfirst use order: %v\n", markup.FirstUse(markup.ExtractIDs(value)))
	}
}

func loadFileValue(name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

func loadStoredValue(db string, owner, site, field int64) (string, error) {
	conn, err := sqlite.OpenConn(db, sqlite.OpenReadOnly)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", db, err)
	}
	defer conn.Close()

	var (
		value string
		found bool
	)
	err = sqlitex.Execute(conn, `SELECT value FROM field_values WHERE owner_id = ? AND site_id = ? AND field_id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{owner, site, field},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value = stmt.ColumnText(0)
				found = true
				return nil
			},
		})
	if err != nil {
		return "", fmt.Errorf("read value: %w", err)
	}
	if !found {
		return "", fmt.Errorf("no value for owner=%d site=%d field=%d in %s", owner, site, field, db)
	}
	return value, nil
}
