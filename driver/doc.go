// Package driver opens the destination database of an import.
//
// The destination is an existing SQLite database file accessed through the
// pure-Go modernc.org/sqlite driver. The package never creates the file:
// a missing destination is reported as ErrDestinationNotFound before any
// connection is attempted. It also provides identifier quoting and
// validation shared by the table builder and the row writer.
//
// Usage:
//
//	db, err := driver.Open(ctx, "warehouse.db")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
package driver
