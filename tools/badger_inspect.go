package main

import (
	"flag"
	"log"
	"market-lab/infrastructure/storage"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type inspectConfig struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"./data/badger"`
}

func main() {
	var config inspectConfig
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Error while reading environment: ", err)
	}

	dbPath := flag.String("db", config.BadgerFilepath, "Path to badger DB")
	prefix := flag.String("prefix", storage.PrefixHireRequest, "Prefix to scan")
	withIndexes := flag.Bool("indexes", false, "Also list secondary index entries")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity ID", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			entry := storage.Describe(key, val)
			if entry.Kind == "INDEX" && !*withIndexes {
				continue
			}

			displayID := entry.EntityID
			if len(displayID) > 8 {
				displayID = displayID[:8]
			}
			table.Append([]string{key, entry.Kind, entry.Timestamp, displayID, entry.Detail})
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}
