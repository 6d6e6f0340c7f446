package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/pivotpoint/platform/core"
	"github.com/pivotpoint/platform/storage/database"
	postgresrepos "github.com/pivotpoint/platform/storage/database/postgres"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	dbx := sqlx.NewDb(db, "postgres")

	// start CLI
	cli := commandLine{
		db:       db,
		evalRepo: postgresrepos.NewEvaluationRepository(dbx),
		pracRepo: postgresrepos.NewPracticumRepository(dbx),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
