package db

import (
	"log"
	"strings"

	tdb "github.com/tigerbeetle/tigerbeetle-go"
	tdb_types "github.com/tigerbeetle/tigerbeetle-go/pkg/types"

	"github.com/nonso-e/contestbk-go/config"
)

func GetTxDBConnection() tdb.Client {
	addr := strings.Split(config.TX_DB_URL, ",")
	client, err := tdb.NewClient(tdb_types.ToUint128(0), addr)
	if err != nil {
		log.Panicln(err)
	}

	return client
}
