package configlibsql

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct selects a snapshot database, either a local sqlite file or a
// remote libsql server. The CLI --db flag fills in one of the two.
type Struct struct {
	File string `json:"file"`
	// Url is a libsql://, http:// or https:// database url, ex. a Turso database.
	Url string `json:"url"`
	// AuthToken is appended to Url as the authToken query parameter.
	AuthToken string `json:"auth_token"`
}

// IsRemote reports whether dsn should be opened with the libsql client.
func IsRemote(dsn string) bool {
	for _, prefix := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(dsn, prefix) {
			return true
		}
	}
	return false
}

// FromDSN builds a Struct out of whatever was passed on the command line.
func FromDSN(dsn string) Struct {
	if IsRemote(dsn) {
		return Struct{Url: dsn}
	}
	return Struct{File: dsn}
}

func (config Struct) Configured() bool {
	return config.File != "" || config.Url != ""
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		return config.openRemote()
	}
	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}
	if config.File == ":memory:" {
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(1)
		return db, nil
	}

	dbpath, err := filepath.Abs(config.File)
	if err != nil {
		return nil, err
	}
	_, statErr := os.Stat(dbpath)
	if os.IsNotExist(statErr) {
		f, err := os.Create(dbpath)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// sqlite only allows one writer, more than one connection just turns
	// into SQLITE_BUSY errors
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (config Struct) openRemote() (*sql.DB, error) {
	dsn := config.Url
	if config.AuthToken != "" {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "authToken=" + config.AuthToken
	}
	return sql.Open("libsql", dsn)
}
