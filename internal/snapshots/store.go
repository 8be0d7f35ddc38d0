package snapshots

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"formprices/internal/catalog"
	"formprices/internal/components/assert"
	"formprices/internal/components/chrono"
	"formprices/internal/components/telemetry"
	"formprices/internal/snapshots/db"
	configlibsql "formprices/lib/configutil/libsql"
)

const (
	report_db_query      = "db.query"
	report_push_snapshot = "store.push"
)

// Store keeps a daily price history per product.
type Store struct {
	db  *sql.DB
	qry *db.Queries
	tel telemetry.API
}

// Open opens the configured database and makes sure the schema exists.
func Open(config configlibsql.Struct, tel telemetry.API) (Store, error) {
	database, err := config.OpenDB()
	if err != nil {
		return Store{}, fmt.Errorf("open snapshot db: %w", err)
	}
	_, err = database.Exec(db.Schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		database.Close()
		return Store{}, fmt.Errorf("create snapshot schema: %w", err)
	}
	return NewStore(database, tel), nil
}

func NewStore(database *sql.DB, tel telemetry.API) Store {
	assert.NotNil(database)
	assert.NotNil(tel)

	return Store{
		db:  database,
		qry: db.New(database),
		tel: telemetry.NewScopedAPI("snapshots", tel),
	}
}

func (s Store) Close() error {
	return s.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

// Push records the products at the given time. Snapshots of the same
// products taken earlier on the same (London) day are replaced, so there is
// at most one point per product per day.
func (s Store) Push(ctx context.Context, at time.Time, products []catalog.Product) error {
	assert.True(!at.IsZero(), "snapshot time is unset")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.tel.ReportBroken(report_db_query, fmt.Errorf("begin tx: %w", err))
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	startOfToday := chrono.StartOfDay(at.In(chrono.London()))
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)

	for _, p := range products {
		err := txqry.CreateProduct(ctx, p.Label)
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "CreateProduct", p.Label)
			return err
		}
		productId, err := txqry.GetProductId(ctx, p.Label)
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "GetProductId", p.Label)
			return err
		}

		deleteParams := db.DeleteSnapshotsInParams{
			ProductID: productId,
			After:     startOfToday.Unix(),
			Before:    startOfTomorrow.Unix(),
		}
		err = txqry.DeleteSnapshotsIn(ctx, deleteParams)
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "DeleteSnapshotsIn", deleteParams)
			return err
		}

		createParams := db.CreateSnapshotParams{
			ProductID:     productId,
			Time:          at.Unix(),
			Price:         nullFloat(p.Price),
			PricePerGram:  nullFloat(p.PricePerGram),
			PricePerMgThc: nullFloat(p.PricePerMgThc),
		}
		err = txqry.CreateSnapshot(ctx, createParams)
		if err != nil {
			s.tel.ReportBroken(report_db_query, err, "CreateSnapshot", createParams)
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		s.tel.ReportBroken(report_push_snapshot, fmt.Errorf("commit: %w", err))
		return err
	}
	s.tel.ReportCount(report_push_snapshot, int64(len(products)))
	return nil
}

type Point struct {
	Time          time.Time
	Price         *float64
	PricePerGram  *float64
	PricePerMgThc *float64
}

type Series struct {
	Label  string
	Points []Point
}

// Pull returns the history of every product whose label contains
// substring (case-insensitive), ordered by label and then time. An empty
// substring matches everything.
func (s Store) Pull(ctx context.Context, substring string) ([]Series, error) {
	rows, err := s.qry.GetSnapshots(ctx, substring)
	if err != nil {
		s.tel.ReportBroken(report_db_query, err, "GetSnapshots", substring)
		return nil, err
	}

	var out []Series
	for _, r := range rows {
		if len(out) == 0 || out[len(out)-1].Label != r.Label {
			out = append(out, Series{Label: r.Label})
		}
		series := &out[len(out)-1]
		series.Points = append(series.Points, Point{
			Time:          time.Unix(r.Time, 0).In(chrono.London()),
			Price:         floatPtr(r.Price),
			PricePerGram:  floatPtr(r.PricePerGram),
			PricePerMgThc: floatPtr(r.PricePerMgThc),
		})
	}
	return out, nil
}
