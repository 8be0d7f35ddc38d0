package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const createProduct = `insert into product(label) values (?)
on conflict(label) do nothing`

func (q *Queries) CreateProduct(ctx context.Context, label string) error {
	_, err := q.db.ExecContext(ctx, createProduct, label)
	return err
}

const getProductId = `select id from product where label = ?`

func (q *Queries) GetProductId(ctx context.Context, label string) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, getProductId, label).Scan(&id)
	return id, err
}

const deleteSnapshotsIn = `delete from price_snapshot
where product_id = ? and time >= ? and time < ?`

type DeleteSnapshotsInParams struct {
	ProductID int64
	After     int64
	Before    int64
}

func (q *Queries) DeleteSnapshotsIn(ctx context.Context, arg DeleteSnapshotsInParams) error {
	_, err := q.db.ExecContext(ctx, deleteSnapshotsIn, arg.ProductID, arg.After, arg.Before)
	return err
}

const createSnapshot = `insert into price_snapshot(product_id, time, price, price_per_gram, price_per_mg_thc)
values (?, ?, ?, ?, ?)`

type CreateSnapshotParams struct {
	ProductID     int64
	Time          int64
	Price         sql.NullFloat64
	PricePerGram  sql.NullFloat64
	PricePerMgThc sql.NullFloat64
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) error {
	_, err := q.db.ExecContext(
		ctx, createSnapshot,
		arg.ProductID,
		arg.Time,
		arg.Price,
		arg.PricePerGram,
		arg.PricePerMgThc,
	)
	return err
}

const getSnapshots = `select product.label, price_snapshot.time, price_snapshot.price,
    price_snapshot.price_per_gram, price_snapshot.price_per_mg_thc
from price_snapshot
inner join product on product.id = price_snapshot.product_id
where instr(lower(product.label), lower(?)) > 0
order by product.label, price_snapshot.time`

type GetSnapshotsRow struct {
	Label         string
	Time          int64
	Price         sql.NullFloat64
	PricePerGram  sql.NullFloat64
	PricePerMgThc sql.NullFloat64
}

func (q *Queries) GetSnapshots(ctx context.Context, labelSubstring string) ([]GetSnapshotsRow, error) {
	rows, err := q.db.QueryContext(ctx, getSnapshots, labelSubstring)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GetSnapshotsRow
	for rows.Next() {
		var i GetSnapshotsRow
		err := rows.Scan(
			&i.Label,
			&i.Time,
			&i.Price,
			&i.PricePerGram,
			&i.PricePerMgThc,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
