package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-boxoffice/internal/database"
	"ms-boxoffice/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) conn(ctx context.Context) bun.IDB {
	return database.Conn(ctx, d.Bun)
}

func (d *DB) CreateClient(ctx context.Context, client *models.Client) error {
	_, err := d.conn(ctx).NewInsert().
		Model(client).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return models.StorageError("create client", err)
	}
	return nil
}

func (d *DB) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	var client models.Client
	err := d.conn(ctx).NewSelect().
		Model(&client).
		Where("c.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, models.ErrClientNotFound
		}
		return nil, models.StorageError("get client", err)
	}
	return &client, nil
}

// DeleteClient removes the client. Tickets keep existing with a NULL client.
func (d *DB) DeleteClient(ctx context.Context, id int64) error {
	res, err := d.conn(ctx).NewDelete().
		Model((*models.Client)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return models.StorageError("delete client", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrClientNotFound
	}
	return nil
}
