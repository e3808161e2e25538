package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new ItemRepository implementation
func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

var itemColumns = []string{"id", "term", "definition", "topic", "created_at"}

func scanItem(row scanner) (models.Item, error) {
	var it models.Item
	err := row.Scan(&it.ID, &it.Term, &it.Definition, &it.Topic, &it.CreatedAt)
	return it, err
}

func (r *itemRepository) Get(ctx context.Context, id int64) (*models.Item, error) {
	log := logger.FromContext(ctx).WithPrefix("item_repo")
	log.Debug("getting item: id=%d", id)

	query, args, err := sqlBuilder.Select(itemColumns...).From("items").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	it, err := scanItem(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("item not found: id=%d", id)
			return nil, nil
		}
		log.Error("failed to get item: %v", err)
		return nil, err
	}
	return &it, nil
}

func (r *itemRepository) GetMany(ctx context.Context, ids []int64) ([]models.Item, error) {
	log := logger.FromContext(ctx).WithPrefix("item_repo")
	log.Debug("getting %d items", len(ids))

	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlBuilder.Select(itemColumns...).From("items").Where(squirrel.Eq{"id": ids}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	return r.query(ctx, log, query, args...)
}

func (r *itemRepository) List(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	log := logger.FromContext(ctx).WithPrefix("item_repo")
	log.Debug("listing items: topic=%s, limit=%d, offset=%d", filter.Topic, filter.Limit, filter.Offset)

	q := sqlBuilder.Select(itemColumns...).From("items")
	if filter.Topic != "" {
		q = q.Where(squirrel.Eq{"topic": filter.Topic})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	q = q.OrderBy("term ASC", "id ASC").Limit(uint64(limit)).Offset(uint64(offset))

	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	return r.query(ctx, log, query, args...)
}

func (r *itemRepository) query(ctx context.Context, log *logger.Logger, query string, args ...any) ([]models.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query items: %v", err)
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan item row: %v", err)
			return nil, err
		}
		items = append(items, it)
	}
	log.Debug("found %d items", len(items))
	return items, rows.Err()
}

func (r *itemRepository) Insert(ctx context.Context, item models.Item) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("item_repo")
	log.Debug("inserting item: term=%s, topic=%s", item.Term, item.Topic)

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO items (term, definition, topic, created_at)
VALUES (?, ?, ?, ?)
`, item.Term, item.Definition, item.Topic, item.CreatedAt)
	if err != nil {
		log.Error("failed to insert item: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get item id: %v", err)
		return 0, err
	}
	log.Debug("item inserted: id=%d", id)
	return id, nil
}

func (r *itemRepository) Upsert(ctx context.Context, item models.Item) (int64, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("item_repo")
	log.Debug("upserting item: term=%s, topic=%s", item.Term, item.Topic)

	var (
		id      int64
		created bool
	)
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT id FROM items WHERE term = ? AND topic = ?`, item.Term, item.Topic).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if item.CreatedAt.IsZero() {
				item.CreatedAt = time.Now().UTC()
			}
			res, err := tx.ExecContext(ctx, `INSERT INTO items (term, definition, topic, created_at) VALUES (?, ?, ?, ?)`,
				item.Term, item.Definition, item.Topic, item.CreatedAt)
			if err != nil {
				return err
			}
			created = true
			id, err = res.LastInsertId()
			return err
		case err != nil:
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE items SET definition = ? WHERE id = ?`, item.Definition, id)
		return err
	})
	if err != nil {
		log.Error("failed to upsert item: %v", err)
		return 0, false, err
	}
	log.Debug("item upserted: id=%d, created=%t", id, created)
	return id, created, nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("item_repo")
	log.Debug("deleting item: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete item: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
