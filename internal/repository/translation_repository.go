package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"transcatalog/internal/model"
	"transcatalog/internal/search"
	"transcatalog/internal/snowflake"
)

const translationColumns = `id, key, locale, content, tag, created_at, updated_at`

type TranslationRepository interface {
	Create(ctx context.Context, t model.Translation) (model.Translation, error)
	CreateBatch(ctx context.Context, items []model.Translation) (int, error)
	GetByID(ctx context.Context, id int64) (model.Translation, error)
	Update(ctx context.Context, id int64, patch model.TranslationPatch) (model.Translation, error)
	Delete(ctx context.Context, id int64) (model.Translation, error)
	ListByLocale(ctx context.Context, locale string) ([]model.Translation, error)
	List(ctx context.Context, filter search.Filter, limit, offset int) ([]model.Translation, error)
	Count(ctx context.Context, filter search.Filter) (int, error)
	Locales(ctx context.Context) ([]string, error)
}

type translationRepository struct {
	db *sql.DB
}

func NewTranslationRepository(db *sql.DB) TranslationRepository {
	return &translationRepository{db: db}
}

func (r *translationRepository) Create(ctx context.Context, t model.Translation) (model.Translation, error) {
	now := time.Now().UTC()
	t.ID = snowflake.NextID()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := insertTranslation(ctx, r.db, t); err != nil {
		return model.Translation{}, fmt.Errorf("create translation: %w", err)
	}
	return t, nil
}

// CreateBatch inserts all items in one transaction. IDs and timestamps are assigned here.
func (r *translationRepository) CreateBatch(ctx context.Context, items []model.Translation) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO translations (`+translationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range items {
			now := formatTime(time.Now())
			if _, err := stmt.ExecContext(ctx,
				snowflake.NextID(), t.Key, t.Locale, t.Content, nullableTag(t.Tag), now, now,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("create translation batch: %w", err)
	}
	return len(items), nil
}

func insertTranslation(ctx context.Context, db dbtx, t model.Translation) error {
	_, err := db.ExecContext(
		ctx,
		`INSERT INTO translations (`+translationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Key,
		t.Locale,
		t.Content,
		nullableTag(t.Tag),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	return err
}

func (r *translationRepository) GetByID(ctx context.Context, id int64) (model.Translation, error) {
	return getTranslation(ctx, r.db, id)
}

func getTranslation(ctx context.Context, db dbtx, id int64) (model.Translation, error) {
	row := db.QueryRowContext(ctx, `SELECT `+translationColumns+` FROM translations WHERE id = ?`, id)
	t, err := scanTranslation(row)
	if err != nil {
		return model.Translation{}, fmt.Errorf("get translation: %w", err)
	}
	return t, nil
}

// Update applies the non-nil patch fields and returns the stored row.
// An empty patch returns the current row unchanged.
func (r *translationRepository) Update(ctx context.Context, id int64, patch model.TranslationPatch) (model.Translation, error) {
	var updated model.Translation
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if !patch.IsEmpty() {
			var (
				sets []string
				args []any
			)
			if patch.Content != nil {
				sets = append(sets, "content = ?")
				args = append(args, *patch.Content)
			}
			if patch.Tag != nil {
				sets = append(sets, "tag = ?")
				args = append(args, nullableTag(patch.Tag))
			}
			sets = append(sets, "updated_at = ?")
			args = append(args, formatTime(time.Now()), id)

			res, err := tx.ExecContext(ctx, `UPDATE translations SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
			if err != nil {
				return fmt.Errorf("update translation: %w", err)
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return fmt.Errorf("update translation: %w", sql.ErrNoRows)
			}
		}

		var err error
		updated, err = getTranslation(ctx, tx, id)
		return err
	})
	if err != nil {
		return model.Translation{}, err
	}
	return updated, nil
}

// Delete removes the row and returns it as it was, so callers know its locale.
func (r *translationRepository) Delete(ctx context.Context, id int64) (model.Translation, error) {
	var deleted model.Translation
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		deleted, err = getTranslation(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM translations WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete translation: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Translation{}, err
	}
	return deleted, nil
}

// ListByLocale returns every row of a locale in ascending id order.
func (r *translationRepository) ListByLocale(ctx context.Context, locale string) ([]model.Translation, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT `+translationColumns+` FROM translations WHERE locale = ? ORDER BY id ASC`,
		locale,
	)
	if err != nil {
		return nil, fmt.Errorf("list translations by locale: %w", err)
	}
	return collectTranslations(rows)
}

// List returns a page of rows matching filter, newest first.
func (r *translationRepository) List(ctx context.Context, filter search.Filter, limit, offset int) ([]model.Translation, error) {
	query := `SELECT ` + translationColumns + ` FROM translations`
	where, args := filter.Where()
	if where != "" {
		query += " WHERE " + where
	}

	query += " ORDER BY created_at DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
		if offset > 0 {
			query += " OFFSET ?"
			args = append(args, offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	return collectTranslations(rows)
}

func (r *translationRepository) Count(ctx context.Context, filter search.Filter) (int, error) {
	query := `SELECT COUNT(*) FROM translations`
	where, args := filter.Where()
	if where != "" {
		query += " WHERE " + where
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count translations: %w", err)
	}
	return count, nil
}

// Locales lists the distinct locales present in the catalog.
func (r *translationRepository) Locales(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT locale FROM translations ORDER BY locale`)
	if err != nil {
		return nil, fmt.Errorf("list locales: %w", err)
	}
	defer rows.Close()

	var locales []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, fmt.Errorf("scan locale: %w", err)
		}
		locales = append(locales, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locales: %w", err)
	}
	return locales, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTranslation(row scanner) (model.Translation, error) {
	var (
		t                    model.Translation
		tag                  sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&t.ID, &t.Key, &t.Locale, &t.Content, &tag, &createdAt, &updatedAt); err != nil {
		return model.Translation{}, err
	}
	if tag.Valid {
		t.Tag = &tag.String
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Translation{}, fmt.Errorf("parse translation created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return model.Translation{}, fmt.Errorf("parse translation updated_at: %w", err)
	}
	return t, nil
}

func collectTranslations(rows *sql.Rows) ([]model.Translation, error) {
	defer rows.Close()

	var items []model.Translation
	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translations: %w", err)
	}
	return items, nil
}
