package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// GetByID - универсальная функция для получения сущности по ID.
// Отсутствие строки превращается в apperror NotFound с названием сущности.
func GetByID[T any](ctx context.Context, db sqlx.QueryerContext, table, entity string, id any) (*T, error) {
	var item T
	query := fmt.Sprintf("SELECT * FROM %s WHERE id = $1", table)

	if err := sqlx.GetContext(ctx, db, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NotFound(entity, id)
		}
		return nil, fmt.Errorf("get by id from %s: %w", table, err)
	}

	return &item, nil
}

// WithTransaction выполняет функцию внутри транзакции с правильной обработкой ошибок
func WithTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// IsNoRows проверяет пустой результат одиночного запроса.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
