// Package sqlxrepos implements the core repositories with sqlx, for both Postgres and SQLite.
package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/tutoria/core"
)

// queries are written with `?` placeholders and rebound for the driver.
type repository struct {
	db       *sqlx.DB
	bindType int
}

func newRepository(db *sqlx.DB) repository {
	bindType := sqlx.QUESTION
	if db.DriverName() == "postgres" {
		bindType = sqlx.DOLLAR
	}
	return repository{db: db, bindType: bindType}
}

func (repo repository) exec(exec []core.DBExecutor) core.DBExecutor {
	if len(exec) > 0 && exec[0] != nil {
		return exec[0]
	}
	return repo.db
}

func (repo repository) q(query string) string {
	return sqlx.Rebind(repo.bindType, query)
}

// in expands `IN (?)` clauses for slice arguments.
func (repo repository) in(query string, args ...interface{}) (string, []interface{}, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return repo.q(query), args, nil
}

func (repo repository) get(ctx context.Context, exec []core.DBExecutor, dest interface{}, notFound error, query string, args ...interface{}) error {
	err := repo.exec(exec).GetContext(ctx, dest, repo.q(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

func (repo repository) insert(ctx context.Context, exec []core.DBExecutor, query string, args ...interface{}) (int, error) {
	var id int
	err := repo.exec(exec).GetContext(ctx, &id, repo.q(query), args...)
	return id, err
}

// update runs a statement that must touch exactly one row, returning notFound otherwise.
func (repo repository) update(ctx context.Context, exec []core.DBExecutor, notFound error, query string, args ...interface{}) error {
	n, err := repo.execAffected(ctx, exec, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func (repo repository) execAffected(ctx context.Context, exec []core.DBExecutor, query string, args ...interface{}) (int, error) {
	res, err := repo.exec(exec).ExecContext(ctx, repo.q(query), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func pageArgs(page core.Page) (int, int) {
	page = page.Clean()
	return page.Limit, page.Skip
}
