// Package db provides PostgreSQL helpers built on [github.com/jackc/pgx/v5/pgxpool].
//
// # Connecting
//
//	pool, err := db.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
// Connect retries failed attempts with linear backoff and pings the pool before
// returning it. [Healthcheck] returns a closure for readiness probes and
// [Shutdown] a hook that closes the pool on server shutdown.
//
// # Transactions
//
// [WithTx] commits when fn returns nil and rolls back on error or panic:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		_, err := tx.Exec(ctx, "INSERT INTO ...")
//		return err
//	})
//
// [Querier] lets repositories accept either the pool or a transaction.
//
// # Migrations
//
// [Migrate] runs embedded goose migrations ([github.com/pressly/goose/v3]):
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	sub, _ := fs.Sub(migrations, "migrations")
//	err := db.Migrate(ctx, pool, sub, "schema_migrations", log)
//
// # Errors
//
// Errors are joined with package sentinels ([ErrFailedToOpenDBConnection],
// [ErrBeginTx], [ErrCommitTx], [ErrApplyMigrations], ...) via [errors.Join].
package db
