package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Recorder приемник метрик запросов. *metrics.Metrics удовлетворяет интерфейсу.
type Recorder interface {
	RecordDBQuery(operation string, duration time.Duration, err error)
	SetDBPoolStats(stats sql.DBStats)
}

const defaultPoolStatsInterval = 15 * time.Second

// DB обёртка над *sql.DB, которая замеряет каждый запрос
type DB struct {
	db       *sql.DB
	recorder Recorder
}

// Wrap оборачивает соединение. recorder может быть nil, тогда метрики не пишутся.
func Wrap(db *sql.DB, recorder Recorder) *DB {
	return &DB{db: db, recorder: recorder}
}

// WrapWithDefault оборачивает соединение и запускает сбор статистики пула
// до закрытия stopCh
func WrapWithDefault(db *sql.DB, recorder Recorder, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, recorder)
	if recorder != nil {
		go wrapped.collectPoolStats(defaultPoolStatsInterval, stopCh)
	}
	return wrapped
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.record(query, start, err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.record(query, start, err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.record(query, start, row.Err())
	return row
}

func (d *DB) PingContext(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// BeginTx открывает транзакцию, запросы которой тоже замеряются
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	start := time.Now()
	tx, err := d.db.BeginTx(ctx, opts)
	d.recordOp("begin", start, err)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, parent: d}, nil
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.recorder.SetDBPoolStats(d.db.Stats())
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			d.recorder.SetDBPoolStats(d.db.Stats())
		}
	}
}

func (d *DB) record(query string, start time.Time, err error) {
	d.recordOp(operation(query), start, err)
}

func (d *DB) recordOp(op string, start time.Time, err error) {
	if d.recorder == nil {
		return
	}
	d.recorder.RecordDBQuery(op, time.Since(start), err)
}

// Tx транзакция с замером запросов
type Tx struct {
	tx     *sql.Tx
	parent *DB
}

func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.parent.record(query, start, err)
	return res, err
}

func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.parent.record(query, start, err)
	return rows, err
}

func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.parent.record(query, start, row.Err())
	return row
}

func (t *Tx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	t.parent.recordOp("commit", start, err)
	return err
}

func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if err != nil && err != sql.ErrTxDone {
		t.parent.recordOp("rollback", time.Now(), err)
	}
	return err
}

// operation первое слово запроса в нижнем регистре: select, insert, update...
func operation(query string) string {
	query = strings.TrimSpace(query)
	if i := strings.IndexAny(query, " \n\t("); i > 0 {
		query = query[:i]
	}
	if query == "" {
		return "unknown"
	}
	return strings.ToLower(query)
}
