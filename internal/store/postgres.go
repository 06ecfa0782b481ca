package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/codebyom2309/Zenith-cafe-os/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const pgUniqueViolation = "23505"

// Postgres is the durable store the two services share in a real
// deployment. Transition checks run under a row lock so concurrent
// kitchens cannot apply steps out of order.
type Postgres struct {
	db  *sql.DB
	pub Publisher
	log *zap.Logger
}

func NewPostgres(db *sql.DB, pub Publisher, log *zap.Logger) *Postgres {
	if pub == nil {
		pub = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Postgres{db: db, pub: pub, log: log}
}

// Migrate applies the embedded schema migrations.
func (p *Postgres) Migrate() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	driver, err := pgxmigrate.WithInstance(p.db, &pgxmigrate.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (p *Postgres) ListActive(ctx context.Context) ([]domain.Order, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, table_designator, items, notes, status, created_at, total
		FROM orders
		WHERE status <> $1
		ORDER BY created_at ASC`,
		domain.StatusServed.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			o     domain.Order
			items []byte
		)
		if err := rows.Scan(&o.ID, &o.Table, &items, &o.Notes, &o.Status, &o.Timestamp, &o.Total); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode order %s items: %w", o.ID, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	return orders, nil
}

func (p *Postgres) Create(ctx context.Context, order domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encode order %s items: %w", order.ID, err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO orders (id, table_designator, items, notes, status, created_at, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.Table, items, order.Notes, order.Status.String(), order.Timestamp, order.Total,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("create %s: %w", order.ID, domain.ErrDuplicateID)
		}
		return fmt.Errorf("create %s: %w", order.ID, err)
	}

	p.notify(ctx, domain.Event{Kind: domain.EventOrderCreated, OrderID: order.ID, Status: order.Status, At: time.Now().UTC()})
	return nil
}

func (p *Postgres) UpdateStatus(ctx context.Context, orderID string, next domain.Status) error {
	if !next.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownStatus, next)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update %s: begin: %w", orderID, err)
	}
	defer func() { _ = tx.Rollback() }()

	var cur domain.Status
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&cur)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update %s: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", orderID, err)
	}

	if !domain.CanTransition(cur, next) {
		return fmt.Errorf("update %s: %s -> %s: %w", orderID, cur, next, domain.ErrIllegalTransition)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1`, orderID, next.String(),
	); err != nil {
		return fmt.Errorf("update %s: %w", orderID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update %s: commit: %w", orderID, err)
	}

	p.notify(ctx, domain.Event{Kind: domain.EventStatusChanged, OrderID: orderID, Status: next, At: time.Now().UTC()})
	return nil
}

func (p *Postgres) notify(ctx context.Context, ev domain.Event) {
	if err := p.pub.Publish(ctx, ev); err != nil {
		p.log.Warn("event_publish_failed", zap.String("order_id", ev.OrderID), zap.Error(err))
	}
}
