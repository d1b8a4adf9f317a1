package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"visadesk/internal/application/models"
	"visadesk/pkg/platform/sentinel"
	"visadesk/pkg/platform/tx"
)

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS applications (
	id                SERIAL PRIMARY KEY,
	client_id         INTEGER     NOT NULL DEFAULT 0,
	client_name       TEXT        NOT NULL,
	visa_type         TEXT        NOT NULL,
	visa_subclass     TEXT        NOT NULL,
	status            TEXT        NOT NULL,
	reference_number  TEXT        NOT NULL UNIQUE,
	assigned_agent    TEXT        NOT NULL DEFAULT '',
	applicant_details JSONB       NOT NULL DEFAULT '{}'::jsonb,
	documents         JSONB       NOT NULL DEFAULT '[]'::jsonb,
	lodgement_date    TIMESTAMPTZ NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS applications_client_id_idx ON applications (client_id);
`

const columns = `id, client_id, client_name, visa_type, visa_subclass, status, reference_number,
	assigned_agent, applicant_details, documents, lodgement_date, created_at, updated_at`

// Postgres persists applications in a single table with JSONB columns for
// the applicant details and the document checklist. SERIAL ids are never
// reused after deletion.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure applications schema: %w", err)
	}
	return nil
}

// Filter loads every application ordered by id and keeps those matching pred.
func (p *Postgres) Filter(ctx context.Context, pred func(models.Application) bool) ([]models.Application, error) {
	rows, err := tx.Use(ctx, p.db).QueryContext(ctx, `SELECT `+columns+` FROM applications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	out := []models.Application{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		if pred == nil || pred(a) {
			out = append(out, a)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

func (p *Postgres) Get(ctx context.Context, id int) (models.Application, error) {
	return p.get(ctx, tx.Use(ctx, p.db), id, false)
}

func (p *Postgres) get(ctx context.Context, q tx.Querier, id int, forUpdate bool) (models.Application, error) {
	query := `SELECT ` + columns + ` FROM applications WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	a, err := scan(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Application{}, fmt.Errorf("application %d: %w", id, sentinel.ErrNotFound)
		}
		return models.Application{}, err
	}
	return a, nil
}

// Create inserts a and returns it with the assigned id.
func (p *Postgres) Create(ctx context.Context, a models.Application) (models.Application, error) {
	details, docs, err := encode(a)
	if err != nil {
		return models.Application{}, err
	}
	query := `
		INSERT INTO applications (client_id, client_name, visa_type, visa_subclass, status, reference_number,
			assigned_agent, applicant_details, documents, lodgement_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var id int
	err = tx.Use(ctx, p.db).QueryRowContext(ctx, query,
		a.ClientID, a.ClientName, a.VisaType, a.VisaSubclass, string(a.Status), a.ReferenceNumber,
		a.AssignedAgent, details, docs, a.LodgementDate, a.CreatedAt, a.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return models.Application{}, mapWriteError("create application", err)
	}
	return a.WithKey(id), nil
}

// Update locks the row, applies mutate and writes the result in one
// transaction.
func (p *Postgres) Update(ctx context.Context, id int, mutate func(models.Application) (models.Application, error)) (models.Application, error) {
	var out models.Application
	err := tx.Run(ctx, p.db, func(ctx context.Context) error {
		q := tx.Use(ctx, p.db)
		current, err := p.get(ctx, q, id, true)
		if err != nil {
			return err
		}
		next, err := mutate(current)
		if err != nil {
			return err
		}
		next = next.WithKey(id)
		details, docs, err := encode(next)
		if err != nil {
			return err
		}
		query := `
			UPDATE applications SET client_id = $2, client_name = $3, visa_type = $4, visa_subclass = $5,
				status = $6, assigned_agent = $7, applicant_details = $8, documents = $9,
				lodgement_date = $10, updated_at = $11
			WHERE id = $1
		`
		_, err = q.ExecContext(ctx, query, id,
			next.ClientID, next.ClientName, next.VisaType, next.VisaSubclass,
			string(next.Status), next.AssignedAgent, details, docs,
			next.LodgementDate, next.UpdatedAt,
		)
		if err != nil {
			return mapWriteError("update application", err)
		}
		out = next
		return nil
	})
	if err != nil {
		return models.Application{}, err
	}
	return out, nil
}

func (p *Postgres) Delete(ctx context.Context, id int) (models.Application, error) {
	a, err := scan(tx.Use(ctx, p.db).QueryRowContext(ctx,
		`DELETE FROM applications WHERE id = $1 RETURNING `+columns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Application{}, fmt.Errorf("application %d: %w", id, sentinel.ErrNotFound)
		}
		return models.Application{}, err
	}
	return a, nil
}

// SeedIfEmpty inserts fixtures with their ids when the table has no rows and
// moves the id sequence past them. Reports whether anything was inserted.
func (p *Postgres) SeedIfEmpty(ctx context.Context, apps ...models.Application) (bool, error) {
	seeded := false
	err := tx.Run(ctx, p.db, func(ctx context.Context) error {
		q := tx.Use(ctx, p.db)
		if _, err := q.ExecContext(ctx, `LOCK TABLE applications IN EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("lock applications: %w", err)
		}
		var n int
		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n); err != nil {
			return fmt.Errorf("count applications: %w", err)
		}
		if n > 0 {
			return nil
		}
		for _, a := range apps {
			details, docs, err := encode(a)
			if err != nil {
				return err
			}
			_, err = q.ExecContext(ctx, `
				INSERT INTO applications (`+columns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
				a.ID, a.ClientID, a.ClientName, a.VisaType, a.VisaSubclass, string(a.Status), a.ReferenceNumber,
				a.AssignedAgent, details, docs, a.LodgementDate, a.CreatedAt, a.UpdatedAt,
			)
			if err != nil {
				return mapWriteError("seed application", err)
			}
		}
		if len(apps) > 0 {
			_, err := q.ExecContext(ctx,
				`SELECT setval(pg_get_serial_sequence('applications', 'id'), (SELECT MAX(id) FROM applications))`)
			if err != nil {
				return fmt.Errorf("advance application sequence: %w", err)
			}
		}
		seeded = len(apps) > 0
		return nil
	})
	return seeded, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (models.Application, error) {
	var (
		a       models.Application
		status  string
		details []byte
		docs    []byte
	)
	err := row.Scan(&a.ID, &a.ClientID, &a.ClientName, &a.VisaType, &a.VisaSubclass, &status,
		&a.ReferenceNumber, &a.AssignedAgent, &details, &docs, &a.LodgementDate, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Application{}, err
		}
		return models.Application{}, fmt.Errorf("scan application: %w", err)
	}
	a.Status = models.Status(status)
	if err := json.Unmarshal(details, &a.ApplicantDetails); err != nil {
		return models.Application{}, fmt.Errorf("decode applicant details: %w", err)
	}
	if err := json.Unmarshal(docs, &a.Documents); err != nil {
		return models.Application{}, fmt.Errorf("decode documents: %w", err)
	}
	return a.Clone(), nil
}

func encode(a models.Application) (details, docs []byte, err error) {
	a = a.Clone()
	if a.Documents == nil {
		a.Documents = []models.Document{}
	}
	if details, err = json.Marshal(a.ApplicantDetails); err != nil {
		return nil, nil, fmt.Errorf("encode applicant details: %w", err)
	}
	if docs, err = json.Marshal(a.Documents); err != nil {
		return nil, nil, fmt.Errorf("encode documents: %w", err)
	}
	return details, docs, nil
}

func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
