package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"credito/internal/credit/models"
	"credito/pkg/platform/sentinel"
	txcontext "credito/pkg/platform/tx"
)

const uniqueViolation = "23505"

const creditColumns = `id, constituted_credit_number, nfse_number, constitution_date, issqn_value,
	credit_type, description, status, registered_at, updated_at, responsible, company_tax_id`

// sortColumns maps whitelisted sort fields to columns. Only values from this
// map are ever interpolated into SQL.
var sortColumns = map[models.SortField]string{
	models.SortByID:                      "id",
	models.SortByConstitutedCreditNumber: "constituted_credit_number",
	models.SortByNfseNumber:              "nfse_number",
	models.SortByConstitutionDate:        "constitution_date",
	models.SortByIssqnValue:              "issqn_value",
	models.SortByCreditType:              "credit_type",
	models.SortByStatus:                  "status",
	models.SortByRegisteredAt:            "registered_at",
	models.SortByUpdatedAt:               "updated_at",
}

// PostgresStore persists credits in the credits table.
// It is pure I/O; uniqueness is enforced by the UNIQUE constraint and
// reported as sentinel.ErrAlreadyUsed.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgres constructs a store that joins any transaction carried by the
// request context.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a store bound to an open transaction.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{tx: tx}
}

func (s *PostgresStore) q(ctx context.Context) txcontext.DBTX {
	if s.tx != nil {
		return s.tx
	}
	return txcontext.Executor(ctx, s.db)
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*models.Credit, error) {
	return s.findOne(ctx, "find credit by id", `WHERE id = $1`, id)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, id int64) (*models.Credit, error) {
	return s.findOne(ctx, "lock credit by id", `WHERE id = $1 FOR UPDATE`, id)
}

func (s *PostgresStore) FindByConstitutedNumber(ctx context.Context, number string) (*models.Credit, error) {
	return s.findOne(ctx, "find credit by number", `WHERE constituted_credit_number = $1`, number)
}

func (s *PostgresStore) FindByNfseNumber(ctx context.Context, nfse string) (*models.Credit, error) {
	return s.findOne(ctx, "find credit by nfse", `WHERE nfse_number = $1 ORDER BY id LIMIT 1`, nfse)
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status models.Status, req models.PageRequest) (models.Page[*models.Credit], error) {
	return s.page(ctx, "list credits by status", `WHERE status = $1`, []any{string(status)}, req)
}

func (s *PostgresStore) ListByType(ctx context.Context, creditType models.CreditType, req models.PageRequest) (models.Page[*models.Credit], error) {
	return s.page(ctx, "list credits by type", `WHERE credit_type = $1`, []any{string(creditType)}, req)
}

func (s *PostgresStore) ListByCompanyTaxID(ctx context.Context, taxID string) ([]*models.Credit, error) {
	return s.list(ctx, "list credits by company", `WHERE company_tax_id = $1 ORDER BY id`, taxID)
}

func (s *PostgresStore) ListByConstitutionDateRange(ctx context.Context, start, end models.Date) ([]*models.Credit, error) {
	return s.list(ctx, "list credits by date range",
		`WHERE constitution_date BETWEEN $1 AND $2 ORDER BY id`, start, end)
}

func (s *PostgresStore) ListByCompanyAndStatus(ctx context.Context, taxID string, status models.Status, req models.PageRequest) (models.Page[*models.Credit], error) {
	return s.page(ctx, "list credits by company and status",
		`WHERE company_tax_id = $1 AND status = $2`, []any{taxID, string(status)}, req)
}

// SearchByTerm matches the term literally; LIKE wildcards in it are not special.
func (s *PostgresStore) SearchByTerm(ctx context.Context, term string, req models.PageRequest) (models.Page[*models.Credit], error) {
	where := `WHERE strpos(LOWER(constituted_credit_number), LOWER($1)) > 0
		OR strpos(LOWER(nfse_number), LOWER($1)) > 0`
	return s.page(ctx, "search credits", where, []any{term}, req)
}

func (s *PostgresStore) ListAll(ctx context.Context, req models.PageRequest) (models.Page[*models.Credit], error) {
	return s.page(ctx, "list credits", "", nil, req)
}

// Save inserts when c.ID is zero and updates otherwise. On insert c.ID is
// filled in from the identity column.
func (s *PostgresStore) Save(ctx context.Context, c *models.Credit) error {
	if c == nil {
		return fmt.Errorf("credit is required")
	}
	if c.ID == 0 {
		return s.insert(ctx, c)
	}
	return s.update(ctx, c)
}

func (s *PostgresStore) insert(ctx context.Context, c *models.Credit) error {
	query := `
		INSERT INTO credits (constituted_credit_number, nfse_number, constitution_date, issqn_value,
			credit_type, description, status, registered_at, updated_at, responsible, company_tax_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	err := s.q(ctx).QueryRowContext(ctx, query,
		c.ConstitutedCreditNumber,
		c.NfseNumber,
		c.ConstitutionDate,
		c.IssqnValue,
		string(c.CreditType),
		nullString(c.Description),
		string(c.Status),
		c.RegisteredAt,
		c.UpdatedAt,
		nullString(c.Responsible),
		nullString(c.CompanyTaxID),
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert credit %q: %w", c.ConstitutedCreditNumber, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert credit: %w", err)
	}
	return nil
}

func (s *PostgresStore) update(ctx context.Context, c *models.Credit) error {
	query := `
		UPDATE credits SET
			constituted_credit_number = $2,
			nfse_number = $3,
			constitution_date = $4,
			issqn_value = $5,
			credit_type = $6,
			description = $7,
			status = $8,
			updated_at = $9,
			responsible = $10,
			company_tax_id = $11
		WHERE id = $1
	`
	res, err := s.q(ctx).ExecContext(ctx, query,
		c.ID,
		c.ConstitutedCreditNumber,
		c.NfseNumber,
		c.ConstitutionDate,
		c.IssqnValue,
		string(c.CreditType),
		nullString(c.Description),
		string(c.Status),
		c.UpdatedAt,
		nullString(c.Responsible),
		nullString(c.CompanyTaxID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update credit %d: %w", c.ID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("update credit: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update credit rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM credits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete credit: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete credit rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) findOne(ctx context.Context, op, where string, args ...any) (*models.Credit, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+creditColumns+` FROM credits `+where, args...)
	c, err := scanCredit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *PostgresStore) list(ctx context.Context, op, tail string, args ...any) ([]*models.Credit, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `SELECT `+creditColumns+` FROM credits `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]*models.Credit, 0)
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *PostgresStore) page(ctx context.Context, op, where string, args []any, req models.PageRequest) (models.Page[*models.Credit], error) {
	var total int64
	if err := s.q(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM credits `+where, args...).Scan(&total); err != nil {
		return models.Page[*models.Credit]{}, fmt.Errorf("%s: count: %w", op, err)
	}
	if total == 0 {
		return models.NewPage[*models.Credit](nil, req, 0), nil
	}

	n := len(args)
	tail := fmt.Sprintf(`%s ORDER BY %s LIMIT $%d OFFSET $%d`, where, orderBy(req.Sort), n+1, n+2)
	pageArgs := make([]any, 0, n+2)
	pageArgs = append(pageArgs, args...)
	pageArgs = append(pageArgs, req.Size, req.Offset())

	content, err := s.list(ctx, op, tail, pageArgs...)
	if err != nil {
		return models.Page[*models.Credit]{}, err
	}
	return models.NewPage(content, req, total), nil
}

func orderBy(sort models.Sort) string {
	sort = sort.OrDefault()
	col, ok := sortColumns[sort.Field]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if sort.Direction == models.Desc {
		dir = "DESC"
	}
	if col == "id" {
		return "id " + dir
	}
	return strings.Join([]string{col + " " + dir, "id " + dir}, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCredit(row scanner) (*models.Credit, error) {
	var (
		c           models.Credit
		creditType  string
		status      string
		description sql.NullString
		responsible sql.NullString
		taxID       sql.NullString
		updatedAt   sql.NullTime
	)
	err := row.Scan(
		&c.ID,
		&c.ConstitutedCreditNumber,
		&c.NfseNumber,
		&c.ConstitutionDate,
		&c.IssqnValue,
		&creditType,
		&description,
		&status,
		&c.RegisteredAt,
		&updatedAt,
		&responsible,
		&taxID,
	)
	if err != nil {
		return nil, err
	}
	c.CreditType = models.CreditType(creditType)
	c.Status = models.Status(status)
	c.Description = description.String
	c.Responsible = responsible.String
	c.CompanyTaxID = taxID.String
	if updatedAt.Valid {
		t := updatedAt.Time
		c.UpdatedAt = &t
	}
	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation recognises SQLSTATE 23505 from either supported driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
