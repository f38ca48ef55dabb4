package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"  // driver: postgres
	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/creditbridge/scoring-service/internal/models"
)

// Driver selects the SQL backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Open connects to the database and ensures the schema exists.
func Open(driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverPostgres:
		drvName = "postgres"
	case DriverSQLite:
		drvName = "sqlite"
		if dsn == "" {
			dsn = "file:creditbridge.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := ensureSchema(db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sql.DB, driver Driver) error {
	schema := schemaPostgres
	if driver == DriverSQLite {
		schema = schemaSQLite
	}
	_, err := db.Exec(schema)
	return err
}

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx, so the insert helpers
// run standalone or inside a transaction.
type querier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// CreateEmployee creates a new back-office employee.
func (r *Repository) CreateEmployee(e *models.Employee) error {
	perms, err := json.Marshal(e.Permissions)
	if err != nil {
		return fmt.Errorf("failed to encode permissions: %w", err)
	}
	e.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO employees (username, password_hash, name, role, permissions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err = r.db.QueryRow(query, e.Username, e.PasswordHash, e.Name, e.Role, string(perms), e.CreatedAt.Unix()).
		Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// FindEmployeeByUsername retrieves an employee by username.
func (r *Repository) FindEmployeeByUsername(username string) (*models.Employee, error) {
	query := `
		SELECT id, username, password_hash, name, role, permissions, created_at
		FROM employees
		WHERE username = $1`
	return scanEmployee(r.db.QueryRow(query, username))
}

// GetEmployee retrieves an employee by id.
func (r *Repository) GetEmployee(id int64) (*models.Employee, error) {
	query := `
		SELECT id, username, password_hash, name, role, permissions, created_at
		FROM employees
		WHERE id = $1`
	return scanEmployee(r.db.QueryRow(query, id))
}

func scanEmployee(row *sql.Row) (*models.Employee, error) {
	e := &models.Employee{}
	var perms string
	var createdAt int64
	err := row.Scan(&e.ID, &e.Username, &e.PasswordHash, &e.Name, &e.Role, &perms, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("employee: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	if err := json.Unmarshal([]byte(perms), &e.Permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	return e, nil
}

// CountEmployees returns the number of registered employees.
func (r *Repository) CountEmployees() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM employees`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}
	return n, nil
}

// CreateApplicant creates a new applicant.
func (r *Repository) CreateApplicant(a *models.Applicant) error {
	return insertApplicant(r.db, a)
}

func insertApplicant(q querier, a *models.Applicant) error {
	a.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO applicants (name, phone, email, pan_card, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := q.QueryRow(query, a.Name, a.Phone, a.Email, a.PANCard, a.CreatedAt.Unix()).
		Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create applicant: %w", err)
	}
	return nil
}

// GetApplicant retrieves an applicant by id.
func (r *Repository) GetApplicant(id int64) (*models.Applicant, error) {
	a := &models.Applicant{}
	var createdAt int64
	query := `
		SELECT id, name, phone, email, pan_card, created_at
		FROM applicants
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&a.ID, &a.Name, &a.Phone, &a.Email, &a.PANCard, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("applicant: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find applicant: %w", err)
	}
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	return a, nil
}

// CreateProfile creates a financial profile for an applicant.
func (r *Repository) CreateProfile(p *models.FinancialProfile) error {
	return insertProfile(r.db, p)
}

func insertProfile(q querier, p *models.FinancialProfile) error {
	p.CreatedAt = time.Now().UTC()
	query := `
		INSERT INTO financial_profiles (
			applicant_id, monthly_income, monthly_expenses, income_std_dev,
			upi_transaction_count, bill_payment_streak, digital_activity_months,
			savings_amount, business_revenue, business_expenses, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := q.QueryRow(query,
		p.ApplicantID, p.MonthlyIncome, p.MonthlyExpenses, p.IncomeStdDev,
		p.UPITransactionCount, p.BillPaymentStreak, p.DigitalActivityMonths,
		p.SavingsAmount, p.BusinessRevenue, p.BusinessExpenses, p.CreatedAt.Unix()).
		Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a financial profile by id.
func (r *Repository) GetProfile(id int64) (*models.FinancialProfile, error) {
	p := &models.FinancialProfile{}
	var createdAt int64
	query := `
		SELECT id, applicant_id, monthly_income, monthly_expenses, income_std_dev,
			upi_transaction_count, bill_payment_streak, digital_activity_months,
			savings_amount, business_revenue, business_expenses, created_at
		FROM financial_profiles
		WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&p.ID, &p.ApplicantID, &p.MonthlyIncome, &p.MonthlyExpenses, &p.IncomeStdDev,
		&p.UPITransactionCount, &p.BillPaymentStreak, &p.DigitalActivityMonths,
		&p.SavingsAmount, &p.BusinessRevenue, &p.BusinessExpenses, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return p, nil
}

// CreateAssessment stores a scoring decision.
func (r *Repository) CreateAssessment(a *models.CreditAssessment) error {
	return insertAssessment(r.db, a)
}

func insertAssessment(q querier, a *models.CreditAssessment) error {
	if a.Status == "" {
		a.Status = models.StatusPendingReview
	}
	a.AssessmentDate = time.Now().UTC()
	query := `
		INSERT INTO credit_assessments (
			applicant_id, profile_id, credit_score, risk_category,
			repayment_probability, features_json, processed_by, status, assessment_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := q.QueryRow(query,
		a.ApplicantID, a.ProfileID, a.CreditScore, a.RiskCategory,
		a.RepaymentProbability, a.FeaturesJSON, a.ProcessedBy, a.Status, a.AssessmentDate.Unix()).
		Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

// CreateAssessmentBundle inserts an applicant, their financial profile and
// the assessment in one transaction. A failure at any step rolls the whole
// bundle back, so a failed creation leaves no orphan rows.
func (r *Repository) CreateAssessmentBundle(ap *models.Applicant, p *models.FinancialProfile, a *models.CreditAssessment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := insertApplicant(tx, ap); err != nil {
		tx.Rollback()
		return err
	}
	p.ApplicantID = ap.ID
	if err := insertProfile(tx, p); err != nil {
		tx.Rollback()
		return err
	}
	a.ApplicantID = ap.ID
	a.ProfileID = p.ID
	if err := insertAssessment(tx, a); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assessment: %w", err)
	}
	return nil
}

// GetAssessment retrieves an assessment by id.
func (r *Repository) GetAssessment(id int64) (*models.CreditAssessment, error) {
	a := &models.CreditAssessment{}
	var date int64
	query := `
		SELECT id, applicant_id, profile_id, credit_score, risk_category,
			repayment_probability, features_json, processed_by, status, assessment_date
		FROM credit_assessments
		WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&a.ID, &a.ApplicantID, &a.ProfileID, &a.CreditScore, &a.RiskCategory,
		&a.RepaymentProbability, &a.FeaturesJSON, &a.ProcessedBy, &a.Status, &date)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("assessment: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find assessment: %w", err)
	}
	a.AssessmentDate = time.Unix(date, 0).UTC()
	return a, nil
}

// ListAssessments returns all assessments newest first, joined with the
// applicant, profile and processor details the list view needs.
func (r *Repository) ListAssessments() ([]models.AssessmentSummary, error) {
	query := `
		SELECT a.id, ap.name, a.credit_score, a.risk_category,
			fp.monthly_income, e.name, a.assessment_date
		FROM credit_assessments a
		JOIN applicants ap ON ap.id = a.applicant_id
		JOIN financial_profiles fp ON fp.id = a.profile_id
		JOIN employees e ON e.id = a.processed_by
		ORDER BY a.assessment_date DESC, a.id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	// Empty list serializes as [], not null.
	out := []models.AssessmentSummary{}
	for rows.Next() {
		var s models.AssessmentSummary
		var date int64
		if err := rows.Scan(&s.ID, &s.ApplicantName, &s.CreditScore, &s.RiskCategory,
			&s.MonthlyIncome, &s.ProcessorName, &date); err != nil {
			return nil, fmt.Errorf("failed to scan assessment row: %w", err)
		}
		s.AssessmentDate = time.Unix(date, 0).UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}
	return out, nil
}

// DeleteAssessment removes an assessment.
func (r *Repository) DeleteAssessment(id int64) error {
	res, err := r.db.Exec(`DELETE FROM credit_assessments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("assessment: %w", ErrNotFound)
	}
	return nil
}

// DashboardStats aggregates the assessment portfolio for the dashboard.
func (r *Repository) DashboardStats(recentLimit int) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{Recent: []models.RecentAssessment{}}

	query := `
		SELECT COUNT(*),
			COALESCE(AVG(credit_score), 0),
			COALESCE(SUM(CASE WHEN risk_category = 'Low Risk' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN risk_category = 'Medium Risk' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN risk_category = 'High Risk' THEN 1 ELSE 0 END), 0)
		FROM credit_assessments`
	err := r.db.QueryRow(query).Scan(&stats.Total, &stats.AvgScore,
		&stats.Risk.Low, &stats.Risk.Medium, &stats.Risk.High)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate assessments: %w", err)
	}

	if stats.Total > 0 {
		stats.LowRiskPercent = float64(stats.Risk.Low) / float64(stats.Total) * 100
		stats.ApprovalRate = stats.LowRiskPercent
	}

	recent := `
		SELECT ap.name, a.credit_score, a.risk_category, a.assessment_date
		FROM credit_assessments a
		JOIN applicants ap ON ap.id = a.applicant_id
		ORDER BY a.assessment_date DESC, a.id DESC
		LIMIT $1`
	rows, err := r.db.Query(recent, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent assessments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.RecentAssessment
		var date int64
		if err := rows.Scan(&rec.ApplicantName, &rec.CreditScore, &rec.RiskCategory, &date); err != nil {
			return nil, fmt.Errorf("failed to scan recent assessment: %w", err)
		}
		rec.AssessmentDate = time.Unix(date, 0).UTC()
		stats.Recent = append(stats.Recent, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent assessments: %w", err)
	}
	return stats, nil
}
