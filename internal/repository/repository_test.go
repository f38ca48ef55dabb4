package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditbridge/scoring-service/internal/models"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	db, err := Open(DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func seedEmployee(t *testing.T, r *Repository) *models.Employee {
	t.Helper()
	e := &models.Employee{
		Username:     "analyst",
		PasswordHash: "hash",
		Name:         "Priya Sharma",
		Role:         "Credit Analyst",
		Permissions:  []string{models.PermCreate, models.PermViewAll},
	}
	require.NoError(t, r.CreateEmployee(e))
	require.NotZero(t, e.ID)
	return e
}

func seedAssessment(t *testing.T, r *Repository, employeeID int64, name string, score int, risk string) *models.CreditAssessment {
	t.Helper()
	ap := &models.Applicant{Name: name, Phone: "9876543210"}
	require.NoError(t, r.CreateApplicant(ap))

	fp := &models.FinancialProfile{ApplicantID: ap.ID, MonthlyIncome: 45000, MonthlyExpenses: 30000}
	require.NoError(t, r.CreateProfile(fp))

	a := &models.CreditAssessment{
		ApplicantID:          ap.ID,
		ProfileID:            fp.ID,
		CreditScore:          score,
		RiskCategory:         risk,
		RepaymentProbability: 0.8,
		FeaturesJSON:         `{}`,
		ProcessedBy:          employeeID,
	}
	require.NoError(t, r.CreateAssessment(a))
	return a
}

func TestEmployeeLifecycle(t *testing.T) {
	r := setupRepo(t)

	n, err := r.CountEmployees()
	require.NoError(t, err)
	assert.Zero(t, n)

	e := seedEmployee(t, r)

	got, err := r.FindEmployeeByUsername("analyst")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, e.Permissions, got.Permissions)
	assert.True(t, got.HasPermission(models.PermCreate))
	assert.False(t, got.HasPermission(models.PermExport))

	byID, err := r.GetEmployee(e.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Username, byID.Username)

	n, err = r.CountEmployees()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = r.FindEmployeeByUsername("ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplicantAndProfile(t *testing.T) {
	r := setupRepo(t)

	ap := &models.Applicant{Name: "Ravi Kumar", Phone: "9000000001", Email: "ravi@example.com", PANCard: "deadbeef"}
	require.NoError(t, r.CreateApplicant(ap))

	got, err := r.GetApplicant(ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", got.Name)
	assert.Equal(t, "deadbeef", got.PANCard)
	assert.False(t, got.CreatedAt.IsZero())

	fp := &models.FinancialProfile{
		ApplicantID:           ap.ID,
		MonthlyIncome:         45000,
		MonthlyExpenses:       30000,
		IncomeStdDev:          5000,
		UPITransactionCount:   25,
		BillPaymentStreak:     10,
		DigitalActivityMonths: 12,
		SavingsAmount:         100000,
	}
	require.NoError(t, r.CreateProfile(fp))

	gotFP, err := r.GetProfile(fp.ID)
	require.NoError(t, err)
	assert.Equal(t, ap.ID, gotFP.ApplicantID)
	assert.Equal(t, 45000.0, gotFP.MonthlyIncome)
	assert.Equal(t, 25, gotFP.UPITransactionCount)

	_, err = r.GetApplicant(9999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.GetProfile(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssessmentLifecycle(t *testing.T) {
	r := setupRepo(t)
	e := seedEmployee(t, r)

	a := seedAssessment(t, r, e.ID, "Ravi Kumar", 730, "Medium Risk")
	assert.Equal(t, models.StatusPendingReview, a.Status)

	got, err := r.GetAssessment(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 730, got.CreditScore)
	assert.Equal(t, "Medium Risk", got.RiskCategory)
	assert.Equal(t, e.ID, got.ProcessedBy)

	list, err := r.ListAssessments()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ravi Kumar", list[0].ApplicantName)
	assert.Equal(t, "Priya Sharma", list[0].ProcessorName)
	assert.Equal(t, 45000.0, list[0].MonthlyIncome)

	require.NoError(t, r.DeleteAssessment(a.ID))
	err = r.DeleteAssessment(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.GetAssessment(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAssessmentBundle(t *testing.T) {
	r := setupRepo(t)
	e := seedEmployee(t, r)

	ap := &models.Applicant{Name: "Ravi Kumar", Phone: "9876543210"}
	fp := &models.FinancialProfile{MonthlyIncome: 45000, MonthlyExpenses: 30000}
	a := &models.CreditAssessment{
		CreditScore:  730,
		RiskCategory: "Medium Risk",
		FeaturesJSON: `{}`,
		ProcessedBy:  e.ID,
	}
	require.NoError(t, r.CreateAssessmentBundle(ap, fp, a))

	assert.Equal(t, ap.ID, fp.ApplicantID)
	assert.Equal(t, ap.ID, a.ApplicantID)
	assert.Equal(t, fp.ID, a.ProfileID)

	got, err := r.GetAssessment(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 730, got.CreditScore)
}

func TestCreateAssessmentBundleRollsBack(t *testing.T) {
	r := setupRepo(t)

	// No employee with id 999 exists, so the final insert violates its
	// foreign key. The applicant and profile rows must roll back with it.
	ap := &models.Applicant{Name: "Ravi Kumar", Phone: "9876543210"}
	fp := &models.FinancialProfile{MonthlyIncome: 45000, MonthlyExpenses: 30000}
	a := &models.CreditAssessment{
		CreditScore:  730,
		RiskCategory: "Medium Risk",
		FeaturesJSON: `{}`,
		ProcessedBy:  999,
	}
	require.Error(t, r.CreateAssessmentBundle(ap, fp, a))

	_, err := r.GetApplicant(1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.GetProfile(1)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := r.ListAssessments()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListAssessmentsEmpty(t *testing.T) {
	r := setupRepo(t)
	list, err := r.ListAssessments()
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestDashboardStats(t *testing.T) {
	r := setupRepo(t)
	e := seedEmployee(t, r)

	empty, err := r.DashboardStats(10)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.ApprovalRate)
	assert.NotNil(t, empty.Recent)

	seedAssessment(t, r, e.ID, "A", 800, "Low Risk")
	seedAssessment(t, r, e.ID, "B", 650, "Medium Risk")
	seedAssessment(t, r, e.ID, "C", 650, "Medium Risk")
	seedAssessment(t, r, e.ID, "D", 500, "High Risk")

	stats, err := r.DashboardStats(2)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Risk.Low)
	assert.Equal(t, 2, stats.Risk.Medium)
	assert.Equal(t, 1, stats.Risk.High)
	assert.InDelta(t, 650.0, stats.AvgScore, 1e-9)
	assert.InDelta(t, 25.0, stats.LowRiskPercent, 1e-9)
	assert.Len(t, stats.Recent, 2)
}

func TestModelStateStore(t *testing.T) {
	r := setupRepo(t)
	store := r.ModelState()

	_, found, err := store.Load()
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save([]byte("v1")))
	require.NoError(t, store.Save([]byte("v2")))

	blob, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("v2"), blob)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Driver("oracle"), "")
	assert.Error(t, err)
}
