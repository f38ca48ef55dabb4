package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/creditbridge/scoring-service/internal/config"
	"github.com/creditbridge/scoring-service/internal/integrations/rbi"
	"github.com/creditbridge/scoring-service/internal/middleware"
	"github.com/creditbridge/scoring-service/internal/ml"
	"github.com/creditbridge/scoring-service/internal/models"
	"github.com/creditbridge/scoring-service/internal/report"
	"github.com/creditbridge/scoring-service/internal/repository"
	"github.com/creditbridge/scoring-service/internal/utils"
	"github.com/creditbridge/scoring-service/internal/utils/email"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	engine *ml.Engine
	log    *logrus.Logger
	config *config.Config
	mail   *email.Sender // nil when SMTP is not configured
	rates  *rbi.Client   // nil when no rates feed is configured
}

// NewService initializes a new service
func NewService(repo *repository.Repository, engine *ml.Engine, cfg *config.Config, log *logrus.Logger, mail *email.Sender, rates *rbi.Client) *Service {
	return &Service{repo: repo, engine: engine, config: cfg, log: log, mail: mail, rates: rates}
}

// Register creates a new employee with a hashed password.
func (s *Service) Register(username, password, name, role string, permissions []string) (*models.Employee, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	e := &models.Employee{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Name:         name,
		Role:         role,
		Permissions:  permissions,
	}

	if err := s.repo.CreateEmployee(e); err != nil {
		return nil, err
	}

	s.log.Infof("Employee registered: %s (%s)", e.Username, e.Role)
	return e, nil
}

// Login authenticates an employee and returns a JWT carrying the explicit
// permission set the middleware checks against.
func (s *Service) Login(username, password string) (string, error) {
	e, err := s.repo.FindEmployeeByUsername(username)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", e.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
		Name:        e.Name,
		Role:        e.Role,
		Permissions: e.Permissions,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("Employee logged in: %s", e.Username)
	return tokenString, nil
}

// SeedEmployees creates the default back-office accounts when the employee
// table is empty.
func (s *Service) SeedEmployees() error {
	n, err := s.repo.CountEmployees()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	defaults := []struct {
		username, password, name, role string
		permissions                    []string
	}{
		{"admin", "admin123", "Admin User", "Branch Manager", []string{models.PermAll}},
		{"analyst", "analyst123", "Credit Analyst", "Credit Analyst", []string{models.PermViewAll, models.PermCreate, models.PermEdit, models.PermAnalytics}},
		{"officer", "officer123", "Loan Officer", "Loan Officer", []string{models.PermViewOwn, models.PermCreate}},
		{"viewer", "viewer123", "Auditor", "Auditor", []string{models.PermViewAll, models.PermExport}},
	}

	for _, d := range defaults {
		if _, err := s.Register(d.username, d.password, d.name, d.role, d.permissions); err != nil {
			return fmt.Errorf("failed to seed employee %s: %w", d.username, err)
		}
	}
	s.log.Info("Seeded default employee accounts")
	return nil
}

// CreateAssessmentRequest carries one applicant and their raw financial
// profile as submitted by the operator.
type CreateAssessmentRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	PANCard string `json:"pan_card"`
	ml.Profile
}

// AssessmentDetail is the full view of one stored assessment.
type AssessmentDetail struct {
	Assessment      *models.CreditAssessment `json:"assessment"`
	Applicant       *models.Applicant        `json:"applicant"`
	Profile         *models.FinancialProfile `json:"profile"`
	ProcessorName   string                   `json:"processor_name"`
	Features        ml.FeatureVector         `json:"features"`
	FeaturesPercent map[string]float64       `json:"features_percent"`
	Recommendation  *ml.Recommendation       `json:"recommendation"`
}

// CreateAssessment runs the full pipeline for a new applicant: score the
// profile, persist applicant, profile and assessment, then notify the
// applicant asynchronously when an address is on file.
func (s *Service) CreateAssessment(ctx context.Context, req *CreateAssessmentRequest) (*AssessmentDetail, error) {
	processedBy, ok := middleware.EmployeeID(ctx)
	if !ok {
		return nil, fmt.Errorf("employee ID not found in context")
	}

	if req.Name == "" || req.Phone == "" {
		return nil, fmt.Errorf("name and phone are required: %w", ml.ErrInvalidInput)
	}

	// Score before touching the database so invalid input or an untrained
	// model leaves no partial records behind.
	result, err := s.engine.Infer(req.Profile)
	if err != nil {
		return nil, err
	}

	applicant := &models.Applicant{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	}
	if req.PANCard != "" {
		encrypted, err := utils.Encrypt(req.PANCard, s.config.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt PAN: %w", err)
		}
		applicant.PANCard = encrypted
	}

	profile := &models.FinancialProfile{
		MonthlyIncome:         req.MonthlyIncome,
		MonthlyExpenses:       req.MonthlyExpenses,
		IncomeStdDev:          req.IncomeStdDev,
		UPITransactionCount:   req.UPITransactionCount,
		BillPaymentStreak:     req.BillPaymentStreak,
		DigitalActivityMonths: req.DigitalActivityMonths,
		SavingsAmount:         req.SavingsAmount,
		BusinessRevenue:       req.BusinessRevenue,
		BusinessExpenses:      req.BusinessExpenses,
	}

	featuresJSON, err := json.Marshal(result.Features)
	if err != nil {
		return nil, fmt.Errorf("failed to encode features: %w", err)
	}

	assessment := &models.CreditAssessment{
		CreditScore:          result.CreditScore,
		RiskCategory:         string(result.RiskCategory),
		RepaymentProbability: result.RepaymentProbability,
		FeaturesJSON:         string(featuresJSON),
		ProcessedBy:          processedBy,
	}

	// One transaction for all three rows; a failure anywhere leaves nothing
	// behind.
	if err := s.repo.CreateAssessmentBundle(applicant, profile, assessment); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"assessment_id": assessment.ID,
		"score":         assessment.CreditScore,
		"risk":          assessment.RiskCategory,
	}).Info("assessment created")

	if s.mail != nil && req.Email != "" {
		go func() {
			// Best-effort; the sender logs its own failures.
			_ = s.mail.SendAssessmentResult(req.Email, req.Name, result.CreditScore, string(result.RiskCategory), result.RepaymentProbability)
		}()
	}

	return s.assembleDetail(assessment, applicant, profile, result.Features)
}

// GetAssessment loads the full view of a stored assessment.
func (s *Service) GetAssessment(id int64) (*AssessmentDetail, error) {
	assessment, err := s.repo.GetAssessment(id)
	if err != nil {
		return nil, err
	}
	applicant, err := s.repo.GetApplicant(assessment.ApplicantID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.GetProfile(assessment.ProfileID)
	if err != nil {
		return nil, err
	}

	var features ml.FeatureVector
	if err := json.Unmarshal([]byte(assessment.FeaturesJSON), &features); err != nil {
		return nil, fmt.Errorf("failed to decode stored features: %w", err)
	}

	return s.assembleDetail(assessment, applicant, profile, features)
}

func (s *Service) assembleDetail(assessment *models.CreditAssessment, applicant *models.Applicant, profile *models.FinancialProfile, features ml.FeatureVector) (*AssessmentDetail, error) {
	processor, err := s.repo.GetEmployee(assessment.ProcessedBy)
	if err != nil {
		return nil, err
	}

	// PAN numbers never leave the service decrypted.
	display := *applicant
	if display.PANCard != "" {
		pan, err := utils.Decrypt(display.PANCard, s.config.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt PAN: %w", err)
		}
		display.PANCard = utils.MaskPAN(pan)
	}

	percent := make(map[string]float64, len(ml.FeatureNames))
	for i, name := range ml.FeatureNames {
		percent[name] = features.Values()[i] * 100
	}

	return &AssessmentDetail{
		Assessment:      assessment,
		Applicant:       &display,
		Profile:         profile,
		ProcessorName:   processor.Name,
		Features:        features,
		FeaturesPercent: percent,
		Recommendation:  ml.Recommend(features, assessment.CreditScore, s.baseRate()),
	}, nil
}

// baseRate returns the cached central-bank repo rate, or 0 when no feed is
// configured or reachable.
func (s *Service) baseRate() float64 {
	if s.rates == nil {
		return 0
	}
	rate, err := s.rates.RepoRate()
	if err != nil {
		s.log.Debugf("repo rate unavailable: %v", err)
		return 0
	}
	return rate
}

// RepoRate exposes the current lending base rate.
func (s *Service) RepoRate() (float64, error) {
	if s.rates == nil {
		return 0, fmt.Errorf("rates feed not configured")
	}
	return s.rates.RepoRate()
}

// ListAssessments returns the assessment list view, newest first.
func (s *Service) ListAssessments() ([]models.AssessmentSummary, error) {
	return s.repo.ListAssessments()
}

// DeleteAssessment removes a stored assessment.
func (s *Service) DeleteAssessment(id int64) error {
	if err := s.repo.DeleteAssessment(id); err != nil {
		return err
	}
	s.log.Infof("Assessment deleted: %d", id)
	return nil
}

// Dashboard aggregates portfolio analytics.
func (s *Service) Dashboard() (*models.DashboardStats, error) {
	return s.repo.DashboardStats(10)
}

// GenerateReport renders the PDF report for an assessment, archives a copy
// under the configured reports directory and returns the bytes for download.
func (s *Service) GenerateReport(id int64) ([]byte, string, error) {
	detail, err := s.GetAssessment(id)
	if err != nil {
		return nil, "", err
	}

	pdfBytes, err := report.Generate(detail.Assessment, detail.Applicant, detail.Profile,
		detail.ProcessorName, detail.Features, detail.Recommendation)
	if err != nil {
		return nil, "", err
	}

	filename := report.Filename(id)
	if s.config.ReportsDir != "" {
		if err := os.MkdirAll(s.config.ReportsDir, 0o755); err != nil {
			return nil, "", fmt.Errorf("failed to create reports directory: %w", err)
		}
		if err := os.WriteFile(filepath.Join(s.config.ReportsDir, filename), pdfBytes, 0o644); err != nil {
			return nil, "", fmt.Errorf("failed to archive report: %w", err)
		}
	}

	s.log.Infof("Report generated for assessment %d: %s", id, filename)
	return pdfBytes, filename, nil
}

// Retrain rebuilds the model from a fresh synthetic population and swaps it
// in atomically; in-flight inference keeps reading the old snapshot.
func (s *Service) Retrain(samples int, seed int64) (*ml.TrainingReport, error) {
	if samples <= 0 {
		samples = s.config.TrainSamples
	}
	return s.engine.Train(samples, seed)
}
