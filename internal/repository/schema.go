package repository

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS employees (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL,
  permissions TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS applicants (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  pan_card TEXT NOT NULL DEFAULT '',
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS financial_profiles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  applicant_id INTEGER NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
  monthly_income REAL NOT NULL,
  monthly_expenses REAL NOT NULL,
  income_std_dev REAL NOT NULL DEFAULT 0,
  upi_transaction_count INTEGER NOT NULL DEFAULT 0,
  bill_payment_streak INTEGER NOT NULL DEFAULT 0,
  digital_activity_months INTEGER NOT NULL DEFAULT 0,
  savings_amount REAL NOT NULL DEFAULT 0,
  business_revenue REAL NOT NULL DEFAULT 0,
  business_expenses REAL NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS credit_assessments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  applicant_id INTEGER NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
  profile_id INTEGER NOT NULL REFERENCES financial_profiles(id) ON DELETE CASCADE,
  credit_score INTEGER NOT NULL,
  risk_category TEXT NOT NULL,
  repayment_probability REAL NOT NULL,
  features_json TEXT NOT NULL,
  processed_by INTEGER NOT NULL REFERENCES employees(id),
  status TEXT NOT NULL DEFAULT 'Pending Review',
  assessment_date INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS model_state (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  blob BLOB NOT NULL,
  updated_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS employees (
  id BIGSERIAL PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  role TEXT NOT NULL,
  permissions TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS applicants (
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  pan_card TEXT NOT NULL DEFAULT '',
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS financial_profiles (
  id BIGSERIAL PRIMARY KEY,
  applicant_id BIGINT NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
  monthly_income DOUBLE PRECISION NOT NULL,
  monthly_expenses DOUBLE PRECISION NOT NULL,
  income_std_dev DOUBLE PRECISION NOT NULL DEFAULT 0,
  upi_transaction_count INTEGER NOT NULL DEFAULT 0,
  bill_payment_streak INTEGER NOT NULL DEFAULT 0,
  digital_activity_months INTEGER NOT NULL DEFAULT 0,
  savings_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
  business_revenue DOUBLE PRECISION NOT NULL DEFAULT 0,
  business_expenses DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS credit_assessments (
  id BIGSERIAL PRIMARY KEY,
  applicant_id BIGINT NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
  profile_id BIGINT NOT NULL REFERENCES financial_profiles(id) ON DELETE CASCADE,
  credit_score INTEGER NOT NULL,
  risk_category TEXT NOT NULL,
  repayment_probability DOUBLE PRECISION NOT NULL,
  features_json TEXT NOT NULL,
  processed_by BIGINT NOT NULL REFERENCES employees(id),
  status TEXT NOT NULL DEFAULT 'Pending Review',
  assessment_date BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS model_state (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  blob BYTEA NOT NULL,
  updated_at BIGINT NOT NULL
);
`
