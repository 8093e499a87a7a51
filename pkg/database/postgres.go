package database

import (
	"context"
	"database/sql"
	"fmt"

	"quiz-system/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	db     *sql.DB
	config *config.DBConfig
}

func NewPostgresClient(cfg *config.DBConfig) (*PostgresClient, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{
		db:     db,
		config: cfg,
	}, nil
}

func (c *PostgresClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.db
}

func (c *PostgresClient) InitSchema(ctx context.Context) error {
	createQuizzesTable := `
		CREATE TABLE IF NOT EXISTS quizzes (
			id VARCHAR(255) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			created_by VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			passing_score INTEGER NOT NULL DEFAULT 60,
			max_attempts INTEGER NOT NULL DEFAULT 1,
			time_limit_min INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_quizzes_created_by ON quizzes(created_by);
	`

	createQuizQuestionsTable := `
		CREATE TABLE IF NOT EXISTS quiz_questions (
			id VARCHAR(255) PRIMARY KEY,
			quiz_id VARCHAR(255) NOT NULL,
			text TEXT NOT NULL,
			options JSONB NOT NULL DEFAULT '[]',
			correct_answer INTEGER NOT NULL,
			points INTEGER NOT NULL DEFAULT 1,
			order_index INTEGER NOT NULL,
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_quiz_questions_quiz_id ON quiz_questions(quiz_id);
	`

	createQuizAssignmentsTable := `
		CREATE TABLE IF NOT EXISTS quiz_assignments (
			quiz_id VARCHAR(255) NOT NULL,
			student_id VARCHAR(255) NOT NULL,
			assigned_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (quiz_id, student_id),
			FOREIGN KEY (quiz_id) REFERENCES quizzes(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_quiz_assignments_student_id ON quiz_assignments(student_id);
	`

	createSubmissionsTable := `
		CREATE TABLE IF NOT EXISTS submissions (
			id VARCHAR(255) PRIMARY KEY,
			student_id VARCHAR(255) NOT NULL,
			quiz_id VARCHAR(255) NOT NULL,
			attempt_number INTEGER NOT NULL,
			answers JSONB NOT NULL DEFAULT '[]',
			score INTEGER NOT NULL,
			total_possible INTEGER NOT NULL,
			percentage INTEGER NOT NULL,
			passed BOOLEAN NOT NULL,
			time_started TIMESTAMP NOT NULL,
			time_completed TIMESTAMP NOT NULL,
			duration_sec INTEGER NOT NULL,
			status VARCHAR(50) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_attempt
			ON submissions(student_id, quiz_id, attempt_number);
		CREATE INDEX IF NOT EXISTS idx_submissions_quiz_id ON submissions(quiz_id);
		CREATE INDEX IF NOT EXISTS idx_submissions_student_id ON submissions(student_id);
	`

	createActivityLogsTable := `
		CREATE TABLE IF NOT EXISTS activity_logs (
			id VARCHAR(255) PRIMARY KEY,
			action VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			performed_by VARCHAR(255) NOT NULL,
			target_user VARCHAR(255),
			target_quiz VARCHAR(255),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_activity_logs_performed_by ON activity_logs(performed_by);
	`

	createNotificationsTable := `
		CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			type VARCHAR(50) NOT NULL,
			title VARCHAR(255) NOT NULL,
			content TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id);
	`

	statements := []struct {
		name  string
		query string
	}{
		{"quizzes", createQuizzesTable},
		{"quiz_questions", createQuizQuestionsTable},
		{"quiz_assignments", createQuizAssignmentsTable},
		{"submissions", createSubmissionsTable},
		{"activity_logs", createActivityLogsTable},
		{"notifications", createNotificationsTable},
	}

	for _, stmt := range statements {
		if _, err := c.db.ExecContext(ctx, stmt.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", stmt.name, err)
		}
	}

	return nil
}
