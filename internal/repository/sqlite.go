package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/Ajay0072005/floodsense-ai/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS prediction_logs (
			id TEXT PRIMARY KEY,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			district_id TEXT,
			score REAL NOT NULL,
			level TEXT NOT NULL,
			probability REAL NOT NULL,
			model TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			phone TEXT NOT NULL,
			district TEXT,
			state TEXT,
			severity TEXT NOT NULL,
			description TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_prediction_logs_created_at ON prediction_logs(created_at);
		CREATE INDEX IF NOT EXISTS idx_prediction_logs_district ON prediction_logs(district_id);
		CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
		CREATE INDEX IF NOT EXISTS idx_reports_district ON reports(district);
  	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) Add(ctx context.Context, log *models.PredictionLog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prediction_logs
			(id, latitude, longitude, district_id, score, level, probability, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.Lat, log.Lon, log.DistrictID, log.Score,
		string(log.Level), log.Probability, string(log.Model), log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting prediction log: %w", err)
	}
	return nil
}

func (s *SQLiteDB) List(ctx context.Context, opts Filter) ([]models.PredictionLog, error) {
	query := `
		SELECT id, latitude, longitude, district_id, score, level, probability, model, created_at
		FROM prediction_logs WHERE 1=1`
	var args []any

	if opts.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, *opts.Since)
	}
	if opts.DistrictID != nil {
		query += " AND district_id = ?"
		args = append(args, *opts.DistrictID)
	}
	if opts.MinScore != nil {
		query += " AND score >= ?"
		args = append(args, *opts.MinScore)
	}

	query += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying prediction logs: %w", err)
	}
	defer rows.Close()

	var logs []models.PredictionLog
	for rows.Next() {
		var l models.PredictionLog
		var level, model string
		if err := rows.Scan(&l.ID, &l.Lat, &l.Lon, &l.DistrictID, &l.Score, &level, &l.Probability, &model, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning prediction log: %w", err)
		}
		l.Level = models.RiskLevel(level)
		l.Model = models.ModelSource(model)
		logs = append(logs, l)
	}

	return logs, rows.Err()
}

func (s *SQLiteDB) AddReport(ctx context.Context, r *models.Report) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports
			(id, phone, district, state, severity, description, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Phone, r.District, r.State, string(r.Severity),
		r.Description, r.Lat, r.Lon, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting report: %w", err)
	}
	return nil
}

func (s *SQLiteDB) ListReports(ctx context.Context, opts Filter) ([]models.Report, error) {
	query := `
		SELECT id, phone, district, state, severity, description, latitude, longitude, created_at
		FROM reports WHERE 1=1`
	var args []any

	if opts.Since != nil {
		query += " AND created_at >= ?"
		args = append(args, *opts.Since)
	}
	if opts.DistrictID != nil {
		query += " AND district = ?"
		args = append(args, *opts.DistrictID)
	}

	query += " ORDER BY created_at DESC"
	if opts.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var r models.Report
		var severity string
		if err := rows.Scan(&r.ID, &r.Phone, &r.District, &r.State, &severity, &r.Description, &r.Lat, &r.Lon, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning report: %w", err)
		}
		r.Severity = models.AlertSeverity(severity)
		reports = append(reports, r)
	}

	return reports, rows.Err()
}
