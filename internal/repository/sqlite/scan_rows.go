package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/leadshield/scanner-platform/internal/core/domain"
)

// Shared row conversion for the tenant scans table and the legacy central
// scan_history table. Both are read tolerantly: rows written by older code
// may miss columns added later, so every optional field scans through a
// Null type and falls back to a documented sentinel.

var scanRecordColumns = []string{
	"scan_id", "client_id", "scanner_id", "target",
	"lead_name", "lead_email", "lead_phone", "lead_company", "company_size",
	"security_score", "risk_level", "scan_types", "findings",
	"status", "degraded", "created_at", "updated_at",
}

func scanRecordValues(record domain.ScanRecord) ([]any, error) {
	scanTypes, err := json.Marshal(record.ScanTypes)
	if err != nil {
		return nil, fmt.Errorf("marshal scan types: %w", err)
	}
	findings, err := json.Marshal(record.Findings)
	if err != nil {
		return nil, fmt.Errorf("marshal findings: %w", err)
	}

	return []any{
		record.ID, record.ClientID, record.ScannerID, record.Target,
		record.Lead.Name, record.Lead.Email, record.Lead.Phone, record.Lead.Company, record.Lead.CompanySize,
		record.Score, record.RiskLevel, string(scanTypes), string(findings),
		string(record.Status), record.Degraded, record.CreatedAt, record.UpdatedAt,
	}, nil
}

func scanScanRecord(row rowScanner) (*domain.ScanRecord, error) {
	var (
		record                           domain.ScanRecord
		scannerID, target                sql.NullString
		name, email, phone, company, sz  sql.NullString
		score                            sql.NullInt64
		riskLevel, scanTypes, findings   sql.NullString
		status                           sql.NullString
		degraded                         sql.NullBool
		createdAt, updatedAt             sql.NullTime
	)
	err := row.Scan(
		&record.ID, &record.ClientID, &scannerID, &target,
		&name, &email, &phone, &company, &sz,
		&score, &riskLevel, &scanTypes, &findings,
		&status, &degraded, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ScannerID = scannerID.String
	record.Target = target.String
	record.Lead = domain.Lead{
		Name:        name.String,
		Email:       email.String,
		Phone:       phone.String,
		Company:     company.String,
		CompanySize: sz.String,
	}
	if record.Lead.CompanySize == "" {
		record.Lead.CompanySize = domain.DefaultCompanySize
	}

	if score.Valid {
		record.Score = int(score.Int64)
	} else {
		record.Score = domain.DefaultSecurityScore
	}
	if riskLevel.Valid && riskLevel.String != "" {
		record.RiskLevel = riskLevel.String
	} else {
		record.RiskLevel = domain.DefaultRiskLevel
	}

	if scanTypes.Valid && scanTypes.String != "" {
		if err := json.Unmarshal([]byte(scanTypes.String), &record.ScanTypes); err != nil {
			return nil, fmt.Errorf("unmarshal scan types: %w", err)
		}
	}
	if findings.Valid && findings.String != "" {
		if err := json.Unmarshal([]byte(findings.String), &record.Findings); err != nil {
			return nil, fmt.Errorf("unmarshal findings: %w", err)
		}
	}

	if status.Valid && status.String != "" {
		record.Status = domain.ScanStatus(status.String)
	} else {
		record.Status = domain.ScanStatusCompleted
	}
	record.Degraded = degraded.Valid && degraded.Bool

	if createdAt.Valid {
		record.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		record.UpdatedAt = updatedAt.Time
	} else {
		record.UpdatedAt = record.CreatedAt
	}

	return &record, nil
}
