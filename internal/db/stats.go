package db

import (
	"context"
	"math"

	"github.com/aegisai/backend/internal/model"
)

// GetStatistics - 대시보드용 시스템 통계 집계
func (db *Postgres) GetStatistics(ctx context.Context) (model.SystemStats, error) {
	stats := model.SystemStats{
		SeverityBreakdown: map[string]int64{},
		TopIncidentTypes:  map[string]int64{},
	}

	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM incidents`).Scan(&stats.TotalIncidents); err != nil {
		return stats, err
	}

	if err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM incidents WHERE status = 'active'`).Scan(&stats.ActiveIncidents); err != nil {
		return stats, err
	}

	rows, err := db.Pool.Query(ctx, `SELECT severity, COUNT(*) FROM incidents GROUP BY severity`)
	if err != nil {
		return stats, err
	}
	for rows.Next() {
		var severity string
		var count int64
		if err := rows.Scan(&severity, &count); err != nil {
			rows.Close()
			return stats, err
		}
		stats.SeverityBreakdown[severity] = count
	}
	rows.Close()

	if err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM incidents WHERE created_at > NOW() - INTERVAL '1 day'`).Scan(&stats.Recent24h); err != nil {
		return stats, err
	}

	rows, err = db.Pool.Query(ctx, `
		SELECT incident_type, COUNT(*) AS count
		FROM incidents
		GROUP BY incident_type
		ORDER BY count DESC
		LIMIT 5
	`)
	if err != nil {
		return stats, err
	}
	for rows.Next() {
		var incidentType string
		var count int64
		if err := rows.Scan(&incidentType, &count); err != nil {
			rows.Close()
			return stats, err
		}
		stats.TopIncidentTypes[incidentType] = count
	}
	rows.Close()

	var avgConfidence *float64
	if err := db.Pool.QueryRow(ctx, `SELECT AVG(confidence) FROM incidents`).Scan(&avgConfidence); err != nil {
		return stats, err
	}
	if avgConfidence != nil {
		stats.AvgConfidence = math.Round(*avgConfidence*100) / 100
	}

	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM actions`).Scan(&stats.TotalActions); err != nil {
		return stats, err
	}

	var successful int64
	if err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM actions WHERE status = 'completed'`).Scan(&successful); err != nil {
		return stats, err
	}
	if stats.TotalActions > 0 {
		stats.ActionSuccessRate = math.Round(float64(successful)/float64(stats.TotalActions)*100*100) / 100
	}

	return stats, nil
}

// GetHourlyTrend - 최근 N시간 시간대별 incident 추이
func (db *Postgres) GetHourlyTrend(ctx context.Context, hours int) ([]model.HourlyTrend, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT
			to_char(date_trunc('hour', created_at), 'YYYY-MM-DD HH24:00:00') AS hour,
			COUNT(*) AS count,
			AVG(confidence) AS avg_confidence
		FROM incidents
		WHERE created_at > NOW() - ($1 || ' hours')::interval
		GROUP BY hour
		ORDER BY hour DESC
	`, hours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trend := []model.HourlyTrend{}
	for rows.Next() {
		var t model.HourlyTrend
		var avg *float64
		if err := rows.Scan(&t.Hour, &t.Count, &avg); err != nil {
			return nil, err
		}
		if avg != nil {
			t.AvgConfidence = math.Round(*avg*100) / 100
		}
		trend = append(trend, t)
	}
	return trend, rows.Err()
}
