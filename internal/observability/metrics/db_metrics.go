package metrics

import (
	"database/sql"
	"log"

	"github.com/prometheus/client_golang/prometheus"
)

func registerDBMetrics(db *sql.DB, logger *log.Logger) {
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "readings_total",
			Help: "Readings with a non-null value in the store",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM data WHERE value IS NOT NULL")
		},
	))

	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "equipment_total",
			Help: "Distinct equipment names in the store",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(DISTINCT equipment_name) FROM data WHERE equipment_name IS NOT NULL")
		},
	))
}

func queryCount(db *sql.DB, logger *log.Logger, query string) float64 {
	if db == nil {
		return 0
	}
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if logger != nil {
			logger.Printf("metrics query failed: %v", err)
		}
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
