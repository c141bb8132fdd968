package config

import (
	"fmt"
	"os"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

// Event rows keep date and local time-of-day as separate fields with no
// timezone; these are the canonical layouts for both.
const (
	DATE_PARSE_FORMAT = "2006-01-02"
	TIME_PARSE_FORMAT = "15:04"

	// Calendar deep links want punctuation-free UTC stamps.
	CALENDAR_STAMP_FORMAT = "20060102T150405Z"
)

// MAX_PROOF_SIZE caps proof-of-payment uploads, checked before any network
// call touches the file.
const MAX_PROOF_SIZE = 5 << 20

// EVENT_DURATION is the fixed duration assumed for calendar links; events
// carry no per-event duration field.
const EVENT_DURATION_HOURS = 2
