// Package constants provides shared constants for the deal-analyzer application.
package constants

// DateTimeLayout is the month format used for loan start dates and the as-of
// date of current debt reports.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// CurrencyPlaces is the number of decimal places kept at presentation boundaries
	CurrencyPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// RenovationDepreciationThreshold is the share of the purchase price that
	// renovation costs must exceed before they are added to the depreciation base.
	RenovationDepreciationThreshold = 0.15
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatXLSX is the spreadsheet output format
	OutputFormatXLSX = "xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default deal file name
	DefaultConfigFile = "deal.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultXLSXFile is the default path for spreadsheet output from the CLI
	DefaultXLSXFile = "deal-analysis.xlsx"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultRequestsPerSecond is the default sustained request rate
	DefaultRequestsPerSecond = 10.0

	// DefaultRequestBurst is the default burst size of the rate limiter
	DefaultRequestBurst = 30

	// DefaultCacheTTLSeconds is the default lifetime of cached analysis results
	DefaultCacheTTLSeconds = 600
)

// Validation constants
const (
	// MaxRatePercent is the largest accepted percentage in any rate field
	MaxRatePercent = 999.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// DefaultSolverTolerance is the default convergence tolerance of the break-even solver
	DefaultSolverTolerance = 0.01

	// DefaultSolverMaxIterations bounds the bisection loop of the break-even solver
	DefaultSolverMaxIterations = 100
)
