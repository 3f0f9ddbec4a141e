package types

import "time"

// Default locations. They match the layout the hash test suites expect.
const (
	DefaultInput       = "SHA256LongMsg.rsp"
	DefaultMessagesDir = "messages"
	DefaultHashesDir   = "hashes"
	DefaultCatalogDir  = "catalog"
)

// ExtractConfig holds settings for the extract stage.
type ExtractConfig struct {
	// Input is the path of the CAVP response file.
	Input string `json:"input" yaml:"input"`

	// OutDir is the directory that contains messages/ and hashes/ (default ".").
	// Both subdirectories must already exist.
	OutDir string `json:"out" yaml:"out"`

	// SizesFile, when set, receives one Len value per line in vector order.
	SizesFile string `json:"sizes_file,omitempty" yaml:"sizes_file,omitempty"`
}

// VerifyConfig holds settings for the verify stage.
type VerifyConfig struct {
	// OutDir is the directory that contains messages/ and hashes/.
	OutDir string `json:"out" yaml:"out"`

	// Limit stops verification after this many vectors (0 = all).
	Limit int `json:"limit" yaml:"limit"`
}

// CatalogConfig holds settings for the vector catalog.
type CatalogConfig struct {
	// Dir contains vectors.db and the export files.
	Dir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default query limit (default 100).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// FetchConfig holds settings for downloading a response file.
type FetchConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 (0 = package default).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}
