package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the per-call timeout applied to every remote request.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "drivenote/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RemoteConfig holds settings for the Drive and Docs clients.
type RemoteConfig struct {
	HTTPConfig `yaml:",inline"`

	// FolderName is the Drive folder new documents are created in (default "DriveNote").
	FolderName string `json:"folder_name" yaml:"folder_name"`

	// DefaultTitle names remote documents whose local title is empty (default "MyDocument").
	DefaultTitle string `json:"default_title" yaml:"default_title"`

	// MaxReadRetries bounds 429 retries on read-only calls. Mutations never retry.
	MaxReadRetries int `json:"max_read_retries" yaml:"max_read_retries"`
}

// StoreConfig holds settings for the local document store.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database.
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// MarkupConfig controls how local HTML is turned into a node tree.
type MarkupConfig struct {
	// Sanitize drops scripts, styles and unsafe image URLs before parsing.
	// Off by default; element structure is kept either way.
	Sanitize bool `json:"sanitize" yaml:"sanitize"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// JWTSecret verifies bearer tokens. Loaded from .secrets/jwt-secret when empty.
	JWTSecret string `json:"jwt_secret,omitempty" yaml:"jwt_secret,omitempty"`

	// ReadTimeout and WriteTimeout bound request handling.
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	Remote RemoteConfig `json:"remote" yaml:"remote"`
	Store  StoreConfig  `json:"store" yaml:"store"`
	Markup MarkupConfig `json:"markup" yaml:"markup"`
	Server ServerConfig `json:"server" yaml:"server"`
}
