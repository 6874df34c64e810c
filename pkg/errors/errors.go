package errors

import "fmt"

// Common error types.
var (
	// Request validation errors.
	ErrNoPackagesRequested = fmt.Errorf("no packages requested")
	ErrUnknownPackageKind  = fmt.Errorf("unknown package kind")

	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")

	// Cache errors.
	ErrCacheDirectory = fmt.Errorf("cache directory cannot be empty")

	// External command errors.
	ErrCommandFailed = fmt.Errorf("command failed")
	ErrSudoRequired  = fmt.Errorf("operation requires root privileges")

	// Download errors.
	ErrInvalidPath      = fmt.Errorf("invalid path")
	ErrDownloadFailed   = fmt.Errorf("download failed")
	ErrFileHashMismatch = fmt.Errorf("file hash mismatch")

	// Build errors.
	ErrBuildFailed = fmt.Errorf("package build failed")
	ErrNoArtifacts = fmt.Errorf("build produced no artifacts")

	// Resolution errors.
	ErrResolution = fmt.Errorf("package resolution failed")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
