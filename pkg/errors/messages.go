package errors

import (
	"fmt"
	"strings"
)

// FormatUserError returns a user-friendly error message with actionable guidance.
// It examines the error chain and provides context-appropriate help text.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	if Is(err, ErrEmptyQuery) {
		return "Please enter a search term.\n\nUsage: seek search <term>"
	}

	// Check for ConfigError
	var configErr *ConfigError
	if As(err, &configErr) {
		return formatConfigError(configErr)
	}

	// Check for StorageError
	var storageErr *StorageError
	if As(err, &storageErr) {
		return formatStorageError(storageErr)
	}

	// Check for SearchError
	var searchErr *SearchError
	if As(err, &searchErr) {
		return formatSearchError(searchErr)
	}

	// Default: return the error message as-is
	return err.Error()
}

// formatConfigError formats a ConfigError with actionable guidance.
func formatConfigError(err *ConfigError) string {
	var b strings.Builder

	if err.Field != "" {
		fmt.Fprintf(&b, "Configuration error in '%s': %s\n", err.Field, err.Message)
	} else {
		fmt.Fprintf(&b, "Configuration error: %s\n", err.Message)
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Check your config file: ~/.config/seek/config.toml\n")
	b.WriteString("  • Run 'seek config show' to inspect the effective settings\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatStorageError formats a StorageError with actionable guidance.
func formatStorageError(err *StorageError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Could not %s search history (%s): %s\n", err.Operation, err.Backend, err.Message)

	b.WriteString("\nTo fix this:\n")
	if err.Path != "" {
		fmt.Fprintf(&b, "  • Check that %s is writable\n", err.Path)
	}
	b.WriteString("  • Set history.path in your config to a different location\n")
	b.WriteString("  • History from this run was not kept; nothing will be retried\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatSearchError formats a SearchError with actionable guidance.
func formatSearchError(err *SearchError) string {
	var b strings.Builder

	if err.Engine != "" {
		fmt.Fprintf(&b, "Search error during %s (%s): %s\n", err.Operation, err.Engine, err.Message)
	} else {
		fmt.Fprintf(&b, "Search error during %s: %s\n", err.Operation, err.Message)
	}

	switch err.Operation {
	case "resolve":
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Pick one of the known engines listed above\n")
		b.WriteString("  • Add the engine under [search.engines] in your config\n")
	case "open":
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Make sure a default browser is configured (xdg-open, open)\n")
		b.WriteString("  • Or run with --no-browser to print the URL instead\n")
	}

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}
