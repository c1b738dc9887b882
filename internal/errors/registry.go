package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Session Errors (E010-E019)
	// ============================================

	"E010": {
		Category: CategorySession,
		Message:  "Session not found",
		Detail:   "The session ID is invalid or the session has expired. Reload the page to start a new selection.",
	},

	// ============================================
	// Request Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryRequest,
		Message:  "Malformed batch",
		Detail:   "The picker or drop event did not carry a readable multipart body.",
	},
	"E061": {
		Category: CategoryRequest,
		Message:  "Batch too large",
		Detail:   "The event body exceeded the staging limit before the widget could validate it.",
	},
	"E062": {
		Category: CategoryRequest,
		Message:  "Unknown tab or domain",
		Detail:   "Only \"file\" and \"image\" are recognized.",
	},
	"E063": {
		Category: CategoryRequest,
		Message:  "Invalid selection index",
		Detail:   "The index does not address an entry of the selection list.",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid file size limit",
		Detail:   "fileSize is the per-file limit in MiB and must be greater than zero.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "Port must be between 0 and 65535.",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid reject policy",
		Detail:   "rejectPolicy must be \"keep\" or \"drop\".",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Invalid storage backend",
		Detail:   "storage.backend must be \"memory\", \"disk\" or \"s3\".",
	},
	"E125": {
		Category: CategoryConfig,
		Message:  "Staging limit below file size",
		Detail:   "storage.maxFileSize and storage.maxRequestSize must fit a file of widget.fileSize.",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No dropzone.json was found.",
	},

	// ============================================
	// Storage Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryStorage,
		Message:  "Staging store unavailable",
		Detail:   "The staging backend could not be initialized.",
	},
	"E161": {
		Category: CategoryStorage,
		Message:  "S3 bucket not configured",
		Detail:   "storage.s3.bucket is required when storage.backend is \"s3\".",
	},

	// ============================================
	// CLI Errors (E180-E199)
	// ============================================

	"E180": {
		Category: CategoryCLI,
		Message:  "File not readable",
		Detail:   "A file passed on the command line could not be inspected.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
