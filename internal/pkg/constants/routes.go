package constants

// Static route constants
const (
	PublicRoute   = "/"
	PlansRoute    = "/plans"
	DownloadRoute = "/download"
	UploadsRoute  = "/uploads"
	AdminRoute    = "/admin"
	// Upload path without leading slash for storage name construction
	UploadsPath = "uploads"
)
