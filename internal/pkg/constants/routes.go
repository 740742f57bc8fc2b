package constants

// Static route constants
const (
	DownloadRoute = "/download"
	PublicRoute   = "/"
	// Download path without leading slash for URL construction
	DownloadPath = "download"
)
