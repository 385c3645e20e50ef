package generator

// Config describes one website-wrapping request. It is never mutated after
// validation; every derived value is a pure function of it plus the
// pipeline's creation timestamp.
type Config struct {
	WebsiteURL          string `json:"websiteUrl"`
	AppName             string `json:"appName"`
	IconData            string `json:"iconData"`
	EnableNotifications bool   `json:"enableNotifications"`
	EnableMusicControls bool   `json:"enableMusicControls"`
}

// Identity holds the identifiers derived once per build.
type Identity struct {
	BuildID     string
	PackageName string
}

// Project maps archive-relative paths to rendered file contents. The map key
// guarantees path uniqueness within the assembled archive.
type Project map[string][]byte

// Artifact is the result of a completed build.
type Artifact struct {
	BuildID     string `json:"buildId"`
	AppName     string `json:"appName"`
	PackageName string `json:"packageName"`
	DownloadURL string `json:"downloadUrl"`
}
