package surver

// Protocol-level constants, mirrored from the reference server's header
// and token defaults (surver/src/server.rs).
const (
	HeaderServer         = "Server"
	HeaderServerValue    = "Surfer"
	HeaderWellenVersion  = "X-Wellen-Version"
	HeaderSurferVersion  = "X-Surfer-Version"
	HeaderCacheControl   = "Cache-Control"
	CacheControlNoCache  = "no-cache"
	ContentTypeJSON      = "application/json"
	ContentTypeOctet     = "application/octet-stream"
	ContentTypeHTML      = "text/html; charset=utf-8"
	WellenVersion        = "0.0.0-surfer-sub001"
	SurferVersion        = "0.0.0-surfer-sub001"
	MinTokenLen          = 8
	RandomTokenLen       = 24
	statusPollIntervalMs = 250
)
