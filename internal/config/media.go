package config

// MediaConfig defines settings for the hosted media store that receives
// project attachments. Any S3-compatible endpoint works; objects are
// addressed by bucket and key and served from PublicBaseURL.
type MediaConfig struct {
	Endpoint      string // S3-compatible endpoint URL
	Region        string // bucket region
	Bucket        string // bucket holding project media
	AccessKey     string // static access key id
	SecretKey     string // static secret access key
	PublicBaseURL string // base URL under which uploaded objects are public
}

// LoadMediaConfig reads media store settings from the environment. Enabled
// reports false when no endpoint is configured; media upload endpoints then
// reject requests instead of failing mid-upload.
func LoadMediaConfig() MediaConfig {
	return MediaConfig{
		Endpoint:      envStr("MEDIA_S3_ENDPOINT", ""),
		Region:        envStr("MEDIA_S3_REGION", "us-east-1"),
		Bucket:        envStr("MEDIA_S3_BUCKET", "portapro-media"),
		AccessKey:     envStr("MEDIA_S3_ACCESS_KEY", ""),
		SecretKey:     envStr("MEDIA_S3_SECRET_KEY", ""),
		PublicBaseURL: envStr("MEDIA_PUBLIC_BASE_URL", ""),
	}
}

// Enabled reports whether a media store endpoint has been configured.
func (m MediaConfig) Enabled() bool { return m.Endpoint != "" }
