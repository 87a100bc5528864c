package config

type Config struct {
	Environment  string
	LogFolder    string
	VideosFolder string
	Port         string
	Cameras      []Camera
	S3Config     S3
	UploadWindow Window
}

type Camera struct {
	Label  string
	Device string
}

type S3 struct {
	AccessKey   string
	SecretKey   string
	Region      string
	Bucket      string
	EndpointUrl string
	KeyPrefix   string
}

// Window is the local-time hour range the uploader is allowed to run in.
// StartHour may be greater than EndHour for a window crossing midnight.
type Window struct {
	StartHour int
	EndHour   int
}
