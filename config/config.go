package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var Conf Config

func Load() {
	var err error

	_, err = os.Stat(".env")

	if err != nil {
		log.Println(".env file does not exist\nReading from the environment directly")
	} else {
		err = godotenv.Load(".env")

		if err != nil {
			log.Fatal(err)
		}
	}

	Conf = Config{
		Environment:  os.Getenv("ENVIRONMENT"),
		LogFolder:    os.Getenv("LOG_FOLDER"),
		VideosFolder: os.Getenv("VIDEOS_FOLDER"),
		Cameras:      parseCameras(os.Getenv("CAMERA_LABELS"), os.Getenv("CAMERA_DEVICES")),
		S3Config: S3{
			Bucket:      os.Getenv("S3_BUCKET_NAME"),
			AccessKey:   os.Getenv("S3_ACCESS_KEY"),
			SecretKey:   os.Getenv("S3_SECRET_KEY"),
			Region:      os.Getenv("S3_REGION"),
			EndpointUrl: os.Getenv("S3_ENDPOINT_URL"),
			KeyPrefix:   envOrDefault("S3_KEY_PREFIX", "audit-cams"),
		},
		UploadWindow: Window{
			StartHour: envHour("UPLOAD_WINDOW_START", 20),
			EndHour:   envHour("UPLOAD_WINDOW_END", 4),
		},
		Port: envOrDefault("PORT", "8080"),
	}
}

func GetConfig() Config {
	return Conf
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envHour(key string, fallback int) int {
	v := os.Getenv(key)

	if v == "" {
		return fallback
	}

	hour, err := strconv.Atoi(v)

	if err != nil || hour < 0 || hour > 23 {
		log.Printf("invalid hour %q for %s, using %d", v, key, fallback)
		return fallback
	}

	return hour
}

// parseCameras pairs comma-separated labels with devices by position. The
// first label is the default active camera.
func parseCameras(labels, devices string) []Camera {
	if labels == "" {
		labels = "wide,narrow"
	}

	if devices == "" {
		devices = "/dev/video0,/dev/video1"
	}

	labelList := strings.Split(labels, ",")
	deviceList := strings.Split(devices, ",")

	var cameras []Camera

	for i, label := range labelList {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}

		cam := Camera{Label: label}

		if i < len(deviceList) {
			cam.Device = strings.TrimSpace(deviceList[i])
		}

		cameras = append(cameras, cam)
	}

	return cameras
}
