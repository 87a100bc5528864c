package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"time"

	"dualcam/app/upload"
	"dualcam/config"
	"dualcam/logger"
)

// The uploader runs as its own process on a wall-clock schedule: inside
// the configured nightly window it sweeps finished recordings to S3, and
// outside it sleeps an hour and rechecks. It shares nothing with the
// camera server.
func main() {
	user := flag.String("user", "", "device username, derived from the hardware serial when empty")
	password := flag.String("password", "", "device password, derived from the username when empty")
	once := flag.Bool("once", false, "run a single sweep regardless of the upload window and exit")
	flag.Parse()

	config.Load()

	logfile := fmt.Sprintf("s3uploader_logs_%s.log", time.Now().Format("2006-01-02_15:04:05"))
	logman, err := logger.NewLogger(fmt.Sprintf("%s/%s", config.GetConfig().LogFolder, logfile))

	if err != nil {
		log.Fatal(err)
	}

	device, devicePassword := upload.ResolveDevice(*user, *password)

	logman.LogInfo("Starting uploader", "device", device, "password_set", strconv.FormatBool(devicePassword != ""))

	uploader, err := upload.NewUploader(logman, device)

	if err != nil {
		logman.LogError(err, "Error creating uploader")
		log.Fatal(err)
	}

	if *once {
		if err := uploader.SweepRecordings(); err != nil {
			logman.LogError(err, "Error sweeping recordings")
		}
		return
	}

	window := upload.Window{
		Start: config.GetConfig().UploadWindow.StartHour,
		End:   config.GetConfig().UploadWindow.EndHour,
	}

	sched := upload.NewScheduler(window, uploader.SweepRecordings, logman)
	sched.Run(make(chan struct{}))
}
