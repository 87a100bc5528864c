package app

import (
	"bytes"
	"errors"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"dualcam/app/session"
	"dualcam/app/upload"
	"dualcam/app/video"
	"dualcam/apperror"
	"dualcam/config"
	"dualcam/logger"
	"dualcam/models"

	"golang.org/x/sys/unix"
)

type App struct {
	cameras       map[string]*video.Camera
	session       *session.Controller
	uploader      *upload.Uploader
	logger        *logger.Logger
	streamEnabled atomic.Bool
}

func NewApp(logman *logger.Logger) (*App, error) {
	cfg := config.GetConfig()

	logman.LogInfo("Checking if videos folder exists.....")
	if _, err := os.Stat(cfg.VideosFolder); err != nil {
		logman.LogWarning(err, "videos folder doesn't exist, creating it .......")
		if err = os.MkdirAll(cfg.VideosFolder, 0755); err != nil {
			logman.LogError(err, "Failed to create videos folder")
			return nil, err
		}
	}

	cameras := make(map[string]*video.Camera)
	sources := make(map[string]session.Source)
	var labels []string
	anyCamUp := false

	for _, camCfg := range cfg.Cameras {
		logman.LogInfo("Initializing camera", "label", camCfg.Label, "device", camCfg.Device)
		cam, err := video.NewCamera(cfg.Environment, camCfg.Label, camCfg.Device, logman)

		if err != nil {
			logman.LogError(err, "Error initializing camera", "label", camCfg.Label)
		}

		if cam.Up() {
			anyCamUp = true
		}

		cameras[camCfg.Label] = cam
		sources[camCfg.Label] = cam
		labels = append(labels, camCfg.Label)
	}

	ctrl, err := session.NewController(labels, sources, cfg.VideosFolder, logman)

	if err != nil {
		logman.LogError(err, "Error creating session controller")
		return nil, err
	}

	logman.LogInfo("Initializing uploader")
	uploader, err := upload.NewUploader(logman, upload.DeviceName())

	if err != nil {
		logman.LogError(err, "Error initializing uploader")
	}

	if !anyCamUp && uploader == nil {
		err := errors.New("error initializing cameras and uploader")
		logman.LogError(err, "Error initializing cameras and uploader")
		return nil, err
	}

	if uploader != nil {
		uploader.SetBusyCheck(ctrl.RecordingStats)
		uploader.UploadLogs()
	}

	a := &App{
		cameras:  cameras,
		session:  ctrl,
		uploader: uploader,
		logger:   logman,
	}
	a.streamEnabled.Store(true)

	return a, nil
}

func (a *App) Active() string {
	return a.session.Active()
}

func (a *App) SelectCamera(label string) (string, error) {
	return a.session.Select(label)
}

func (a *App) ToggleCamera() (string, error) {
	return a.session.Toggle()
}

func (a *App) StartRecording() (string, error) {
	return a.session.StartRecording()
}

func (a *App) StopRecording() (string, error) {
	return a.session.StopRecording()
}

// StartStream fans out the active camera's frames. The active label is
// re-read on every tick, so a select or toggle shows up in the stream
// without the client reconnecting.
func (a *App) StartStream() (chan []byte, chan struct{}, error) {
	label := a.session.Active()

	if cam, ok := a.cameras[label]; !ok || !cam.Up() {
		err := apperror.DeviceUnavailable.SetMessage("active camera is not up")
		a.logger.LogError(err, "Error starting camera stream", "label", label)
		return nil, nil, err
	}

	a.logger.LogInfo("Starting video stream", "label", label)
	streamChan := make(chan []byte, 64)
	closeChan := make(chan struct{})

	go func() {
		var previousFrame []byte
		ticker := time.NewTicker(time.Second / 30)
		defer ticker.Stop()

		for {
			select {
			case <-closeChan:
				a.logger.LogInfo("Closing video stream")
				close(streamChan)
				return
			case <-ticker.C:
				if !a.streamEnabled.Load() {
					continue
				}

				cam, ok := a.cameras[a.session.Active()]

				if !ok || !cam.Up() {
					continue
				}

				frame := cam.LatestFrame()

				if len(frame) == 0 || bytes.Equal(frame, previousFrame) {
					continue
				}

				select {
				case streamChan <- frame:
					previousFrame = frame
				default:
				}
			}
		}
	}()

	return streamChan, closeChan, nil
}

// ToggleStream pauses or resumes the preview fan-out. Open stream
// connections stay up and simply stop receiving frames while paused;
// recording is unaffected.
func (a *App) ToggleStream(enable bool) bool {
	a.streamEnabled.Store(enable)
	a.logger.LogInfo("Stream toggled", "enabled", strconv.FormatBool(enable))
	return enable
}

func (a *App) UploadRecording(filename string) error {
	if a.uploader == nil {
		return apperror.ServiceUnavailable.SetMessage("uploader is not configured")
	}
	return a.uploader.UploadRecording(filename)
}

func (a *App) UploadRecordings() error {
	if a.uploader == nil {
		return apperror.ServiceUnavailable.SetMessage("uploader is not configured")
	}
	return a.uploader.UploadRecordings()
}

func (a *App) FetchRecordings() ([]models.FileDetails, error) {
	videosFolder := config.GetConfig().VideosFolder
	a.logger.LogInfo("Fetching available recordings", "folder_name", videosFolder)

	fd, err := os.Open(videosFolder)

	if err != nil {
		a.logger.LogError(err, "Error opening videos folder", "folder_name", videosFolder)
		return nil, apperror.ServerError
	}

	defer func() { _ = fd.Close() }()

	files, err := fd.Readdirnames(0)

	if err != nil {
		a.logger.LogError(err, "Error reading videos folder", "folder_name", videosFolder)
		return nil, apperror.ServerError
	}

	recording, currentFile := a.session.RecordingStats()

	var uploading bool
	var uploadName string
	if a.uploader != nil {
		uploading, uploadName = a.uploader.UploadStats()
	}

	var fileDetails []models.FileDetails

	for _, file := range files {
		if !isRecording(file) {
			continue
		}

		fileDetail := models.FileDetails{
			Filename: file,
		}

		if recording && currentFile != "" && file == baseName(currentFile) {
			fileDetail.Recording = true
		} else if uploading && file == uploadName {
			fileDetail.Uploading = true
		}

		fileDetails = append(fileDetails, fileDetail)
	}

	return fileDetails, nil
}

func (a *App) AppStatus() *models.Status {
	var stat unix.Statfs_t
	recordStat, _ := a.session.RecordingStats()

	var uploadStat bool
	if a.uploader != nil {
		uploadStat, _ = a.uploader.UploadStats()
	}

	camerasUp := make(map[string]bool, len(a.cameras))
	for _, cam := range a.cameras {
		camerasUp[cam.Label()] = cam.Up()
	}

	status := &models.Status{
		CamerasUp: camerasUp,
		Active:    a.session.Active(),
		Recording: recordStat,
		Uploading: uploadStat,
	}

	if err := unix.Statfs(config.GetConfig().VideosFolder, &stat); err != nil {
		a.logger.LogError(err, "Error getting disk usage")
		return status
	}

	availableBlocks := float64(stat.Bavail) * float64(stat.Bsize)
	totalBlocks := float64(stat.Blocks) * float64(stat.Bsize)

	if totalBlocks > 0 {
		used := (100 - ((availableBlocks / totalBlocks) * 100)) / 100
		status.DiskUsage = float32(truncate(used, 0.01))
	}

	return status
}
