package upload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"dualcam/apperror"
	"dualcam/config"
	"dualcam/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Uploader pushes finished recordings and log files to S3. The busy check
// lets the server process refuse uploads that would race an in-progress
// recording; the standalone sweeper runs without one.
type Uploader struct {
	device   string
	logger   *logger.Logger
	uploader *s3manager.Uploader
	busy     func() (bool, string)

	mu          sync.Mutex
	isUploading bool
	uploadName  string
}

func NewUploader(logman *logger.Logger, device string) (*Uploader, error) {
	s3config := config.GetConfig().S3Config

	awsConfig := &aws.Config{
		Region:           aws.String(s3config.Region),
		Credentials:      credentials.NewStaticCredentials(s3config.AccessKey, s3config.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	}

	if s3config.EndpointUrl != "" {
		awsConfig.Endpoint = aws.String(s3config.EndpointUrl)
	}

	sess, err := session.NewSession(awsConfig)

	if err != nil {
		return nil, err
	}

	return &Uploader{
		device:   device,
		logger:   logman,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

// SetBusyCheck installs a callback reporting whether a recording is in
// progress and which file it writes to.
func (u *Uploader) SetBusyCheck(f func() (bool, string)) {
	u.busy = f
}

func (u *Uploader) UploadStats() (bool, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.isUploading, u.uploadName
}

func (u *Uploader) recordingInProgress() (bool, string) {
	if u.busy == nil {
		return false, ""
	}
	return u.busy()
}

func (u *Uploader) beginUpload(name string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.isUploading {
		return apperror.ServiceUnavailable.SetMessage("Cannot upload recording while another upload is in progress")
	}

	u.isUploading = true
	u.uploadName = name
	return nil
}

func (u *Uploader) endUpload() {
	u.mu.Lock()
	u.isUploading = false
	u.uploadName = ""
	u.mu.Unlock()
}

func (u *Uploader) videoKey(filename string) string {
	return fmt.Sprintf("%s/%s/videos/%s", config.GetConfig().S3Config.KeyPrefix, u.device, filename)
}

func isRecordingFile(name string) bool {
	return strings.HasSuffix(name, ".avi") || strings.HasSuffix(name, ".mp4")
}

// isInProgress matches a directory entry against the recorder's current
// file by basename, so a videos folder configured with a trailing slash
// still shields the file being written.
func isInProgress(name, inProgress string) bool {
	return inProgress != "" && name == filepath.Base(inProgress)
}

func contentType(name string) string {
	if strings.HasSuffix(name, ".mp4") {
		return "video/mp4"
	}
	return "video/x-msvideo"
}

func (u *Uploader) uploadFile(path, filename string) error {
	contents, err := os.ReadFile(path)

	if err != nil {
		u.logger.LogError(err, "Error reading file", "file_name", filename)
		return err
	}

	_, err = u.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(config.GetConfig().S3Config.Bucket),
		Key:         aws.String(u.videoKey(filename)),
		ACL:         aws.String("private"),
		Body:        bytes.NewReader(contents),
		ContentType: aws.String(contentType(filename)),
	})

	if err != nil {
		u.logger.LogError(err, "Error uploading file to S3", "file_name", filename)
		return err
	}

	u.logger.LogInfo("Successful upload to S3", "file_name", filename, "key", u.videoKey(filename))

	if err = os.Remove(path); err != nil {
		u.logger.LogError(err, "Error deleting file after upload", "file_name", filename)
		return err
	}

	return nil
}

// UploadRecording uploads a single finished recording on demand. It
// refuses while a recording or another upload is in progress.
func (u *Uploader) UploadRecording(filename string) error {
	if recording, current := u.recordingInProgress(); recording {
		u.logger.LogError(errors.New("recording in progress"), "Cannot upload recording while recording is in progress", "current_file", current)
		return apperror.ServiceUnavailable.SetMessage("Cannot upload recording while recording is in progress")
	}

	if err := u.beginUpload(filename); err != nil {
		u.logger.LogError(err, "Cannot upload recording while another upload is in progress")
		return err
	}
	defer u.endUpload()

	videosFolder := config.GetConfig().VideosFolder
	path := fmt.Sprintf("%s/%s", videosFolder, filename)
	_, err := os.Stat(path)

	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			u.logger.LogError(err, "Provided file does not exist in videos folder", "folder_name", videosFolder, "file_name", filename)
			return apperror.NotFound
		}
		u.logger.LogError(err, "Error reading file", "folder_name", videosFolder, "file_name", filename)
		return apperror.ServerError
	}

	if err := u.uploadFile(path, filename); err != nil {
		return apperror.ServerError
	}

	return nil
}

// SweepRecordings uploads every finished recording in the videos folder,
// skipping the file an in-progress recording is writing to. Failures are
// logged per file and the sweep moves on.
func (u *Uploader) SweepRecordings() error {
	if err := u.beginUpload(""); err != nil {
		u.logger.LogError(err, "Cannot sweep recordings while another upload is in progress")
		return err
	}
	defer u.endUpload()

	videosFolder := config.GetConfig().VideosFolder
	u.logger.LogInfo("Sweeping recordings to S3", "folder_name", videosFolder)

	fd, err := os.Open(videosFolder)

	if err != nil {
		u.logger.LogError(err, "Error opening videos folder", "folder_name", videosFolder)
		return apperror.ServerError
	}

	defer func() { _ = fd.Close() }()

	files, err := fd.Readdirnames(0)

	if err != nil {
		u.logger.LogError(err, "Error reading videos folder", "folder_name", videosFolder)
		return apperror.ServerError
	}

	sort.Strings(files)

	_, inProgress := u.recordingInProgress()

	for _, file := range files {
		if !isRecordingFile(file) {
			continue
		}

		if isInProgress(file, inProgress) {
			u.logger.LogInfo("Skipping in-progress recording", "file_name", file)
			continue
		}

		path := fmt.Sprintf("%s/%s", videosFolder, file)

		u.mu.Lock()
		u.uploadName = file
		u.mu.Unlock()

		_ = u.uploadFile(path, file)
	}

	return nil
}

// UploadRecordings is the on-demand variant of the sweep, refused while a
// recording is in progress.
func (u *Uploader) UploadRecordings() error {
	if recording, current := u.recordingInProgress(); recording {
		u.logger.LogError(errors.New("recording in progress"), "Cannot upload recordings while recording is in progress", "current_file", current)
		return apperror.ServiceUnavailable.SetMessage("Cannot upload recording while recording is in progress")
	}

	return u.SweepRecordings()
}

// UploadLogs ships every rotated log file to S3 and removes it locally.
// The newest file is the live log and stays put.
func (u *Uploader) UploadLogs() {
	s3config := config.GetConfig().S3Config
	logFolder := config.GetConfig().LogFolder

	u.logger.LogInfo("Uploading logs to S3", "bucket", s3config.Bucket, "folder", logFolder)

	dir, err := os.Open(logFolder)

	if err != nil {
		u.logger.LogError(err, "Error opening log folder", "folder", logFolder)
		return
	}

	defer func() { _ = dir.Close() }()

	filenames, err := dir.Readdirnames(0)

	if err != nil {
		u.logger.LogError(err, "Error reading log folder", "folder", logFolder)
		return
	}

	if len(filenames) == 0 {
		return
	}

	sort.Strings(filenames)

	filenames = filenames[:len(filenames)-1]

	for _, filename := range filenames {
		localFilename := fmt.Sprintf("%s/%s", logFolder, filename)
		f, err := os.ReadFile(localFilename)

		if err != nil {
			u.logger.LogError(err, "Error reading log file", "filename", localFilename)
			continue
		}

		_, err = u.uploader.Upload(&s3manager.UploadInput{
			Bucket:      aws.String(s3config.Bucket),
			Key:         aws.String(fmt.Sprintf("%s/%s/logs/%s", s3config.KeyPrefix, u.device, filename)),
			Body:        bytes.NewReader(f),
			ContentType: aws.String("text/plain"),
		})

		if err != nil {
			u.logger.LogError(err, "Error uploading log file", "filename", filename)
			continue
		}

		if err := os.Remove(localFilename); err != nil {
			u.logger.LogError(err, "Error removing log file", "filename", filename)
		}
	}
}
