package session

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"dualcam/apperror"
	"dualcam/logger"
)

// Source is a camera the controller can record from. Open starts writing
// frames to the given path; Close finalizes the file and returns the path
// of the finished artifact.
type Source interface {
	Open(path string) error
	Close() (string, error)
}

// Controller tracks which camera is active and whether a recording is in
// progress. All transitions happen under one mutex so concurrent requests
// can never double-open a recorder. A recording stays bound to the camera
// it started on even if the active camera changes before the stop.
type Controller struct {
	sources   map[string]Source
	labels    []string
	videosDir string
	logger    *logger.Logger
	now       func() time.Time

	mu             sync.Mutex
	active         string
	recording      bool
	recordingLabel string
	currentFile    string
}

func NewController(labels []string, sources map[string]Source, videosDir string, logman *logger.Logger) (*Controller, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no camera labels configured")
	}

	for _, label := range labels {
		if _, ok := sources[label]; !ok {
			return nil, fmt.Errorf("no source configured for camera %q", label)
		}
	}

	return &Controller{
		sources:   sources,
		labels:    labels,
		videosDir: videosDir,
		logger:    logman,
		now:       time.Now,
		active:    labels[0],
	}, nil
}

// Active returns the label of the currently selected camera.
func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Select switches the active camera and returns the new label. Recording
// state is untouched: an in-progress recording keeps writing from the
// camera it started on.
func (c *Controller) Select(label string) (string, error) {
	if _, ok := c.sources[label]; !ok {
		c.logger.LogWarning(apperror.InvalidCameraLabel, "Select with unknown camera label", "label", label)
		return "", apperror.InvalidCameraLabel
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.active = label
	c.logger.LogInfo("Active camera selected", "label", label)

	return c.active, nil
}

// Toggle cycles to the next configured camera and returns the new label.
// With the usual two-camera setup this flips between them.
func (c *Controller) Toggle() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := 0
	for i, label := range c.labels {
		if label == c.active {
			idx = i
			break
		}
	}

	c.active = c.labels[(idx+1)%len(c.labels)]
	c.logger.LogInfo("Active camera toggled", "label", c.active)

	return c.active, nil
}

// StartRecording opens the active camera's recorder against a fresh
// timestamped file and returns its path.
func (c *Controller) StartRecording() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recording {
		c.logger.LogWarning(apperror.AlreadyRecording, "Start requested while already recording", "file", c.currentFile)
		return "", apperror.AlreadyRecording
	}

	label := c.active
	path := filepath.Join(c.videosDir, fmt.Sprintf("%s_%s.avi", label, c.now().Format("20060102_150405")))

	if err := c.sources[label].Open(path); err != nil {
		c.logger.LogError(err, "Error opening recorder", "label", label, "path", path)
		return "", apperror.DeviceUnavailable.SetMessage(err.Error())
	}

	c.recording = true
	c.recordingLabel = label
	c.currentFile = path
	c.logger.LogInfo("Recording started", "label", label, "path", path)

	return path, nil
}

// StopRecording closes the in-progress recording and returns the finalized
// file path. The session leaves the recording state even when finalizing
// fails, so a stuck recorder cannot wedge the controller.
func (c *Controller) StopRecording() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.recording {
		c.logger.LogWarning(apperror.NotRecording, "Stop requested while idle")
		return "", apperror.NotRecording
	}

	label := c.recordingLabel
	c.recording = false
	c.recordingLabel = ""
	c.currentFile = ""

	final, err := c.sources[label].Close()

	if err != nil {
		c.logger.LogError(err, "Error finalizing recording", "label", label)
		return "", apperror.ServerError.SetMessage(err.Error())
	}

	c.logger.LogInfo("Recording stopped", "label", label, "path", final)

	return final, nil
}

// RecordingStats reports whether a recording is in progress and the file
// it is writing to.
func (c *Controller) RecordingStats() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording, c.currentFile
}
