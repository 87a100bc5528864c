package video

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"dualcam/logger"

	"github.com/icza/mjpeg"
)

const (
	frameWidth  = 640
	frameHeight = 480
	frameRate   = 30
)

var frameInterval = time.Second / frameRate

// Camera owns one capture child process and its frame splitter. Recording
// appends the preview frames to an AVI which is remuxed to MP4 on Close.
type Camera struct {
	label    string
	device   string
	isCamUp  bool
	splitter *Splitter
	logger   *logger.Logger

	mu         sync.Mutex
	recording  bool
	recordPath string
	stopCh     chan struct{}
	doneCh     chan struct{}
}

func NewCamera(environment, label, device string, logman *logger.Logger) (*Camera, error) {
	logman.LogInfo("Starting capture process", "label", label, "device", device)

	var splitter *Splitter
	stream, err := startCapture(environment, device)
	camUp := true

	if err != nil {
		logman.LogError(err, "Failed to start capture process", "label", label, "device", device)
		camUp = false
	} else {
		splitter = NewSplitter(stream)
	}

	return &Camera{
		label:    label,
		device:   device,
		isCamUp:  camUp,
		splitter: splitter,
		logger:   logman,
	}, err
}

func startCapture(environment, device string) (io.Reader, error) {
	var cmd *exec.Cmd

	switch environment {
	case "dev":
		cmd = exec.Command("ffmpeg", "-hide_banner", "-f", "v4l2", "-framerate", "30", "-video_size", "640x480", "-i", device, "-f", "mpjpeg", "-")
	case "prod":
		cmd = exec.Command("raspivid", "-o", "-", "-t", "0", "-w", "640", "-h", "480", "-fps", "30", "-cd", "MJPEG", "-cs", device)
	default:
		return nil, fmt.Errorf("unknown environment %q", environment)
	}

	pr, _ := cmd.StdoutPipe()

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return pr, nil
}

func (c *Camera) Label() string {
	return c.label
}

func (c *Camera) Up() bool {
	return c.isCamUp
}

// LatestFrame returns the most recent complete JPEG from the capture
// stream, nil before the first frame or while the camera is down.
func (c *Camera) LatestFrame() []byte {
	if !c.isCamUp {
		return nil
	}
	return c.splitter.Frame()
}

// Open begins recording the camera's frames to path.
func (c *Camera) Open(path string) error {
	if !c.isCamUp {
		return fmt.Errorf("camera %s is not up", c.label)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recording {
		return fmt.Errorf("camera %s is already recording to %s", c.label, c.recordPath)
	}

	aw, err := mjpeg.New(path, frameWidth, frameHeight, frameRate)

	if err != nil {
		c.logger.LogError(err, "Error creating video file", "label", c.label, "path", path)
		return err
	}

	c.recording = true
	c.recordPath = path
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})

	go c.record(aw, c.stopCh, c.doneCh)

	return nil
}

func (c *Camera) record(aw mjpeg.AviWriter, stopCh, doneCh chan struct{}) {
	defer func() {
		if err := aw.Close(); err != nil {
			c.logger.LogError(err, "Error closing video file", "label", c.label)
		}
		close(doneCh)
	}()

	var previousFrame []byte
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame := c.LatestFrame()

			if len(frame) == 0 || bytes.Equal(frame, previousFrame) {
				continue
			}

			if err := aw.AddFrame(frame); err != nil {
				c.logger.LogError(err, "Error adding frame to video file", "label", c.label)
			}
			previousFrame = frame
		}
	}
}

// Close stops the recording, remuxes the file to MP4 and returns the
// finalized path. The raw AVI path is returned when the remux fails.
func (c *Camera) Close() (string, error) {
	c.mu.Lock()

	if !c.recording {
		c.mu.Unlock()
		return "", fmt.Errorf("camera %s is not recording", c.label)
	}

	path := c.recordPath
	close(c.stopCh)
	done := c.doneCh
	c.recording = false
	c.recordPath = ""
	c.mu.Unlock()

	<-done

	c.logger.LogInfo("Stopped video recording", "label", c.label, "path", path)

	final, err := Remux(path)

	if err != nil {
		c.logger.LogWarning(err, "Remux failed, keeping raw recording", "label", c.label, "path", path)
		return path, nil
	}

	return final, nil
}
