package controller

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"dualcam/apperror"
	"dualcam/logger"
	"dualcam/models"
	"dualcam/web/helper"
)

// Service is what the handlers need from the application: the session
// controller operations plus the status and file management surface.
type Service interface {
	Active() string
	SelectCamera(label string) (string, error)
	ToggleCamera() (string, error)
	StartRecording() (string, error)
	StopRecording() (string, error)
	StartStream() (chan []byte, chan struct{}, error)
	ToggleStream(enable bool) bool
	FetchRecordings() ([]models.FileDetails, error)
	UploadRecording(filename string) error
	UploadRecordings() error
	AppStatus() *models.Status
}

type Controller struct {
	logger *logger.Logger
	app    Service
}

func NewController(app Service, logger *logger.Logger) *Controller {
	return &Controller{
		app:    app,
		logger: logger,
	}
}

// ShowStream serves the active camera as a multipart MJPEG stream. The
// response must never be cached: clients append a throwaway `t` query
// parameter as a cache buster, and the no-store header makes the contract
// explicit on the server side too.
func (c *Controller) ShowStream(w http.ResponseWriter, _ *http.Request) {
	frames, closeChan, err := c.app.StartStream()

	if err != nil {
		helper.ReturnFailure(w, err)
		return
	}
	defer close(closeChan)

	mimeWriter := multipart.NewWriter(w)
	w.Header().Set("Content-Type", fmt.Sprintf("multipart/x-mixed-replace; boundary=%s", mimeWriter.Boundary()))
	w.Header().Set("Cache-Control", "no-store")
	partHeader := make(textproto.MIMEHeader)
	partHeader.Add("Content-Type", "image/jpeg")

	for frame := range frames {
		if len(frame) == 0 {
			continue
		}
		part, err := mimeWriter.CreatePart(partHeader)
		if err != nil {
			c.logger.LogError(err, "Error creating part")
			return
		}

		_, err = part.Write(frame)

		if err != nil {
			c.logger.LogError(err, "Error writing frame")
			continue
		}

		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

func (c *Controller) StartRecording(w http.ResponseWriter, _ *http.Request) {
	c.logger.LogInfo("start recording request received")

	file, err := c.app.StartRecording()

	if err != nil {
		c.logger.LogError(err, "Error starting recording")
		helper.ReturnFailure(w, err)
		return
	}

	helper.ReturnSuccess(w, models.RecordingFile{File: file})
}

func (c *Controller) StopRecording(w http.ResponseWriter, _ *http.Request) {
	c.logger.LogInfo("stop recording request received")

	file, err := c.app.StopRecording()

	if err != nil {
		c.logger.LogError(err, "Error stopping recording")
		helper.ReturnFailure(w, err)
		return
	}

	helper.ReturnSuccess(w, models.RecordingFile{File: file})
}

func (c *Controller) ToggleCamera(w http.ResponseWriter, _ *http.Request) {
	c.logger.LogInfo("toggle camera request received")

	active, err := c.app.ToggleCamera()

	if err != nil {
		helper.ReturnFailure(w, err)
		return
	}

	helper.ReturnSuccess(w, models.ActiveCamera{Active: active})
}

func (c *Controller) SelectCamera(w http.ResponseWriter, r *http.Request) {
	p := struct {
		Label string `json:"label"`
	}{}

	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		c.logger.LogError(err, "Error getting camera label from request")
		helper.ReturnFailure(w, apperror.InvalidRequest)
		return
	}

	active, err := c.app.SelectCamera(p.Label)

	if err != nil {
		c.logger.LogError(err, "Error selecting camera", "label", p.Label)
		helper.ReturnFailure(w, err)
		return
	}

	helper.ReturnSuccess(w, models.ActiveCamera{Active: active})
}

// ToggleStream pauses or resumes the preview without tearing down open
// stream connections.
func (c *Controller) ToggleStream(w http.ResponseWriter, r *http.Request) {
	p := struct {
		Enable bool `json:"enable"`
	}{}

	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		c.logger.LogError(err, "Error getting stream state from request")
		helper.ReturnFailure(w, apperror.InvalidRequest)
		return
	}

	enabled := c.app.ToggleStream(p.Enable)

	helper.ReturnSuccess(w, models.StreamState{StreamEnabled: enabled})
}

func (c *Controller) UploadFile(w http.ResponseWriter, r *http.Request) {
	c.logger.LogInfo("upload file request received")

	file := struct {
		FileName string `json:"fileName"`
	}{}

	if err := json.NewDecoder(r.Body).Decode(&file); err != nil {
		helper.ReturnFailure(w, apperror.InvalidRequest)
		return
	}

	if err := c.app.UploadRecording(file.FileName); err != nil {
		helper.ReturnFailure(w, err)
		return
	}

	helper.ReturnSuccess(w, nil)
}

func (c *Controller) ListFiles(w http.ResponseWriter, _ *http.Request) {
	c.logger.LogInfo("list files request received")

	files, err := c.app.FetchRecordings()

	if err != nil {
		helper.ReturnFailure(w, err)
		return
	}

	helper.ReturnSuccess(w, files)
}

func (c *Controller) UploadAllFiles(w http.ResponseWriter, _ *http.Request) {
	c.logger.LogInfo("upload all files request received")
	err := c.app.UploadRecordings()

	if err != nil {
		helper.ReturnFailure(w, err)
		return
	}

	helper.ReturnSuccess(w, nil)
}

func (c *Controller) DeviceStatus(w http.ResponseWriter, _ *http.Request) {
	c.logger.LogInfo("fetching device status")
	helper.ReturnSuccess(w, c.app.AppStatus())
}
