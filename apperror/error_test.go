package apperror

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorKindsAreDistinguishable(t *testing.T) {
	if errors.Is(AlreadyRecording, NotRecording) {
		t.Error("AlreadyRecording must not match NotRecording")
	}
	if !errors.Is(AlreadyRecording, AlreadyRecording) {
		t.Error("AlreadyRecording must match itself")
	}
}

func TestSetMessageKeepsIdentity(t *testing.T) {
	err := DeviceUnavailable.SetMessage("camera wide is not up")

	if !errors.Is(err, DeviceUnavailable) {
		t.Error("derived error lost its identity")
	}

	code, msg := err.StatusAndMessage()
	if code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", code)
	}
	if msg != "camera wide is not up" {
		t.Errorf("message = %q", msg)
	}
}

func TestErrorString(t *testing.T) {
	if InvalidCameraLabel.Error() != "Unknown Camera Label" {
		t.Errorf("Error() = %q", InvalidCameraLabel.Error())
	}
}
