package session

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"dualcam/apperror"
	"dualcam/logger"
)

type fakeSource struct {
	openErr    error
	closeErr   error
	openedPath string
	opens      int
	closes     int
}

func (f *fakeSource) Open(path string) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.opens++
	f.openedPath = path
	return nil
}

func (f *fakeSource) Close() (string, error) {
	f.closes++
	if f.closeErr != nil {
		return "", f.closeErr
	}
	return f.openedPath, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	logman, err := logger.NewLogger(filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatal(err)
	}
	return logman
}

func newTestController(t *testing.T) (*Controller, map[string]*fakeSource) {
	t.Helper()

	fakes := map[string]*fakeSource{
		"wide":   {},
		"narrow": {},
	}
	sources := map[string]Source{
		"wide":   fakes["wide"],
		"narrow": fakes["narrow"],
	}

	ctrl, err := NewController([]string{"wide", "narrow"}, sources, t.TempDir(), testLogger(t))
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}

	return ctrl, fakes
}

func TestDefaultActiveCamera(t *testing.T) {
	ctrl, _ := newTestController(t)

	if got := ctrl.Active(); got != "wide" {
		t.Errorf("expected default active camera wide, got %q", got)
	}
}

func TestSelectValidLabels(t *testing.T) {
	ctrl, _ := newTestController(t)

	for _, label := range []string{"narrow", "wide", "narrow"} {
		active, err := ctrl.Select(label)
		if err != nil {
			t.Fatalf("Select(%q) failed: %v", label, err)
		}
		if active != label {
			t.Errorf("Select(%q) returned %q", label, active)
		}
		if got := ctrl.Active(); got != label {
			t.Errorf("Active after Select(%q) = %q", label, got)
		}
	}
}

func TestSelectUnknownLabel(t *testing.T) {
	ctrl, _ := newTestController(t)

	_, err := ctrl.Select("fisheye")
	if !errors.Is(err, apperror.InvalidCameraLabel) {
		t.Fatalf("expected InvalidCameraLabel, got %v", err)
	}

	if got := ctrl.Active(); got != "wide" {
		t.Errorf("active camera changed after failed select: %q", got)
	}
}

func TestToggleTwiceReturnsToOriginal(t *testing.T) {
	ctrl, _ := newTestController(t)

	first, err := ctrl.Toggle()
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if first != "narrow" {
		t.Errorf("expected first toggle to return narrow, got %q", first)
	}

	second, err := ctrl.Toggle()
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if second != "wide" {
		t.Errorf("expected second toggle to return wide, got %q", second)
	}
}

func TestStartRecordingTwiceFails(t *testing.T) {
	ctrl, _ := newTestController(t)

	if _, err := ctrl.StartRecording(); err != nil {
		t.Fatalf("first StartRecording failed: %v", err)
	}

	_, err := ctrl.StartRecording()
	if !errors.Is(err, apperror.AlreadyRecording) {
		t.Fatalf("expected AlreadyRecording, got %v", err)
	}
}

func TestStopRecordingWhileIdleFails(t *testing.T) {
	ctrl, _ := newTestController(t)

	_, err := ctrl.StopRecording()
	if !errors.Is(err, apperror.NotRecording) {
		t.Fatalf("expected NotRecording, got %v", err)
	}
}

func TestRecordStopScenario(t *testing.T) {
	ctrl, fakes := newTestController(t)

	active, err := ctrl.Toggle()
	if err != nil {
		t.Fatalf("Toggle failed: %v", err)
	}
	if active != "narrow" {
		t.Fatalf("expected narrow after toggle, got %q", active)
	}

	started, err := ctrl.StartRecording()
	if err != nil {
		t.Fatalf("StartRecording failed: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(started), "narrow_") {
		t.Errorf("expected file named after the narrow camera, got %q", started)
	}
	if !strings.HasSuffix(started, ".avi") {
		t.Errorf("expected .avi recording file, got %q", started)
	}

	if recording, file := ctrl.RecordingStats(); !recording || file != started {
		t.Errorf("expected recording state with file %q, got %v %q", started, recording, file)
	}

	stopped, err := ctrl.StopRecording()
	if err != nil {
		t.Fatalf("StopRecording failed: %v", err)
	}
	if stopped != started {
		t.Errorf("StopRecording returned %q, want %q", stopped, started)
	}

	if recording, file := ctrl.RecordingStats(); recording || file != "" {
		t.Errorf("expected idle state after stop, got %v %q", recording, file)
	}

	if fakes["narrow"].opens != 1 || fakes["narrow"].closes != 1 {
		t.Errorf("narrow camera opens/closes = %d/%d, want 1/1", fakes["narrow"].opens, fakes["narrow"].closes)
	}
	if fakes["wide"].opens != 0 || fakes["wide"].closes != 0 {
		t.Errorf("wide camera was touched: opens/closes = %d/%d", fakes["wide"].opens, fakes["wide"].closes)
	}
}

func TestRecordingStaysBoundToStartCamera(t *testing.T) {
	ctrl, fakes := newTestController(t)

	started, err := ctrl.StartRecording()
	if err != nil {
		t.Fatalf("StartRecording failed: %v", err)
	}

	if _, err := ctrl.Select("narrow"); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	if recording, _ := ctrl.RecordingStats(); !recording {
		t.Fatal("camera switch should not stop the recording")
	}

	stopped, err := ctrl.StopRecording()
	if err != nil {
		t.Fatalf("StopRecording failed: %v", err)
	}
	if stopped != started {
		t.Errorf("StopRecording returned %q, want %q", stopped, started)
	}

	if fakes["wide"].closes != 1 {
		t.Errorf("expected the wide camera to be closed, closes = %d", fakes["wide"].closes)
	}
	if fakes["narrow"].closes != 0 {
		t.Errorf("narrow camera was closed instead, closes = %d", fakes["narrow"].closes)
	}
}

func TestStartRecordingOpenFailure(t *testing.T) {
	ctrl, fakes := newTestController(t)
	fakes["wide"].openErr = errors.New("device busy")

	_, err := ctrl.StartRecording()
	if !errors.Is(err, apperror.DeviceUnavailable) {
		t.Fatalf("expected DeviceUnavailable, got %v", err)
	}

	if recording, file := ctrl.RecordingStats(); recording || file != "" {
		t.Errorf("failed start must leave the controller idle, got %v %q", recording, file)
	}

	fakes["wide"].openErr = nil
	if _, err := ctrl.StartRecording(); err != nil {
		t.Fatalf("StartRecording after recovery failed: %v", err)
	}
}

func TestStopRecordingCloseFailureLeavesIdle(t *testing.T) {
	ctrl, fakes := newTestController(t)
	fakes["wide"].closeErr = errors.New("remux exploded")

	if _, err := ctrl.StartRecording(); err != nil {
		t.Fatalf("StartRecording failed: %v", err)
	}

	if _, err := ctrl.StopRecording(); err == nil {
		t.Fatal("expected StopRecording to surface the close error")
	}

	if recording, _ := ctrl.RecordingStats(); recording {
		t.Error("controller must leave the recording state even when close fails")
	}
}

func TestNewControllerValidation(t *testing.T) {
	logman := testLogger(t)

	if _, err := NewController(nil, nil, t.TempDir(), logman); err == nil {
		t.Error("expected error for empty label set")
	}

	sources := map[string]Source{"wide": &fakeSource{}}
	if _, err := NewController([]string{"wide", "narrow"}, sources, t.TempDir(), logman); err == nil {
		t.Error("expected error for label without a source")
	}
}
