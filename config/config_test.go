package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CAMERA_LABELS", "")
	t.Setenv("CAMERA_DEVICES", "")
	t.Setenv("PORT", "")
	t.Setenv("UPLOAD_WINDOW_START", "")
	t.Setenv("UPLOAD_WINDOW_END", "")
	t.Setenv("S3_KEY_PREFIX", "")

	Load()
	cfg := GetConfig()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}

	if len(cfg.Cameras) != 2 {
		t.Fatalf("expected 2 default cameras, got %d", len(cfg.Cameras))
	}
	if cfg.Cameras[0].Label != "wide" || cfg.Cameras[0].Device != "/dev/video0" {
		t.Errorf("first camera = %+v, want wide on /dev/video0", cfg.Cameras[0])
	}
	if cfg.Cameras[1].Label != "narrow" || cfg.Cameras[1].Device != "/dev/video1" {
		t.Errorf("second camera = %+v, want narrow on /dev/video1", cfg.Cameras[1])
	}

	if cfg.UploadWindow.StartHour != 20 || cfg.UploadWindow.EndHour != 4 {
		t.Errorf("upload window = %+v, want 20-4", cfg.UploadWindow)
	}

	if cfg.S3Config.KeyPrefix != "audit-cams" {
		t.Errorf("KeyPrefix = %q, want audit-cams", cfg.S3Config.KeyPrefix)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CAMERA_LABELS", "front, back ,side")
	t.Setenv("CAMERA_DEVICES", "/dev/video2,/dev/video3")
	t.Setenv("PORT", "9090")
	t.Setenv("UPLOAD_WINDOW_START", "22")
	t.Setenv("UPLOAD_WINDOW_END", "6")
	t.Setenv("S3_BUCKET_NAME", "recordings-bucket")

	Load()
	cfg := GetConfig()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}

	if len(cfg.Cameras) != 3 {
		t.Fatalf("expected 3 cameras, got %d", len(cfg.Cameras))
	}
	if cfg.Cameras[1].Label != "back" || cfg.Cameras[1].Device != "/dev/video3" {
		t.Errorf("second camera = %+v, want back on /dev/video3", cfg.Cameras[1])
	}
	if cfg.Cameras[2].Label != "side" || cfg.Cameras[2].Device != "" {
		t.Errorf("third camera = %+v, want side with no device", cfg.Cameras[2])
	}

	if cfg.UploadWindow.StartHour != 22 || cfg.UploadWindow.EndHour != 6 {
		t.Errorf("upload window = %+v, want 22-6", cfg.UploadWindow)
	}

	if cfg.S3Config.Bucket != "recordings-bucket" {
		t.Errorf("Bucket = %q, want recordings-bucket", cfg.S3Config.Bucket)
	}
}

func TestLoadRejectsInvalidHours(t *testing.T) {
	t.Setenv("UPLOAD_WINDOW_START", "25")
	t.Setenv("UPLOAD_WINDOW_END", "noon")

	Load()
	cfg := GetConfig()

	if cfg.UploadWindow.StartHour != 20 || cfg.UploadWindow.EndHour != 4 {
		t.Errorf("upload window = %+v, want defaults 20-4", cfg.UploadWindow)
	}
}
