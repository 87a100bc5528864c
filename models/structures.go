package models

type Status struct {
	CamerasUp map[string]bool `json:"camerasUp"`
	Active    string          `json:"active"`
	Recording bool            `json:"isRecording"`
	Uploading bool            `json:"isUploading"`
	DiskUsage float32         `json:"diskUsage"`
}

type FileDetails struct {
	Filename  string `json:"filename"`
	Uploading bool   `json:"isUploading"`
	Recording bool   `json:"isRecording"`
}

type RecordingFile struct {
	File string `json:"file"`
}

type ActiveCamera struct {
	Active string `json:"active"`
}

type StreamState struct {
	StreamEnabled bool `json:"stream_enabled"`
}
