package video

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Remux repackages a finished recording into an MP4 container without
// re-encoding and removes the source on success. The source path is
// returned unchanged when ffmpeg fails, so a recording is never lost to a
// missing ffmpeg install.
func Remux(src string) (string, error) {
	dst := strings.TrimSuffix(src, filepath.Ext(src)) + ".mp4"

	cmd := exec.Command("ffmpeg", "-y", "-loglevel", "error", "-r", "30", "-i", src, "-c", "copy", dst)

	if err := cmd.Run(); err != nil {
		return src, err
	}

	_ = os.Remove(src)

	return dst, nil
}
