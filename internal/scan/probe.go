package scan

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/franz/mbtag/internal/util"
	"github.com/schollz/progressbar/v3"
)

// probeTimeout bounds a single ffprobe invocation
const probeTimeout = 10 * time.Second

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration reads the playback duration of an audio file via ffprobe.
// Returns 0 when ffprobe is unavailable or the file cannot be parsed;
// duration is an optional signal, never a hard requirement.
func ProbeDuration(ctx context.Context, path string) int64 {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		util.DebugLog("ffprobe failed for %s: %v", path, err)
		return 0
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		util.DebugLog("ffprobe output unparseable for %s: %v", path, err)
		return 0
	}

	seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil || seconds <= 0 {
		return 0
	}

	return int64(seconds * 1000)
}

// HasProbe reports whether ffprobe is available on PATH
func HasProbe() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

// ProbeDurations fills DurationMs for each file in place, showing a
// progress bar on interactive runs. Files that cannot be probed keep a
// zero duration.
func ProbeDurations(ctx context.Context, files []AudioFile) {
	if len(files) == 0 {
		return
	}

	if !HasProbe() {
		util.DebugLog("ffprobe not found, skipping duration probe")
		return
	}

	// Disable progress bar if stdout is piped/redirected
	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Probing durations"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}

	probed := 0
	for i := range files {
		files[i].DurationMs = ProbeDuration(ctx, files[i].Path)
		if files[i].DurationMs > 0 {
			probed++
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	if bar != nil {
		bar.Finish()
	}

	util.DebugLog("Probed durations for %d/%d files", probed, len(files))
}
