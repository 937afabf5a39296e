package splitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"splitter/command"
	"splitter/command/commandtest"
	"splitter/command/segment"
	"splitter/ffprobe"
	"splitter/models"
	"splitter/picker"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTools scripts ffprobe and ffmpeg. ffmpeg writes its destination file
// unless the segment index is listed in failOn.
type fakeTools struct {
	duration string
	bitrate  string
	audio    string
	probeErr error
	failOn   map[int]bool
}

func (f *fakeTools) handler(name string, args []string) (command.Result, error) {
	switch name {
	case "ffprobe":
		if f.probeErr != nil {
			return command.Result{}, f.probeErr
		}
		streams := fmt.Sprintf(`{"codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "bit_rate": %q}`, f.bitrate)
		if f.audio != "" {
			streams += fmt.Sprintf(`, {"codec_type": "audio", "codec_name": %q}`, f.audio)
		}
		out := fmt.Sprintf(`{"streams": [%s], "format": {"duration": %q, "bit_rate": "N/A"}}`, streams, f.duration)
		return command.Result{Stdout: []byte(out)}, nil

	case "ffmpeg":
		dst := args[len(args)-1]
		var index int
		fmt.Sscanf(filepath.Base(dst), "segment_%d", &index)
		if f.failOn[index] {
			return command.Result{}, commandtest.Fail(name, args, 1, fmt.Sprintf("segment %d: Invalid data found when processing input", index))
		}
		if err := os.WriteFile(dst, []byte("segment"), 0644); err != nil {
			return command.Result{}, err
		}
		return command.Result{Stdout: []byte("out_time=00:00:10.000000\nprogress=end\n")}, nil
	}
	return command.Result{}, fmt.Errorf("unexpected program %q", name)
}

type fixture struct {
	source string
	outDir string
	runner *commandtest.FakeRunner
	logs   *bytes.Buffer
	tools  *fakeTools
}

func newFixture(t *testing.T, duration string) *fixture {
	t.Helper()

	dir := t.TempDir()
	source := filepath.Join(dir, "input.mp4")
	require.NoError(t, os.WriteFile(source, []byte("video"), 0644))

	tools := &fakeTools{duration: duration, bitrate: "4500000", audio: "aac", failOn: map[int]bool{}}
	return &fixture{
		source: source,
		outDir: filepath.Join(dir, "output"),
		runner: &commandtest.FakeRunner{Handler: tools.handler},
		logs:   &bytes.Buffer{},
		tools:  tools,
	}
}

func (f *fixture) splitter(opts Options) *Splitter {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "splitter",
		Output: f.logs,
		Level:  hclog.Debug,
	})
	return New(picker.NewFixed(f.source, f.outDir), ffprobe.NewInspector(f.runner), f.runner, logger, opts)
}

func (f *fixture) outputs(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.outDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_SplitsIntoSegments(t *testing.T) {
	f := newFixture(t, "600.000000")

	report, err := f.splitter(DefaultOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, report.Segments, 3)
	assert.Equal(t, 3, report.Succeeded())
	assert.Equal(t, 0, report.Failed())
	assert.Equal(t, []string{"segment_1.mp4", "segment_2.mp4", "segment_3.mp4"}, f.outputs(t))

	calls := f.runner.CallsTo("ffmpeg")
	require.Len(t, calls, 3)
	assert.Contains(t, calls[0].Args, "00:00:00.00")
	assert.Contains(t, calls[1].Args, "00:04:30.00")
	assert.Contains(t, calls[2].Args, "00:09:00.00")
	// ffmpeg stops at the end of the source, so every segment asks for the full length
	assert.Equal(t, "00:04:30.00", argAfter(t, calls[2].Args, "-t"))
	assert.Equal(t, 60.0, report.Segments[2].Length)

	logs := f.logs.String()
	assert.Contains(t, logs, "planned segments")
	assert.Contains(t, logs, "duration_seconds=600")
	assert.Contains(t, logs, "segments=3")
	assert.Contains(t, logs, "resolution=1920x1080")
	assert.Contains(t, logs, "audio_codec=aac")
	assert.Contains(t, logs, "video splitting completed successfully")
}

func TestRun_ProbesOnce(t *testing.T) {
	f := newFixture(t, "30")

	_, err := f.splitter(DefaultOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, f.runner.CallsTo("ffprobe"), 1)
	assert.Len(t, f.runner.CallsTo("ffmpeg"), 1)
}

func TestRun_MissingInput(t *testing.T) {
	f := newFixture(t, "30")
	f.source = filepath.Join(filepath.Dir(f.source), "absent.mp4")

	report, err := f.splitter(DefaultOptions()).Run(context.Background())
	require.ErrorIs(t, err, ErrMissingInput)
	require.NotNil(t, report)

	assert.Empty(t, f.runner.Calls())
	assert.NoDirExists(t, f.outDir)
	assert.Contains(t, f.logs.String(), "input file not found")
}

func TestRun_InputIsDirectory(t *testing.T) {
	f := newFixture(t, "30")
	f.source = filepath.Dir(f.source)

	_, err := f.splitter(DefaultOptions()).Run(context.Background())
	require.ErrorIs(t, err, ErrMissingInput)
	assert.Empty(t, f.runner.Calls())
}

func TestRun_ProbeFailure(t *testing.T) {
	f := newFixture(t, "30")
	f.tools.probeErr = commandtest.Fail("ffprobe", nil, 1, "input.mp4: Invalid data found when processing input")

	_, err := f.splitter(DefaultOptions()).Run(context.Background())
	require.ErrorIs(t, err, ffprobe.ErrProbe)

	assert.Empty(t, f.runner.CallsTo("ffmpeg"))
	assert.NoDirExists(t, f.outDir)
	assert.Contains(t, f.logs.String(), "Invalid data found when processing input")
}

func TestRun_UnusableDuration(t *testing.T) {
	f := newFixture(t, "N/A")

	_, err := f.splitter(DefaultOptions()).Run(context.Background())
	require.ErrorIs(t, err, ffprobe.ErrProbe)
	assert.Empty(t, f.runner.CallsTo("ffmpeg"))
}

func TestRun_StrictModeStopsAtFirstFailure(t *testing.T) {
	f := newFixture(t, "900")
	f.tools.failOn[2] = true

	report, err := f.splitter(DefaultOptions()).Run(context.Background())
	require.ErrorIs(t, err, ErrExtraction)

	assert.Len(t, f.runner.CallsTo("ffmpeg"), 2)
	assert.Equal(t, 1, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, []string{"segment_1.mp4"}, f.outputs(t))
	assert.Contains(t, f.logs.String(), "segment 2: Invalid data found when processing input")
}

func TestRun_BestEffortContinues(t *testing.T) {
	f := newFixture(t, "900")
	f.tools.failOn[2] = true

	opts := DefaultOptions()
	opts.StrictMode = false

	report, err := f.splitter(opts).Run(context.Background())
	require.ErrorIs(t, err, ErrExtraction)
	assert.Contains(t, err.Error(), "1 of 4 segments failed")

	assert.Len(t, f.runner.CallsTo("ffmpeg"), 4)
	assert.Equal(t, 3, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, []string{"segment_1.mp4", "segment_3.mp4", "segment_4.mp4"}, f.outputs(t))
	assert.Equal(t, []string{
		filepath.Join(f.outDir, "segment_1.mp4"),
		filepath.Join(f.outDir, "segment_3.mp4"),
		filepath.Join(f.outDir, "segment_4.mp4"),
	}, report.OutputPaths())
}

func TestRun_SecondRunDoesNotOverwrite(t *testing.T) {
	f := newFixture(t, "300")

	_, err := f.splitter(DefaultOptions()).Run(context.Background())
	require.NoError(t, err)
	_, err = f.splitter(DefaultOptions()).Run(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"segment_1.mp4", "segment_2.mp4",
		"segment_1_1.mp4", "segment_2_1.mp4",
	}, f.outputs(t))
}

func TestRun_CustomExtension(t *testing.T) {
	f := newFixture(t, "10")

	opts := DefaultOptions()
	opts.Extension = "mkv"

	_, err := f.splitter(opts).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"segment_1.mkv"}, f.outputs(t))
}

func TestRun_SelectionCancelled(t *testing.T) {
	runner := &commandtest.FakeRunner{}
	s := New(cancelledSelector{}, ffprobe.NewInspector(runner), runner, nil, DefaultOptions())

	report, err := s.Run(context.Background())
	require.ErrorIs(t, err, picker.ErrCancelled)
	assert.Nil(t, report)
	assert.Empty(t, runner.Calls())
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	f := newFixture(t, "600")

	opts := DefaultOptions()
	opts.DryRun = true

	report, err := f.splitter(opts).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, report.Segments, 3)
	assert.Empty(t, f.runner.CallsTo("ffmpeg"))
	assert.NoDirExists(t, f.outDir)
	assert.Contains(t, f.logs.String(), "ffmpeg -v error -nostdin -n -ss 00:04:30.00")
}

func TestRun_Reencode(t *testing.T) {
	f := newFixture(t, "60")

	opts := DefaultOptions()
	opts.Mode = segment.ModeReencode

	_, err := f.splitter(opts).Run(context.Background())
	require.NoError(t, err)

	calls := f.runner.CallsTo("ffmpeg")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Args, "4500000")
	assert.Contains(t, calls[0].Args, "libx264")
}

func TestRun_ReencodeOverrideBitrate(t *testing.T) {
	f := newFixture(t, "60")
	f.tools.bitrate = "N/A"

	opts := DefaultOptions()
	opts.Mode = segment.ModeReencode
	opts.VideoBitrate = 2_000_000

	_, err := f.splitter(opts).Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, f.runner.CallsTo("ffmpeg")[0].Args, "2000000")
}

func TestRun_ReencodeWithoutBitrate(t *testing.T) {
	f := newFixture(t, "60")
	f.tools.bitrate = "N/A"

	opts := DefaultOptions()
	opts.Mode = segment.ModeReencode

	_, err := f.splitter(opts).Run(context.Background())
	require.ErrorIs(t, err, ErrNoBitrate)
	assert.Empty(t, f.runner.CallsTo("ffmpeg"))
	assert.Contains(t, f.logs.String(), "bitrate_bps=unknown")
}

func TestRun_CancelledContext(t *testing.T) {
	f := newFixture(t, "600")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.splitter(DefaultOptions()).Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, f.runner.CallsTo("ffmpeg"))
}

func TestRun_ShortFinalTail(t *testing.T) {
	f := newFixture(t, "540.004000")

	report, err := f.splitter(DefaultOptions()).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Segments, 3)

	calls := f.runner.CallsTo("ffmpeg")
	require.Len(t, calls, 3)
	assert.Equal(t, "00:09:00.00", argAfter(t, calls[2].Args, "-ss"))
	assert.Equal(t, "00:04:30.00", argAfter(t, calls[2].Args, "-t"))
}

func TestRun_ToolNotFound(t *testing.T) {
	f := newFixture(t, "30")
	f.tools.probeErr = &command.ExitError{
		Name:     "ffprobe",
		ExitCode: -1,
		Err:      &exec.Error{Name: "ffprobe", Err: exec.ErrNotFound},
	}

	_, err := f.splitter(DefaultOptions()).Run(context.Background())
	require.ErrorIs(t, err, ffprobe.ErrProbe)
	assert.Contains(t, f.logs.String(), "ffprobe not found on PATH")
	assert.Empty(t, f.runner.CallsTo("ffmpeg"))
}

func TestRun_LogsSegmentProgress(t *testing.T) {
	f := newFixture(t, "10")

	_, err := f.splitter(DefaultOptions()).Run(context.Background())
	require.NoError(t, err)

	logs := f.logs.String()
	assert.Contains(t, logs, "progress")
	assert.Contains(t, logs, "state=completed")
	assert.Contains(t, logs, "task=segment")
}

func TestCheckPlan_LogsRejectedPlan(t *testing.T) {
	f := newFixture(t, "10")
	s := f.splitter(DefaultOptions())

	gap := []*models.Segment{
		{Index: 1, StartOffset: 0, Length: 10, SourcePath: f.source},
		{Index: 2, StartOffset: 20, Length: 10, SourcePath: f.source},
	}

	err := s.checkPlan(gap)
	require.Error(t, err)
	assert.Contains(t, f.logs.String(), "segment plan invalid")
}

func argAfter(t *testing.T, args []string, flag string) string {
	t.Helper()
	i := slices.Index(args, flag)
	require.GreaterOrEqual(t, i, 0, "missing %s in %v", flag, args)
	require.Less(t, i+1, len(args))
	return args[i+1]
}

type cancelledSelector struct{}

func (cancelledSelector) ChooseSource() (string, error) {
	return "", fmt.Errorf("no source file selected: %w", picker.ErrCancelled)
}

func (cancelledSelector) ChooseOutputDir() (string, error) {
	return "", fmt.Errorf("no output directory selected: %w", picker.ErrCancelled)
}
