package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/timetag/blob"
	"github.com/arloliu/timetag/format"
	"github.com/arloliu/timetag/stream"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func assertGolden(t *testing.T, name, actual string) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(actual))
}

// writeStream writes a stream file of format f under dir and returns its path.
func writeStream(t *testing.T, dir, name string, f format.Format, macrotimes, microtimes []int64) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w, err := stream.NewWriter(file, f)
	require.NoError(t, err)
	for i, m := range macrotimes {
		var micro uint64
		if microtimes != nil {
			micro = uint64(microtimes[i])
		}
		require.NoError(t, w.WritePhoton(m, micro))
	}
	require.NoError(t, w.Close())

	return path
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "timetag.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "timetag", cmd.Use)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	for _, name := range []string{"format", "bin-width", "n-bins", "min-lag", "rebin", "compression", "sync-divider", "time-unit"} {
		t.Run(name, func(t *testing.T) {
			require.NotNil(t, cmd.PersistentFlags().Lookup(name))
		})
	}
}

func TestConfigFlags(t *testing.T) {
	dir := t.TempDir()
	left := writeStream(t, dir, "left.tt", format.FormatV2, []int64{0, 100}, nil)
	right := writeStream(t, dir, "right.tt", format.FormatV2, []int64{0, 50, 100}, nil)
	wide := writeConfig(t, dir, "n_bins: 3\nbin_width: 50\nmin_lag: -50\ncompression: none\n")

	t.Run("flags override file", func(t *testing.T) {
		out, _, err := execute(t, "correlate", left, right, "--config", wide,
			"--n-bins", "6", "--bin-width", "25", "--rebin", "2")
		require.NoError(t, err)
		assertGolden(t, "correlate_rebin", out)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("TIMETAG_FORMAT", "v1")
		_, _, err := execute(t, "decode", left)
		require.Error(t, err)

		out, _, err := execute(t, "decode", left, "--format", "auto")
		require.NoError(t, err)
		assert.Contains(t, out, "format: V2\n")
	})

	t.Run("unset flags keep file values", func(t *testing.T) {
		out, _, err := execute(t, "correlate", left, right, "--config", wide, "--raw")
		require.NoError(t, err)
		assertGolden(t, "correlate_raw", out)
	})

	t.Run("invalid", func(t *testing.T) {
		_, _, err := execute(t, "correlate", left, right, "--config", wide, "--n-bins", "0")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, err.Error(), "n_bins")

		_, _, err = execute(t, "decode", left, "--compression", "brotli")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"decode", "count", "correlate", "microtime", "inspect"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()

	t.Run("V2", func(t *testing.T) {
		path := writeStream(t, dir, "v2/ch1.tt", format.FormatV2, []int64{1, 5, 1<<46 + 3}, nil)
		out, _, err := execute(t, "decode", path)
		require.NoError(t, err)
		assertGolden(t, "decode_v2", out)
	})

	t.Run("V1", func(t *testing.T) {
		path := writeStream(t, dir, "v1/ch1.tt", format.FormatV1, []int64{3, 3, 900}, []int64{7, 8, 9})
		out, _, err := execute(t, "decode", path, "--head", "2")
		require.NoError(t, err)
		assertGolden(t, "decode_v1", out)
	})

	t.Run("resume", func(t *testing.T) {
		path := writeStream(t, dir, "resume/ch1.tt", format.FormatV2, []int64{1, 5, 1<<46 + 3}, nil)
		out, _, err := execute(t, "decode", path, "--records", "2", "--head=-1")
		require.NoError(t, err)
		assert.Contains(t, out, "photons: 1\nrecords: 4\noverflows: 1\n")
		assert.Contains(t, out, "70368744177667\n")
	})

	t.Run("format mismatch", func(t *testing.T) {
		path := writeStream(t, dir, "mismatch/ch1.tt", format.FormatV1, []int64{1}, []int64{0})
		cfg := writeConfig(t, filepath.Join(dir, "mismatch"), "format: v2\n")
		_, _, err := execute(t, "decode", path, "--config", cfg)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, "decode", filepath.Join(dir, "none.tt"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("duration", func(t *testing.T) {
		path := filepath.Join(dir, "v2/ch1.tt")
		out, _, err := execute(t, "decode", path, "--time-unit", "1e-9")
		require.NoError(t, err)
		assert.Contains(t, out, "overflows: 1\nduration: 70368.7 s\nmacrotime\n")

		out, _, err = execute(t, "decode", path)
		require.NoError(t, err)
		assert.NotContains(t, out, "duration")
	})

	t.Run("verbose", func(t *testing.T) {
		path := filepath.Join(dir, "v2/ch1.tt")
		_, stderr, err := execute(t, "decode", path, "-v")
		require.NoError(t, err)
		assert.Contains(t, stderr, "channel decoded")
		assert.Contains(t, stderr, "photons=3")
	})
}

func TestCount(t *testing.T) {
	dir := t.TempDir()
	writeStream(t, dir, "a/ch1.tt", format.FormatV2, []int64{1, 2, 3}, nil)
	writeStream(t, dir, "a/b/ch2.tt", format.FormatV1, []int64{10, 20}, []int64{1, 2})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a/notes.txt"), []byte("x"), 0o600))

	// golden files resolve against the package directory, so only the glob
	// expansion runs inside dir
	var out string
	t.Run("glob", func(t *testing.T) {
		t.Chdir(dir)

		var err error
		out, _, err = execute(t, "count", "**/*.tt", "a/ch1.tt")
		require.NoError(t, err)

		_, _, err = execute(t, "count", "**/*.missing")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
	assertGolden(t, "count", out)
}

func TestCorrelate(t *testing.T) {
	dir := t.TempDir()
	left := writeStream(t, dir, "left.tt", format.FormatV2, []int64{0, 100}, nil)
	right := writeStream(t, dir, "right.tt", format.FormatV2, []int64{0, 50, 100}, nil)

	cfgDir := filepath.Join(dir, "wide")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	wide := writeConfig(t, cfgDir, "n_bins: 3\nbin_width: 50\nmin_lag: -50\ncompression: none\n")

	t.Run("normalized", func(t *testing.T) {
		out, _, err := execute(t, "correlate", left, right, "--config", wide)
		require.NoError(t, err)
		assertGolden(t, "correlate", out)
	})

	t.Run("raw", func(t *testing.T) {
		out, _, err := execute(t, "correlate", left, right, "--config", wide, "--raw")
		require.NoError(t, err)
		assertGolden(t, "correlate_raw", out)
	})

	t.Run("rebin", func(t *testing.T) {
		fineDir := filepath.Join(dir, "fine")
		require.NoError(t, os.MkdirAll(fineDir, 0o755))
		fine := writeConfig(t, fineDir, "n_bins: 6\nbin_width: 25\nmin_lag: -50\nrebin: 2\n")

		out, _, err := execute(t, "correlate", left, right, "--config", fine)
		require.NoError(t, err)
		assertGolden(t, "correlate_rebin", out)
	})

	t.Run("output and inspect", func(t *testing.T) {
		blobPath := filepath.Join(dir, "g2.tth")
		_, stderr, err := execute(t, "correlate", left, right, "--config", wide, "-o", blobPath)
		require.NoError(t, err)
		assert.Contains(t, stderr, "histogram written")

		data, err := os.ReadFile(blobPath)
		require.NoError(t, err)
		h, err := blob.Decode[int64](data)
		require.NoError(t, err)
		assert.Equal(t, []int64{-50, 0, 50, 100}, h.Edges)
		assert.Equal(t, []int64{1, 2, 1}, h.Counts)

		out, _, err := execute(t, "inspect", blobPath, "--bins")
		require.NoError(t, err)
		assertGolden(t, "inspect", out)
	})
}

func TestInspect_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := execute(t, "inspect", filepath.Join(dir, "none.tth"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	bad := filepath.Join(dir, "bad.tth")
	require.NoError(t, os.WriteFile(bad, []byte("not a histogram blob at all, far too plain"), 0o600))
	_, _, err = execute(t, "inspect", bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestMicrotime(t *testing.T) {
	dir := t.TempDir()
	pulses := writeStream(t, dir, "sync.tt", format.FormatV2, []int64{0, 100, 200, 300}, nil)
	data := writeStream(t, dir, "ch1.tt", format.FormatV2, []int64{5, 150, 299, 350}, nil)

	out, _, err := execute(t, "microtime", pulses, data)
	require.NoError(t, err)
	assertGolden(t, "microtime", out)

	t.Run("dividers and delay", func(t *testing.T) {
		out, _, err := execute(t, "microtime", pulses, data,
			"--sync-divider", "2", "--additional-divider", "2", "--micro-delay", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "extended pulses: 5\n")
		assert.Contains(t, out, "divider: 4\ndelay: 1\n")
		assert.Contains(t, out, "5\t4\n150\t-1\n299\t23\n350\t-1\n")
	})

	single := writeStream(t, dir, "single.tt", format.FormatV2, []int64{7}, nil)
	_, _, err = execute(t, "microtime", single, data)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestBadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "n_bins: 0\n")

	_, _, err := execute(t, "decode", filepath.Join(dir, "x.tt"), "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "n_bins")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(os.ErrInvalid))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, "bad: invalid argument", WrapExitError(ExitFailure, "bad", os.ErrInvalid).Error())
}
