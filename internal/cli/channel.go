package cli

import (
	"fmt"

	"github.com/arloliu/timetag/format"
	"github.com/arloliu/timetag/stream"
)

// channelFormat returns the configured stream format, or the one detected from
// the file header when the config says auto.
func channelFormat(opts *RootOptions, path string) (format.Format, error) {
	f, ok, err := opts.Config.StreamFormat()
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "invalid stream format", err)
	}
	if ok {
		return f, nil
	}

	f, err = stream.DetectFile(path)
	if err != nil {
		return 0, WrapExitError(exitCodeFor(err), "failed to detect stream format of "+path, err)
	}
	opts.Logger.Debug("stream format detected", "path", path, "format", f)

	return f, nil
}

// readChannel decodes the stream file at path from sess onwards.
func readChannel(opts *RootOptions, path string, sess stream.Session) (*stream.Result, format.Format, error) {
	f, err := channelFormat(opts, path)
	if err != nil {
		return nil, 0, err
	}

	res, err := stream.ReadFile(path, f, sess)
	if err != nil {
		return nil, 0, WrapExitError(exitCodeFor(err), fmt.Sprintf("failed to decode %s", path), err)
	}

	opts.Logger.Debug("channel decoded",
		"path", path,
		"format", f,
		"photons", len(res.Macrotimes),
		"records", res.Session.Records,
		"overflows", res.Session.Overflows,
	)

	return res, f, nil
}

// headCount returns how many of n rows to print for a --head value; negative
// values print every row.
func headCount(head, n int) int {
	if head < 0 || head > n {
		return n
	}

	return head
}
