package docker

import (
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/stdcopy"
)

// attachedOutput is the demultiplexed stdout of a hijacked attach
// connection. Closing it drops the connection.
type attachedOutput struct {
	*io.PipeReader
	conn types.HijackedResponse
}

func (a *attachedOutput) Close() error {
	a.conn.Close()
	return a.PipeReader.Close()
}

// demultiplex strips the docker stream framing from resp and exposes the
// stdout frames as a plain byte stream. Stderr frames are discarded.
func demultiplex(resp types.HijackedResponse) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		_, err := stdcopy.StdCopy(pw, io.Discard, resp.Reader)
		pw.CloseWithError(err)
	}()
	return &attachedOutput{PipeReader: pr, conn: resp}
}
