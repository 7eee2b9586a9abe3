// Copyright (c) 2025, the cellgate authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kernel

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cellgate/cellgate/pkg/defaults"
	"github.com/cellgate/cellgate/pkg/errors"
)

//go:embed shim.py
var shimSource string

const (
	opExecute  = "execute"
	opPing     = "ping"
	opShutdown = "shutdown"
)

// maxFrameBytes bounds a single protocol frame. Cells that print more than
// this in one request kill the session instead of the gateway.
const maxFrameBytes = 16 << 20

// DefaultArgv returns the launcher command for the embedded Python shim.
func DefaultArgv() []string {
	return []string{"python3", "-c", shimSource}
}

// ProcConfig describes how to launch an interpreter process.
type ProcConfig struct {
	// Argv is the launcher command. When empty the embedded Python shim
	// is used. Custom launchers must speak the newline-delimited JSON
	// protocol on stdin/stdout.
	Argv []string

	// Env entries are appended to the parent environment. The process
	// additionally gets CELLGATE=1 so notebook code can detect it is
	// running under the gateway.
	Env []string

	// Dir is the working directory of the process.
	Dir string
}

type request struct {
	ID   string `json:"id"`
	Op   string `json:"op"`
	Code string `json:"code,omitempty"`
}

type response struct {
	ID   string `json:"id"`
	Pong bool   `json:"pong,omitempty"`
	OK   bool   `json:"ok,omitempty"`
	Result
}

// Proc is a Session backed by a subprocess speaking newline-delimited JSON
// frames over stdin/stdout.
type Proc struct {
	id    string
	cmd   *exec.Cmd
	stdin io.WriteCloser

	// mu serializes frames on the wire. One call, one frame in flight.
	mu   sync.Mutex
	recv chan response
	done chan struct{}

	closeOnce sync.Once
}

// StartProc launches an interpreter process and waits for it to answer an
// initial ping. The context bounds startup only; the process outlives it.
func StartProc(ctx context.Context, cfg ProcConfig) (*Proc, error) {
	argv := cfg.Argv
	if len(argv) == 0 {
		argv = DefaultArgv()
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = append(os.Environ(), cfg.Env...)
	cmd.Env = append(cmd.Env, "CELLGATE=1")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to open kernel stdin", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to open kernel stdout", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to open kernel stderr", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to start kernel process", err,
			map[string]any{"cmd": argv[0]})
	}

	p := &Proc{
		id:    uuid.NewString(),
		cmd:   cmd,
		stdin: stdin,
		recv:  make(chan response, 4),
		done:  make(chan struct{}),
	}

	go p.readLoop(stdout)
	go p.drainStderr(stderr)

	if err := p.Ping(ctx); err != nil {
		sctx, cancel := context.WithTimeout(context.Background(), defaults.KernelShutdownTimeout)
		defer cancel()
		_ = p.Close(sctx)
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "kernel process failed readiness ping", err)
	}

	slog.Debug("kernel session started",
		slog.String("kernel", p.id),
		slog.String("cmd", argv[0]))

	return p, nil
}

// ID implements Session.
func (p *Proc) ID() string {
	return p.id
}

// Submit implements Session. An exception raised by the code comes back in
// Result.Error; a returned error means the session is unusable.
func (p *Proc) Submit(ctx context.Context, code string) (*Result, error) {
	resp, err := p.roundTrip(ctx, request{ID: uuid.NewString(), Op: opExecute, Code: code})
	if err != nil {
		return nil, err
	}
	res := resp.Result
	return &res, nil
}

// Ping implements Session.
func (p *Proc) Ping(ctx context.Context) error {
	resp, err := p.roundTrip(ctx, request{ID: uuid.NewString(), Op: opPing})
	if err != nil {
		return err
	}
	if !resp.Pong {
		return errors.New(errors.ErrCodeUnavailable, "kernel answered ping without pong")
	}
	return nil
}

// Close implements Session. It asks the process to exit, closes stdin, and
// kills the process if it has not exited by the time the context is done.
func (p *Proc) Close(ctx context.Context) error {
	p.closeOnce.Do(func() {
		if frame, err := json.Marshal(request{ID: uuid.NewString(), Op: opShutdown}); err == nil {
			_, _ = p.stdin.Write(append(frame, '\n'))
		}
		_ = p.stdin.Close()
		close(p.done)

		exited := make(chan error, 1)
		go func() { exited <- p.cmd.Wait() }()

		select {
		case err := <-exited:
			if err != nil {
				slog.Debug("kernel exited", slog.String("kernel", p.id), slog.Any("error", err))
			}
		case <-ctx.Done():
			_ = p.cmd.Process.Kill()
			<-exited
			slog.Debug("kernel killed", slog.String("kernel", p.id))
		}
	})
	return nil
}

func (p *Proc) roundTrip(ctx context.Context, req request) (*response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	frame, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to encode kernel frame", err)
	}
	if _, err := p.stdin.Write(append(frame, '\n')); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "kernel session is closed", err)
	}

	for {
		select {
		case resp, ok := <-p.recv:
			if !ok {
				return nil, errors.New(errors.ErrCodeUnavailable, "kernel session terminated unexpectedly")
			}
			// Replies to calls abandoned on timeout carry stale IDs.
			if resp.ID != req.ID {
				continue
			}
			return &resp, nil
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return nil, errors.WrapWithContext(errors.ErrCodeTimeout, "kernel did not answer in time", ctx.Err(),
					map[string]any{"kernel": p.id})
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, "kernel call canceled", ctx.Err())
		}
	}
}

func (p *Proc) readLoop(stdout io.Reader) {
	defer close(p.recv)

	sc := bufio.NewScanner(stdout)
	sc.Buffer(make([]byte, 0, 64*1024), maxFrameBytes)
	for sc.Scan() {
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var resp response
		if err := json.Unmarshal(line, &resp); err != nil {
			slog.Warn("kernel emitted malformed frame",
				slog.String("kernel", p.id),
				slog.Any("error", err))
			continue
		}
		select {
		case p.recv <- resp:
		case <-p.done:
			return
		}
	}
}

func (p *Proc) drainStderr(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxFrameBytes)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			slog.Debug("kernel stderr", slog.String("kernel", p.id), slog.String("line", line))
		}
	}
}
