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

package invoke

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cellgate/cellgate/pkg/activity"
	"github.com/cellgate/cellgate/pkg/defaults"
	"github.com/cellgate/cellgate/pkg/errors"
	"github.com/cellgate/cellgate/pkg/kernel"
	"github.com/cellgate/cellgate/pkg/notebook"
	"github.com/cellgate/cellgate/pkg/pool"
	"github.com/cellgate/cellgate/pkg/route"
)

// ResponseMetadata is the value a ResponseInfo cell prints to override
// response headers and status.
type ResponseMetadata struct {
	Headers map[string]string `json:"headers"`
	Status  int               `json:"status"`
}

// Response is the finalized outcome of a route invocation.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// Option configures the coordinator.
type Option func(*Coordinator)

// WithActivity enables per-kernel activity recording.
func WithActivity(store *activity.Store) Option {
	return func(c *Coordinator) {
		c.activity = store
	}
}

// WithExecTimeout bounds the kernel phase of one invocation: REQUEST
// binding, route cells, and the ResponseInfo cell together.
func WithExecTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.execTimeout = d
	}
}

// WithCheckoutTimeout bounds the wait for a free kernel session.
func WithCheckoutTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.checkoutTimeout = d
	}
}

// Coordinator executes matched routes on pooled kernel sessions.
type Coordinator struct {
	nb       *notebook.Notebook
	pool     *pool.Pool
	language string
	activity *activity.Store

	execTimeout     time.Duration
	checkoutTimeout time.Duration
}

// New creates a coordinator for a notebook and its kernel pool.
func New(nb *notebook.Notebook, p *pool.Pool, opts ...Option) (*Coordinator, error) {
	if nb == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "notebook is required")
	}
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "kernel pool is required")
	}

	c := &Coordinator{
		nb:              nb,
		pool:            p,
		language:        nb.Language(),
		execTimeout:     defaults.KernelExecTimeout,
		checkoutTimeout: defaults.PoolCheckoutTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Do runs one matched route against a borrowed kernel session.
func (c *Coordinator) Do(ctx context.Context, req *http.Request, rt *route.Route, params map[string]string) (*Response, error) {
	bundleJSON, err := BuildBundle(req, params)
	if err != nil {
		invocationsTotal.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, c.checkoutTimeout)
	lease, err := c.pool.Checkout(cctx)
	cancel()
	if err != nil {
		invocationsTotal.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}

	start := time.Now()
	session := lease.Session()
	c.recordBusy(session.ID(), true)

	damaged := false
	failed := false
	defer func() {
		c.recordExecution(session.ID(), failed)
		c.recordBusy(session.ID(), false)
		if damaged {
			c.recordRetired(session.ID())
		}
		lease.Release(damaged)
		invocationDuration.Observe(time.Since(start).Seconds())
	}()

	ectx, ecancel := context.WithTimeout(ctx, c.execTimeout)
	defer ecancel()

	slog.Debug("executing route",
		slog.String("route", rt.String()),
		slog.String("kernel", session.ID()),
		slog.Int("cells", len(rt.CellIndices)))

	// bind the request bundle before any handler cell runs
	if _, err := c.runCell(ectx, session, kernel.FormatRequest(c.language, bundleJSON), rt, &damaged); err != nil {
		failed = true
		invocationsTotal.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}

	var last *kernel.Result
	for _, idx := range rt.CellIndices {
		res, err := c.runCell(ectx, session, c.source(idx), rt, &damaged)
		if err != nil {
			failed = true
			invocationsTotal.WithLabelValues(outcomeOf(err)).Inc()
			return nil, err
		}
		last = res
	}

	resp := &Response{
		Status:  http.StatusOK,
		Headers: map[string]string{"Content-Type": "text/plain"},
		Body:    []byte(bodyOf(last)),
	}

	declaredStatus := false
	if rt.ResponseCell >= 0 {
		mres, err := c.runCell(ectx, session, c.source(rt.ResponseCell), rt, &damaged)
		if err != nil {
			failed = true
			invocationsTotal.WithLabelValues(outcomeOf(err)).Inc()
			return nil, err
		}
		declaredStatus, err = applyMetadata(resp, bodyOf(mres), rt)
		if err != nil {
			failed = true
			invocationsTotal.WithLabelValues(outcomeOf(err)).Inc()
			return nil, err
		}
	}
	if len(resp.Body) == 0 && !declaredStatus {
		resp.Status = http.StatusNoContent
	}

	invocationsTotal.WithLabelValues("ok").Inc()
	return resp, nil
}

// runCell submits one snippet. Transport failures mark the session
// damaged; exceptions raised by the code do not, the session is still
// healthy after a traceback.
func (c *Coordinator) runCell(ctx context.Context, s kernel.Session, code string, rt *route.Route, damaged *bool) (*kernel.Result, error) {
	res, err := s.Submit(ctx, code)
	if err != nil {
		*damaged = true
		return nil, err
	}
	if res.Error != nil {
		return nil, errors.NewWithContext(errors.ErrCodeExecutionFailed,
			fmt.Sprintf("Error %s: %s", res.Error.Name, res.Error.Message),
			map[string]any{"route": rt.String(), "kernel": s.ID()})
	}
	if res.Stderr != "" {
		slog.Debug("route cell wrote to stderr",
			slog.String("route", rt.String()),
			slog.String("stderr", res.Stderr))
	}
	return res, nil
}

func (c *Coordinator) source(idx int) string {
	return c.nb.Cells[idx].Source.String()
}

// bodyOf picks the response text of one execution: captured stdout first,
// then the JSON encoding of the result mime bundle, then empty.
func bodyOf(res *kernel.Result) string {
	if res == nil {
		return ""
	}
	if res.Stdout != "" {
		return res.Stdout
	}
	if len(res.Data) > 0 {
		b, err := json.Marshal(res.Data)
		if err == nil {
			return string(b)
		}
	}
	return ""
}

// applyMetadata decodes ResponseInfo output and folds it into the
// response. Anything but valid metadata JSON with a sane status fails the
// invocation. Reports whether the metadata declared an explicit status.
func applyMetadata(resp *Response, output string, rt *route.Route) (bool, error) {
	var meta ResponseMetadata
	if err := json.Unmarshal([]byte(output), &meta); err != nil {
		return false, errors.WrapWithContext(errors.ErrCodeBadMetadata,
			"response cell did not produce valid metadata JSON", err,
			map[string]any{"route": rt.String()})
	}
	if meta.Status != 0 && (meta.Status < 100 || meta.Status > 599) {
		return false, errors.NewWithContext(errors.ErrCodeBadMetadata,
			"response cell produced an out-of-range status",
			map[string]any{"route": rt.String(), "status": meta.Status})
	}

	for k, v := range meta.Headers {
		resp.Headers[k] = v
	}
	if meta.Status != 0 {
		resp.Status = meta.Status
	}
	return meta.Status != 0, nil
}

func outcomeOf(err error) string {
	var se *errors.StructuredError
	if !stderrors.As(err, &se) {
		return "kernel_error"
	}
	switch se.Code {
	case errors.ErrCodeTimeout:
		return "timeout"
	case errors.ErrCodePoolExhausted, errors.ErrCodeUnavailable:
		return "rejected"
	case errors.ErrCodeExecutionFailed:
		return "execution_error"
	case errors.ErrCodeBadMetadata:
		return "metadata_error"
	default:
		return "kernel_error"
	}
}

func (c *Coordinator) recordBusy(kernelID string, busy bool) {
	if c.activity == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.activity.RecordBusy(ctx, kernelID, busy); err != nil {
		slog.Debug("failed to record kernel busy state", slog.Any("error", err))
	}
}

func (c *Coordinator) recordExecution(kernelID string, failed bool) {
	if c.activity == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.activity.RecordExecution(ctx, kernelID, failed); err != nil {
		slog.Debug("failed to record kernel execution", slog.Any("error", err))
	}
}

func (c *Coordinator) recordRetired(kernelID string) {
	if c.activity == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.activity.RecordRetired(ctx, kernelID); err != nil {
		slog.Debug("failed to record kernel retirement", slog.Any("error", err))
	}
}
