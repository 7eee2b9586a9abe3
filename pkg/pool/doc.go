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

// Package pool manages a fixed set of kernel sessions on a borrower/lender
// model.
//
// Checkout hands a session to exactly one caller at a time; waiters queue
// in FIFO order on a weighted semaphore and give up when their context
// expires. A session released as damaged is closed and replaced in the
// background, and its slot stays unavailable until the replacement is
// ready, so a crashed kernel never gets handed to a request.
//
// Usage:
//
//	p, err := pool.New(factory, pool.WithSize(4))
//	if err != nil {
//		return err
//	}
//	if err := p.Start(ctx); err != nil {
//		return err
//	}
//	defer p.Shutdown(ctx)
//
//	lease, err := p.Checkout(ctx)
//	if err != nil {
//		return err
//	}
//	defer lease.Release(false)
//	res, err := lease.Session().Submit(ctx, code)
package pool
