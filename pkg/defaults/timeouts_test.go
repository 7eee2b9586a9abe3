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

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Kernel timeouts
		{"KernelStartTimeout", KernelStartTimeout, 10 * time.Second, 2 * time.Minute},
		{"KernelExecTimeout", KernelExecTimeout, 5 * time.Second, 5 * time.Minute},
		{"KernelPingTimeout", KernelPingTimeout, time.Second, 30 * time.Second},
		{"KernelShutdownTimeout", KernelShutdownTimeout, time.Second, 30 * time.Second},

		// Pool timeouts
		{"PoolCheckoutTimeout", PoolCheckoutTimeout, time.Second, time.Minute},
		{"PoolPingInterval", PoolPingInterval, 5 * time.Second, 5 * time.Minute},

		// Server timeouts
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 15 * time.Second, 5 * time.Minute},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 5 * time.Minute},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 5 * time.Second, time.Minute},

		// HTTP client timeouts
		{"HTTPClientTimeout", HTTPClientTimeout, 10 * time.Second, time.Minute},
		{"HTTPConnectTimeout", HTTPConnectTimeout, time.Second, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s = %v, below sane minimum %v", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s = %v, above sane maximum %v", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestCheckoutBelowExecTimeout(t *testing.T) {
	// Waiters should give up before a healthy worker would.
	if PoolCheckoutTimeout >= KernelExecTimeout {
		t.Errorf("PoolCheckoutTimeout %v must be below KernelExecTimeout %v",
			PoolCheckoutTimeout, KernelExecTimeout)
	}
}

func TestWriteTimeoutCoversExecution(t *testing.T) {
	if ServerWriteTimeout <= KernelExecTimeout {
		t.Errorf("ServerWriteTimeout %v must exceed KernelExecTimeout %v",
			ServerWriteTimeout, KernelExecTimeout)
	}
}
