// Copyright 2025 Confdump Contributors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// CloudConfig configures the cloud log shipper.
type CloudConfig struct {
	// Endpoint receives NDJSON batches via POST. Empty disables shipping.
	Endpoint string `yaml:"endpoint,omitempty" validate:"omitempty,url"`

	// Token is sent as a bearer token on every batch.
	Token string `yaml:"token,omitempty"`

	// BatchSize is the number of records that triggers an immediate flush.
	BatchSize int `yaml:"batch_size,omitempty" validate:"omitempty,min=1"`

	// QueueSize bounds the in-memory queue. When the queue is full the
	// oldest record is dropped to make room.
	QueueSize int `yaml:"queue_size,omitempty" validate:"omitempty,min=1"`

	// FlushInterval flushes partial batches that sat around too long.
	FlushInterval time.Duration `yaml:"flush_interval,omitempty"`
}

func (c *CloudConfig) setDefaults() {
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	if c.QueueSize == 0 {
		c.QueueSize = 1024
	}
	if c.FlushInterval == 0 {
		c.FlushInterval = 2 * time.Second
	}
}

// CloudWriter ships log records to an aggregation endpoint in NDJSON
// batches from a background goroutine. Write never blocks on the network:
// records are queued, and when the queue is full the oldest record is
// dropped so a slow endpoint cannot stall the application.
type CloudWriter struct {
	endpoint string
	token    string
	client   *http.Client

	batchSize     int
	flushInterval time.Duration

	mu     sync.Mutex
	closed bool
	queue  chan []byte
	wg     sync.WaitGroup

	dropped   atomic.Uint64
	shipErrs  atomic.Uint64
	delivered atomic.Uint64
}

// NewCloudWriter validates the endpoint and starts the shipping goroutine.
func NewCloudWriter(cfg CloudConfig) (*CloudWriter, error) {
	cfg.setDefaults()

	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid cloud logging endpoint %q", cfg.Endpoint)
	}

	w := &CloudWriter{
		endpoint:      cfg.Endpoint,
		token:         cfg.Token,
		client:        &http.Client{Timeout: 10 * time.Second},
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
		queue:         make(chan []byte, cfg.QueueSize),
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Write queues one log record. zerolog reuses its buffer, so the record is
// copied before queueing. Always reports success: shipping failures are
// counted, never surfaced, so the other legs keep working.
func (w *CloudWriter) Write(p []byte) (int, error) {
	record := make([]byte, len(p))
	copy(record, p)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.dropped.Add(1)
		return len(p), nil
	}

	for {
		select {
		case w.queue <- record:
			return len(p), nil
		default:
		}
		// Full queue: drop the oldest record and retry.
		select {
		case <-w.queue:
			w.dropped.Add(1)
		default:
		}
	}
}

// Close flushes the queue and stops the shipping goroutine.
func (w *CloudWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

// Dropped returns the number of records discarded due to backpressure.
func (w *CloudWriter) Dropped() uint64 {
	return w.dropped.Load()
}

// Delivered returns the number of records shipped successfully.
func (w *CloudWriter) Delivered() uint64 {
	return w.delivered.Load()
}

func (w *CloudWriter) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	var batch [][]byte
	for {
		select {
		case record, ok := <-w.queue:
			if !ok {
				w.ship(batch)
				return
			}
			batch = append(batch, record)
			if len(batch) >= w.batchSize {
				w.ship(batch)
				batch = nil
			}
		case <-ticker.C:
			w.ship(batch)
			batch = nil
		}
	}
}

// ship POSTs one NDJSON batch. Failures are counted; there is nowhere to
// log them without feeding the writer its own records.
func (w *CloudWriter) ship(batch [][]byte) {
	if len(batch) == 0 {
		return
	}

	var body bytes.Buffer
	for _, record := range batch {
		body.Write(record)
		if len(record) == 0 || record[len(record)-1] != '\n' {
			body.WriteByte('\n')
		}
	}

	req, err := http.NewRequest(http.MethodPost, w.endpoint, &body)
	if err != nil {
		w.shipErrs.Add(1)
		return
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		w.shipErrs.Add(1)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		w.shipErrs.Add(1)
		return
	}
	w.delivered.Add(uint64(len(batch)))
}
