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
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/confdump/confdump"

// StartSegment opens a trace span bounding one unit of work, annotated with
// the given string attributes. The caller must End the returned span.
//
// The span comes from the global TracerProvider, so segments are no-ops
// unless the embedding process installs a tracing SDK.
func StartSegment(ctx context.Context, name string, annotations map[string]string) (context.Context, trace.Span) {
	attrs := make([]attribute.KeyValue, 0, len(annotations))
	for k, v := range annotations {
		attrs = append(attrs, attribute.String(k, v))
	}

	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}
