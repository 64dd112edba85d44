package moderation_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robalyx/promptaudit/internal/cache"
	"github.com/robalyx/promptaudit/internal/moderation"
	"github.com/robalyx/promptaudit/pkg/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, metrics *moderation.Metrics) *moderation.Service {
	t.Helper()

	registry, err := audit.NewRegistry(&audit.WordLists{
		NSFW:        []string{"nude"},
		Blocked:     []string{"gore"},
		BlockedNSFW: []string{"gore", "bestiality"},
		YoungNoun:   []string{"kid"},
		POI:         []string{"jane doe"},
		Tags:        map[string][]string{"animal": {"cat"}},
	})
	require.NoError(t, err)

	auditor := cache.NewCachedAuditor(audit.NewAuditor(registry), nil, nil, zap.NewNop())

	return moderation.NewService(auditor, metrics, zap.NewNop(), nil, time.Second, 0)
}

func handle(t *testing.T, svc *moderation.Service, req string) moderation.Response {
	t.Helper()

	out, err := svc.Handle(t.Context(), []byte(req))
	require.NoError(t, err)

	var resp moderation.Response
	require.NoError(t, sonic.Unmarshal(out, &resp))

	return resp
}

func TestService_Handle(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)

	tests := []struct {
		name    string
		request string
		want    moderation.Response
	}{
		{
			name:    "clean prompt",
			request: `{"id":"1","prompt":"a cat on a sofa"}`,
			want: moderation.Response{
				ID: "1", BlockedFor: []string{}, Success: true,
				Pipeline: audit.PipelinePrompt, Tags: []string{"animal"},
			},
		},
		{
			name:    "inappropriate prompt",
			request: `{"id":"2","prompt":"nude kid"}`,
			want: moderation.Response{
				ID: "2", BlockedFor: []string{"minor"},
				Pipeline: audit.PipelinePrompt, Trigger: audit.TriggerInappropriate,
			},
		},
		{
			name:    "metadata blocklist",
			request: `{"id":"3","mode":"metadata","meta":{"prompt":"gore"}}`,
			want: moderation.Response{
				ID: "3", BlockedFor: []string{"gore"},
				Pipeline: audit.PipelineMetadata, Trigger: audit.TriggerBlocklist,
			},
		},
		{
			name:    "metadata age with nsfw",
			request: `{"id":"4","mode":"metadata","nsfw":true,"prompt":"aged 9"}`,
			want: moderation.Response{
				ID: "4", BlockedFor: []string{"9 year old"},
				Pipeline: audit.PipelineMetadata, Trigger: audit.TriggerAge,
			},
		},
		{
			name:    "empty prompt",
			request: `{"id":"5"}`,
			want: moderation.Response{
				ID: "5", BlockedFor: []string{}, Error: moderation.ErrEmptyPrompt.Error(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, handle(t, svc, tt.request))
		})
	}
}

func TestService_HandleInvalid(t *testing.T) {
	t.Parallel()

	metrics := moderation.NewMetrics()
	svc := newService(t, metrics)

	resp := handle(t, svc, `{"id":`)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, moderation.ErrInvalidRequest.Error())

	resp = handle(t, svc, `{"id":"x","prompt":"a cat","mode":"video"}`)
	assert.Contains(t, resp.Error, "unknown mode")

	count, err := testutil.GatherAndCount(metrics.Registry(), "promptaudit_invalid_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_Highlight(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)

	resp := handle(t, svc, `{"id":"1","mode":"metadata","prompt":"gore","highlight":true}`)
	assert.Equal(t, `<span style="color:red">gore</span>`, resp.Highlight)

	resp = handle(t, svc, `{"id":"2","prompt":"a cat","highlight":true}`)
	assert.Empty(t, resp.Highlight)
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	metrics := moderation.NewMetrics()
	svc := newService(t, metrics)

	handle(t, svc, `{"id":"1","prompt":"a cat"}`)
	handle(t, svc, `{"id":"2","prompt":"a dog"}`)
	handle(t, svc, `{"id":"3","mode":"metadata","prompt":"gore"}`)

	count, err := testutil.GatherAndCount(metrics.Registry(), "promptaudit_verdicts_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	srv := httptest.NewServer(metrics.Handler())
	defer srv.Close()

	res, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `promptaudit_verdicts_total{pipeline="prompt",trigger="passed"} 2`)
	assert.Contains(t, string(body), `promptaudit_verdicts_total{pipeline="metadata",trigger="blocklist"} 1`)
	assert.Contains(t, string(body), "promptaudit_audit_duration_seconds_bucket")
}
