package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	reply     string
	err       error
	gotTokens int
	gotCtxErr error
}

func (s *stubBackend) Name() string { return "Stub" }

func (s *stubBackend) Complete(ctx context.Context, _ string, maxTokens int) (string, error) {
	s.gotTokens = maxTokens
	s.gotCtxErr = ctx.Err()
	return s.reply, s.err
}

func TestGenerate_Success(t *testing.T) {
	b := &stubBackend{reply: "sunny and calm"}
	c := New(b)
	assert.Equal(t, "sunny and calm", c.Generate(context.Background(), "Analyze"))
	assert.Equal(t, MaxTokensCeiling, b.gotTokens)
}

func TestGenerate_ErrorIsText(t *testing.T) {
	c := New(&stubBackend{err: errors.New("model not found")})
	assert.Equal(t, "Stub error: model not found", c.Generate(context.Background(), "x"))
}

func TestWithMaxTokens_Clamped(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"below ceiling", 50, 50},
		{"above ceiling", 4096, MaxTokensCeiling},
		{"zero keeps default", 0, MaxTokensCeiling},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &stubBackend{}
			c := New(b, WithMaxTokens(tt.in))
			c.Generate(context.Background(), "p")
			assert.Equal(t, tt.want, b.gotTokens)
			assert.Equal(t, tt.want, c.MaxTokens())
		})
	}
}

func TestGenerate_DetachedFromCaller(t *testing.T) {
	b := &stubBackend{reply: "ok"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "ok", New(b).Generate(ctx, "p"))
	assert.NoError(t, b.gotCtxErr)
}

func TestGenerate_Observer(t *testing.T) {
	var seen []time.Duration
	c := New(&stubBackend{reply: "ok"}, WithObserver(func(d time.Duration) { seen = append(seen, d) }))
	c.Generate(context.Background(), "p")
	c.Generate(context.Background(), "p")
	assert.Len(t, seen, 2)
}

type fakeRuntime struct {
	body []byte
	err  error
}

func (f *fakeRuntime) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.body = in.Body
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(`{"results":[{"outputText":"analysis"}]}`)}, nil
}

func TestBedrockBackend(t *testing.T) {
	rt := &fakeRuntime{}
	c := New(NewBedrock(rt, ""), WithMaxTokens(500))

	assert.Equal(t, "analysis", c.Generate(context.Background(), "Analyze this weather: {}"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rt.body, &body))
	assert.Equal(t, "Analyze this weather: {}", body["inputText"])
	assert.Equal(t, map[string]any{"maxTokenCount": float64(MaxTokensCeiling)}, body["textGenerationConfig"])
}

func TestBedrockBackend_Error(t *testing.T) {
	c := New(NewBedrock(&fakeRuntime{err: errors.New("AccessDeniedException")}, "amazon.titan-text-lite-v1"))
	assert.Equal(t, "Bedrock error: AccessDeniedException", c.Generate(context.Background(), "p"))
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	assert.Error(t, err)
}
