package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	stdimage "image"
	"image/jpeg"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/core/ai/image"
	"smartpantry/internal/core/ai/provider"
	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/pkg/common"
)

type fakeProvider struct {
	mu          sync.Mutex
	generate    func(req *provider.Request) (*provider.Response, error)
	stream      func(ctx context.Context, req *provider.Request, onFragment provider.FragmentHandler) (*provider.Response, error)
	image       func(prompt string) (string, error)
	imageCalls  int
	lastRequest *provider.Request
}

func (f *fakeProvider) Generate(_ context.Context, req *provider.Request) (*provider.Response, error) {
	f.mu.Lock()
	f.lastRequest = req
	f.mu.Unlock()
	return f.generate(req)
}

func (f *fakeProvider) Stream(ctx context.Context, req *provider.Request, onFragment provider.FragmentHandler) (*provider.Response, error) {
	f.mu.Lock()
	f.lastRequest = req
	f.mu.Unlock()
	return f.stream(ctx, req, onFragment)
}

func (f *fakeProvider) GenerateImage(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.imageCalls++
	f.mu.Unlock()
	return f.image(prompt)
}

func (f *fakeProvider) GetModel() string          { return "fake" }
func (f *fakeProvider) GetTimeout() time.Duration { return time.Second }
func (f *fakeProvider) Close() error              { return nil }

func jpegDataURI(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, stdimage.NewRGBA(stdimage.Rect(0, 0, 2, 2)), nil))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newService(t *testing.T, p *fakeProvider) *Service {
	t.Helper()
	cm := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	s := NewService(p, cm, image.NewProcessor(1<<20))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProcessRequestWrapsErrors(t *testing.T) {
	p := &fakeProvider{generate: func(*provider.Request) (*provider.Response, error) {
		return nil, errors.New("connection reset")
	}}
	s := newService(t, p)

	_, err := s.ProcessRequest(context.Background(), OpGenerate, &provider.Request{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAIServiceError)
	ce := common.AsCustomError(err)
	assert.Equal(t, http.StatusServiceUnavailable, ce.Status)
	assert.Contains(t, ce.Error(), "connection reset")
}

func TestProcessRequestWrapsNotConfigured(t *testing.T) {
	p := &fakeProvider{generate: func(*provider.Request) (*provider.Response, error) {
		return nil, common.ErrAINotConfigured
	}}
	s := newService(t, p)
	_, err := s.ProcessRequest(context.Background(), OpGenerate, &provider.Request{})
	assert.ErrorIs(t, err, common.ErrAIServiceError)
	assert.ErrorIs(t, err, common.ErrAINotConfigured)
}

func TestGenerateImageCachesByPrompt(t *testing.T) {
	uri := jpegDataURI(t)
	p := &fakeProvider{image: func(string) (string, error) { return uri, nil }}
	s := newService(t, p)

	got, err := s.GenerateImage(context.Background(), "Lemon Rice, food photography")
	require.NoError(t, err)
	assert.Equal(t, uri, got)

	got, err = s.GenerateImage(context.Background(), " Lemon Rice, food photography ")
	require.NoError(t, err)
	assert.Equal(t, uri, got)
	assert.Equal(t, 1, p.imageCalls)
	assert.Equal(t, int64(1), s.CacheStats().Hits)
}

func TestGenerateImageRejectsInvalidPayload(t *testing.T) {
	p := &fakeProvider{image: func(string) (string, error) { return "data:image/png;base64,bm90IGFuIGltYWdl", nil }}
	s := newService(t, p)

	_, err := s.GenerateImage(context.Background(), "x")
	assert.ErrorIs(t, err, common.ErrAIServiceError)

	_, err = s.GenerateImage(context.Background(), "x")
	assert.Error(t, err)
	assert.Equal(t, 2, p.imageCalls)
}

func TestChatSessionHistoryAndStreaming(t *testing.T) {
	p := &fakeProvider{stream: func(_ context.Context, req *provider.Request, on provider.FragmentHandler) (*provider.Response, error) {
		for _, f := range []string{"Add ", "curry leaves."} {
			if err := on(f); err != nil {
				return nil, err
			}
		}
		return &provider.Response{Content: "Add curry leaves."}, nil
	}}
	s := newService(t, p)
	chat := s.NewChatSession("be helpful")

	var got []string
	reply, err := chat.StreamReply(context.Background(), "How to temper?", func(f string) error {
		got = append(got, f)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Add curry leaves.", reply)
	assert.Equal(t, []string{"Add ", "curry leaves."}, got)

	_, err = chat.StreamReply(context.Background(), "And then?", func(string) error { return nil })
	require.NoError(t, err)

	msgs := p.lastRequest.Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, provider.RoleSystem, msgs[0].Role)
	assert.Equal(t, "How to temper?", msgs[1].Content)
	assert.Equal(t, provider.RoleAssistant, msgs[2].Role)
	assert.Equal(t, "And then?", msgs[3].Content)
	assert.Len(t, chat.transcript(), 4)
}

func TestChatSessionRejectsConcurrentStream(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	p := &fakeProvider{stream: func(ctx context.Context, _ *provider.Request, on provider.FragmentHandler) (*provider.Response, error) {
		close(started)
		<-release
		return &provider.Response{Content: "ok"}, nil
	}}
	s := newService(t, p)
	chat := s.NewChatSession("")

	done := make(chan error, 1)
	go func() {
		_, err := chat.StreamReply(context.Background(), "first", nil)
		done <- err
	}()
	<-started
	assert.True(t, chat.inFlight())

	_, err := chat.StreamReply(context.Background(), "second", nil)
	assert.ErrorIs(t, err, common.ErrStreamInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, chat.inFlight())
}

func TestChatSessionFailureLeavesHistory(t *testing.T) {
	p := &fakeProvider{stream: func(context.Context, *provider.Request, provider.FragmentHandler) (*provider.Response, error) {
		return nil, errors.New("stream broke")
	}}
	s := newService(t, p)
	chat := s.NewChatSession("sys")

	_, err := chat.StreamReply(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, common.ErrAIServiceError)
	assert.Empty(t, chat.transcript())
	assert.False(t, chat.inFlight())
}
