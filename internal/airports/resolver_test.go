package airports

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flexiflight/internal/llm"
	"github.com/dharmasatrya/flexiflight/internal/models"
)

type fakeCompleter struct {
	fn    func(req llm.Request) (string, error)
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.calls++
	return f.fn(req)
}

func noLLM(t *testing.T) *fakeCompleter {
	return &fakeCompleter{fn: func(llm.Request) (string, error) {
		t.Helper()
		t.Fatal("llm fallback should not be reached")
		return "", nil
	}}
}

func TestResolveTableEntries(t *testing.T) {
	r := NewResolver(noLLM(t))
	ctx := context.Background()

	for _, entry := range commonAirports {
		for _, variant := range []string{entry.city, strings.ToUpper(entry.city), strings.ToLower(entry.city)} {
			codes, err := r.Resolve(ctx, variant)
			require.NoErrorf(t, err, "resolving %q", variant)
			assert.Equal(t, entry.codes, codes)
		}
	}
}

func TestResolvedCodesAreValidIATA(t *testing.T) {
	for _, entry := range commonAirports {
		for _, code := range strings.Split(entry.codes, ",") {
			assert.Truef(t, models.IsIATACode(code), "table code %q for %q", code, entry.city)
		}
	}
}

func TestResolveFuzzy(t *testing.T) {
	r := NewResolver(noLLM(t))
	ctx := context.Background()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"input contains table city", "Paris, France", "CDG,ORY"},
		{"table city contains input", "York", "JFK,LGA,EWR"},
		{"longer phrasing", "downtown Toronto area", "YYZ,YTZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes, err := r.Resolve(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes)
		})
	}
}

func TestResolveLLMFallback(t *testing.T) {
	tests := []struct {
		name     string
		response string
		respErr  error
		want     string
		wantErr  bool
	}{
		{"single code", "NRT", nil, "NRT", false},
		{"multiple codes with noise", " nrt , hnd ", nil, "NRT,HND", false},
		{"unknown token", "UNKNOWN", nil, "", true},
		{"one invalid code fails all", "NRT,HND1", nil, "", true},
		{"empty response", "", nil, "", true},
		{"transport failure", "", errors.New("connection refused"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{fn: func(req llm.Request) (string, error) {
				assert.Contains(t, req.Messages[0].Content, "Tokyo")
				return tt.response, tt.respErr
			}}
			r := NewResolver(completer)

			codes, err := r.Resolve(context.Background(), "Tokyo")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnresolved)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, codes)
			}
			assert.Equal(t, 1, completer.calls)
		})
	}
}

func TestResolveEmptyName(t *testing.T) {
	r := NewResolver(noLLM(t))

	_, err := r.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestResolveMany(t *testing.T) {
	r := NewResolver(noLLM(t))
	ctx := context.Background()

	codes, err := r.ResolveMany(ctx, []string{"Ottawa", "Beijing"})
	require.NoError(t, err)
	assert.Equal(t, "YOW,PEK,PKX", codes)
}

func TestResolveManyFailsWhole(t *testing.T) {
	completer := &fakeCompleter{fn: func(llm.Request) (string, error) {
		return "UNKNOWN", nil
	}}
	r := NewResolver(completer)

	_, err := r.ResolveMany(context.Background(), []string{"Ottawa", "Nowhereville"})
	assert.ErrorIs(t, err, ErrUnresolved)
}
