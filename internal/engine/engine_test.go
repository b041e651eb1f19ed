package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tunescout/tunescout/internal/cache"
	"github.com/tunescout/tunescout/internal/library"
	"github.com/tunescout/tunescout/internal/prompt"
	"github.com/tunescout/tunescout/internal/provider"
)

// fakeClient replays a canned response and records the last request.
type fakeClient struct {
	response string
	err      error
	calls    int
	lastReq  provider.Request
}

func (f *fakeClient) Complete(_ context.Context, req provider.Request) (string, error) {
	f.calls++
	f.lastReq = req
	return f.response, f.err
}

func (f *fakeClient) Info() provider.ModelInfo {
	return provider.ModelInfo{Name: "llama3.1", Provider: "ollama", MaxContextWindow: 32768}
}

func testProfile() *library.Profile {
	return &library.Profile{
		TotalArtists: 3,
		TotalAlbums:  3,
		Artists: []library.Artist{
			{Name: "Low"}, {Name: "Slint"}, {Name: "Codeine"},
		},
		Albums: []library.Album{
			{Artist: "Low", Title: "Secret Name", Genre: "slowcore", Year: 1999},
			{Artist: "Slint", Title: "Spiderland", Genre: "post-rock", Year: 1991},
			{Artist: "Codeine", Title: "Frigid Stars", Genre: "slowcore", Year: 1990},
		},
	}
}

func newService(client provider.Client, store *cache.Store) *Service {
	return New(client, nil, prompt.DefaultCompressionLimits(), store, time.Hour)
}

func TestService_Recommend_CleanResponse(t *testing.T) {
	client := &fakeClient{response: `[{"artist":"Bedhead","album":"WhatFunLifeWas","confidence":0.8}]`}
	svc := newService(client, nil)

	items, report, err := svc.Recommend(context.Background(), testProfile(), Options{Count: 5})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(items) != 1 || items[0].Artist != "Bedhead" {
		t.Fatalf("items: %+v", items)
	}
	if report.Repaired {
		t.Error("clean response should not be marked repaired")
	}
	if report.ModelKey != "ollama:llama3.1" {
		t.Errorf("model key: got %q", report.ModelKey)
	}
	if report.Budget.Usable <= 0 {
		t.Error("expected a positive usable budget for a 32k window")
	}
	if client.lastReq.SystemPrompt == "" || client.lastReq.UserMessage == "" {
		t.Error("prompts should be populated")
	}
}

func TestService_Recommend_RepairsProseWrappedArray(t *testing.T) {
	client := &fakeClient{response: "Sure! Here you go:\n```json\n[{\"artist\":\"Duster\",\"album\":\"Stratosphere\"}]\n```\nEnjoy!"}
	svc := newService(client, nil)

	items, report, err := svc.Recommend(context.Background(), testProfile(), Options{})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(items) != 1 || items[0].Album != "Stratosphere" {
		t.Fatalf("items: %+v", items)
	}
	if !report.Repaired {
		t.Error("response should be marked repaired")
	}
}

func TestService_Recommend_UnrepairableYieldsEmpty(t *testing.T) {
	client := &fakeClient{response: "I cannot help with that."}
	svc := newService(client, nil)

	items, _, err := svc.Recommend(context.Background(), testProfile(), Options{})
	if err != nil {
		t.Fatalf("messy output must not be an error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %+v", items)
	}
}

func TestService_Recommend_TruncatesToCount(t *testing.T) {
	client := &fakeClient{response: `[
		{"artist":"A","album":"1"},{"artist":"B","album":"2"},{"artist":"C","album":"3"}
	]`}
	svc := newService(client, nil)

	items, report, err := svc.Recommend(context.Background(), testProfile(), Options{Count: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}
	if report.Received != 3 {
		t.Errorf("received: got %d, want 3", report.Received)
	}
}

func TestService_Recommend_UsesCache(t *testing.T) {
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	client := &fakeClient{response: `[{"artist":"Low","album":"Trust"}]`}
	svc := newService(client, store)

	if _, report, err := svc.Recommend(context.Background(), testProfile(), Options{}); err != nil {
		t.Fatal(err)
	} else if report.Cached {
		t.Error("first request should compute")
	}

	items, report, err := svc.Recommend(context.Background(), testProfile(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !report.Cached {
		t.Error("second request should hit the cache")
	}
	if client.calls != 1 {
		t.Errorf("provider called %d times, want 1", client.calls)
	}
	if len(items) != 1 || items[0].Album != "Trust" {
		t.Errorf("cached items: %+v", items)
	}
}

func TestService_Recommend_NoCacheBypasses(t *testing.T) {
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	client := &fakeClient{response: `[{"artist":"Low","album":"Trust"}]`}
	svc := newService(client, store)

	for i := 0; i < 2; i++ {
		if _, _, err := svc.Recommend(context.Background(), testProfile(), Options{NoCache: true}); err != nil {
			t.Fatal(err)
		}
	}
	if client.calls != 2 {
		t.Errorf("provider called %d times with NoCache, want 2", client.calls)
	}
}

func TestService_SetContextWindow(t *testing.T) {
	client := &fakeClient{response: `[]`}
	svc := newService(client, nil)
	svc.SetContextWindow(4096)

	_, report, err := svc.Recommend(context.Background(), testProfile(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Budget.Total != 4096 {
		t.Errorf("budget total: got %d, want 4096", report.Budget.Total)
	}
}
