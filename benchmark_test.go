package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FACorreiaa/go-elderly-activity-suggestions/app/observability/metrics"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/activity"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/api/recommendation"
	"github.com/FACorreiaa/go-elderly-activity-suggestions/internal/types"
)

// syntheticCatalog builds n records spread around central Singapore.
func syntheticCatalog(n int) []types.ActivityRecord {
	rng := rand.New(rand.NewSource(7))
	slots := []types.TimeSlot{types.TimeSlotMorning, types.TimeSlotAfternoon, types.TimeSlotEvening}
	sources := []types.SourceType{types.SourceTypeCourse, types.SourceTypeEvent, types.SourceTypeInterestGroup}
	records := make([]types.ActivityRecord, 0, n)
	for i := range n {
		lat, lon := 1.30+rng.Float64()*0.12, 103.75+rng.Float64()*0.15
		rec := types.ActivityRecord{
			ID:          fmt.Sprintf("act-%d", i),
			Title:       fmt.Sprintf("Activity %d", i),
			Category:    "Community",
			Description: "A weekly session for seniors.",
			Language:    "English",
			Lat:         &lat,
			Lon:         &lon,
			TimeSlot:    slots[i%len(slots)],
			SourceType:  sources[i%len(sources)],
			ActivityVector: []float32{
				rng.Float32(), rng.Float32(), rng.Float32(), rng.Float32(),
			},
		}
		if i%4 == 0 {
			rec.IsFree = true
		} else {
			price := float64(5 + rng.Intn(60))
			rec.PriceNum = &price
		}
		if i%10 == 0 {
			rec.Title = fmt.Sprintf("Tai Chi Circle %d", i)
		}
		records = append(records, rec)
	}
	return records
}

func benchmarkProfile() types.UserProfile {
	lat, lon, budget := 1.3521, 103.8198, 30.0
	p := types.NewUserProfile()
	p.Interests = []string{"tai chi", "singing"}
	p.TimeSlots = []types.TimeSlot{types.TimeSlotMorning}
	p.Budget = &budget
	p.Lat, p.Lon = &lat, &lon
	return p
}

func BenchmarkRecommend(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := recommendation.NewServiceImpl(activity.NewStaticCatalog(syntheticCatalog(500)), axisEmbedder{},
		recommendation.DefaultParams(), logger, metrics.Noop())
	if err != nil {
		b.Fatal(err)
	}
	profile := benchmarkProfile()
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		if _, err := svc.Recommend(ctx, profile, types.RecommendOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRecommendParallel(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := recommendation.NewServiceImpl(activity.NewStaticCatalog(syntheticCatalog(500)), axisEmbedder{},
		recommendation.DefaultParams(), logger, metrics.Noop())
	if err != nil {
		b.Fatal(err)
	}
	profile := benchmarkProfile()

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := svc.Recommend(ctx, profile, types.RecommendOptions{}); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkRecommendationEndpoint(b *testing.B) {
	handler := newTestApp(b, syntheticCatalog(500))
	body, err := json.Marshal(types.RecommendationRequest{Profile: benchmarkProfile()})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", w.Code)
		}
	}
}

// BenchmarkChatRoundTrip measures a refinement turn against a session that already has results.
func BenchmarkChatRoundTrip(b *testing.B) {
	handler := newTestApp(b, syntheticCatalog(500))
	post := func(path string, payload any) int {
		raw, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	const sessionID = "bench-session"
	if code := post("/api/v1/chat", types.ChatRequest{SessionID: sessionID, Message: "please recommend tai chi"}); code != http.StatusOK {
		b.Fatalf("unexpected status %d", code)
	}
	if code := post("/api/v1/chat/location", types.LocationRequest{SessionID: sessionID, Lat: 1.3521, Lon: 103.8198}); code != http.StatusOK {
		b.Fatalf("unexpected status %d", code)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		if code := post("/api/v1/chat", types.ChatRequest{SessionID: sessionID, Message: "something in the morning"}); code != http.StatusOK {
			b.Fatalf("unexpected status %d", code)
		}
	}
}
