package tfserving

import (
	"context"
	"os"
	"testing"
)

// TestClient_Integration runs against a live TensorFlow Serving instance.
// This test is skipped unless RUN_AI_TESTS=true is set.
func TestClient_Integration(t *testing.T) {
	if os.Getenv("RUN_AI_TESTS") != "true" {
		t.Skip("Skipping AI-dependent test (set RUN_AI_TESTS=true to enable)")
	}

	host := os.Getenv("SONGTIMENT_MODEL_URL")
	client := NewClient(host, nil)

	for _, model := range []string{"imdb", "yelp"} {
		t.Run(model, func(t *testing.T) {
			if err := client.Status(context.Background(), model); err != nil {
				t.Fatalf("Status() error = %v", err)
			}
			score, err := client.Predict(context.Background(), model, make([]int, 64))
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			t.Logf("%s padding-only prediction: %v", model, score)
		})
	}
}
