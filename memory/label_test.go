package memory

import "testing"

func TestThreeWordLabel(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", "the quick brown fox jumps", "quick.brown.fox"},
		{"skips stopwords", "this is the plan for the rollout window", "plan.rollout.window"},
		{"strips punctuation", "deploy, rollback! retry?", "deploy.rollback.retry"},
		{"short words fall back", "a b c", "a.b.c"},
		{"pads when sparse", "hello", "hello.blank.blank"},
		{"lowercases", "Kubernetes Cluster Upgrade", "kubernetes.cluster.upgrade"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := threeWordLabel(tc.content); got != tc.want {
				t.Errorf("threeWordLabel(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cosineSimilarity(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tc.want)
			}
		})
	}
}
