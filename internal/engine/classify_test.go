package engine

import (
	"errors"
	"testing"

	"github.com/dextro-platform/fleet-console/internal/store"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"nil", nil, ""},
		{"api 404", &store.APIError{StatusCode: 404}, KindNotFound},
		{"api pgrst116", &store.APIError{StatusCode: 200, Code: "PGRST116"}, KindNotFound},
		{"api 403", &store.APIError{StatusCode: 403}, KindPermission},
		{"api 401", &store.APIError{StatusCode: 401}, KindPermission},
		{"api 500", &store.APIError{StatusCode: 500, Message: "internal"}, KindTransient},
		{"text no rows", errors.New("scan: no rows in result set"), KindNotFound},
		{"text permission", errors.New("pq: permission denied for relation x"), KindPermission},
		{"network", errors.New("dial tcp: connection refused"), KindTransient},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("%s: Classify = %q, want %q", tc.name, got, tc.want)
		}
	}
}
