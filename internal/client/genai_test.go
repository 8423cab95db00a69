package client

import "testing"

func TestCleanJSONResponse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"incident": false}`, `{"incident": false}`},
		{"fenced", "```json\n{\"incident\": true}\n```", `{"incident": true}`},
		{"fenced no lang", "```\n[1, 2]\n```", "[1, 2]"},
		{"leading whitespace", "  \n```json\n{}\n```  ", "{}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanJSONResponse(tc.in); got != tc.want {
				t.Fatalf("CleanJSONResponse(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
