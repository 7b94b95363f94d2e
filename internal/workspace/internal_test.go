package workspace

import "testing"

func TestIsLongPathCheckoutOnlyFailure(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   bool
	}{
		{
			name:   "pure long path failure",
			output: "Cloning into 'repo'...\nerror: unable to create file src/very/long/path.cs (Filename too long)",
			want:   true,
		},
		{
			name:   "unrelated failure",
			output: "fatal: repository 'https://example.com/missing.git' not found",
			want:   false,
		},
		{
			name:   "mixed failure is not tolerated",
			output: "error: unable to create file a.cs (Filename too long)\nfatal: index-pack failed",
			want:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isLongPathCheckoutOnlyFailure(tc.output); got != tc.want {
				t.Errorf("isLongPathCheckoutOnlyFailure(%q) = %v, want %v", tc.output, got, tc.want)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "schemeless host", in: "github.com/org/repo.git", want: "https://github.com/org/repo.git"},
		{name: "https passthrough", in: "https://github.com/org/repo.git", want: "https://github.com/org/repo.git"},
		{name: "scp style passthrough", in: "git@github.com:org/repo.git", want: "git@github.com:org/repo.git"},
		{name: "unsupported scheme", in: "ftp://example.com/repo.git", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeURL(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tc.want {
				t.Errorf("normalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
